package analyzer

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// DefaultTooBigBytes flags images of 60 KiB and above.
const DefaultTooBigBytes int64 = 60 * 1024

// SizeProber reports the byte size of a remote resource. ok is false when
// the server does not say.
type SizeProber interface {
	ProbeSize(ctx context.Context, url string) (size int64, ok bool, err error)
}

type imageCandidate struct {
	src string
	alt string
}

func collectImages(doc *goquery.Document) []imageCandidate {
	var images []imageCandidate
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		if !strings.HasPrefix(src, "https:") {
			return
		}
		alt, _ := s.Attr("alt")
		images = append(images, imageCandidate{src: src, alt: alt})
	})
	return images
}

// AuditImages probes every https image in document order and classifies it
// against tooBig. The first probe failure aborts the audit.
func AuditImages(ctx context.Context, doc *goquery.Document, prober SizeProber, tooBig int64, logger *zap.Logger) ([]ImageRecord, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	candidates := collectImages(doc)
	records := make([]ImageRecord, 0, len(candidates))
	for _, img := range candidates {
		size, ok, err := prober.ProbeSize(ctx, img.src)
		if err != nil {
			return nil, err
		}
		record := ImageRecord{SourceURL: img.src, AltText: img.alt}
		if ok {
			record.SizeBytes = &size
			record.Verdict = classifySize(size, tooBig)
		}
		logger.Debug("image probed",
			zap.String("src", img.src),
			zap.Bool("size_known", ok),
			zap.Stringer("verdict", record.Verdict),
		)
		records = append(records, record)
	}
	return records, nil
}

func classifySize(size, tooBig int64) ImageVerdict {
	if size >= tooBig {
		return VerdictTooBig
	}
	return VerdictOptimized
}
