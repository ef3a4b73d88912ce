package analyzer

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options tunes a single audit.
type Options struct {
	UserAgent   string
	Exclusions  Exclusions
	TopKeywords int
	// VisibleOnly ranks keywords from rendered text only instead of every
	// text node in the document.
	VisibleOnly bool
	TooBigBytes int64
	// HTTPClient overrides the default pooled client.
	HTTPClient *http.Client
}

// DefaultOptions mirrors the built-in exclusion lists and thresholds.
func DefaultOptions() Options {
	return Options{
		UserAgent:   DefaultUserAgent,
		Exclusions:  DefaultExclusions(),
		TopKeywords: DefaultTopKeywords,
		TooBigBytes: DefaultTooBigBytes,
	}
}

// Analyzer performs SEO audits of single pages.
type Analyzer struct {
	opts    Options
	fetcher *Fetcher
	logger  *zap.Logger
	now     func() time.Time
}

// New creates an Analyzer. Every call to Analyze fetches the page afresh.
func New(opts Options, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.TopKeywords <= 0 {
		opts.TopKeywords = DefaultTopKeywords
	}
	if opts.TooBigBytes <= 0 {
		opts.TooBigBytes = DefaultTooBigBytes
	}
	return &Analyzer{
		opts:    opts,
		fetcher: NewFetcher(opts.HTTPClient, opts.UserAgent, logger),
		logger:  logger,
		now:     time.Now,
	}
}

// Analyze fetches the page once, parses it once and runs every extractor
// over the same document.
func (a *Analyzer) Analyze(ctx context.Context, rawURL string) (*Report, error) {
	target, err := ParseTarget(rawURL)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	log := a.logger.With(zap.String("audit_id", id), zap.String("url", target.String()))
	start := a.now()
	log.Info("audit started")

	page, err := a.fetcher.Fetch(ctx, target.String())
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	text := DocumentText(doc)
	if a.opts.VisibleOnly {
		text = VisibleText(doc)
	}

	images, err := AuditImages(ctx, doc, a.fetcher, a.opts.TooBigBytes, log)
	if err != nil {
		return nil, fmt.Errorf("audit images: %w", err)
	}

	report := &Report{
		ID:            id,
		URL:           target.String(),
		FinalURL:      page.FinalURL.String(),
		StatusCode:    page.StatusCode,
		RedirectChain: page.RedirectChain,
		Facts:         ExtractFacts(doc),
		Keywords:      RankKeywords(text, a.opts.TopKeywords),
		Links:         WalkLinks(doc, page.FinalURL, a.opts.Exclusions),
		Images:        images,
		FetchedAt:     start,
		Duration:      a.now().Sub(start),
	}

	log.Info("audit finished",
		zap.Int("status", report.StatusCode),
		zap.Int("links", len(report.Links)),
		zap.Int("images", len(report.Images)),
		zap.Duration("duration", report.Duration),
	)
	return report, nil
}
