package report

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/seo-optimizer/seoaudit/analyzer"
)

type printer struct {
	w   *bufio.Writer
	s   *Styles
	err error
}

func (p *printer) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) blank() {
	p.line("")
}

// Render writes the report sections in their fixed order. A nil styles
// value uses DefaultStyles.
func Render(w io.Writer, r *analyzer.Report, s *Styles) error {
	if s == nil {
		s = DefaultStyles()
	}
	p := &printer{w: bufio.NewWriter(w), s: s}

	p.blank()
	p.line("%s%s", s.Banner.Render("Analysing: "), s.Value.Render(r.URL))
	p.blank()

	p.line("%s%s", s.Header.Render("Page indexing type: "), s.Value.Render(r.Facts.Indexing.String()))
	p.line("%s%s", s.Header.Render("Page follow type: "), s.Value.Render(r.Facts.Follow.String()))
	p.blank()
	p.line("%s%s", s.Header.Render("Page title: "), s.Value.Render(r.Facts.Title))
	p.blank()
	p.line("%s%s", s.Header.Render("Page description: "), s.Value.Render(r.Facts.Description))
	p.blank()

	renderKeywords(p, r.Keywords)
	p.line("%s%s", s.Header.Render("Response code: "), s.Value.Render(fmt.Sprint(r.StatusCode)))
	p.blank()
	renderChain(p, r.RedirectChain)
	renderHeadings(p, r.Facts)
	renderHreflang(p, r.Facts.Hreflang)
	renderLinks(p, r.Links)
	renderImages(p, r.Images)

	if p.err != nil {
		return fmt.Errorf("write report: %w", p.err)
	}
	if err := p.w.Flush(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func renderKeywords(p *printer, keywords []analyzer.KeywordFrequency) {
	p.line("%s", p.s.Header.Render("Page keywords:"))
	p.blank()
	for _, kw := range keywords {
		p.line("- %s: %d", p.s.Accent.Render(kw.Term), kw.Count)
	}
	p.blank()
}

// renderChain prints host and path for each hop.
func renderChain(p *printer, chain []string) {
	p.line("%s", p.s.Header.Render("URL Chain:"))
	p.blank()
	for _, hop := range chain {
		u, err := url.Parse(hop)
		if err != nil {
			p.line("- %s", hop)
			continue
		}
		p.line("- %s%s", p.s.Host.Render(u.Host), u.Path)
	}
	p.blank()
}

func renderHeadings(p *printer, facts analyzer.PageFacts) {
	p.line("%s", p.s.Header.Render("Heading Structure:"))
	p.blank()
	for _, level := range facts.HeadingOrder {
		tag := p.s.Accent.Render(fmt.Sprintf("h%d", level))
		for _, text := range facts.Headings[level] {
			p.line("%s: %s", tag, p.s.Value.Render(text))
		}
	}
	p.blank()
}

func renderHreflang(p *printer, urls []string) {
	p.line("%s", p.s.Header.Render("Hreflang URLs:"))
	p.blank()
	for _, u := range urls {
		p.line("%s", p.s.Value.Render(u))
	}
	p.blank()
}

func renderLinks(p *printer, links []analyzer.LinkRecord) {
	p.line("%s", p.s.Header.Render("Internal Links (excluding footer and navbar):"))
	p.blank()
	for _, link := range links {
		p.line("%s: %s", p.s.Accent.Render(link.AnchorText), p.s.Value.Render(link.URL))
		p.blank()
	}
}

func renderImages(p *printer, images []analyzer.ImageRecord) {
	p.line("%s", p.s.Header.Render("Image Analysis:"))
	for _, img := range images {
		p.line("%s", strings.Repeat("-", 50))
		p.line("%s%s", p.s.Header.Render("Image Source: "), p.s.Accent.Render(img.SourceURL))
		p.line("%s%s", p.s.Header.Render("Alt Text: "), p.s.Accent.Render(img.AltText))
		size := "Size: " + img.SizeLabel()
		if img.Verdict == analyzer.VerdictTooBig {
			size = p.s.Alert.Render(size)
		}
		p.line("%s", size)
		p.line("Optimized: %s", img.Verdict)
	}
}
