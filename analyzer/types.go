package analyzer

import (
	"encoding/json"
	"fmt"
	"time"
)

// Sentinels reported when the page lacks the corresponding element.
const (
	NoTitle       = "No title found"
	NoDescription = "No description found"
)

// Report represents the complete audit of a single page.
type Report struct {
	ID            string             `json:"id"`
	URL           string             `json:"url"`
	FinalURL      string             `json:"finalUrl"`
	StatusCode    int                `json:"statusCode"`
	RedirectChain []string           `json:"redirectChain"`
	Facts         PageFacts          `json:"facts"`
	Keywords      []KeywordFrequency `json:"keywords"`
	Links         []LinkRecord       `json:"links"`
	Images        []ImageRecord      `json:"images"`
	FetchedAt     time.Time          `json:"fetchedAt"`
	Duration      time.Duration      `json:"duration"`
}

// PageFacts holds the values read directly from the parsed document.
type PageFacts struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Indexing    IndexingDirective `json:"indexing"`
	Follow      FollowDirective   `json:"follow"`
	// Headings groups heading text by level (1..6) in document order.
	Headings map[int][]string `json:"headings"`
	// HeadingOrder lists the levels present, in first-seen order.
	HeadingOrder []int    `json:"headingOrder"`
	Hreflang     []string `json:"hreflang"`
}

type LinkRecord struct {
	URL        string `json:"url"`
	AnchorText string `json:"anchorText"`
}

type ImageRecord struct {
	SourceURL string       `json:"src"`
	AltText   string       `json:"alt"`
	SizeBytes *int64       `json:"sizeBytes,omitempty"`
	Verdict   ImageVerdict `json:"verdict"`
}

// SizeLabel formats the probed size as "X.XX MB" from one mebibyte up,
// "X.XX KB" below that, or "Unknown".
func (r ImageRecord) SizeLabel() string {
	if r.SizeBytes == nil {
		return "Unknown"
	}
	kb := float64(*r.SizeBytes) / 1024
	mb := kb / 1024
	if mb >= 1 {
		return fmt.Sprintf("%.2f MB", mb)
	}
	return fmt.Sprintf("%.2f KB", kb)
}

type KeywordFrequency struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// IndexingDirective is the index/noindex instruction from the robots meta tag.
type IndexingDirective int

const (
	IndexUnspecified IndexingDirective = iota
	Index
	Noindex
)

func (d IndexingDirective) String() string {
	switch d {
	case Index:
		return "Index"
	case Noindex:
		return "Noindex"
	default:
		return "Unspecified"
	}
}

func (d IndexingDirective) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// FollowDirective is the follow/nofollow instruction from the robots meta tag.
type FollowDirective int

const (
	FollowUnspecified FollowDirective = iota
	Follow
	Nofollow
)

func (d FollowDirective) String() string {
	switch d {
	case Follow:
		return "Follow"
	case Nofollow:
		return "Nofollow"
	default:
		return "Unspecified"
	}
}

func (d FollowDirective) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

type ImageVerdict int

const (
	VerdictUnknown ImageVerdict = iota
	VerdictOptimized
	VerdictTooBig
)

func (v ImageVerdict) String() string {
	switch v {
	case VerdictOptimized:
		return "Optimized"
	case VerdictTooBig:
		return "Too Big"
	default:
		return "Unknown"
	}
}

func (v ImageVerdict) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}
