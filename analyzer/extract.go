package analyzer

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractFacts reads title, description, robots directives, headings and
// hreflang alternates from an already parsed document.
func ExtractFacts(doc *goquery.Document) PageFacts {
	facts := PageFacts{
		Title:       extractTitle(doc),
		Description: extractDescription(doc),
		Hreflang:    extractHreflang(doc),
	}
	facts.Indexing, facts.Follow = extractRobots(doc)
	facts.Headings, facts.HeadingOrder = extractHeadings(doc)
	return facts
}

func extractTitle(doc *goquery.Document) string {
	title := doc.Find("title").First()
	if title.Length() == 0 {
		return NoTitle
	}
	return strings.TrimSpace(title.Text())
}

func extractDescription(doc *goquery.Document) string {
	description := ""
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		name, _ := s.Attr("name")
		if !strings.EqualFold(name, "description") {
			return true
		}
		content, _ := s.Attr("content")
		description = strings.TrimSpace(content)
		return false
	})
	if description == "" {
		return NoDescription
	}
	return description
}

// extractRobots parses the first robots meta tag; later ones are ignored.
func extractRobots(doc *goquery.Document) (IndexingDirective, FollowDirective) {
	indexing, follow := IndexUnspecified, FollowUnspecified
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		name, _ := s.Attr("name")
		if !strings.EqualFold(name, "robots") {
			return true
		}
		content, _ := s.Attr("content")
		content = strings.ToLower(content)

		switch {
		case strings.Contains(content, "noindex"):
			indexing = Noindex
		case strings.Contains(content, "index"):
			indexing = Index
		}
		switch {
		case strings.Contains(content, "nofollow"):
			follow = Nofollow
		case strings.Contains(content, "follow"):
			follow = Follow
		}
		return false
	})
	return indexing, follow
}

func extractHeadings(doc *goquery.Document) (map[int][]string, []int) {
	headings := make(map[int][]string)
	var order []int
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		level := int(goquery.NodeName(s)[1] - '0')
		if _, seen := headings[level]; !seen {
			order = append(order, level)
		}
		headings[level] = append(headings[level], strings.TrimSpace(s.Text()))
	})
	return headings, order
}

func extractHreflang(doc *goquery.Document) []string {
	var urls []string
	doc.Find("link[rel~='alternate'][hreflang]").Each(func(_ int, s *goquery.Selection) {
		if href, _ := s.Attr("href"); href != "" {
			urls = append(urls, href)
		}
	})
	return urls
}
