package analyzer

import (
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// DefaultTopKeywords is how many ranked terms a report carries.
const DefaultTopKeywords = 10

// hiddenParents are elements whose direct text never renders.
var hiddenParents = map[string]struct{}{
	"style":  {},
	"script": {},
	"head":   {},
	"title":  {},
	"meta":   {},
	"footer": {},
}

// RankKeywords counts alphabetic, non-stopword tokens and returns up to topN
// of them by descending count. Equal counts keep first-seen order.
func RankKeywords(text string, topN int) []KeywordFrequency {
	counts := make(map[string]int)
	var order []string
	for _, token := range Tokenize(text) {
		if !isAlpha(token) {
			continue
		}
		term := strings.ToLower(token)
		if IsStopword(term) {
			continue
		}
		if counts[term] == 0 {
			order = append(order, term)
		}
		counts[term]++
	}

	ranked := make([]KeywordFrequency, 0, len(order))
	for _, term := range order {
		ranked = append(ranked, KeywordFrequency{Term: term, Count: counts[term]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if topN >= 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// DocumentText concatenates every text node of the document.
func DocumentText(doc *goquery.Document) string {
	return doc.Text()
}

// VisibleText concatenates text nodes whose parent renders on screen,
// dropping comments and text under style, script, head, title, meta and
// footer elements.
func VisibleText(doc *goquery.Document) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode && visibleParent(n.Parent) {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}
	return sb.String()
}

func visibleParent(p *html.Node) bool {
	if p == nil || p.Type != html.ElementNode {
		return false
	}
	_, hidden := hiddenParents[p.Data]
	return !hidden
}
