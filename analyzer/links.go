package analyzer

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Exclusions configures which anchors the link walker refuses to record.
// Tags apply to the anchor itself; classnames and ids apply to its
// ancestors up to, but not including, <body>.
type Exclusions struct {
	Tags       []string
	Classnames []string
	IDs        []string
}

// DefaultExclusions skips navigation chrome: header and footer wrappers,
// side columns and related-item widgets.
func DefaultExclusions() Exclusions {
	return Exclusions{
		Tags: []string{"footer", "header"},
		Classnames: []string{
			"header-wrapper",
			"header-menu-mobile",
			"footer",
			"footer-left",
			"footer-top",
			"footer-block",
			"footer-blocks",
			"footer-bottom",
			"right",
			"left",
			"date",
			"related-items",
		},
		IDs: []string{"exclude-id1", "exclude-id2"},
	}
}

type linkWalker struct {
	base       *url.URL
	tags       map[string]struct{}
	classnames map[string]struct{}
	ids        map[string]struct{}
	links      []LinkRecord
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// WalkLinks returns every same-host, non-fragment anchor inside <body> that
// passes the exclusions, in depth-first document order. Exclusion only
// suppresses recording; descendants of a skipped node are still visited.
func WalkLinks(doc *goquery.Document, base *url.URL, ex Exclusions) []LinkRecord {
	body := doc.Find("body").First()
	if body.Length() == 0 || base == nil {
		return nil
	}

	w := &linkWalker{
		base:       base,
		tags:       toSet(ex.Tags),
		classnames: toSet(ex.Classnames),
		ids:        toSet(ex.IDs),
	}
	w.walk(body.Nodes[0])
	return w.links
}

func (w *linkWalker) walk(n *html.Node) {
	if n.Type == html.ElementNode && n.Data == "a" {
		w.visitAnchor(n)
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode {
			w.walk(child)
		}
	}
}

func (w *linkWalker) visitAnchor(a *html.Node) {
	if _, excluded := w.tags[a.Data]; excluded {
		return
	}
	for p := a.Parent; p != nil && !(p.Type == html.ElementNode && p.Data == "body"); p = p.Parent {
		if w.excludedElement(p) {
			return
		}
	}

	href := attr(a, "href")
	if href == "" {
		return
	}
	ref, err := url.Parse(href)
	if err != nil {
		return
	}
	resolved := w.base.ResolveReference(ref)
	if resolved.Host != w.base.Host || strings.HasPrefix(href, "#") {
		return
	}
	w.links = append(w.links, LinkRecord{
		URL:        resolved.String(),
		AnchorText: strings.TrimSpace(nodeText(a)),
	})
}

func (w *linkWalker) excludedElement(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, class := range strings.Fields(attr(n, "class")) {
		if _, ok := w.classnames[class]; ok {
			return true
		}
	}
	if id := attr(n, "id"); id != "" {
		if _, ok := w.ids[id]; ok {
			return true
		}
	}
	return false
}

// attr returns the named attribute or "" when absent.
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return sb.String()
}
