package khinsider

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// findFirst returns the first match of selector below sel.
// ok is false when nothing matched; callers must branch on it.
func findFirst(sel *goquery.Selection, selector string) (match *goquery.Selection, ok bool) {
	match = sel.Find(selector).First()
	return match, match.Length() > 0
}

// strippedStrings returns every text node below sel, trimmed, skipping
// the ones that are empty after trimming. Document order is kept.
func strippedStrings(sel *goquery.Selection) []string {
	var out []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if s := strings.TrimSpace(n.Data); s != "" {
				out = append(out, s)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return out
}

// strippedText joins the trimmed text nodes of sel without separators.
func strippedText(sel *goquery.Selection) string {
	return strings.Join(strippedStrings(sel), "")
}
