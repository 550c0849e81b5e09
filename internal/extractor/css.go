package extractor

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/quantmind-br/loanrates-go/internal/domain"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// containsRx splits "base:contains('needle')" into base and needle. The
// needle is matched against the same collapsed text that gets scanned.
var containsRx = regexp.MustCompile(`^(.+):contains\(['"](.+?)['"]\)`)

// extractHTMLCSS selects nodes from an HTML document and scans their text
func extractHTMLCSS(body []byte, p domain.HTMLCSS) ([]float64, error) {
	rx := defaultValueRx
	if p.ValuePattern != "" {
		compiled, err := regexp.Compile("(?i)" + p.ValuePattern)
		if err != nil {
			return nil, domain.NewExtractionError(domain.KindHTMLCSS, domain.ErrInvalidPattern, err.Error())
		}
		rx = compiled
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, domain.NewExtractionError(domain.KindHTMLCSS, err, "parse document")
	}

	query, needle := splitContains(p.Selector)

	nodes, err := selectNodes(doc, query)
	if err != nil {
		return nil, err
	}

	var blocks []string
	for _, n := range nodes {
		text := NodeText(n)
		if needle != "" && !strings.Contains(strings.ToLower(text), strings.ToLower(needle)) {
			continue
		}
		blocks = append(blocks, text)
	}
	if len(blocks) == 0 {
		return nil, domain.NewExtractionError(domain.KindHTMLCSS, domain.ErrNoNodes, p.Selector)
	}

	values := ScanNumbers(rx, blocks)
	if len(values) == 0 {
		return nil, domain.NewExtractionError(domain.KindHTMLCSS, domain.ErrNoCandidates, p.Selector)
	}
	return values, nil
}

// splitContains separates a trailing :contains('...') clause. Any other
// shape is returned unchanged with an empty needle.
func splitContains(selector string) (query, needle string) {
	if !strings.Contains(selector, ":contains(") {
		return selector, ""
	}
	m := containsRx.FindStringSubmatch(selector)
	if m == nil {
		return selector, ""
	}
	return strings.TrimSpace(m[1]), m[2]
}

// selectNodes returns the nodes matching query; an empty query selects the
// document root.
func selectNodes(doc *goquery.Document, query string) ([]*html.Node, error) {
	if strings.TrimSpace(query) == "" {
		return doc.Selection.Nodes, nil
	}

	matcher, err := cascadia.Compile(query)
	if err != nil {
		return nil, domain.NewExtractionError(domain.KindHTMLCSS, domain.ErrInvalidSelector, fmt.Sprintf("%q: %v", query, err))
	}
	return doc.FindMatcher(matcher).Nodes, nil
}

// NodeText returns the text of n with each text node trimmed, inner
// whitespace collapsed and pieces joined by a single space. Script and
// style contents are skipped.
func NodeText(n *html.Node) string {
	var parts []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if s := strings.Join(strings.Fields(n.Data), " "); s != "" {
				parts = append(parts, s)
			}
			return
		case html.CommentNode:
			return
		case html.ElementNode:
			if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	return strings.Join(parts, " ")
}
