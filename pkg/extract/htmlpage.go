package extract

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// HTMLPage is a Page over a saved HTML snapshot of the host page.
// Selectors are compiled with cascadia, so the snapshot answers the same
// queries the live tab does.
type HTMLPage struct {
	doc *html.Node
}

// ParseHTML parses a snapshot.
func ParseHTML(r io.Reader) (*HTMLPage, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("extract: failed to parse HTML: %w", err)
	}
	return &HTMLPage{doc: doc}, nil
}

// LoadHTMLFile parses the snapshot stored at path.
func LoadHTMLFile(path string) (*HTMLPage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("extract: open snapshot: %w", err)
	}
	defer f.Close()
	return ParseHTML(f)
}

// QueryText implements Page. An invalid selector matches nothing.
func (p *HTMLPage) QueryText(selector string, index int) (string, bool) {
	if index < 0 {
		return "", false
	}
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return "", false
	}
	matches := sel.MatchAll(p.doc)
	if index >= len(matches) {
		return "", false
	}
	return strings.TrimSpace(textContent(matches[index])), true
}

// InputValue implements Page.
func (p *HTMLPage) InputValue(name string) (string, bool) {
	sel, err := cascadia.Compile("input[name=" + strconv.Quote(name) + "]")
	if err != nil {
		return "", false
	}
	n := sel.MatchFirst(p.doc)
	if n == nil {
		return "", false
	}
	value, _ := attr(n, "value")
	return strings.TrimSpace(value), true
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		for ch := c.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(n)
	return b.String()
}
