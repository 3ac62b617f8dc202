// Package markup scrapes table rows out of HTML.
//
// A Surface is a parsed page standing in for the live rendering surface a
// browser host would provide. The HTMLScraper finds a table on it by selector and
// returns its thead, tbody and tfoot rows as content rows.
package markup

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"

	"github.com/agentstation/tablespec/pkg/errors"
)

// Surface is a parsed HTML document.
type Surface struct {
	root *html.Node
}

// NewSurface wraps an already parsed document.
func NewSurface(root *html.Node) *Surface {
	return &Surface{root: root}
}

// Parse parses HTML from an io.Reader.
func Parse(r io.Reader) (*Surface, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, errors.WrapParse("html", "", err)
	}
	return &Surface{root: root}, nil
}

// ParseString parses an HTML string.
func ParseString(s string) (*Surface, error) {
	return Parse(strings.NewReader(s))
}

// Open parses an HTML file.
func Open(path string) (*Surface, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer f.Close()

	root, err := html.Parse(f)
	if err != nil {
		return nil, errors.WrapParse("html", path, err)
	}
	return &Surface{root: root}, nil
}

// Root returns the document node.
func (s *Surface) Root() *html.Node {
	if s == nil {
		return nil
	}
	return s.root
}

// Find resolves a selector to a table element. Supported selectors:
//
//	#id       element with the given id
//	.class    first element carrying the class
//	table:N   N-th table in document order (zero based)
//	tag       first element with the tag name
//
// A *html.Node selector is returned as is. Nil is returned when nothing matches.
func (s *Surface) Find(selector any) (*html.Node, error) {
	if node, ok := selector.(*html.Node); ok {
		return node, nil
	}

	sel, ok := selector.(string)
	if !ok {
		return nil, fmt.Errorf("%w: selector of type %T", errors.ErrUnsupported, selector)
	}
	sel = strings.TrimSpace(sel)
	if sel == "" || s.Root() == nil {
		return nil, nil
	}

	switch {
	case strings.HasPrefix(sel, "#"):
		id := sel[1:]
		return findFirst(s.root, func(n *html.Node) bool { return attr(n, "id") == id }), nil
	case strings.HasPrefix(sel, "."):
		class := sel[1:]
		return findFirst(s.root, func(n *html.Node) bool { return hasClass(n, class) }), nil
	case strings.HasPrefix(sel, "table:"):
		var index int
		if _, err := fmt.Sscanf(sel, "table:%d", &index); err != nil || index < 0 {
			return nil, fmt.Errorf("invalid table index selector %q", sel)
		}
		tables := findAll(s.root, func(n *html.Node) bool { return n.Data == "table" })
		if index >= len(tables) {
			return nil, nil
		}
		return tables[index], nil
	default:
		tag := strings.ToLower(sel)
		return findFirst(s.root, func(n *html.Node) bool { return n.Data == tag }), nil
	}
}

// findFirst returns the first element in document order matching fn.
func findFirst(n *html.Node, fn func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && fn(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result := findFirst(c, fn); result != nil {
			return result
		}
	}
	return nil
}

// findAll returns every element in document order matching fn.
func findAll(n *html.Node, fn func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	if n.Type == html.ElementNode && fn(n) {
		out = append(out, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, findAll(c, fn)...)
	}
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
