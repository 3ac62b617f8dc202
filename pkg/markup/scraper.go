package markup

import (
	"context"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/agentstation/tablespec/pkg/content"
	"github.com/agentstation/tablespec/pkg/logging"
)

// Scraper extracts table sections from a surface.
type Scraper interface {
	Scrape(ctx context.Context, surface *Surface, selector any, opts content.ExtractOptions) (*content.Sections, error)
}

// HTMLScraper reads thead, tbody and tfoot rows of an HTML table.
type HTMLScraper struct{}

// NewHTMLScraper returns the default scraper.
func NewHTMLScraper() *HTMLScraper {
	return &HTMLScraper{}
}

// Scrape implements Scraper. Rows directly under the table, and rows of a
// tbody, go to the body. A section without rows is reported as not produced.
func (s *HTMLScraper) Scrape(ctx context.Context, surface *Surface, selector any, opts content.ExtractOptions) (*content.Sections, error) {
	table, err := surface.Find(selector)
	if err != nil {
		return nil, err
	}
	if table == nil {
		return nil, nil
	}
	if table.Data != "table" {
		// Allow selecting a wrapper around the table.
		table = findFirst(table, func(n *html.Node) bool { return n.Data == "table" })
		if table == nil {
			return nil, nil
		}
	}

	var head, body, foot []content.Row
	for c := table.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "thead":
			head = append(head, s.parseRows(c, opts)...)
		case "tbody":
			body = append(body, s.parseRows(c, opts)...)
		case "tfoot":
			foot = append(foot, s.parseRows(c, opts)...)
		case "tr":
			if row, ok := s.parseRow(c, opts); ok {
				body = append(body, row)
			}
		}
	}

	logging.FromContext(ctx).Debug().
		Int("head_rows", len(head)).
		Int("body_rows", len(body)).
		Int("foot_rows", len(foot)).
		Msg("Scraped HTML table")

	return &content.Sections{Head: head, Body: body, Foot: foot}, nil
}

// parseRows parses the rows of a thead, tbody or tfoot.
func (s *HTMLScraper) parseRows(section *html.Node, opts content.ExtractOptions) []content.Row {
	var rows []content.Row
	if !opts.IncludeHidden && isHidden(section) {
		return nil
	}
	for c := section.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "tr" {
			if row, ok := s.parseRow(c, opts); ok {
				rows = append(rows, row)
			}
		}
	}
	return rows
}

// parseRow parses a tr element into a positional row of cells.
func (s *HTMLScraper) parseRow(tr *html.Node, opts content.ExtractOptions) (content.Row, bool) {
	if !opts.IncludeHidden && isHidden(tr) {
		return nil, false
	}

	var cells []any
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.Data != "td" && c.Data != "th") {
			continue
		}
		if !opts.IncludeHidden && isHidden(c) {
			continue
		}

		cell := &content.Cell{
			Content: textContent(c),
			ColSpan: spanAttr(c, "colspan"),
			RowSpan: spanAttr(c, "rowspan"),
		}
		if opts.UseCSS {
			cell.Styles = inlineStyles(c)
		}
		cells = append(cells, cell)
	}

	if len(cells) == 0 {
		return nil, false
	}
	return content.PositionalRow{Cells: cells, Source: tr}, true
}

// isHidden reports whether the element is hidden by attribute or inline style.
func isHidden(n *html.Node) bool {
	if hasAttr(n, "hidden") {
		return true
	}
	styles := parseStyle(attr(n, "style"))
	return styles["display"] == "none" || styles["visibility"] == "hidden"
}

func spanAttr(n *html.Node, key string) int {
	v, err := strconv.Atoi(strings.TrimSpace(attr(n, key)))
	if err != nil || v < 1 {
		return 1
	}
	return v
}

// inlineStyles returns the element's inline style declarations.
func inlineStyles(n *html.Node) map[string]any {
	declared := parseStyle(attr(n, "style"))
	if len(declared) == 0 {
		return nil
	}
	out := make(map[string]any, len(declared))
	for k, v := range declared {
		out[k] = v
	}
	return out
}

// parseStyle splits a style attribute into lower-cased property/value pairs.
func parseStyle(style string) map[string]string {
	out := make(map[string]string)
	for _, decl := range strings.Split(style, ";") {
		prop, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		value = strings.ToLower(strings.TrimSpace(value))
		if prop != "" && value != "" {
			out[prop] = value
		}
	}
	return out
}

// textContent extracts the whitespace-collapsed text of a node. br elements
// become line breaks.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "template":
				return
			case "br":
				b.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	lines := strings.Split(b.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Source binds a scraper to a surface for content unification.
type Source struct {
	Scraper Scraper
	Surface *Surface
}

// Bind returns a content.MarkupSource over the surface. A nil surface makes the
// source unavailable.
func Bind(scraper Scraper, surface *Surface) *Source {
	if scraper == nil {
		scraper = NewHTMLScraper()
	}
	return &Source{Scraper: scraper, Surface: surface}
}

// Available implements content.MarkupSource.
func (s *Source) Available() bool {
	return s != nil && s.Surface != nil && s.Surface.Root() != nil
}

// Extract implements content.MarkupSource.
func (s *Source) Extract(ctx context.Context, selector any, opts content.ExtractOptions) (*content.Sections, error) {
	return s.Scraper.Scrape(ctx, s.Surface, selector, opts)
}
