package content

import (
	"github.com/agentstation/tablespec/pkg/options"
)

// Cell is a cell descriptor: a value plus span and style metadata. Mapping-valued
// cells in raw input are decoded into *Cell when rows are ingested.
type Cell struct {
	Content any            `json:"content,omitempty" yaml:"content,omitempty"`
	ColSpan int            `json:"colSpan" yaml:"colSpan"`
	RowSpan int            `json:"rowSpan" yaml:"rowSpan"`
	Styles  map[string]any `json:"styles,omitempty" yaml:"styles,omitempty"`
}

// Span returns the number of column slots the cell occupies, at least 1.
func (c *Cell) Span() int {
	if c == nil || c.ColSpan < 1 {
		return 1
	}
	return c.ColSpan
}

// Span returns the number of column slots a raw or decoded cell value occupies.
// Scalars occupy one slot.
func Span(v any) int {
	switch c := v.(type) {
	case *Cell:
		return c.Span()
	case Cell:
		return c.Span()
	}
	if _, values, ok := options.AsMap(v); ok {
		if n, ok := options.Int(values["colSpan"]); ok && n > 1 {
			return n
		}
	}
	return 1
}

// decodeCell turns a mapping cell into a *Cell and leaves everything else as is.
func decodeCell(v any) any {
	switch c := v.(type) {
	case *Cell:
		if c == nil || (c.ColSpan >= 1 && c.RowSpan >= 1) {
			return v
		}
		cp := *c
		return cp.normalized()
	case Cell:
		return c.normalized()
	}

	_, values, ok := options.AsMap(v)
	if !ok {
		return v
	}

	cell := &Cell{
		Content: values["content"],
		ColSpan: 1,
		RowSpan: 1,
	}
	if n, ok := options.Int(values["colSpan"]); ok && n > 1 {
		cell.ColSpan = n
	}
	if n, ok := options.Int(values["rowSpan"]); ok && n > 1 {
		cell.RowSpan = n
	}
	if styles, ok := values["styles"]; ok {
		cell.Styles = options.MergeMaps(styles)
	}
	return cell
}

// normalized returns a copy with spans raised to at least 1.
func (c Cell) normalized() *Cell {
	if c.ColSpan < 1 {
		c.ColSpan = 1
	}
	if c.RowSpan < 1 {
		c.RowSpan = 1
	}
	return &c
}
