package content

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"
	"golang.org/x/net/html"

	"github.com/agentstation/tablespec/pkg/constants"
	"github.com/agentstation/tablespec/pkg/options"
)

// Row is one table row. It is either a PositionalRow or a KeyedRow; the shape is
// decided once when raw input is ingested.
type Row interface {
	// Keys returns the row's own keys in order: positions or field names.
	Keys() []DataKey

	// Cell projects the value stored under key.
	Cell(key DataKey) (any, bool)

	// Len returns the number of cells in the row.
	Len() int

	// Element returns the markup element the row was scraped from, if any.
	Element() *html.Node

	isRow()
}

// PositionalRow is an ordered sequence of cells.
type PositionalRow struct {
	Cells  []any
	Source *html.Node
}

// Keys implements Row.
func (r PositionalRow) Keys() []DataKey {
	keys := make([]DataKey, len(r.Cells))
	for i := range r.Cells {
		keys[i] = IndexKey(i)
	}
	return keys
}

// Cell implements Row.
func (r PositionalRow) Cell(key DataKey) (any, bool) {
	i, ok := key.Index()
	if !ok || i < 0 || i >= len(r.Cells) {
		return nil, false
	}
	return r.Cells[i], true
}

// Len implements Row.
func (r PositionalRow) Len() int { return len(r.Cells) }

// Element implements Row.
func (r PositionalRow) Element() *html.Node { return r.Source }

func (PositionalRow) isRow() {}

// MarshalJSON encodes the row as an array of cells.
func (r PositionalRow) MarshalJSON() ([]byte, error) {
	if r.Cells == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(r.Cells)
}

// MarshalYAML encodes the row as a sequence of cells.
func (r PositionalRow) MarshalYAML() (any, error) {
	if r.Cells == nil {
		return []any{}, nil
	}
	return r.Cells, nil
}

// KeyedRow maps field names to cells and remembers the order fields were first seen.
type KeyedRow struct {
	Fields []string
	Values map[string]any
	Source *html.Node
}

// Keys implements Row.
func (r KeyedRow) Keys() []DataKey {
	keys := make([]DataKey, len(r.Fields))
	for i, f := range r.Fields {
		keys[i] = NameKey(f)
	}
	return keys
}

// Cell implements Row. Positional keys address fields by their string form.
func (r KeyedRow) Cell(key DataKey) (any, bool) {
	v, ok := r.Values[key.String()]
	return v, ok
}

// Len implements Row.
func (r KeyedRow) Len() int { return len(r.Fields) }

// Element implements Row.
func (r KeyedRow) Element() *html.Node { return r.Source }

func (KeyedRow) isRow() {}

// MarshalJSON encodes the row as an object with fields in declaration order.
func (r KeyedRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(r.Values[f])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the row as a mapping with fields in declaration order.
func (r KeyedRow) MarshalYAML() (any, error) {
	out := make(yaml.MapSlice, 0, len(r.Fields))
	for _, f := range r.Fields {
		out = append(out, yaml.MapItem{Key: f, Value: r.Values[f]})
	}
	return out, nil
}

// NewRow ingests one raw row. Lists become PositionalRows, mappings become
// KeyedRows; mapping-valued cells become *Cell. The reserved element field is
// kept off the field list and recorded as the row's source element.
func NewRow(v any) (Row, error) {
	switch r := v.(type) {
	case PositionalRow:
		return positional(r.Cells, r.Source), nil
	case *PositionalRow:
		return positional(r.Cells, r.Source), nil
	case KeyedRow:
		return keyed(r.Fields, r.Values, r.Source), nil
	case *KeyedRow:
		return keyed(r.Fields, r.Values, r.Source), nil
	}

	if cells, ok := options.AsList(v); ok {
		return positional(cells, nil), nil
	}

	if keys, values, ok := options.AsMap(v); ok {
		source, _ := values[constants.ElementField].(*html.Node)
		return keyed(keys, values, source), nil
	}

	return nil, fmt.Errorf("row must be a list or a mapping, got %T", v)
}

// NewRows ingests a raw row section. Absent input yields an empty section.
func NewRows(v any) ([]Row, error) {
	if v == nil {
		return []Row{}, nil
	}
	if rows, ok := v.([]Row); ok {
		return append([]Row{}, rows...), nil
	}

	raw, ok := options.AsList(v)
	if !ok {
		return nil, fmt.Errorf("row section must be a list, got %T", v)
	}

	rows := make([]Row, 0, len(raw))
	for i, r := range raw {
		row, err := NewRow(r)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func positional(cells []any, source *html.Node) PositionalRow {
	out := make([]any, len(cells))
	for i, c := range cells {
		out[i] = decodeCell(c)
	}
	return PositionalRow{Cells: out, Source: source}
}

func keyed(fields []string, values map[string]any, source *html.Node) KeyedRow {
	row := KeyedRow{
		Fields: make([]string, 0, len(fields)),
		Values: make(map[string]any, len(fields)),
		Source: source,
	}
	for _, f := range fields {
		if f == constants.ElementField {
			continue
		}
		row.Fields = append(row.Fields, f)
		row.Values[f] = decodeCell(values[f])
	}
	return row
}
