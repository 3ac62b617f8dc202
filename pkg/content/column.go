package content

import (
	"fmt"

	"github.com/agentstation/tablespec/pkg/constants"
	"github.com/agentstation/tablespec/pkg/options"
)

// Column describes one table column.
type Column struct {
	DataKey DataKey `json:"dataKey" yaml:"dataKey"`
	Header  any     `json:"header,omitempty" yaml:"header,omitempty"`
	Footer  any     `json:"footer,omitempty" yaml:"footer,omitempty"`
}

// ParseColumns reads an explicit column declaration. Each entry is either a
// mapping with header, footer and dataKey (or key), or a bare header value. An
// entry without a data key uses its position.
func ParseColumns(v any) ([]Column, error) {
	if cols, ok := v.([]Column); ok {
		return cols, checkUnique(cols)
	}

	raw, ok := options.AsList(v)
	if !ok {
		return nil, fmt.Errorf("columns must be a list, got %T", v)
	}

	cols := make([]Column, 0, len(raw))
	for i, entry := range raw {
		col := Column{DataKey: IndexKey(i)}

		switch e := entry.(type) {
		case Column:
			col = e
		case *Column:
			col = *e
		default:
			_, values, isMap := options.AsMap(entry)
			if !isMap {
				col.Header = entry
				break
			}
			col.Header = values["header"]
			col.Footer = values["footer"]
			key, hasKey := values["dataKey"]
			if !hasKey || key == nil {
				key, hasKey = values["key"]
			}
			if hasKey && key != nil {
				parsed, err := ParseDataKey(key)
				if err != nil {
					return nil, fmt.Errorf("column %d: %w", i, err)
				}
				col.DataKey = parsed
			}
		}

		cols = append(cols, col)
	}

	return cols, checkUnique(cols)
}

// InferColumns derives columns from the first row of the first non-empty
// section, checked head, body, foot. Positional rows yield one positional key per
// slot, so a cell spanning n columns contributes n consecutive keys. Keyed rows
// yield the field name, and a field spanning n > 1 columns adds name_1 ..
// name_{n-1}. No rows yields no columns.
func InferColumns(head, body, foot []Row) []Column {
	var template Row
	for _, section := range [][]Row{head, body, foot} {
		if len(section) > 0 {
			template = section[0]
			break
		}
	}

	cols := []Column{}
	if template == nil {
		return cols
	}

	seen := make(map[string]bool)
	add := func(key DataKey) {
		if seen[key.String()] {
			return
		}
		seen[key.String()] = true
		cols = append(cols, Column{DataKey: key})
	}

	switch row := template.(type) {
	case PositionalRow:
		slot := 0
		for _, cell := range row.Cells {
			for i := 0; i < Span(cell); i++ {
				add(IndexKey(slot))
				slot++
			}
		}
	case KeyedRow:
		for _, field := range row.Fields {
			if field == constants.ElementField {
				continue
			}
			span := Span(row.Values[field])
			add(NameKey(field))
			for i := 1; i < span; i++ {
				add(NameKey(fmt.Sprintf("%s_%d", field, i)))
			}
		}
	}

	return cols
}

func checkUnique(cols []Column) error {
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		if seen[c.DataKey.String()] {
			return fmt.Errorf("duplicate column data key %q", c.DataKey.String())
		}
		seen[c.DataKey.String()] = true
	}
	return nil
}
