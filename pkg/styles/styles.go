// Package styles merges the style categories of the three option layers.
package styles

import (
	"github.com/agentstation/tablespec/pkg/content"
	"github.com/agentstation/tablespec/pkg/options"
)

// Style category option keys.
const (
	KeyStyles             = "styles"
	KeyHeadStyles         = "headStyles"
	KeyBodyStyles         = "bodyStyles"
	KeyFootStyles         = "footStyles"
	KeyAlternateRowStyles = "alternateRowStyles"
	KeyColumnStyles       = "columnStyles"
)

// Categories returns the five uniformly merged categories.
func Categories() []string {
	return []string{KeyStyles, KeyHeadStyles, KeyBodyStyles, KeyFootStyles, KeyAlternateRowStyles}
}

// Set is the merged style categories of a table. Every mapping is non-nil.
type Set struct {
	Styles             map[string]any `json:"styles" yaml:"styles"`
	HeadStyles         map[string]any `json:"headStyles" yaml:"headStyles"`
	BodyStyles         map[string]any `json:"bodyStyles" yaml:"bodyStyles"`
	FootStyles         map[string]any `json:"footStyles" yaml:"footStyles"`
	AlternateRowStyles map[string]any `json:"alternateRowStyles" yaml:"alternateRowStyles"`

	// ColumnStyles maps the string form of a column data key to its styles.
	ColumnStyles map[string]map[string]any `json:"columnStyles" yaml:"columnStyles"`
}

// Merge merges every category across the layers, lowest precedence first.
//
// The five uniform categories merge key by key. columnStyles merges only at the
// top level: the highest layer declaring a column replaces that column's whole
// style mapping, while columns declared by different layers coexist.
func Merge(layers options.Layers) Set {
	cat := func(key string) map[string]any {
		var maps []any
		for _, v := range layers.Values(key) {
			maps = append(maps, v.Value)
		}
		return options.MergeMaps(maps...)
	}

	return Set{
		Styles:             cat(KeyStyles),
		HeadStyles:         cat(KeyHeadStyles),
		BodyStyles:         cat(KeyBodyStyles),
		FootStyles:         cat(KeyFootStyles),
		AlternateRowStyles: cat(KeyAlternateRowStyles),
		ColumnStyles:       mergeColumns(layers),
	}
}

func mergeColumns(layers options.Layers) map[string]map[string]any {
	out := make(map[string]map[string]any)
	for _, v := range layers.Values(KeyColumnStyles) {
		keys, columns, ok := options.AsMap(v.Value)
		if !ok {
			continue
		}
		for _, k := range keys {
			style := columns[k]
			if style == nil {
				continue
			}
			// AsMap formats integer keys, so 0 and "0" land on the same column.
			out[k] = options.MergeMaps(style)
		}
	}
	return out
}

// Column returns the styles declared for a column, or nil.
func (s Set) Column(key content.DataKey) map[string]any {
	return s.ColumnStyles[key.String()]
}
