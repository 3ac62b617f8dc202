package output

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents data formatted for table output.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional
}

// Section is one titled table of a Report.
type Section struct {
	Title string
	Data  Data
}

// Report is a sequence of titled tables.
type Report struct {
	Sections []Section
}

// Add appends a section and returns the report.
func (r *Report) Add(title string, data Data) *Report {
	r.Sections = append(r.Sections, Section{Title: title, Data: data})
	return r
}

// Title turns an option key or snake_case name into a column header:
// "tableLineColor" becomes "Table Line Color".
func Title(key string) string {
	var b strings.Builder
	for i, r := range key {
		switch {
		case r == '_' || r == '-':
			b.WriteRune(' ')
			continue
		case i > 0 && r >= 'A' && r <= 'Z':
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	caser := cases.Title(language.English, cases.NoLower)
	return caser.String(b.String())
}

// PropertyData builds a two column Property/Value table from ordered pairs.
func PropertyData(keys []string, values map[string]any) Data {
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{Title(k), Cell(values[k])})
	}
	return Data{
		Headers: []string{"Property", "Value"},
		Rows:    rows,
	}
}

// Cell renders a value for a table cell. Nil renders as "-".
func Cell(v any) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprintf("%v", x)
	}
}
