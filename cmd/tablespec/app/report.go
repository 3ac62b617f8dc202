package app

import (
	"encoding/json"
	"slices"
	"strconv"

	"github.com/agentstation/tablespec"
	"github.com/agentstation/tablespec/internal/output"
	"github.com/agentstation/tablespec/pkg/content"
	"github.com/agentstation/tablespec/pkg/hooks"
	"github.com/agentstation/tablespec/pkg/options"
	"github.com/agentstation/tablespec/pkg/settings"
	"github.com/agentstation/tablespec/pkg/styles"
)

// TableReport lays a resolved table out as titled sections for the table and
// markdown formats.
func TableReport(t *tablespec.Table) output.Report {
	var r output.Report
	r.Add("Settings", SettingsData(t.Settings))
	r.Add("Columns", ColumnData(t.Columns()))
	r.Add("Head", RowData(t.Columns(), t.Content.Head))
	r.Add("Body", RowData(t.Columns(), t.Content.Body))
	r.Add("Foot", RowData(t.Columns(), t.Content.Foot))
	r.Add("Styles", StyleData(t.Styles))
	r.Add("Hooks", HookData(t.Hooks))
	return r
}

// SettingsData lists the resolved settings as Property/Value rows.
func SettingsData(s settings.Settings) output.Data {
	keys := []string{
		settings.KeyTheme,
		settings.KeyStartY,
		settings.KeyMargin,
		settings.KeyPageBreak,
		settings.KeyRowPageBreak,
		settings.KeyTableWidth,
		settings.KeyShowHead,
		settings.KeyShowFoot,
		settings.KeyTableLineWidth,
		settings.KeyTableLineColor,
		settings.KeyIncludeHiddenHTML,
		settings.KeyUseCSS,
		settings.KeyHorizontalPageBreak,
		settings.KeyHorizontalPageBreakRepeat,
		settings.KeyHorizontalPageBreakBehaviour,
	}
	values := map[string]any{
		settings.KeyTheme:                        s.Theme,
		settings.KeyStartY:                       s.StartY,
		settings.KeyMargin:                       s.Margin,
		settings.KeyPageBreak:                    s.PageBreak,
		settings.KeyRowPageBreak:                 s.RowPageBreak,
		settings.KeyTableWidth:                   s.TableWidth,
		settings.KeyShowHead:                     s.ShowHead,
		settings.KeyShowFoot:                     s.ShowFoot,
		settings.KeyTableLineWidth:               s.TableLineWidth,
		settings.KeyTableLineColor:               s.TableLineColor,
		settings.KeyIncludeHiddenHTML:            s.IncludeHiddenHTML,
		settings.KeyUseCSS:                       s.UseCSS,
		settings.KeyHorizontalPageBreak:          s.HorizontalPageBreak,
		settings.KeyHorizontalPageBreakRepeat:    display(s.HorizontalPageBreakRepeat),
		settings.KeyHorizontalPageBreakBehaviour: s.HorizontalPageBreakBehaviour,
	}
	data := output.PropertyData(keys, values)
	data.ColumnAlignment = []output.Align{output.AlignLeft, output.AlignLeft}
	return data
}

// ColumnData lists columns with their data key, header and footer.
func ColumnData(cols []content.Column) output.Data {
	rows := make([][]string, 0, len(cols))
	for i, c := range cols {
		rows = append(rows, []string{
			strconv.Itoa(i),
			c.DataKey.String(),
			display(c.Header),
			display(c.Footer),
		})
	}
	return output.Data{
		Headers:         []string{"#", "Data Key", "Header", "Footer"},
		Rows:            rows,
		ColumnAlignment: []output.Align{output.AlignRight, output.AlignLeft, output.AlignLeft, output.AlignLeft},
	}
}

// RowData projects rows onto the columns, one cell per column.
func RowData(cols []content.Column, rows []content.Row) output.Data {
	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.DataKey.String()
	}

	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, len(cols))
		for i, c := range cols {
			v, ok := row.Cell(c.DataKey)
			if !ok {
				cells[i] = ""
				continue
			}
			cells[i] = cellText(v)
		}
		out = append(out, cells)
	}
	return output.Data{Headers: headers, Rows: out}
}

// StyleData lists each non-empty style category, then each styled column.
func StyleData(s styles.Set) output.Data {
	categories := map[string]map[string]any{
		styles.KeyStyles:             s.Styles,
		styles.KeyHeadStyles:         s.HeadStyles,
		styles.KeyBodyStyles:         s.BodyStyles,
		styles.KeyFootStyles:         s.FootStyles,
		styles.KeyAlternateRowStyles: s.AlternateRowStyles,
	}

	var rows [][]string
	for _, name := range styles.Categories() {
		if m := categories[name]; len(m) > 0 {
			rows = append(rows, []string{name, display(m)})
		}
	}
	for _, key := range sortedKeys(s.ColumnStyles) {
		rows = append(rows, []string{styles.KeyColumnStyles + "[" + key + "]", display(s.ColumnStyles[key])})
	}
	return output.Data{Headers: []string{"Category", "Styles"}, Rows: rows}
}

// HookData lists the number of hooks registered per event.
func HookData(h hooks.Set) output.Data {
	counts := h.Counts()
	rows := make([][]string, 0, len(counts))
	for _, name := range hooks.Names() {
		rows = append(rows, []string{name, strconv.Itoa(counts[name])})
	}
	return output.Data{
		Headers:         []string{"Event", "Hooks"},
		Rows:            rows,
		ColumnAlignment: []output.Align{output.AlignLeft, output.AlignRight},
	}
}

// ExplainData lists which scope supplied each merged option.
func ExplainData(entries []options.Entry) output.Data {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		shadowed := make([]string, 0, len(e.Shadowed))
		for _, v := range e.Shadowed {
			shadowed = append(shadowed, v.Scope.String()+"="+display(v.Value))
		}
		rows = append(rows, []string{e.Key, e.Scope.String(), display(e.Value), display(shadowed)})
	}
	return output.Data{
		Headers: []string{"Option", "Scope", "Value", "Overrides"},
		Rows:    rows,
	}
}

// ScopeData lists the option keys each layer won, one row per layer.
func ScopeData(p options.Provenance) output.Data {
	byScope := p.ByScope()
	rows := make([][]string, 0, len(options.Scopes()))
	for _, s := range options.Scopes() {
		rows = append(rows, []string{s.String(), strconv.Itoa(len(byScope[s])), display(byScope[s])})
	}
	return output.Data{
		Headers:         []string{"Scope", "Count", "Options"},
		Rows:            rows,
		ColumnAlignment: []output.Align{output.AlignLeft, output.AlignRight, output.AlignLeft},
	}
}

// scopeKeys keys the winning option keys by scope name for structured output.
func scopeKeys(p options.Provenance) map[string][]string {
	byScope := p.ByScope()
	out := make(map[string][]string, len(options.Scopes()))
	for _, s := range options.Scopes() {
		keys := byScope[s]
		if keys == nil {
			keys = []string{}
		}
		out[s.String()] = keys
	}
	return out
}

func cellText(v any) string {
	switch c := v.(type) {
	case *content.Cell:
		return display(c.Content)
	case content.Cell:
		return display(c.Content)
	}
	return display(v)
}

// display renders scalars as text and structured values as compact JSON.
func display(v any) string {
	switch x := v.(type) {
	case nil, string, bool, int, int64, float64:
		return output.Cell(x)
	case []string:
		if len(x) == 0 {
			return "-"
		}
	}
	if _, ok := v.(interface{ String() string }); ok {
		return output.Cell(v)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return output.Cell(v)
	}
	return string(data)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
