package validate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/tablespec/pkg/content"
	"github.com/agentstation/tablespec/pkg/errors"
	"github.com/agentstation/tablespec/pkg/hooks"
	"github.com/agentstation/tablespec/pkg/logging"
	"github.com/agentstation/tablespec/pkg/options"
	"github.com/agentstation/tablespec/pkg/validate"
)

func TestValidAccepted(t *testing.T) {
	layers := options.Layers{
		Global: options.Options{
			"theme":          "grid",
			"showHead":       true,
			"showFoot":       "lastPage",
			"margin":         []any{10, 20},
			"tableLineColor": []any{1, 2, 3},
			"styles":         map[string]any{"fontSize": 8},
		},
		Document: options.Options{
			"startY":       false,
			"tableWidth":   "wrap",
			"columnStyles": map[any]any{0: map[string]any{"halign": "right"}},
		},
		Call: options.Options{
			"body":                      [][]any{{1, 2}},
			"head":                      []any{map[string]any{"name": "Name"}},
			"columns":                   []any{"a", "b"},
			"html":                      "#report",
			"tableId":                   7,
			"didDrawCell":               func(*hooks.Event) {},
			"horizontalPageBreakRepeat": []any{0, "name"},
			"somethingUnknown":          struct{}{},
		},
	}
	assert.NoError(t, validate.New().Validate(context.Background(), layers))
}

func TestTypedRowsAccepted(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"row section", []content.Row{content.PositionalRow{Cells: []any{"a"}}}},
		{"positional row", []any{content.PositionalRow{Cells: []any{"a"}}}},
		{"positional row pointer", []any{&content.PositionalRow{Cells: []any{"a"}}}},
		{"keyed row", []any{content.KeyedRow{Fields: []string{"a"}, Values: map[string]any{"a": 1}}}},
		{"keyed row pointer", []any{&content.KeyedRow{Fields: []string{"a"}, Values: map[string]any{"a": 1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.New().Validate(context.Background(), options.Layers{
				Call: options.Options{"body": tt.value},
			})
			assert.NoError(t, err)
		})
	}
}

func TestRejected(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
	}{
		{"show mode", "showHead", "sometimes"},
		{"head shown on last page", "showHead", "lastPage"},
		{"foot shown on first page", "showFoot", "firstPage"},
		{"theme", "theme", "neon"},
		{"page break", "pageBreak", true},
		{"row page break", "rowPageBreak", "always"},
		{"start y true", "startY", true},
		{"table width", "tableWidth", "full"},
		{"line width", "tableLineWidth", "thin"},
		{"margin list too long", "margin", []any{1, 2, 3, 4, 5}},
		{"margin string", "margin", "wide"},
		{"body not list", "body", "rows"},
		{"row not list or map", "body", []any{"row"}},
		{"columns", "columns", map[string]any{}},
		{"styles", "headStyles", "bold"},
		{"column styles entry", "columnStyles", map[string]any{"0": "bold"}},
		{"hook", "didParseCell", "function"},
		{"use css", "useCss", "yes"},
		{"selector", "html", 3},
		{"table id", "tableId", []any{}},
		{"repeat", "horizontalPageBreakRepeat", 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.New().Validate(context.Background(), options.Layers{
				Call: options.Options{tt.key: tt.value},
			})
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))

			var ve *errors.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "call", ve.Scope)
			assert.Equal(t, tt.key, ve.Field)
		})
	}
}

func TestFirstErrorWins(t *testing.T) {
	rules := validate.New()
	layers := options.Layers{
		Global: options.Options{"theme": "neon"},
		Call:   options.Options{"pageBreak": "never", "showHead": 3},
	}

	result := rules.Check(layers)
	require.Len(t, result.Errors, 3)
	assert.Equal(t, "Validation failed with 3 errors", result.String())

	err := rules.Validate(context.Background(), layers)
	var ve *errors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "global", ve.Scope)
	assert.Equal(t, "theme", ve.Field)
}

func TestNilIsAbsent(t *testing.T) {
	err := validate.New().Validate(context.Background(), options.Layers{
		Call: options.Options{"theme": nil, "startY": nil},
	})
	assert.NoError(t, err)
}

func TestDeprecatedWarns(t *testing.T) {
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	rules := validate.New()
	layers := options.Layers{Document: options.Options{"showHeader": true, "margins": 10}}

	result := rules.Check(layers)
	assert.True(t, result.IsValid())
	require.Len(t, result.Warnings, 2)
	assert.Equal(t, "document option margins is deprecated, use margin instead", result.Warnings[0].String())
	assert.Equal(t, "Validation passed with 2 warnings", result.String())

	require.NoError(t, rules.Validate(ctx, layers))
	assert.Equal(t, 2, tl.Count())
	assert.True(t, tl.Contains(`"replacement":"showHead"`))
	assert.True(t, tl.Contains("Deprecated option"))
}

func TestCustomRules(t *testing.T) {
	rules := validate.New()
	rules.Add("fontSize", func(v any) string {
		if f, ok := options.Float(v); ok && f > 0 {
			return ""
		}
		return "must be positive"
	})

	err := rules.Validate(context.Background(), options.Layers{Global: options.Options{"fontSize": -1}})
	assert.EqualError(t, err, "validation failed for global option fontSize: must be positive")
}

func TestFunc(t *testing.T) {
	sentinel := errors.New("stop")
	var v validate.Validator = validate.Func(func(context.Context, options.Layers) error { return sentinel })
	assert.ErrorIs(t, v.Validate(context.Background(), options.Layers{}), sentinel)
	assert.NoError(t, validate.Nop.Validate(context.Background(), options.Layers{}))
}
