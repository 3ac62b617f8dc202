package content_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/agentstation/tablespec/pkg/content"
	"github.com/agentstation/tablespec/pkg/errors"
	"github.com/agentstation/tablespec/pkg/logging"
	"github.com/agentstation/tablespec/pkg/options"
)

func dataKeys(cols []content.Column) []any {
	keys := make([]any, len(cols))
	for i, c := range cols {
		keys[i] = c.DataKey.Value()
	}
	return keys
}

func mustRows(t *testing.T, v any) []content.Row {
	t.Helper()
	rows, err := content.NewRows(v)
	require.NoError(t, err)
	return rows
}

func TestInferColumnsPositional(t *testing.T) {
	body := mustRows(t, [][]any{{"a", "b"}, {"c", "d"}})
	cols := content.InferColumns(nil, body, nil)
	assert.Equal(t, []any{0, 1}, dataKeys(cols))
}

func TestInferColumnsPositionalSpan(t *testing.T) {
	head := mustRows(t, []any{
		[]any{map[string]any{"content": "Name", "colSpan": 2}, "Age"},
	})
	cols := content.InferColumns(head, nil, nil)
	assert.Equal(t, []any{0, 1, 2}, dataKeys(cols))
}

func TestInferColumnsKeyed(t *testing.T) {
	t.Run("first-seen order", func(t *testing.T) {
		body := mustRows(t, []any{
			options.Ordered{{Key: "name", Value: "x"}, {Key: "age", Value: 1}},
		})
		cols := content.InferColumns(nil, body, nil)
		assert.Equal(t, []any{"name", "age"}, dataKeys(cols))
	})

	t.Run("span expands with suffixes", func(t *testing.T) {
		body := mustRows(t, []any{
			map[string]any{"name": map[string]any{"content": "x", "colSpan": 2}},
		})
		cols := content.InferColumns(nil, body, nil)
		assert.Equal(t, []any{"name", "name_1"}, dataKeys(cols))
	})

	t.Run("element field is skipped", func(t *testing.T) {
		body := mustRows(t, []any{
			options.Ordered{
				{Key: "_element", Value: &html.Node{Data: "tr"}},
				{Key: "id", Value: 7},
			},
		})
		cols := content.InferColumns(nil, body, nil)
		assert.Equal(t, []any{"id"}, dataKeys(cols))
		require.NotNil(t, body[0].Element())
		assert.Equal(t, "tr", body[0].Element().Data)
	})
}

func TestInferColumnsSectionPriority(t *testing.T) {
	head := mustRows(t, [][]string{{"h1"}})
	body := mustRows(t, [][]string{{"b1", "b2"}})
	foot := mustRows(t, [][]string{{"f1", "f2", "f3"}})

	assert.Len(t, content.InferColumns(head, body, foot), 1)
	assert.Len(t, content.InferColumns(nil, body, foot), 2)
	assert.Len(t, content.InferColumns(nil, nil, foot), 3)
}

func TestInferColumnsEmpty(t *testing.T) {
	cols := content.InferColumns(nil, []content.Row{}, nil)
	assert.NotNil(t, cols)
	assert.Empty(t, cols)
}

func TestParseColumns(t *testing.T) {
	cols, err := content.ParseColumns([]any{
		map[string]any{"header": "Name", "dataKey": "name"},
		map[string]any{"header": "Age", "key": "age"},
		"Notes",
	})
	require.NoError(t, err)
	assert.Equal(t, []any{"name", "age", 2}, dataKeys(cols))
	assert.Equal(t, "Notes", cols[2].Header)

	_, err = content.ParseColumns([]any{
		map[string]any{"dataKey": "a"},
		map[string]any{"dataKey": "a"},
	})
	assert.ErrorContains(t, err, "duplicate column data key")

	_, err = content.ParseColumns("name")
	assert.Error(t, err)

	_, err = content.ParseColumns([]any{map[string]any{"dataKey": 1.5}})
	assert.Error(t, err)
}

func TestNewRow(t *testing.T) {
	t.Run("positional decodes cell descriptors", func(t *testing.T) {
		row, err := content.NewRow([]any{"a", map[string]any{"content": "b", "colSpan": 3, "rowSpan": 2}})
		require.NoError(t, err)

		cell, ok := row.Cell(content.IndexKey(1))
		require.True(t, ok)
		c, ok := cell.(*content.Cell)
		require.True(t, ok)
		assert.Equal(t, "b", c.Content)
		assert.Equal(t, 3, c.ColSpan)
		assert.Equal(t, 2, c.RowSpan)

		_, ok = row.Cell(content.IndexKey(5))
		assert.False(t, ok)
		_, ok = row.Cell(content.NameKey("a"))
		assert.False(t, ok)
	})

	t.Run("keyed rows answer string form of positional keys", func(t *testing.T) {
		row, err := content.NewRow(map[string]any{"0": "zero"})
		require.NoError(t, err)
		v, ok := row.Cell(content.IndexKey(0))
		require.True(t, ok)
		assert.Equal(t, "zero", v)
	})

	t.Run("rejects scalars", func(t *testing.T) {
		_, err := content.NewRow(42)
		assert.Error(t, err)
		_, err = content.NewRows([]any{[]any{1}, "x"})
		assert.ErrorContains(t, err, "row 1")
		_, err = content.NewRows("rows")
		assert.Error(t, err)
	})

	t.Run("zero spans are raised to one", func(t *testing.T) {
		row, err := content.NewRow([]any{content.Cell{Content: "x"}})
		require.NoError(t, err)
		v, _ := row.Cell(content.IndexKey(0))
		assert.Equal(t, 1, v.(*content.Cell).ColSpan)
		assert.Equal(t, 1, content.Span(v))
		assert.Equal(t, 1, content.Span("scalar"))
	})
}

func TestRowJSON(t *testing.T) {
	rows := mustRows(t, []any{
		options.Ordered{{Key: "z", Value: 1}, {Key: "a", Value: "x"}},
		[]any{"p", 2},
	})
	data, err := json.Marshal(rows)
	require.NoError(t, err)
	assert.Equal(t, `[{"z":1,"a":"x"},["p",2]]`, string(data))
}

func TestDataKey(t *testing.T) {
	k, err := content.ParseDataKey(2.0)
	require.NoError(t, err)
	i, ok := k.Index()
	assert.True(t, ok)
	assert.Equal(t, 2, i)
	assert.Equal(t, "2", k.String())

	k, err = content.ParseDataKey("name")
	require.NoError(t, err)
	name, ok := k.Name()
	assert.True(t, ok)
	assert.Equal(t, "name", name)

	var decoded []content.DataKey
	require.NoError(t, json.Unmarshal([]byte(`[0, "x"]`), &decoded))
	assert.Equal(t, []content.DataKey{content.IndexKey(0), content.NameKey("x")}, decoded)

	_, err = content.ParseDataKey(true)
	assert.Error(t, err)
}

// fakeMarkup is a MarkupSource returning canned sections.
type fakeMarkup struct {
	available bool
	sections  *content.Sections
	err       error
	calls     int
	opts      content.ExtractOptions
}

func (f *fakeMarkup) Available() bool { return f.available }

func (f *fakeMarkup) Extract(_ context.Context, _ any, opts content.ExtractOptions) (*content.Sections, error) {
	f.calls++
	f.opts = opts
	return f.sections, f.err
}

func TestUnifyExplicit(t *testing.T) {
	c, err := content.Unify(context.Background(), content.Source{
		Body: [][]any{{"a", "b"}, {"c", "d"}},
	}, nil)
	require.NoError(t, err)

	assert.NotNil(t, c.Head)
	assert.Empty(t, c.Head)
	assert.Len(t, c.Body, 2)
	assert.NotNil(t, c.Foot)
	assert.Equal(t, []any{0, 1}, dataKeys(c.Columns))
}

func TestUnifyExplicitColumnsWin(t *testing.T) {
	c, err := content.Unify(context.Background(), content.Source{
		Body:    [][]any{{"a", "b"}},
		Columns: []any{map[string]any{"header": "Only", "dataKey": 1}},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{1}, dataKeys(c.Columns))
}

func TestUnifyInvalidInput(t *testing.T) {
	_, err := content.Unify(context.Background(), content.Source{Body: "nope"}, nil)
	assert.True(t, errors.IsValidationError(err))

	_, err = content.Unify(context.Background(), content.Source{Columns: 3}, nil)
	assert.True(t, errors.IsValidationError(err))
}

func TestUnifyMarkup(t *testing.T) {
	scrapedHead := mustRows(t, [][]string{{"H"}})
	scrapedBody := mustRows(t, [][]string{{"B1"}, {"B2"}})

	t.Run("scraped sections override explicit ones", func(t *testing.T) {
		markup := &fakeMarkup{available: true, sections: &content.Sections{Head: scrapedHead, Body: scrapedBody}}
		c, err := content.Unify(context.Background(), content.Source{
			Head:              [][]string{{"explicit"}},
			Body:              [][]string{{"explicit"}},
			HTML:              "#report",
			IncludeHiddenHTML: true,
			UseCSS:            true,
		}, markup)
		require.NoError(t, err)

		assert.Equal(t, 1, markup.calls)
		assert.Equal(t, content.ExtractOptions{IncludeHidden: true, UseCSS: true}, markup.opts)
		assert.Equal(t, scrapedHead, c.Head)
		assert.Equal(t, scrapedBody, c.Body)
	})

	// Unproduced sections take the head rows rather than staying empty. This
	// mirrors the established fallback and may not be intentional upstream.
	t.Run("unproduced foot falls back to head", func(t *testing.T) {
		markup := &fakeMarkup{available: true, sections: &content.Sections{Head: scrapedHead, Body: scrapedBody}}
		c, err := content.Unify(context.Background(), content.Source{HTML: "#report"}, markup)
		require.NoError(t, err)
		assert.Equal(t, scrapedHead, c.Foot)
	})

	t.Run("unproduced body falls back to head", func(t *testing.T) {
		markup := &fakeMarkup{available: true, sections: &content.Sections{Head: scrapedHead}}
		c, err := content.Unify(context.Background(), content.Source{
			Body: [][]string{{"explicit"}},
			HTML: "#report",
		}, markup)
		require.NoError(t, err)
		assert.Equal(t, scrapedHead, c.Body)
	})

	t.Run("nothing matched keeps explicit head", func(t *testing.T) {
		markup := &fakeMarkup{available: true}
		explicitHead := [][]string{{"explicit head"}}
		c, err := content.Unify(context.Background(), content.Source{
			Head: explicitHead,
			Body: [][]string{{"explicit body"}},
			HTML: "#missing",
		}, markup)
		require.NoError(t, err)
		require.Len(t, c.Head, 1)
		v, _ := c.Head[0].Cell(content.IndexKey(0))
		assert.Equal(t, "explicit head", v)
		assert.Equal(t, c.Head, c.Body)
	})

	t.Run("extraction error degrades like no match", func(t *testing.T) {
		tl := logging.NewTestLogger(t)
		ctx := logging.WithLogger(context.Background(), tl.Logger)
		markup := &fakeMarkup{available: true, err: errors.New("boom")}
		c, err := content.Unify(ctx, content.Source{HTML: "#report"}, markup)
		require.NoError(t, err)
		assert.Empty(t, c.Body)
		assert.True(t, tl.Contains("boom"))
	})
}

func TestUnifyMarkupWithoutSurface(t *testing.T) {
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	markup := &fakeMarkup{available: false}
	c, err := content.Unify(ctx, content.Source{
		Body: [][]string{{"kept"}},
		HTML: "#report",
	}, markup)
	require.NoError(t, err)

	assert.Equal(t, 0, markup.calls)
	require.Len(t, c.Body, 1)
	assert.Empty(t, c.Head)
	assert.True(t, tl.Contains(`"level":"error"`))
	assert.True(t, tl.Contains("without a rendering surface"))

	// a nil markup source behaves the same
	c, err = content.Unify(ctx, content.Source{HTML: "#report"}, nil)
	require.NoError(t, err)
	assert.Empty(t, c.Body)
}
