package styles_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/tablespec/pkg/content"
	"github.com/agentstation/tablespec/pkg/options"
	"github.com/agentstation/tablespec/pkg/styles"
)

func TestMergeEmpty(t *testing.T) {
	s := styles.Merge(options.Layers{})
	assert.NotNil(t, s.Styles)
	assert.NotNil(t, s.HeadStyles)
	assert.NotNil(t, s.BodyStyles)
	assert.NotNil(t, s.FootStyles)
	assert.NotNil(t, s.AlternateRowStyles)
	assert.NotNil(t, s.ColumnStyles)
	assert.Empty(t, s.ColumnStyles)
}

func TestMergeUniformCategories(t *testing.T) {
	s := styles.Merge(options.Layers{
		Global:   options.Options{"headStyles": map[string]any{"fontSize": 8, "fillColor": 200}},
		Document: options.Options{"headStyles": map[string]any{"fontSize": 9}},
		Call:     options.Options{"headStyles": map[string]any{"fontStyle": "bold", "fillColor": nil}},
	})

	assert.Equal(t, map[string]any{"fontSize": 9, "fillColor": 200, "fontStyle": "bold"}, s.HeadStyles)
	assert.Empty(t, s.BodyStyles)
}

func TestMergeColumnStylesShallow(t *testing.T) {
	s := styles.Merge(options.Layers{
		Global: options.Options{"columnStyles": map[any]any{
			0: map[string]any{"fontSize": 8},
			2: map[string]any{"halign": "right", "fontSize": 6},
		}},
		Call: options.Options{"columnStyles": map[string]any{
			"1": map[string]any{"fontSize": 10},
			"2": map[string]any{"cellWidth": 40},
		}},
	})

	assert.Equal(t, map[string]map[string]any{
		"0": {"fontSize": 8},
		"1": {"fontSize": 10},
		"2": {"cellWidth": 40},
	}, s.ColumnStyles)

	assert.Equal(t, map[string]any{"fontSize": 8}, s.Column(content.IndexKey(0)))
	assert.Nil(t, s.Column(content.NameKey("missing")))
}

func TestMergeColumnStylesKeyed(t *testing.T) {
	s := styles.Merge(options.Layers{
		Document: options.Options{"columnStyles": options.Ordered{
			{Key: "name", Value: options.Ordered{{Key: "fontStyle", Value: "bold"}}},
		}},
	})
	assert.Equal(t, map[string]any{"fontStyle": "bold"}, s.Column(content.NameKey("name")))
}

func TestMergeDoesNotMutateLayers(t *testing.T) {
	global := map[string]any{"fontSize": 8}
	styles.Merge(options.Layers{
		Global: options.Options{"styles": global},
		Call:   options.Options{"styles": map[string]any{"fontSize": 12}},
	})
	assert.Equal(t, map[string]any{"fontSize": 8}, global)
}
