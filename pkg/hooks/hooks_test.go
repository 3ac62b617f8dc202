package hooks_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/tablespec/pkg/hooks"
	"github.com/agentstation/tablespec/pkg/options"
)

func TestCollectOrder(t *testing.T) {
	var calls []string
	record := func(name string) func(*hooks.Event) {
		return func(*hooks.Event) { calls = append(calls, name) }
	}

	set := hooks.Collect(options.Layers{
		Global: options.Options{"didDrawCell": record("global")},
		Call:   options.Options{"didDrawCell": record("call")},
	})

	require.Len(t, set.DidDrawCell, 2)
	for _, h := range set.DidDrawCell {
		assert.True(t, h(&hooks.Event{}))
	}
	assert.Equal(t, []string{"global", "call"}, calls)
}

func TestCollectEmpty(t *testing.T) {
	set := hooks.Collect(options.Layers{})
	for _, name := range hooks.Names() {
		list := set.Get(name)
		assert.NotNil(t, list, name)
		assert.Empty(t, list, name)
	}
}

func TestCollectForms(t *testing.T) {
	var typed hooks.Hook = func(*hooks.Event) bool { return false }
	set := hooks.Collect(options.Layers{
		Global:   options.Options{"willDrawCell": typed},
		Document: options.Options{"willDrawCell": func(*hooks.Event) bool { return true }},
		Call: options.Options{
			"willDrawCell": "not a function",
			"didDrawPage":  func(*hooks.Event) {},
			"didParseCell": nil,
		},
	})

	require.Len(t, set.WillDrawCell, 2)
	assert.False(t, set.WillDrawCell[0](&hooks.Event{}))
	assert.True(t, set.WillDrawCell[1](&hooks.Event{}))
	assert.Len(t, set.DidDrawPage, 1)
	assert.Empty(t, set.DidParseCell)
}

func TestMarshal(t *testing.T) {
	set := hooks.Collect(options.Layers{
		Global: options.Options{"didDrawPage": func(*hooks.Event) {}},
	})

	data, err := json.Marshal(set)
	require.NoError(t, err)
	assert.JSONEq(t, `{"didParseCell":0,"willDrawCell":0,"didDrawCell":0,"didDrawPage":1}`, string(data))

	v, err := set.MarshalYAML()
	require.NoError(t, err)
	assert.Equal(t, 1, v.(map[string]int)["didDrawPage"])
}
