// Package hooks collects lifecycle callbacks declared across the option layers.
//
// Hooks are ordered here and never executed: the renderer invokes them later.
package hooks

import (
	"encoding/json"

	"github.com/agentstation/tablespec/pkg/options"
)

// Lifecycle hook option keys.
const (
	DidParseCell = "didParseCell"
	WillDrawCell = "willDrawCell"
	DidDrawCell  = "didDrawCell"
	DidDrawPage  = "didDrawPage"
)

// Names returns the recognized hook names in lifecycle order.
func Names() []string {
	return []string{DidParseCell, WillDrawCell, DidDrawCell, DidDrawPage}
}

// Event is handed to a hook by the renderer.
type Event struct {
	Name       string
	PageNumber int
	Section    string // "head", "body" or "foot"; empty for page hooks
	Row        int
	Column     any // data key of the cell's column
	Cell       any
	Table      any
}

// Hook is a lifecycle callback. Returning false from willDrawCell skips drawing
// the cell; other hooks ignore the result.
type Hook func(*Event) bool

// Set holds the collected hooks. Every list is non-nil.
type Set struct {
	DidParseCell []Hook
	WillDrawCell []Hook
	DidDrawCell  []Hook
	DidDrawPage  []Hook
}

// Get returns the list for a hook name.
func (s Set) Get(name string) []Hook {
	switch name {
	case DidParseCell:
		return s.DidParseCell
	case WillDrawCell:
		return s.WillDrawCell
	case DidDrawCell:
		return s.DidDrawCell
	case DidDrawPage:
		return s.DidDrawPage
	}
	return nil
}

// Counts returns the number of hooks per name.
func (s Set) Counts() map[string]int {
	out := make(map[string]int, 4)
	for _, name := range Names() {
		out[name] = len(s.Get(name))
	}
	return out
}

// MarshalJSON encodes the set as per-list counts; functions have no wire form.
func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Counts())
}

// MarshalYAML encodes the set as per-list counts.
func (s Set) MarshalYAML() (any, error) {
	return s.Counts(), nil
}

// Collect gathers the hooks of every layer, global first, call last. Layers that
// do not declare a hook, or declare something that is not a callback, are skipped.
func Collect(layers options.Layers) Set {
	collect := func(name string) []Hook {
		out := []Hook{}
		for _, v := range layers.Values(name) {
			if h, ok := AsHook(v.Value); ok {
				out = append(out, h)
			}
		}
		return out
	}

	return Set{
		DidParseCell: collect(DidParseCell),
		WillDrawCell: collect(WillDrawCell),
		DidDrawCell:  collect(DidDrawCell),
		DidDrawPage:  collect(DidDrawPage),
	}
}

// AsHook converts the callback forms accepted in option layers into a Hook.
func AsHook(v any) (Hook, bool) {
	switch fn := v.(type) {
	case Hook:
		return fn, fn != nil
	case func(*Event) bool:
		return fn, fn != nil
	case func(*Event):
		if fn == nil {
			return nil, false
		}
		return func(e *Event) bool {
			fn(e)
			return true
		}, true
	}
	return nil, false
}
