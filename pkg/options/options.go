// Package options holds the untyped option bags a table is configured with and
// the three-way merge that flattens them.
//
// Three layers exist for every table: process-wide (global) defaults, per-document
// defaults and the options passed to the call itself. Higher scopes win key by key;
// a key whose value is absent (missing or nil) never shadows a lower scope.
package options

import "fmt"

// Scope identifies one of the three option layers.
type Scope int

// Scopes in increasing precedence.
const (
	ScopeGlobal Scope = iota
	ScopeDocument
	ScopeCall
)

// String returns the lower-case scope name.
func (s Scope) String() string {
	switch s {
	case ScopeGlobal:
		return "global"
	case ScopeDocument:
		return "document"
	case ScopeCall:
		return "call"
	default:
		return fmt.Sprintf("scope(%d)", int(s))
	}
}

// MarshalText encodes the scope by name.
func (s Scope) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Scopes returns all scopes from lowest to highest precedence.
func Scopes() []Scope {
	return []Scope{ScopeGlobal, ScopeDocument, ScopeCall}
}

// Options is a single untyped option layer. Values are scalars, nested mappings
// (map[string]any or Ordered), lists, or callbacks.
type Options map[string]any

// Lookup returns the value of key, treating nil as absent.
func (o Options) Lookup(key string) (any, bool) {
	v, ok := o[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Has reports whether key is set to a non-absent value.
func (o Options) Has(key string) bool {
	_, ok := o.Lookup(key)
	return ok
}

// Clone returns a shallow copy of the layer.
func (o Options) Clone() Options {
	out := make(Options, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

// Layers groups the three option layers of one call. Layers are read-only inputs.
type Layers struct {
	Global   Options
	Document Options
	Call     Options
}

// Get returns the layer for a scope. Missing layers are returned as nil.
func (l Layers) Get(s Scope) Options {
	switch s {
	case ScopeGlobal:
		return l.Global
	case ScopeDocument:
		return l.Document
	case ScopeCall:
		return l.Call
	}
	return nil
}

// Each calls fn for every layer from lowest to highest precedence.
func (l Layers) Each(fn func(Scope, Options)) {
	for _, s := range Scopes() {
		fn(s, l.Get(s))
	}
}

// Values returns the non-absent values of key per layer, low to high.
func (l Layers) Values(key string) []Value {
	var out []Value
	l.Each(func(s Scope, o Options) {
		if v, ok := o.Lookup(key); ok {
			out = append(out, Value{Scope: s, Value: v})
		}
	})
	return out
}

// Value is a value tagged with the scope that declared it.
type Value struct {
	Scope Scope `json:"scope" yaml:"scope"`
	Value any   `json:"value" yaml:"value"`
}

// Pair is one entry of an Ordered mapping.
type Pair struct {
	Key   string
	Value any
}

// Ordered is a mapping that keeps the order its keys were declared in. Layers
// decoded from YAML or JSON use it so keyed rows keep their field order.
type Ordered []Pair

// Get returns the value stored under key.
func (o Ordered) Get(key string) (any, bool) {
	for _, p := range o {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

// Keys returns the keys in declaration order.
func (o Ordered) Keys() []string {
	keys := make([]string, len(o))
	for i, p := range o {
		keys[i] = p.Key
	}
	return keys
}

// Map returns the mapping as a plain map.
func (o Ordered) Map() map[string]any {
	m := make(map[string]any, len(o))
	for _, p := range o {
		m[p.Key] = p.Value
	}
	return m
}
