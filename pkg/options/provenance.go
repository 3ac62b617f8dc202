package options

import (
	"fmt"
	"sort"
)

// Entry records which scope supplied a merged value and what it shadowed.
type Entry struct {
	Key      string  `json:"key" yaml:"key"`
	Scope    Scope   `json:"scope" yaml:"scope"`
	Value    any     `json:"value" yaml:"value"`
	Shadowed []Value `json:"shadowed,omitempty" yaml:"shadowed,omitempty"`
}

// String returns a short human readable description of the entry.
func (e Entry) String() string {
	if len(e.Shadowed) == 0 {
		return fmt.Sprintf("%s from %s", e.Key, e.Scope)
	}
	return fmt.Sprintf("%s from %s (overrides %d lower value(s))", e.Key, e.Scope, len(e.Shadowed))
}

// Provenance maps option keys to the entry describing their merged value.
type Provenance map[string]Entry

// track records that scope s set key to v, shadowing any earlier entry.
func (p Provenance) track(key string, s Scope, v any) {
	prev, ok := p[key]
	entry := Entry{Key: key, Scope: s, Value: v}
	if ok {
		entry.Shadowed = append(append([]Value{}, prev.Shadowed...), Value{Scope: prev.Scope, Value: prev.Value})
	}
	p[key] = entry
}

// Sorted returns the entries ordered by key.
func (p Provenance) Sorted() []Entry {
	out := make([]Entry, 0, len(p))
	for _, e := range p {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// ByScope returns the keys each scope won.
func (p Provenance) ByScope() map[Scope][]string {
	out := make(map[Scope][]string)
	for _, e := range p.Sorted() {
		out[e.Scope] = append(out[e.Scope], e.Key)
	}
	return out
}
