package options

import "sort"

// Merged is the flattened result of merging three layers.
type Merged struct {
	values     Options
	provenance Provenance
}

// Merge flattens the layers. For every key the highest scope holding a non-absent
// value wins; lower values it shadows are kept in the provenance.
func Merge(layers Layers) *Merged {
	m := &Merged{
		values:     make(Options),
		provenance: make(Provenance),
	}

	layers.Each(func(s Scope, o Options) {
		for _, key := range sortedKeys(o) {
			v, ok := o.Lookup(key)
			if !ok {
				continue
			}
			m.values[key] = v
			m.provenance.track(key, s, v)
		}
	})

	return m
}

// Lookup returns the merged value of key.
func (m *Merged) Lookup(key string) (any, bool) {
	return m.values.Lookup(key)
}

// Options returns a copy of the flattened option bag.
func (m *Merged) Options() Options {
	return m.values.Clone()
}

// Origin returns the scope the merged value of key came from.
func (m *Merged) Origin(key string) (Scope, bool) {
	e, ok := m.provenance[key]
	return e.Scope, ok
}

// Provenance returns where every merged value came from.
func (m *Merged) Provenance() Provenance {
	return m.provenance
}

// Explain returns the provenance entries sorted by key.
func (m *Merged) Explain() []Entry {
	return m.provenance.Sorted()
}

// MergeMaps shallow-merges mappings from lowest to highest precedence. Absent
// arguments and nil values are skipped, so they never shadow a lower mapping.
func MergeMaps(maps ...any) map[string]any {
	out := make(map[string]any)
	for _, m := range maps {
		keys, values, ok := AsMap(m)
		if !ok {
			continue
		}
		for _, k := range keys {
			if v := values[k]; v != nil {
				out[k] = v
			}
		}
	}
	return out
}

func sortedKeys(o Options) []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
