package options

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
)

// Float converts any Go numeric value to float64.
func Float(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// Int converts an integral numeric value to int. Fractional floats are rejected.
func Int(v any) (int, bool) {
	f, ok := Float(v)
	if !ok || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

// Bool returns v as a bool.
func Bool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

// String returns v as a string.
func String(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// IsNumber reports whether v is a Go numeric value.
func IsNumber(v any) bool {
	_, ok := Float(v)
	return ok
}

// AsMap returns the keys and values of a mapping. Ordered keeps its declaration
// order; keys of plain Go maps are sorted. Non-string keys are formatted with fmt.
func AsMap(v any) ([]string, map[string]any, bool) {
	switch m := v.(type) {
	case nil:
		return nil, nil, false
	case Ordered:
		return m.Keys(), m.Map(), true
	case map[string]any:
		return sortedMapKeys(m), m, true
	case Options:
		return sortedMapKeys(map[string]any(m)), m, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return nil, nil, false
	}

	values := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		values[fmt.Sprint(iter.Key().Interface())] = iter.Value().Interface()
	}
	return sortedMapKeys(values), values, true
}

// IsMap reports whether v is a mapping AsMap understands.
func IsMap(v any) bool {
	_, _, ok := AsMap(v)
	return ok
}

// AsList returns the elements of any slice or array value.
func AsList(v any) ([]any, bool) {
	if l, ok := v.([]any); ok {
		return l, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if _, isOrdered := v.(Ordered); isOrdered {
		return nil, false
	}

	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func sortedMapKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
