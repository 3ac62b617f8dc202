package options

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/tablespec/pkg/errors"
)

// LoadFile reads an option layer from a YAML or JSON file.
func LoadFile(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	opts, err := Decode(data)
	if err != nil {
		return nil, errors.WrapParse(formatOf(path), path, err)
	}
	return opts, nil
}

// Load reads an option layer from r.
func Load(r io.Reader) (Options, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WrapIO("read", "", err)
	}
	opts, err := Decode(data)
	if err != nil {
		return nil, errors.WrapParse("yaml", "", err)
	}
	return opts, nil
}

// Decode parses a YAML document (JSON is accepted as a YAML subset) into a layer.
// Nested mappings decode to Ordered so declaration order survives.
func Decode(data []byte) (Options, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Options{}, nil
	}

	var raw any
	if err := yaml.UnmarshalWithOptions(data, &raw, yaml.UseOrderedMap()); err != nil {
		return nil, err
	}
	if raw == nil {
		return Options{}, nil
	}

	top, ok := normalize(raw).(Ordered)
	if !ok {
		return nil, fmt.Errorf("option layer must be a mapping, got %T", raw)
	}

	opts := make(Options, len(top))
	for _, p := range top {
		opts[p.Key] = p.Value
	}
	return opts, nil
}

// normalize converts decoded YAML values into the package's own types.
func normalize(v any) any {
	switch t := v.(type) {
	case yaml.MapSlice:
		out := make(Ordered, 0, len(t))
		for _, item := range t {
			out = append(out, Pair{Key: fmt.Sprint(item.Key), Value: normalize(item.Value)})
		}
		return out
	case map[string]any:
		out := make(Ordered, 0, len(t))
		for _, k := range sortedMapKeys(t) {
			out = append(out, Pair{Key: k, Value: normalize(t[k])})
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	default:
		return v
	}
}

func formatOf(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return "json"
	}
	return "yaml"
}
