package options

import (
	"bytes"
	"encoding/json"

	"github.com/goccy/go-yaml"
)

// MarshalJSON encodes the mapping as a JSON object in declaration order.
func (o Ordered) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(p.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the mapping as a YAML mapping in declaration order.
func (o Ordered) MarshalYAML() (any, error) {
	out := make(yaml.MapSlice, len(o))
	for i, p := range o {
		out[i] = yaml.MapItem{Key: p.Key, Value: p.Value}
	}
	return out, nil
}
