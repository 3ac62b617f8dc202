package content

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/agentstation/tablespec/pkg/options"
)

// DataKey identifies the value a column projects out of a row: a zero-based
// position for positional rows or a field name for keyed rows.
type DataKey struct {
	name  string
	index int
	named bool
}

// IndexKey returns a positional data key.
func IndexKey(i int) DataKey {
	return DataKey{index: i}
}

// NameKey returns a field-name data key.
func NameKey(name string) DataKey {
	return DataKey{name: name, named: true}
}

// ParseDataKey converts an integer or string into a DataKey.
func ParseDataKey(v any) (DataKey, error) {
	if s, ok := v.(string); ok {
		return NameKey(s), nil
	}
	if i, ok := options.Int(v); ok {
		return IndexKey(i), nil
	}
	return DataKey{}, fmt.Errorf("data key must be a string or integer, got %T", v)
}

// Index returns the position of a positional key.
func (k DataKey) Index() (int, bool) {
	return k.index, !k.named
}

// Name returns the field name of a keyed data key.
func (k DataKey) Name() (string, bool) {
	return k.name, k.named
}

// Value returns the key as an int or a string.
func (k DataKey) Value() any {
	if k.named {
		return k.name
	}
	return k.index
}

// String returns the key in the form used to address column styles, so the
// positional key 0 and the name "0" address the same column.
func (k DataKey) String() string {
	if k.named {
		return k.name
	}
	return strconv.Itoa(k.index)
}

// MarshalJSON encodes positional keys as numbers and names as strings.
func (k DataKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.Value())
}

// UnmarshalJSON decodes a number or a string.
func (k *DataKey) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := ParseDataKey(v)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MarshalYAML encodes the key like MarshalJSON does.
func (k DataKey) MarshalYAML() (any, error) {
	return k.Value(), nil
}
