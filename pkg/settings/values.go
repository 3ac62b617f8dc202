package settings

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/agentstation/tablespec/pkg/options"
)

// WidthMode says how the table width is determined.
type WidthMode string

// Width modes.
const (
	// WidthAuto fills the space between the horizontal margins.
	WidthAuto WidthMode = "auto"
	// WidthWrap sizes the table to its content.
	WidthWrap WidthMode = "wrap"
	// WidthFixed uses the given number of units.
	WidthFixed WidthMode = "fixed"
)

// Width is the resolved tableWidth option.
type Width struct {
	Mode  WidthMode
	Value float64 // only meaningful with WidthFixed
}

// DecodeWidth decodes "auto", "wrap" or a number.
func DecodeWidth(v any) (Width, bool) {
	if f, ok := options.Float(v); ok {
		return Width{Mode: WidthFixed, Value: f}, true
	}
	switch s, _ := options.String(v); WidthMode(s) {
	case WidthAuto:
		return Width{Mode: WidthAuto}, true
	case WidthWrap:
		return Width{Mode: WidthWrap}, true
	}
	return Width{}, false
}

// Raw returns the option form of the width: the mode name or the number.
func (w Width) Raw() any {
	if w.Mode == WidthFixed {
		return w.Value
	}
	return string(w.Mode)
}

// String returns a human readable width.
func (w Width) String() string {
	return fmt.Sprint(w.Raw())
}

// MarshalJSON encodes the width in its option form.
func (w Width) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.Raw())
}

// MarshalYAML encodes the width in its option form.
func (w Width) MarshalYAML() (any, error) {
	return w.Raw(), nil
}

type colorKind int

const (
	colorGray colorKind = iota
	colorRGB
	colorNamed
)

// Color is a line color given as a grey level, an [r, g, b] triple, or a hex or
// named string.
type Color struct {
	kind  colorKind
	gray  float64
	rgb   [3]float64
	named string
}

// Gray returns a grey level color.
func Gray(level float64) Color {
	return Color{kind: colorGray, gray: level}
}

// RGB returns an RGB color.
func RGB(r, g, b float64) Color {
	return Color{kind: colorRGB, rgb: [3]float64{r, g, b}}
}

// Named returns a hex or named color.
func Named(name string) Color {
	return Color{kind: colorNamed, named: name}
}

// DecodeColor decodes a number, a string or a list of three numbers.
func DecodeColor(v any) (Color, bool) {
	if f, ok := options.Float(v); ok {
		return Gray(f), true
	}
	if s, ok := options.String(v); ok && strings.TrimSpace(s) != "" {
		return Named(strings.TrimSpace(s)), true
	}
	if list, ok := options.AsList(v); ok && len(list) == 3 {
		var rgb [3]float64
		for i, c := range list {
			f, ok := options.Float(c)
			if !ok {
				return Color{}, false
			}
			rgb[i] = f
		}
		return RGB(rgb[0], rgb[1], rgb[2]), true
	}
	return Color{}, false
}

// Raw returns the option form of the color.
func (c Color) Raw() any {
	switch c.kind {
	case colorRGB:
		return []float64{c.rgb[0], c.rgb[1], c.rgb[2]}
	case colorNamed:
		return c.named
	default:
		return c.gray
	}
}

// String returns a human readable color.
func (c Color) String() string {
	if c.kind == colorRGB {
		return fmt.Sprintf("rgb(%g, %g, %g)", c.rgb[0], c.rgb[1], c.rgb[2])
	}
	return fmt.Sprint(c.Raw())
}

// MarshalJSON encodes the color in its option form.
func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Raw())
}

// MarshalYAML encodes the color in its option form.
func (c Color) MarshalYAML() (any, error) {
	return c.Raw(), nil
}

// Spacing is a resolved four-sided inset.
type Spacing struct {
	Top    float64 `json:"top" yaml:"top"`
	Right  float64 `json:"right" yaml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
	Left   float64 `json:"left" yaml:"left"`
}

// String returns the sides in CSS order.
func (s Spacing) String() string {
	return fmt.Sprintf("%g %g %g %g", s.Top, s.Right, s.Bottom, s.Left)
}

// SpacingFunc resolves a margin or padding option against a default inset.
type SpacingFunc func(v any, def float64) Spacing

// ParseSpacing is the default SpacingFunc.
//
// A number applies to every side. A list of up to four numbers expands like CSS:
// [all], [vertical, horizontal], [top, horizontal, bottom], [top, right, bottom,
// left]. A mapping takes top, right, bottom and left plus the vertical and
// horizontal shorthands; explicit sides win over shorthands and missing sides
// use the default. Anything else yields the default on every side. An explicit
// zero is honored.
func ParseSpacing(v any, def float64) Spacing {
	all := Spacing{Top: def, Right: def, Bottom: def, Left: def}
	if v == nil {
		return all
	}

	if f, ok := options.Float(v); ok {
		return Spacing{Top: f, Right: f, Bottom: f, Left: f}
	}

	if list, ok := options.AsList(v); ok {
		n := make([]float64, 0, 4)
		for _, item := range list {
			if len(n) == 4 {
				break
			}
			f, ok := options.Float(item)
			if !ok {
				f = def
			}
			n = append(n, f)
		}
		switch len(n) {
		case 0:
			return all
		case 1:
			return Spacing{Top: n[0], Right: n[0], Bottom: n[0], Left: n[0]}
		case 2:
			return Spacing{Top: n[0], Right: n[1], Bottom: n[0], Left: n[1]}
		case 3:
			return Spacing{Top: n[0], Right: n[1], Bottom: n[2], Left: n[1]}
		default:
			return Spacing{Top: n[0], Right: n[1], Bottom: n[2], Left: n[3]}
		}
	}

	if _, m, ok := options.AsMap(v); ok {
		side := func(key string, fallback float64) float64 {
			if f, ok := options.Float(m[key]); ok {
				return f
			}
			return fallback
		}
		vertical := side("vertical", def)
		horizontal := side("horizontal", def)
		return Spacing{
			Top:    side("top", vertical),
			Right:  side("right", horizontal),
			Bottom: side("bottom", vertical),
			Left:   side("left", horizontal),
		}
	}

	return all
}
