package settings

import "slices"

// ShowMode controls on which pages the head or foot section is drawn.
type ShowMode string

// Display states for showHead and showFoot.
const (
	// ShowEveryPage draws the section on every page the table spans.
	ShowEveryPage ShowMode = "everyPage"
	// ShowFirstPage draws the head only on the first page.
	ShowFirstPage ShowMode = "firstPage"
	// ShowLastPage draws the foot only on the last page.
	ShowLastPage ShowMode = "lastPage"
	// ShowNever never draws the section.
	ShowNever ShowMode = "never"
)

// ShowModes returns all display states.
func ShowModes() []ShowMode {
	return []ShowMode{ShowEveryPage, ShowFirstPage, ShowLastPage, ShowNever}
}

// IsValid returns true if the mode is one of the defined constants.
func (m ShowMode) IsValid() bool {
	return slices.Contains(ShowModes(), m)
}

// String returns the string representation of the mode.
func (m ShowMode) String() string {
	return string(m)
}

// HeadModes returns the display states allowed for showHead.
func HeadModes() []ShowMode {
	return []ShowMode{ShowEveryPage, ShowFirstPage, ShowNever}
}

// FootModes returns the display states allowed for showFoot.
func FootModes() []ShowMode {
	return []ShowMode{ShowEveryPage, ShowLastPage, ShowNever}
}

// SectionModes returns the display states allowed for the showHead or showFoot
// key. Any other key gets every state.
func SectionModes(key string) []ShowMode {
	switch key {
	case KeyShowHead:
		return HeadModes()
	case KeyShowFoot:
		return FootModes()
	}
	return ShowModes()
}

// DecodeShowMode turns the boolean-or-string input into a ShowMode. true means
// every page and false means never. A string must be one of allowed; the head
// only knows firstPage and the foot only knows lastPage.
func DecodeShowMode(v any, allowed []ShowMode) (ShowMode, bool) {
	var m ShowMode
	switch x := v.(type) {
	case bool:
		if x {
			return ShowEveryPage, true
		}
		return ShowNever, true
	case string:
		m = ShowMode(x)
	case ShowMode:
		m = x
	default:
		return "", false
	}
	if slices.Contains(allowed, m) {
		return m, true
	}
	return "", false
}

// Theme is a named table look.
type Theme string

// Built-in themes.
const (
	ThemeStriped Theme = "striped"
	ThemeGrid    Theme = "grid"
	ThemePlain   Theme = "plain"
)

// Themes returns all themes.
func Themes() []Theme {
	return []Theme{ThemeStriped, ThemeGrid, ThemePlain}
}

// IsValid returns true if the theme is one of the defined constants.
func (t Theme) IsValid() bool {
	return slices.Contains(Themes(), t)
}

// String returns the string representation of the theme.
func (t Theme) String() string {
	return string(t)
}

// PageBreak controls whether the table may start on the current page.
type PageBreak string

// Page break policies.
const (
	PageBreakAuto   PageBreak = "auto"
	PageBreakAvoid  PageBreak = "avoid"
	PageBreakAlways PageBreak = "always"
)

// PageBreaks returns all page break policies.
func PageBreaks() []PageBreak {
	return []PageBreak{PageBreakAuto, PageBreakAvoid, PageBreakAlways}
}

// IsValid returns true if the policy is one of the defined constants.
func (p PageBreak) IsValid() bool {
	return slices.Contains(PageBreaks(), p)
}

// String returns the string representation of the policy.
func (p PageBreak) String() string {
	return string(p)
}

// RowPageBreak controls whether a row may be split across pages.
type RowPageBreak string

// Row page break policies.
const (
	RowPageBreakAuto  RowPageBreak = "auto"
	RowPageBreakAvoid RowPageBreak = "avoid"
)

// RowPageBreaks returns all row page break policies.
func RowPageBreaks() []RowPageBreak {
	return []RowPageBreak{RowPageBreakAuto, RowPageBreakAvoid}
}

// IsValid returns true if the policy is one of the defined constants.
func (p RowPageBreak) IsValid() bool {
	return slices.Contains(RowPageBreaks(), p)
}

// String returns the string representation of the policy.
func (p RowPageBreak) String() string {
	return string(p)
}

// HorizontalBehaviour controls the order columns are drawn in when the table is
// split horizontally.
type HorizontalBehaviour string

// Horizontal page break behaviours.
const (
	// AfterAllRows draws every row of one column group before the next group.
	AfterAllRows HorizontalBehaviour = "afterAllRows"
	// Immediately draws all column groups of a page before continuing.
	Immediately HorizontalBehaviour = "immediately"
)

// HorizontalBehaviours returns all behaviours.
func HorizontalBehaviours() []HorizontalBehaviour {
	return []HorizontalBehaviour{AfterAllRows, Immediately}
}

// IsValid returns true if the behaviour is one of the defined constants.
func (b HorizontalBehaviour) IsValid() bool {
	return slices.Contains(HorizontalBehaviours(), b)
}

// String returns the string representation of the behaviour.
func (b HorizontalBehaviour) String() string {
	return string(b)
}

// enum decodes a string-valued option into one of the allowed constants.
func enum[T ~string](v any, valid func(T) bool) (T, bool) {
	var s string
	switch x := v.(type) {
	case string:
		s = x
	case T:
		s = string(x)
	default:
		return "", false
	}
	if t := T(s); valid(t) {
		return t, true
	}
	return "", false
}
