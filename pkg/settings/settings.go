// Package settings resolves the scalar and enum knobs of a table.
//
// Every field of Settings has a concrete value after Resolve: unset or
// undecodable options silently take their documented default.
package settings

import (
	"github.com/agentstation/tablespec/pkg/constants"
	"github.com/agentstation/tablespec/pkg/content"
	"github.com/agentstation/tablespec/pkg/options"
	"github.com/agentstation/tablespec/pkg/session"
)

// Option keys read by Resolve.
const (
	KeyIncludeHiddenHTML            = "includeHiddenHtml"
	KeyUseCSS                       = "useCss"
	KeyTheme                        = "theme"
	KeyStartY                       = "startY"
	KeyMargin                       = "margin"
	KeyPageBreak                    = "pageBreak"
	KeyRowPageBreak                 = "rowPageBreak"
	KeyTableWidth                   = "tableWidth"
	KeyShowHead                     = "showHead"
	KeyShowFoot                     = "showFoot"
	KeyTableLineWidth               = "tableLineWidth"
	KeyTableLineColor               = "tableLineColor"
	KeyHorizontalPageBreak          = "horizontalPageBreak"
	KeyHorizontalPageBreakRepeat    = "horizontalPageBreakRepeat"
	KeyHorizontalPageBreakBehaviour = "horizontalPageBreakBehaviour"
)

// Settings is the resolved set of table knobs.
type Settings struct {
	IncludeHiddenHTML bool         `json:"includeHiddenHtml" yaml:"includeHiddenHtml"`
	UseCSS            bool         `json:"useCss" yaml:"useCss"`
	Theme             Theme        `json:"theme" yaml:"theme"`
	StartY            float64      `json:"startY" yaml:"startY"`
	Margin            Spacing      `json:"margin" yaml:"margin"`
	PageBreak         PageBreak    `json:"pageBreak" yaml:"pageBreak"`
	RowPageBreak      RowPageBreak `json:"rowPageBreak" yaml:"rowPageBreak"`
	TableWidth        Width        `json:"tableWidth" yaml:"tableWidth"`
	ShowHead          ShowMode     `json:"showHead" yaml:"showHead"`
	ShowFoot          ShowMode     `json:"showFoot" yaml:"showFoot"`
	TableLineWidth    float64      `json:"tableLineWidth" yaml:"tableLineWidth"`
	TableLineColor    Color        `json:"tableLineColor" yaml:"tableLineColor"`

	HorizontalPageBreak          bool                `json:"horizontalPageBreak" yaml:"horizontalPageBreak"`
	HorizontalPageBreakRepeat    []content.DataKey   `json:"horizontalPageBreakRepeat" yaml:"horizontalPageBreakRepeat"`
	HorizontalPageBreakBehaviour HorizontalBehaviour `json:"horizontalPageBreakBehaviour" yaml:"horizontalPageBreakBehaviour"`
}

// Defaults returns the settings of an empty option bag on page 1 at scale 1.
func Defaults() Settings {
	return Resolve(nil, session.State{PageNumber: 1, ScaleFactor: 1}, nil)
}

// Resolve normalizes the merged option bag against the session state. A nil
// spacing func uses ParseSpacing.
func Resolve(opts options.Options, state session.State, spacing SpacingFunc) Settings {
	if spacing == nil {
		spacing = ParseSpacing
	}
	scale := state.Scale()

	s := Settings{
		IncludeHiddenHTML: boolOr(opts, KeyIncludeHiddenHTML, false),
		UseCSS:            boolOr(opts, KeyUseCSS, false),
		PageBreak:         enumOr(opts, KeyPageBreak, PageBreak.IsValid, PageBreakAuto),
		RowPageBreak:      enumOr(opts, KeyRowPageBreak, RowPageBreak.IsValid, RowPageBreakAuto),
		ShowHead:          showOr(opts, KeyShowHead),
		ShowFoot:          showOr(opts, KeyShowFoot),
		TableLineWidth:    floatOr(opts, KeyTableLineWidth, constants.DefaultTableLineWidth),
		TableLineColor:    Gray(constants.DefaultTableLineColor),
		TableWidth:        Width{Mode: WidthAuto},

		HorizontalPageBreak:          boolOr(opts, KeyHorizontalPageBreak, false),
		HorizontalPageBreakRepeat:    repeatKeys(opts),
		HorizontalPageBreakBehaviour: enumOr(opts, KeyHorizontalPageBreakBehaviour, HorizontalBehaviour.IsValid, AfterAllRows),
	}

	s.Theme = ThemeStriped
	if s.UseCSS {
		s.Theme = ThemePlain
	}
	s.Theme = enumOr(opts, KeyTheme, Theme.IsValid, s.Theme)

	if v, ok := opts.Lookup(KeyTableWidth); ok {
		if w, ok := DecodeWidth(v); ok {
			s.TableWidth = w
		}
	}
	if v, ok := opts.Lookup(KeyTableLineColor); ok {
		if c, ok := DecodeColor(v); ok {
			s.TableLineColor = c
		}
	}

	margin, _ := opts.Lookup(KeyMargin)
	s.Margin = spacing(margin, constants.DefaultMargin/scale)
	s.StartY = StartY(opts, state, s.Margin.Top)

	return s
}

// StartY resolves the vertical start position. An explicit number wins. Otherwise,
// when the previous table ended on the current page, the table continues below it
// after a gap of ContinuationGap scaled units. Otherwise the top margin is used.
// A startY of false or null counts as unset.
func StartY(opts options.Options, state session.State, marginTop float64) float64 {
	if v, ok := opts.Lookup(KeyStartY); ok {
		if f, ok := options.Float(v); ok {
			return f
		}
	}

	prev := state.Previous
	if prev != nil && prev.FinalY != nil && prev.EndPage() == state.PageNumber {
		return *prev.FinalY + constants.ContinuationGap/state.Scale()
	}
	return marginTop
}

func boolOr(opts options.Options, key string, def bool) bool {
	if v, ok := opts.Lookup(key); ok {
		if b, ok := options.Bool(v); ok {
			return b
		}
	}
	return def
}

func floatOr(opts options.Options, key string, def float64) float64 {
	if v, ok := opts.Lookup(key); ok {
		if f, ok := options.Float(v); ok {
			return f
		}
	}
	return def
}

func enumOr[T ~string](opts options.Options, key string, valid func(T) bool, def T) T {
	if v, ok := opts.Lookup(key); ok {
		if t, ok := enum(v, valid); ok {
			return t
		}
	}
	return def
}

func showOr(opts options.Options, key string) ShowMode {
	if v, ok := opts.Lookup(key); ok {
		if m, ok := DecodeShowMode(v, SectionModes(key)); ok {
			return m
		}
	}
	return ShowEveryPage
}

// repeatKeys decodes a single dataKey or a list of them.
func repeatKeys(opts options.Options) []content.DataKey {
	keys := []content.DataKey{}
	v, ok := opts.Lookup(KeyHorizontalPageBreakRepeat)
	if !ok {
		return keys
	}

	items, isList := options.AsList(v)
	if !isList {
		items = []any{v}
	}
	for _, item := range items {
		if k, err := content.ParseDataKey(item); err == nil {
			keys = append(keys, k)
		}
	}
	return keys
}
