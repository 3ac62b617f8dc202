// Package validate checks option layers before they are merged.
//
// Validation is fatal: the first invalid value aborts parsing with a
// *errors.ValidationError naming the scope and key. Deprecated keys only warn.
package validate

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/agentstation/tablespec/pkg/content"
	"github.com/agentstation/tablespec/pkg/errors"
	"github.com/agentstation/tablespec/pkg/hooks"
	"github.com/agentstation/tablespec/pkg/logging"
	"github.com/agentstation/tablespec/pkg/options"
	"github.com/agentstation/tablespec/pkg/settings"
	"github.com/agentstation/tablespec/pkg/styles"
)

// Validator checks the three option layers of a call.
type Validator interface {
	Validate(ctx context.Context, layers options.Layers) error
}

// Func adapts a function to the Validator interface.
type Func func(ctx context.Context, layers options.Layers) error

// Validate implements Validator.
func (f Func) Validate(ctx context.Context, layers options.Layers) error {
	return f(ctx, layers)
}

// Nop accepts everything.
var Nop Validator = Func(func(context.Context, options.Layers) error { return nil })

// Rule checks a single option value and returns a message describing the problem,
// or "" when the value is acceptable.
type Rule func(v any) string

// Warning reports a deprecated option.
type Warning struct {
	Scope       options.Scope
	Field       string
	Replacement string
}

// String returns a human readable warning.
func (w Warning) String() string {
	return fmt.Sprintf("%s option %s is deprecated, use %s instead", w.Scope, w.Field, w.Replacement)
}

// Result collects every problem found in a set of layers.
type Result struct {
	Errors   []*errors.ValidationError
	Warnings []Warning
}

// IsValid returns true if no errors were found.
func (r *Result) IsValid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are warnings.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// String returns a summary of the result.
func (r *Result) String() string {
	if r.IsValid() {
		if r.HasWarnings() {
			return fmt.Sprintf("Validation passed with %d warnings", len(r.Warnings))
		}
		return "Validation passed"
	}
	return fmt.Sprintf("Validation failed with %d errors", len(r.Errors))
}

// Rules is the default Validator: a rule per known key plus a table of
// deprecated keys. Unknown keys pass.
type Rules struct {
	rules      map[string]Rule
	deprecated map[string]string
}

// New returns the default rule set.
func New() *Rules {
	r := &Rules{
		rules:      make(map[string]Rule),
		deprecated: make(map[string]string),
	}

	r.Add(settings.KeyShowHead, showMode(settings.HeadModes()))
	r.Add(settings.KeyShowFoot, showMode(settings.FootModes()))
	r.Add(settings.KeyTheme, oneOf(settings.Themes()))
	r.Add(settings.KeyPageBreak, oneOf(settings.PageBreaks()))
	r.Add(settings.KeyRowPageBreak, oneOf(settings.RowPageBreaks()))
	r.Add(settings.KeyHorizontalPageBreakBehaviour, oneOf(settings.HorizontalBehaviours()))
	r.Add(settings.KeyStartY, startY)
	r.Add(settings.KeyTableWidth, tableWidth)
	r.Add(settings.KeyTableLineWidth, number)
	r.Add(settings.KeyTableLineColor, color)
	r.Add(settings.KeyMargin, spacing)
	r.Add(settings.KeyUseCSS, boolean)
	r.Add(settings.KeyIncludeHiddenHTML, boolean)
	r.Add(settings.KeyHorizontalPageBreak, boolean)
	r.Add(settings.KeyHorizontalPageBreakRepeat, dataKeys)

	for _, key := range []string{"head", "body", "foot"} {
		r.Add(key, rows)
	}
	r.Add("columns", list)
	r.Add("html", selector)
	r.Add("tableId", tableID)

	for _, key := range styles.Categories() {
		r.Add(key, mapping)
	}
	r.Add(styles.KeyColumnStyles, columnStyles)

	for _, name := range hooks.Names() {
		r.Add(name, hook)
	}

	r.Deprecate("showHeader", settings.KeyShowHead)
	r.Deprecate("showFooter", settings.KeyShowFoot)
	r.Deprecate("extendWidth", settings.KeyTableWidth)
	r.Deprecate("margins", settings.KeyMargin)
	r.Deprecate("startYPos", settings.KeyStartY)
	r.Deprecate("avoidPageSplit", settings.KeyPageBreak)
	r.Deprecate("afterPageContent", hooks.DidDrawPage)
	r.Deprecate("beforePageContent", hooks.DidDrawPage)
	r.Deprecate("createdCell", hooks.DidParseCell)
	r.Deprecate("drawCell", hooks.WillDrawCell)

	return r
}

// Add registers or replaces the rule for key.
func (r *Rules) Add(key string, rule Rule) {
	r.rules[key] = rule
}

// Deprecate registers key as deprecated in favour of replacement.
func (r *Rules) Deprecate(key, replacement string) {
	r.deprecated[key] = replacement
}

// Check validates every key of every layer and collects all problems. Layers
// are walked global first and keys in sorted order.
func (r *Rules) Check(layers options.Layers) *Result {
	result := &Result{}
	layers.Each(func(s options.Scope, o options.Options) {
		keys := make([]string, 0, len(o))
		for k := range o {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, key := range keys {
			v, ok := o.Lookup(key)
			if !ok {
				continue
			}
			if replacement, ok := r.deprecated[key]; ok {
				result.Warnings = append(result.Warnings, Warning{Scope: s, Field: key, Replacement: replacement})
			}
			rule, ok := r.rules[key]
			if !ok {
				continue
			}
			if msg := rule(v); msg != "" {
				result.Errors = append(result.Errors, errors.NewValidationError(s.String(), key, v, msg))
			}
		}
	})
	return result
}

// Validate implements Validator. Deprecation warnings are logged; the first
// error is returned.
func (r *Rules) Validate(ctx context.Context, layers options.Layers) error {
	result := r.Check(layers)

	logger := logging.FromContext(ctx)
	for _, w := range result.Warnings {
		logger.Warn().
			Str("scope", w.Scope.String()).
			Str("option", w.Field).
			Str("replacement", w.Replacement).
			Msg("Deprecated option")
	}

	if !result.IsValid() {
		return result.Errors[0]
	}
	return nil
}

func showMode(allowed []settings.ShowMode) Rule {
	return func(v any) string {
		if _, ok := settings.DecodeShowMode(v, allowed); ok {
			return ""
		}
		return "must be a boolean or one of " + join(allowed)
	}
}

func oneOf[T ~string](allowed []T) Rule {
	return func(v any) string {
		var s string
		switch x := v.(type) {
		case string:
			s = x
		case T:
			s = string(x)
		}
		for _, a := range allowed {
			if string(a) == s {
				return ""
			}
		}
		return "must be one of " + join(allowed)
	}
}

func startY(v any) string {
	if b, ok := v.(bool); ok && !b {
		return ""
	}
	if options.IsNumber(v) {
		return ""
	}
	return "must be a number or false"
}

func tableWidth(v any) string {
	if _, ok := settings.DecodeWidth(v); ok {
		return ""
	}
	return "must be a number, auto or wrap"
}

func number(v any) string {
	if options.IsNumber(v) {
		return ""
	}
	return "must be a number"
}

func boolean(v any) string {
	if _, ok := options.Bool(v); ok {
		return ""
	}
	return "must be a boolean"
}

func color(v any) string {
	if _, ok := settings.DecodeColor(v); ok {
		return ""
	}
	return "must be a grey level, a color string or an [r, g, b] list"
}

func spacing(v any) string {
	if options.IsNumber(v) || options.IsMap(v) {
		return ""
	}
	if items, ok := options.AsList(v); ok {
		if len(items) == 0 || len(items) > 4 {
			return "list must have between 1 and 4 entries"
		}
		for _, item := range items {
			if !options.IsNumber(item) {
				return "list entries must be numbers"
			}
		}
		return ""
	}
	return "must be a number, a list of numbers or a mapping of sides"
}

func dataKeys(v any) string {
	items, ok := options.AsList(v)
	if !ok {
		items = []any{v}
	}
	for _, item := range items {
		if _, err := content.ParseDataKey(item); err != nil {
			return "must be a data key or a list of data keys"
		}
	}
	return ""
}

// rows accepts whatever content.NewRows ingests: raw lists and mappings as
// well as typed rows.
func rows(v any) string {
	if _, ok := v.([]content.Row); ok {
		return ""
	}
	if _, ok := options.AsList(v); !ok {
		return "must be a list of rows"
	}
	if _, err := content.NewRows(v); err != nil {
		return err.Error()
	}
	return ""
}

func list(v any) string {
	if _, ok := options.AsList(v); ok {
		return ""
	}
	return "must be a list"
}

func selector(v any) string {
	switch v.(type) {
	case string, *html.Node:
		return ""
	}
	return "must be a selector string or an element"
}

func tableID(v any) string {
	if _, ok := v.(string); ok || options.IsNumber(v) {
		return ""
	}
	return "must be a string or a number"
}

func mapping(v any) string {
	if options.IsMap(v) {
		return ""
	}
	return "must be a mapping of style keys"
}

func columnStyles(v any) string {
	keys, m, ok := options.AsMap(v)
	if !ok {
		return "must be a mapping of column keys"
	}
	for _, k := range keys {
		if m[k] != nil && !options.IsMap(m[k]) {
			return fmt.Sprintf("styles of column %s must be a mapping", k)
		}
	}
	return ""
}

func hook(v any) string {
	if _, ok := hooks.AsHook(v); ok {
		return ""
	}
	return "must be a function"
}

func join[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
