package tablespec

import (
	"github.com/agentstation/tablespec/pkg/content"
	"github.com/agentstation/tablespec/pkg/hooks"
	"github.com/agentstation/tablespec/pkg/options"
	"github.com/agentstation/tablespec/pkg/settings"
	"github.com/agentstation/tablespec/pkg/styles"
)

// Table is the resolved specification handed to the renderer. Every field holds
// a concrete value: settings are defaulted, style mappings and hook lists are
// non-nil, and content sections are possibly empty lists.
type Table struct {
	ID       any               `json:"id,omitempty" yaml:"id,omitempty"`
	Settings settings.Settings `json:"settings" yaml:"settings"`
	Styles   styles.Set        `json:"styles" yaml:"styles"`
	Hooks    hooks.Set         `json:"hooks" yaml:"hooks"`
	Content  content.Content   `json:"content" yaml:"content"`

	merged *options.Merged
}

// Columns returns the resolved column list.
func (t *Table) Columns() []content.Column {
	return t.Content.Columns
}

// Origin returns the scope the merged value of an option key came from.
func (t *Table) Origin(key string) (options.Scope, bool) {
	if t.merged == nil {
		return 0, false
	}
	return t.merged.Origin(key)
}

// Provenance returns which scope supplied each merged option key.
func (t *Table) Provenance() options.Provenance {
	if t.merged == nil {
		return options.Provenance{}
	}
	return t.merged.Provenance()
}

// Explain returns which scope won each merged option key, sorted by key.
func (t *Table) Explain() []options.Entry {
	if t.merged == nil {
		return nil
	}
	return t.merged.Explain()
}
