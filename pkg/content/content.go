// Package content resolves the rows and columns of a table.
//
// Raw rows arrive as lists (positional) or mappings (keyed) from the merged option
// bag, or are scraped from markup on a live rendering surface. They are ingested
// once into the closed Row variant {PositionalRow, KeyedRow}; everything after
// ingestion works through the Row interface.
package content

import (
	"context"

	"github.com/agentstation/tablespec/pkg/errors"
	"github.com/agentstation/tablespec/pkg/logging"
)

// Content is the resolved row and column data of a table. Every section is a
// concrete, possibly empty, list.
type Content struct {
	Columns []Column `json:"columns" yaml:"columns"`
	Head    []Row    `json:"head" yaml:"head"`
	Body    []Row    `json:"body" yaml:"body"`
	Foot    []Row    `json:"foot" yaml:"foot"`
}

// Source carries the content-related options of a merged option bag.
type Source struct {
	Head    any
	Body    any
	Foot    any
	Columns any

	// HTML selects markup to scrape rows from. Nil means no markup source.
	HTML              any
	IncludeHiddenHTML bool
	UseCSS            bool
}

// ExtractOptions tunes markup extraction.
type ExtractOptions struct {
	IncludeHidden bool
	UseCSS        bool
}

// Sections holds scraped rows. A nil section was not produced by the markup.
type Sections struct {
	Head []Row
	Body []Row
	Foot []Row
}

// MarkupSource extracts rows from markup on a rendering surface.
type MarkupSource interface {
	// Available reports whether a live rendering surface exists.
	Available() bool

	// Extract scrapes the markup selected by selector. A nil result with a nil
	// error means nothing matched.
	Extract(ctx context.Context, selector any, opts ExtractOptions) (*Sections, error)
}

// Unify resolves the head, body and foot rows and the column list.
//
// Without a markup selector the explicit sections are used as given. With one,
// scraped sections replace the explicit ones they cover: head falls back to the
// explicit head, while body and foot fall back to the resolved head. When no
// rendering surface is available the extraction is skipped with an error-level
// log entry and the explicit sections stand.
func Unify(ctx context.Context, src Source, markup MarkupSource) (*Content, error) {
	head, err := NewRows(src.Head)
	if err != nil {
		return nil, errors.NewValidationError("", "head", src.Head, err.Error())
	}
	body, err := NewRows(src.Body)
	if err != nil {
		return nil, errors.NewValidationError("", "body", src.Body, err.Error())
	}
	foot, err := NewRows(src.Foot)
	if err != nil {
		return nil, errors.NewValidationError("", "foot", src.Foot, err.Error())
	}

	if src.HTML != nil {
		head, body, foot = fromMarkup(ctx, src, markup, head, body, foot)
	}

	c := &Content{Head: head, Body: body, Foot: foot}

	if src.Columns != nil {
		cols, err := ParseColumns(src.Columns)
		if err != nil {
			return nil, errors.NewValidationError("", "columns", src.Columns, err.Error())
		}
		c.Columns = cols
	} else {
		c.Columns = InferColumns(head, body, foot)
	}

	return c, nil
}

func fromMarkup(ctx context.Context, src Source, markup MarkupSource, head, body, foot []Row) ([]Row, []Row, []Row) {
	log := logging.FromContext(ctx)
	selector := describe(src.HTML)

	if markup == nil || !markup.Available() {
		err := errors.NewMarkupError(selector, "cannot parse markup without a rendering surface", errors.ErrUnavailable)
		log.Error().Err(err).Msg("Skipping markup extraction")
		return head, body, foot
	}

	sections, err := markup.Extract(ctx, src.HTML, ExtractOptions{
		IncludeHidden: src.IncludeHiddenHTML,
		UseCSS:        src.UseCSS,
	})
	if err != nil {
		log.Error().Err(errors.NewMarkupError(selector, "extraction failed", err)).Msg("Markup extraction failed")
		sections = nil
	}
	if sections == nil {
		log.Debug().Str("selector", selector).Msg("Markup produced no table")
		sections = &Sections{}
	}

	if sections.Head != nil {
		head = sections.Head
	}
	// Unproduced body and foot sections fall back to the head rows.
	body, foot = head, head
	if sections.Body != nil {
		body = sections.Body
	}
	if sections.Foot != nil {
		foot = sections.Foot
	}
	return head, body, foot
}

func describe(selector any) string {
	if s, ok := selector.(string); ok {
		return s
	}
	return "<element>"
}
