// Package tablespec turns layered table options into one resolved table
// specification for a renderer.
//
// Options come from three layers: process-wide defaults, document defaults and
// the options of a single call, in increasing precedence. Parse merges them,
// resolves every setting to a concrete value, unifies the row content (explicit
// rows or rows scraped from HTML), infers the columns, merges the style
// categories and collects the lifecycle hooks.
//
// Example usage:
//
//	doc := session.New(session.WithScaleFactor(72 / 25.4))
//	session.SetGlobalDefaults(options.Options{"theme": "grid"})
//
//	table, err := tablespec.Parse(ctx, doc, options.Options{
//	    "head": [][]any{{"Name", "Age"}},
//	    "body": [][]any{{"Ada", 36}, {"Alan", 41}},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Hand the table to the renderer, then record where it ended
//	doc.RecordTable(session.Snapshot{StartPageNumber: 1, PageNumber: 1, FinalY: &finalY})
package tablespec

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/agentstation/tablespec/pkg/content"
	"github.com/agentstation/tablespec/pkg/hooks"
	"github.com/agentstation/tablespec/pkg/logging"
	"github.com/agentstation/tablespec/pkg/markup"
	"github.com/agentstation/tablespec/pkg/options"
	"github.com/agentstation/tablespec/pkg/session"
	"github.com/agentstation/tablespec/pkg/settings"
	"github.com/agentstation/tablespec/pkg/styles"
	"github.com/agentstation/tablespec/pkg/validate"
)

// Content option keys.
const (
	KeyTableID = "tableId"
	KeyHead    = "head"
	KeyBody    = "body"
	KeyFoot    = "foot"
	KeyColumns = "columns"
	KeyHTML    = "html"
)

// Parser resolves option layers into a Table.
type Parser struct {
	logger    *zerolog.Logger
	validator validate.Validator
	scraper   markup.Scraper
	spacing   settings.SpacingFunc
}

// New creates a Parser with the default validator, scraper and margin normalizer
func New(opts ...Option) (*Parser, error) {
	p := &Parser{
		validator: validate.New(),
		scraper:   markup.NewHTMLScraper(),
		spacing:   settings.ParseSpacing,
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, fmt.Errorf("applying options: %w", err)
		}
	}

	return p, nil
}

// Parse resolves the call options against the document's layers and state.
//
// The document state is read once, before anything else. Validation failures
// abort with the validator's error and no Table. A missing rendering surface for
// the html option only logs an error; the explicit rows are used instead.
func (p *Parser) Parse(ctx context.Context, doc session.Document, call options.Options) (*Table, error) {
	if doc == nil {
		doc = session.New()
	}
	if p.logger != nil {
		ctx = logging.WithLogger(ctx, p.logger)
	}
	ctx = logging.WithOperation(ctx, "parse")
	id, _ := call.Lookup(KeyTableID)
	ctx = logging.WithTableID(ctx, id)
	logger := logging.FromContext(ctx)

	state := doc.State()
	layers := options.Layers{
		Global:   doc.GlobalOptions(),
		Document: doc.DocumentOptions(),
		Call:     call,
	}

	if err := p.validator.Validate(ctx, layers); err != nil {
		logger.Debug().Err(err).Msg("Option validation failed")
		return nil, fmt.Errorf("validating options: %w", err)
	}

	merged := options.Merge(layers)
	opts := merged.Options()

	s := settings.Resolve(opts, state, p.spacing)

	c, err := content.Unify(ctx, content.Source{
		Head:              opts[KeyHead],
		Body:              opts[KeyBody],
		Foot:              opts[KeyFoot],
		Columns:           opts[KeyColumns],
		HTML:              opts[KeyHTML],
		IncludeHiddenHTML: s.IncludeHiddenHTML,
		UseCSS:            s.UseCSS,
	}, markup.Bind(p.scraper, doc.Surface()))
	if err != nil {
		return nil, fmt.Errorf("resolving content: %w", err)
	}

	table := &Table{
		ID:       id,
		Settings: s,
		Styles:   styles.Merge(layers),
		Hooks:    hooks.Collect(layers),
		Content:  *c,
		merged:   merged,
	}

	logger.Debug().
		Int("page", state.PageNumber).
		Float64("start_y", s.StartY).
		Int("columns", len(c.Columns)).
		Int("body_rows", len(c.Body)).
		Msg("Parsed table")

	return table, nil
}

var defaultParser, _ = New()

// Parse resolves options with the default Parser.
func Parse(ctx context.Context, doc session.Document, call options.Options) (*Table, error) {
	return defaultParser.Parse(ctx, doc, call)
}
