package tablespec

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/tablespec/pkg/errors"
	"github.com/agentstation/tablespec/pkg/markup"
	"github.com/agentstation/tablespec/pkg/settings"
	"github.com/agentstation/tablespec/pkg/validate"
)

// Option is a function that configures a Parser
type Option func(*Parser) error

// WithLogger configures the logger Parse writes to, in place of the context logger
func WithLogger(logger *zerolog.Logger) Option {
	return func(p *Parser) error {
		p.logger = logger
		return nil
	}
}

// WithValidator replaces the default option validation. A nil validator
// disables validation.
func WithValidator(v validate.Validator) Option {
	return func(p *Parser) error {
		if v == nil {
			v = validate.Nop
		}
		p.validator = v
		return nil
	}
}

// WithScraper replaces the HTML scraper used for the html option
func WithScraper(s markup.Scraper) Option {
	return func(p *Parser) error {
		if s == nil {
			return errors.NewConfigError("parser", "scraper must not be nil", errors.ErrInvalidInput)
		}
		p.scraper = s
		return nil
	}
}

// WithSpacing replaces the margin normalizer
func WithSpacing(fn settings.SpacingFunc) Option {
	return func(p *Parser) error {
		if fn == nil {
			return errors.NewConfigError("parser", "spacing func must not be nil", errors.ErrInvalidInput)
		}
		p.spacing = fn
		return nil
	}
}
