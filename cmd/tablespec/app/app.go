// Package app provides the application context and dependency management
// for the tablespec CLI. It centralizes configuration, logging and the table
// parser, and owns the command lifecycle.
package app

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/tablespec"
	"github.com/agentstation/tablespec/internal/config"
	"github.com/agentstation/tablespec/pkg/errors"
	"github.com/agentstation/tablespec/pkg/session"
)

// App represents the tablespec application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *config.Config
	logger *zerolog.Logger
	out    io.Writer

	// Parser (lazy-initialized, singleton)
	mu     sync.RWMutex
	parser *tablespec.Parser
}

// New creates a new App instance with the given version information.
// Configuration is loaded from the default search path and can be replaced
// with functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		out:     os.Stdout,
	}

	cfg, err := config.Load("")
	if err != nil {
		return nil, errors.NewConfigError("app", "loading config", err)
	}
	app.config = cfg

	logger := NewLogger(cfg)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *config.Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Out returns the writer command output goes to.
func (a *App) Out() io.Writer {
	return a.out
}

// Parser returns the table parser, creating it lazily if needed.
func (a *App) Parser() (*tablespec.Parser, error) {
	a.mu.RLock()
	if a.parser != nil {
		p := a.parser
		a.mu.RUnlock()
		return p, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.parser != nil {
		return a.parser, nil
	}

	p, err := tablespec.New(tablespec.WithLogger(a.logger))
	if err != nil {
		return nil, errors.NewConfigError("app", "creating parser", err)
	}
	a.parser = p
	return p, nil
}

// Shutdown releases process-wide state set up by a command. The global option
// layer is cleared so a later run in the same process starts clean.
func (a *App) Shutdown(_ context.Context) error {
	session.SetGlobalDefaults(nil)
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(cfg *config.Config) Option {
	return func(a *App) error {
		a.config = cfg
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithOutput sets the writer command output goes to.
func WithOutput(w io.Writer) Option {
	return func(a *App) error {
		a.out = w
		return nil
	}
}

// WithParser sets a custom parser (useful for testing).
func WithParser(p *tablespec.Parser) Option {
	return func(a *App) error {
		a.parser = p
		return nil
	}
}
