package app

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/tablespec"
	"github.com/agentstation/tablespec/internal/output"
	"github.com/agentstation/tablespec/pkg/errors"
	"github.com/agentstation/tablespec/pkg/logging"
	"github.com/agentstation/tablespec/pkg/markup"
	"github.com/agentstation/tablespec/pkg/options"
	"github.com/agentstation/tablespec/pkg/session"
)

// inputFlags selects the option layers and session state a table is parsed with.
type inputFlags struct {
	global   string
	document string
	call     string
	html     string
	selector string
	page     int
	scale    float64
	previous string
}

func addInputFlags(cmd *cobra.Command, in *inputFlags) {
	cmd.Flags().StringVarP(&in.global, "global", "g", "", "global option layer file (YAML or JSON)")
	cmd.Flags().StringVarP(&in.document, "document", "d", "", "document option layer file (YAML or JSON)")
	cmd.Flags().StringVarP(&in.call, "call", "c", "", "table option layer file (YAML or JSON)")
	cmd.Flags().StringVar(&in.html, "html", "", "HTML file to use as the rendering surface")
	cmd.Flags().StringVarP(&in.selector, "selector", "s", "", "HTML table selector (#id, .class, tag or table:N)")
	cmd.Flags().IntVar(&in.page, "page", 1, "current page number")
	cmd.Flags().Float64Var(&in.scale, "scale", 0, "scale factor (default from config, or 1)")
	cmd.Flags().StringVar(&in.previous, "previous", "", `previous table as "startPage,pages[,finalY]"`)
}

// NewResolveCommand creates the resolve subcommand.
func (a *App) NewResolveCommand() *cobra.Command {
	var in inputFlags
	cmd := &cobra.Command{
		Use:     "resolve",
		GroupID: "core",
		Short:   "Resolve a table specification",
		Long: `Resolve merges the option layers and prints the resolved table:
settings, columns, rows, styles and hook counts.`,
		Example: `  tablespec resolve -g defaults.yaml -c table.yaml
  tablespec resolve --html report.html -s "#totals" -o markdown
  tablespec resolve -c table.yaml --page 2 --previous 2,1,310.5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := a.resolveTable(cmd.Context(), &in)
			if err != nil {
				return err
			}
			if a.format().IsTabular() {
				return a.write(TableReport(table))
			}
			return a.write(table)
		},
	}
	addInputFlags(cmd, &in)
	return cmd
}

// NewColumnsCommand creates the columns subcommand.
func (a *App) NewColumnsCommand() *cobra.Command {
	var in inputFlags
	cmd := &cobra.Command{
		Use:     "columns",
		GroupID: "core",
		Short:   "List the resolved columns of a table",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := a.resolveTable(cmd.Context(), &in)
			if err != nil {
				return err
			}
			if a.format().IsTabular() {
				return a.write(ColumnData(table.Columns()))
			}
			return a.write(table.Columns())
		},
	}
	addInputFlags(cmd, &in)
	return cmd
}

// NewExplainCommand creates the explain subcommand.
func (a *App) NewExplainCommand() *cobra.Command {
	var in inputFlags
	var byScope bool
	cmd := &cobra.Command{
		Use:     "explain",
		GroupID: "core",
		Short:   "Show which option layer supplied each setting",
		Example: `  tablespec explain -g defaults.yaml -d report.yaml -c table.yaml
  tablespec explain -g defaults.yaml -c table.yaml --by-scope -o table`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := a.resolveTable(cmd.Context(), &in)
			if err != nil {
				return err
			}
			if byScope {
				if a.format().IsTabular() {
					return a.write(ScopeData(table.Provenance()))
				}
				return a.write(scopeKeys(table.Provenance()))
			}
			if a.format().IsTabular() {
				return a.write(ExplainData(table.Explain()))
			}
			return a.write(table.Explain())
		},
	}
	addInputFlags(cmd, &in)
	cmd.Flags().BoolVar(&byScope, "by-scope", false, "group the winning option keys by layer")
	return cmd
}

// NewVersionCommand creates the version subcommand.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			_, err := fmt.Fprintf(w, "tablespec version %s\ncommit: %s\nbuilt: %s\nbuilt by: %s\ngo version: %s\nplatform: %s/%s\n",
				a.version, a.commit, a.date, a.builtBy, runtime.Version(), runtime.GOOS, runtime.GOARCH)
			return err
		},
	}
}

// resolveTable builds the session described by the input flags and parses the
// call layer against it.
func (a *App) resolveTable(ctx context.Context, in *inputFlags) (*tablespec.Table, error) {
	global, err := loadLayer(stringOr(in.global, a.config.GlobalFile))
	if err != nil {
		return nil, err
	}
	document, err := loadLayer(stringOr(in.document, a.config.DocumentFile))
	if err != nil {
		return nil, err
	}
	call, err := loadLayer(in.call)
	if err != nil {
		return nil, err
	}

	scale := in.scale
	if scale <= 0 {
		scale = a.config.ScaleFactor
	}

	sessionOpts := []session.Option{
		session.WithScaleFactor(scale),
		session.WithPage(in.page),
		session.WithDocumentDefaults(document),
	}
	if in.html != "" {
		surface, err := markup.Open(in.html)
		if err != nil {
			return nil, err
		}
		sessionOpts = append(sessionOpts, session.WithSurface(surface))
	}
	if in.previous != "" {
		snap, err := parsePrevious(in.previous)
		if err != nil {
			return nil, err
		}
		sessionOpts = append(sessionOpts, session.WithPrevious(snap))
	}
	if in.selector != "" {
		call[tablespec.KeyHTML] = in.selector
	}

	session.SetGlobalDefaults(global)
	doc := session.New(sessionOpts...)

	parser, err := a.Parser()
	if err != nil {
		return nil, err
	}

	a.logger.Debug().
		Str("global", in.global).
		Str("document", in.document).
		Str("call", in.call).
		Int("page", in.page).
		Float64("scale", doc.State().Scale()).
		Msg("Resolving table")

	return parser.Parse(logging.WithLogger(ctx, a.logger), doc, call)
}

// loadLayer reads an option layer file. An empty path is an empty layer.
func loadLayer(path string) (options.Options, error) {
	if path == "" {
		return options.Options{}, nil
	}
	return options.LoadFile(path)
}

// parsePrevious reads "startPage,pages[,finalY]".
func parsePrevious(s string) (session.Snapshot, error) {
	parts := strings.Split(s, ",")
	if len(parts) < 2 || len(parts) > 3 {
		return session.Snapshot{}, errors.NewValidationError("flag", "previous", s, "expected startPage,pages[,finalY]")
	}

	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return session.Snapshot{}, errors.NewValidationError("flag", "previous", s, "start page must be an integer")
	}
	pages, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return session.Snapshot{}, errors.NewValidationError("flag", "previous", s, "page count must be an integer")
	}

	snap := session.Snapshot{StartPageNumber: start, PageNumber: pages}
	if len(parts) == 3 {
		y, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if err != nil {
			return session.Snapshot{}, errors.NewValidationError("flag", "previous", s, "finalY must be a number")
		}
		snap.FinalY = &y
	}
	return snap, nil
}

// format returns the configured output format, detecting one when unset.
func (a *App) format() output.Format {
	return output.DetectFormat(a.config.Output)
}

func (a *App) write(data any) error {
	return output.NewFormatter(a.format()).Format(a.out, data)
}

func stringOr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
