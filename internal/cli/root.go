// Package cli is the enddate command tree. With no subcommand it starts the
// interactive selector; every other command prints a {"data": ...} envelope.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"enddate-cli/internal/format"
	"enddate-cli/internal/selection"
	"enddate-cli/internal/store"
	"enddate-cli/internal/tui"

	"cloudeng.io/logging/ctxlog"
	"github.com/spf13/cobra"
)

type App struct {
	Dir         string
	Format      string
	PrettyJSON  bool
	LogLevel    string
	StalePolicy string

	level slog.Level
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "enddate",
		Short:        "Pick an end date between two bounds (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive selector
  enddate

  # Seed the bounds and the current end date
  enddate init
  enddate bounds set --past 2023-6-15 --latest 2024-2-10
  enddate end set 2023-12-25

  # Shortcut for: enddate end set 2024-1-31
  enddate 2024-1-31

  # Change the year the way the selector would, then inspect the options
  enddate --stale-policy clamp pick --year 2024
  enddate options
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := app.level.UnmarshalText([]byte(strings.TrimSpace(app.LogLevel))); err != nil {
			return writeErr(cmd, invalidFlagError{flag: "log-level", value: app.LogLevel, err: err})
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		cmd.SetContext(ctxlog.NewJSONLogger(ctx, cmd.ErrOrStderr(), &slog.HandlerOptions{Level: app.level}))
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("ENDDATE_DIR", ""), "Path to store dir (default: <config dir>/state)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("ENDDATE_FORMAT", "json"), "Output format (json|edn|yaml)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("ENDDATE_LOG_LEVEL", "warn"), "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&app.StalePolicy, "stale-policy", envOr("ENDDATE_STALE_POLICY", ""), "What to do with a month/day that is no longer offered (keep|clamp|reset; default from config, else keep)")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newBoundsCmd(app))
	cmd.AddCommand(newEndCmd(app))
	cmd.AddCommand(newOptionsCmd(app))
	cmd.AddCommand(newPickCmd(app))
	cmd.AddCommand(newHistoryCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func runTUI(cmd *cobra.Command, app *App) error {
	s, err := loadStore(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	info, err := s.LoadSelectionInfo(cmd.Context())
	if err != nil {
		return writeErr(cmd, err)
	}
	policy, err := resolvePolicy(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	opts := tui.Options{Policy: policy}
	if cfg, err := store.LoadConfig(); err == nil && cfg.TUI != nil {
		opts.Glyphs = cfg.TUI.Glyphs
	}

	// The alt screen owns the terminal; logs go to a file in the store dir.
	f, err := os.OpenFile(filepath.Join(s.Dir, "enddate.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer f.Close()
	ctx := ctxlog.NewJSONLogger(cmd.Context(), f, &slog.HandlerOptions{Level: app.level})

	return tui.Run(ctx, s, *info, opts)
}

func loadStore(app *App) (store.Store, error) {
	dir := strings.TrimSpace(app.Dir)
	if dir == "" {
		d, err := store.DefaultDir()
		if err != nil {
			return store.Store{}, err
		}
		dir = d
		app.Dir = dir
	}
	return store.Store{Dir: dir}, nil
}

// loadInfo opens the store and reads the complete selection info.
func loadInfo(cmd *cobra.Command, app *App) (store.Store, *store.SelectionInfo, error) {
	s, err := loadStore(app)
	if err != nil {
		return s, nil, err
	}
	info, err := s.LoadSelectionInfo(cmd.Context())
	if err != nil {
		return s, nil, err
	}
	return s, info, nil
}

// resolvePolicy prefers --stale-policy (or ENDDATE_STALE_POLICY), then the
// global config.
func resolvePolicy(app *App) (selection.Policy, error) {
	v := strings.TrimSpace(app.StalePolicy)
	if v == "" {
		if cfg, err := store.LoadConfig(); err == nil {
			v = cfg.StalePolicy
		}
	}
	p, err := selection.ParsePolicy(v)
	if err != nil {
		return p, invalidFlagError{flag: "stale-policy", value: v, err: err}
	}
	return p, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), format.Envelope{Data: v}, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
