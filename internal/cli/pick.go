package cli

import (
	"enddate-cli/internal/selection"

	"github.com/spf13/cobra"
)

func newPickCmd(app *App) *cobra.Command {
	var year, month, day string
	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Pick a year, month and/or day the way the selector does, and store the result",
		Long: `Apply picks in year, month, day order.

Each pick regenerates the option lists downstream of it; a month or day that
is no longer offered is handled by --stale-policy. Every emitted end date is
printed, and the last one is stored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f := cmd.Flags()
			if !f.Changed("year") && !f.Changed("month") && !f.Changed("day") {
				return writeErr(cmd, missingFlagError{flags: []string{"year", "month", "day"}})
			}
			s, info, err := loadInfo(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			policy, err := resolvePolicy(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			var emitted []string
			p, err := selection.New(ctx, info.PickerInputs(), func(v string) { emitted = append(emitted, v) }, selection.WithPolicy(policy))
			if err != nil {
				return writeErr(cmd, err)
			}
			// The mount emission is the stored value.
			emitted = emitted[:0]

			if f.Changed("year") {
				p.SetYear(ctx, year)
			}
			if f.Changed("month") {
				p.SetMonth(ctx, month)
			}
			if f.Changed("day") {
				p.SetDay(ctx, day)
			}

			applied := false
			if n := len(emitted); n > 0 && emitted[n-1] != info.End {
				if err := s.ApplyEnd(ctx, emitted[n-1], "cli"); err != nil {
					return writeErr(cmd, err)
				}
				applied = true
			}
			if emitted == nil {
				emitted = []string{}
			}
			return writeOut(cmd, app, map[string]any{
				"emitted": emitted,
				"end":     p.Composite(),
				"applied": applied,
				"options": newOptionsView(p),
			})
		},
	}
	cmd.Flags().StringVar(&year, "year", "", "Year label")
	cmd.Flags().StringVar(&month, "month", "", "Month label")
	cmd.Flags().StringVar(&day, "day", "", "Day label")
	return cmd
}
