package cli

import (
	"context"

	"enddate-cli/internal/options"
	"enddate-cli/internal/selection"
	"enddate-cli/internal/store"

	"github.com/spf13/cobra"
)

func newBoundsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bounds",
		Short: "Show or change the range the end date is picked from",
	}
	cmd.AddCommand(newBoundsShowCmd(app))
	cmd.AddCommand(newBoundsSetCmd(app))
	cmd.AddCommand(newBoundsImportCmd(app))
	return cmd
}

type boundsView struct {
	Start  string `json:"start,omitempty"`
	Past   string `json:"past"`
	Latest string `json:"latest"`
	Lower  string `json:"lower"`
	Upper  string `json:"upper"`
	Years  int    `json:"years"`
}

func newBoundsView(in options.Inputs, b options.Bounds) boundsView {
	return boundsView{
		Start:  in.Start,
		Past:   in.Past,
		Latest: in.Latest,
		Lower:  b.Lower.String(),
		Upper:  b.Upper.String(),
		Years:  len(options.Years(b)),
	}
}

func newBoundsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the stored bounds and the range they resolve to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, info, err := loadInfo(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			b, err := options.Resolve(info.Bounds())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, newBoundsView(info.Bounds(), b))
		},
	}
}

func newBoundsSetCmd(app *App) *cobra.Command {
	var start, past, latest string
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change one or more bounds; the stored end date follows the same rules as the selector",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			if !f.Changed("start") && !f.Changed("past") && !f.Changed("latest") {
				return writeErr(cmd, missingFlagError{flags: []string{"start", "past", "latest"}})
			}
			s, err := loadStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			cur, err := s.ReadSelectionInfo(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			next := cur.Bounds()
			if f.Changed("start") {
				next.Start = start
			}
			if f.Changed("past") {
				next.Past = past
			}
			if f.Changed("latest") {
				next.Latest = latest
			}
			b, err := options.Resolve(next)
			if err != nil {
				return writeErr(cmd, err)
			}
			end, err := replaceBounds(cmd.Context(), app, s, *cur, next)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"bounds": newBoundsView(next, b),
				"end":    end,
			})
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "Lower bound that takes precedence over --past (Y-M-D; empty clears it)")
	cmd.Flags().StringVar(&past, "past", "", "Lower bound (Y-M-D)")
	cmd.Flags().StringVar(&latest, "latest", "", "Upper bound (Y-M-D)")
	return cmd
}

// replaceBounds stores next. When a complete selection is stored, the bounds
// change first runs through a Picker so the end date is re-derived the way the
// selector would; a changed end is applied in the same transaction as the
// bounds. Nothing is written when any step fails.
func replaceBounds(ctx context.Context, app *App, s store.Store, cur store.SelectionInfo, next options.Inputs) (string, error) {
	merged := cur
	merged.Start, merged.Past, merged.Latest = next.Start, next.Past, next.Latest
	if merged.Validate() != nil {
		return cur.End, s.ReplaceBounds(ctx, next, "", "")
	}
	policy, err := resolvePolicy(app)
	if err != nil {
		return "", err
	}
	var p *selection.Picker
	if cur.Validate() == nil {
		if p, err = selection.New(ctx, cur.PickerInputs(), nil, selection.WithPolicy(policy)); err == nil {
			err = p.SetBounds(ctx, next)
		}
	} else {
		p, err = selection.New(ctx, merged.PickerInputs(), nil, selection.WithPolicy(policy))
	}
	if err != nil {
		return "", err
	}
	end := p.Composite()
	applied := end
	if end == cur.End {
		applied = ""
	}
	if err := s.ReplaceBounds(ctx, next, applied, "bounds"); err != nil {
		return "", err
	}
	return end, nil
}

func newBoundsImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the stored selection info with a YAML or JSON file (start, past, latest, end)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := store.ReadSelectionInfoFile(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			b, err := options.Resolve(info.Bounds())
			if err != nil {
				return writeErr(cmd, err)
			}
			s, err := loadStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.SaveSelectionInfo(cmd.Context(), info); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"bounds": newBoundsView(info.Bounds(), b),
				"end":    info.End,
			})
		},
	}
}
