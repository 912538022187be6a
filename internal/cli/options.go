package cli

import (
	"enddate-cli/internal/options"
	"enddate-cli/internal/selection"

	"github.com/spf13/cobra"
)

type optionsView struct {
	Bounds   boundsView     `json:"bounds"`
	Selected endView        `json:"selected"`
	Years    []options.Item `json:"years"`
	Months   []options.Item `json:"months"`
	Days     []options.Item `json:"days"`
}

func newOptionsView(p *selection.Picker) optionsView {
	st := p.State()
	return optionsView{
		Bounds:   newBoundsView(p.Inputs(), p.Bounds()),
		Selected: endView{End: st.Composite(), Year: st.Year, Month: st.Month, Day: st.Day},
		Years:    p.Years(),
		Months:   p.Months(),
		Days:     p.Days(),
	}
}

func newOptionsCmd(app *App) *cobra.Command {
	var year, month string
	cmd := &cobra.Command{
		Use:   "options",
		Short: "Print the year, month and day options for the stored (or overridden) selection",
		Long: `Print the option lists the selector would offer.

--year and --month override the stored selection for this command only;
nothing is saved.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, info, err := loadInfo(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			policy, err := resolvePolicy(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := selection.New(ctx, info.PickerInputs(), nil, selection.WithPolicy(policy))
			if err != nil {
				return writeErr(cmd, err)
			}
			if cmd.Flags().Changed("year") {
				p.SetYear(ctx, year)
			}
			if cmd.Flags().Changed("month") {
				p.SetMonth(ctx, month)
			}
			return writeOut(cmd, app, newOptionsView(p))
		},
	}
	cmd.Flags().StringVar(&year, "year", "", "Year label to compute options for")
	cmd.Flags().StringVar(&month, "month", "", "Month label to compute options for")
	return cmd
}
