package cli

import (
	"strconv"

	"enddate-cli/internal/calendar"
	"enddate-cli/internal/options"

	"cloudeng.io/logging/ctxlog"
	"github.com/spf13/cobra"
)

func newEndCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "end",
		Short: "Show or set the stored end date",
	}
	cmd.AddCommand(newEndShowCmd(app))
	cmd.AddCommand(newEndSetCmd(app))
	return cmd
}

type endView struct {
	End   string `json:"end"`
	Year  string `json:"year"`
	Month string `json:"month"`
	Day   string `json:"day"`
}

func newEndView(end string) (endView, error) {
	y, m, d, err := calendar.SplitComposite(end)
	if err != nil {
		return endView{}, err
	}
	return endView{End: calendar.Compose(y, m, d), Year: y, Month: m, Day: d}, nil
}

func newEndShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the stored end date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, info, err := loadInfo(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			v, err := newEndView(info.End)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, v)
		},
	}
}

func newEndSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <Y-M-D>",
		Short: "Store a new end date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			y, m, d, err := calendar.ParseComposite(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			v := endView{End: calendar.Compose(y, m, d), Year: y, Month: m, Day: d}
			s, err := loadStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, err := calendar.Parse(v.End); err != nil {
				// Accepted: the selector stores such a day when only the month changes.
				ctxlog.Logger(ctx).Warn("day is past the end of its month", "end", v.End)
			}
			yi, _ := strconv.Atoi(y)
			mi, _ := strconv.Atoi(m)
			di, _ := strconv.Atoi(d)
			date := calendar.NewCalendarDate(yi, mi, di)
			if cur, err := s.ReadSelectionInfo(ctx); err == nil {
				if b, err := options.Resolve(cur.Bounds()); err == nil && (date.Before(b.Lower) || date.After(b.Upper)) {
					ctxlog.Logger(ctx).Warn("end date is outside the bounds", "end", v.End, "lower", b.Lower.String(), "upper", b.Upper.String())
				}
			}
			if err := s.ApplyEnd(ctx, v.End, "cli"); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, v)
		},
	}
}
