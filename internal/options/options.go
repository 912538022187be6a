// Package options derives the selectable year, month and day lists for the
// end-date selector from a pair of date bounds.
//
// Month lists are only narrowed when both bounds fall in the same year and that
// year is selected; otherwise every year offers all twelve months. Day lists
// are narrowed by month length only, never by the bounds.
package options

import (
	"strconv"
	"strings"

	"enddate-cli/internal/calendar"

	cerrors "cloudeng.io/errors"
)

// Item is one entry of an option list. ID is the index within the list it
// was generated in and carries no meaning across regenerations.
type Item struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

// Inputs are the bound strings supplied by the state store.
type Inputs struct {
	Start  string `json:"start,omitempty" yaml:"start,omitempty"`
	Past   string `json:"past" yaml:"past"`
	Latest string `json:"latest" yaml:"latest"`
}

// Bounds is the effective lower and upper date for the selector.
type Bounds struct {
	Lower calendar.CalendarDate
	Upper calendar.CalendarDate
}

// Degenerate reports whether the lower bound is after the upper bound.
func (b Bounds) Degenerate() bool { return b.Lower.After(b.Upper) }

// SingleYear reports whether both bounds fall in the same year.
func (b Bounds) SingleYear() bool { return b.Lower.Year == b.Upper.Year }

// Resolve computes the effective bounds. Start wins over Past when it is not
// blank. Every unparseable bound is reported in the returned error.
func Resolve(in Inputs) (Bounds, error) {
	var (
		b    Bounds
		errs cerrors.M
		err  error
	)
	if strings.TrimSpace(in.Start) != "" {
		b.Lower, err = calendar.Parse(in.Start)
		errs.Append(annotate("start", err))
	} else {
		b.Lower, err = calendar.Parse(in.Past)
		errs.Append(annotate("past", err))
	}
	b.Upper, err = calendar.Parse(in.Latest)
	errs.Append(annotate("latest", err))
	if err := errs.Err(); err != nil {
		return Bounds{}, err
	}
	return b, nil
}

func annotate(name string, err error) error {
	if err == nil {
		return nil
	}
	return cerrors.Annotate(name+" bound", err)
}

func items(from, to int) []Item {
	if from > to {
		return []Item{}
	}
	out := make([]Item, 0, to-from+1)
	for v := from; v <= to; v++ {
		out = append(out, Item{ID: len(out), Label: strconv.Itoa(v)})
	}
	return out
}

// Years lists every year from the lower to the upper bound year, inclusive.
func Years(b Bounds) []Item {
	return items(b.Lower.Year, b.Upper.Year)
}

// Months lists the months offered for selectedYear.
func Months(b Bounds, selectedYear string) []Item {
	y, err := strconv.Atoi(strings.TrimSpace(selectedYear))
	if err == nil && b.SingleYear() && y == b.Lower.Year {
		return items(b.Lower.MonthNumber(), b.Upper.MonthNumber())
	}
	return items(1, 12)
}

// Days lists 1 through the last day of month in year. month must be 1-12.
func Days(year, month int) []Item {
	return items(1, calendar.LastDay(year, month))
}

// IndexOf returns the position of label in list, or -1.
func IndexOf(list []Item, label string) int {
	for i, it := range list {
		if it.Label == label {
			return i
		}
	}
	return -1
}

// Labels returns the labels of list in order.
func Labels(list []Item) []string {
	out := make([]string, len(list))
	for i, it := range list {
		out[i] = it.Label
	}
	return out
}
