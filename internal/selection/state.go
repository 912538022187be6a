package selection

import "enddate-cli/internal/calendar"

// Field names one of the three selectors.
type Field int

const (
	FieldNone Field = iota
	FieldYear
	FieldMonth
	FieldDay
)

func (f Field) String() string {
	switch f {
	case FieldYear:
		return "year"
	case FieldMonth:
		return "month"
	case FieldDay:
		return "day"
	default:
		return "none"
	}
}

// State is the chosen label of each selector. Values are never mutated; the
// With* reducers return a copy.
type State struct {
	Year  string `json:"year"`
	Month string `json:"month"`
	Day   string `json:"day"`
}

// StateFromComposite seeds a State from an initial end date.
func StateFromComposite(end string) (State, error) {
	y, m, d, err := calendar.SplitComposite(end)
	if err != nil {
		return State{}, err
	}
	return State{Year: y, Month: m, Day: d}, nil
}

func (s State) WithYear(label string) State  { s.Year = label; return s }
func (s State) WithMonth(label string) State { s.Month = label; return s }
func (s State) WithDay(label string) State   { s.Day = label; return s }

// Composite formats the state as "year-month-day".
func (s State) Composite() string {
	return calendar.Compose(s.Year, s.Month, s.Day)
}

// Changed returns the highest-order field that differs between a and b.
func Changed(a, b State) Field {
	switch {
	case a.Year != b.Year:
		return FieldYear
	case a.Month != b.Month:
		return FieldMonth
	case a.Day != b.Day:
		return FieldDay
	}
	return FieldNone
}
