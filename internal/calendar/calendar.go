// Package calendar holds the date rules used by the end-date selector: parsing
// of "Y-M-D" bound strings, the Gregorian leap-year rule and month lengths.
package calendar

import (
	"fmt"
	"strconv"
	"strings"

	"cloudeng.io/datetime"
)

// Separator splits the year, month and day fields of a date string.
const Separator = "-"

// CalendarDate is a parsed year/month/day. Values returned by Parse always
// satisfy 1 <= Month <= 12 and 1 <= Day <= LastDay(Year, Month).
type CalendarDate datetime.CalendarDate

// NewCalendarDate returns the CalendarDate for year, month, day without validation.
func NewCalendarDate(year, month, day int) CalendarDate {
	return CalendarDate{Year: year, Month: datetime.Month(month), Day: day}
}

// MonthNumber returns the month as a plain int in 1-12.
func (d CalendarDate) MonthNumber() int { return int(d.Month) }

// Compare orders dates by year, then month, then day.
func (d CalendarDate) Compare(o CalendarDate) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(int(d.Month), int(o.Month))
	default:
		return cmpInt(d.Day, o.Day)
	}
}

func (d CalendarDate) Before(o CalendarDate) bool { return d.Compare(o) < 0 }
func (d CalendarDate) After(o CalendarDate) bool  { return d.Compare(o) > 0 }

// String renders the date unpadded, e.g. "2024-2-9".
func (d CalendarDate) String() string {
	return Compose(strconv.Itoa(d.Year), strconv.Itoa(int(d.Month)), strconv.Itoa(d.Day))
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// IsLeap reports whether year is a Gregorian leap year.
func IsLeap(year int) bool {
	return datetime.IsLeap(year)
}

// LastDay returns the number of days in month (1-12) of year.
// Passing a month outside 1-12 panics.
func LastDay(year, month int) int {
	if month < 1 || month > 12 {
		panic(fmt.Sprintf("calendar: month out of range: %d", month))
	}
	return datetime.DaysInMonth(year, datetime.Month(month))
}

// Compose formats the three fields as "year-month-day". Fields are used as
// given; callers normalize month and day first.
func Compose(year, month, day string) string {
	return year + Separator + month + Separator + day
}

func splitFields(text string) ([]string, error) {
	parts := strings.Split(strings.TrimSpace(text), Separator)
	if len(parts) != 3 {
		return nil, &FormatError{Input: text, Reason: fmt.Sprintf("expected 3 fields, got %d", len(parts))}
	}
	return parts, nil
}

func atoiField(text, name, v string) (int, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 0)
	if err != nil {
		return 0, &FormatError{Input: text, Reason: fmt.Sprintf("%s %q is not an integer", name, v)}
	}
	return int(n), nil
}

// Parse parses a "Y-M-D" string such as "2024-2-9" or "2024-02-09".
func Parse(text string) (CalendarDate, error) {
	parts, err := splitFields(text)
	if err != nil {
		return CalendarDate{}, err
	}
	year, err := atoiField(text, "year", parts[0])
	if err != nil {
		return CalendarDate{}, err
	}
	month, err := datetime.ParseNumericMonth(strings.TrimSpace(parts[1]))
	if err != nil {
		return CalendarDate{}, &FormatError{Input: text, Reason: fmt.Sprintf("month %q: %v", parts[1], err)}
	}
	day, err := atoiField(text, "day", parts[2])
	if err != nil {
		return CalendarDate{}, err
	}
	if last := datetime.DaysInMonth(year, month); day < 1 || day > last {
		return CalendarDate{}, &FormatError{Input: text, Reason: fmt.Sprintf("day %d outside 1-%d", day, last)}
	}
	return CalendarDate{Year: year, Month: month, Day: day}, nil
}

// SplitComposite splits a composite date into its three labels. The year is
// kept as given; month and day are normalized to unpadded decimal ("03" -> "3").
func SplitComposite(text string) (year, month, day string, err error) {
	parts, err := splitFields(text)
	if err != nil {
		return "", "", "", err
	}
	m, err := atoiField(text, "month", parts[1])
	if err != nil {
		return "", "", "", err
	}
	d, err := atoiField(text, "day", parts[2])
	if err != nil {
		return "", "", "", err
	}
	return parts[0], strconv.Itoa(m), strconv.Itoa(d), nil
}

// ParseComposite splits a composite end date like SplitComposite and checks
// that the year is an integer, the month is 1-12 and the day is 1-31. The day
// may run past the end of its month: a selection keeps such a day when only
// the month changes.
func ParseComposite(text string) (year, month, day string, err error) {
	year, month, day, err = SplitComposite(text)
	if err != nil {
		return "", "", "", err
	}
	if _, err := atoiField(text, "year", year); err != nil {
		return "", "", "", err
	}
	if m, _ := strconv.Atoi(month); m < 1 || m > 12 {
		return "", "", "", &FormatError{Input: text, Reason: fmt.Sprintf("month %s outside 1-12", month)}
	}
	if d, _ := strconv.Atoi(day); d < 1 || d > 31 {
		return "", "", "", &FormatError{Input: text, Reason: fmt.Sprintf("day %s outside 1-31", day)}
	}
	return year, month, day, nil
}
