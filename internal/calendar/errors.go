package calendar

import (
	"errors"
	"fmt"
)

// ErrInvalidDateFormat is matched (errors.Is) by every parse failure.
var ErrInvalidDateFormat = errors.New("invalid date format")

// FormatError describes a date string that is not "Y-M-D".
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid date %q: %s", e.Input, e.Reason)
}

func (e *FormatError) Is(target error) bool { return target == ErrInvalidDateFormat }
