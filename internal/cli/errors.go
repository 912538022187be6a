package cli

import (
	"fmt"
	"strings"
)

type invalidFlagError struct {
	flag  string
	value string
	err   error
}

func (e invalidFlagError) Error() string {
	return fmt.Sprintf("invalid --%s %q: %v", e.flag, e.value, e.err)
}

func (e invalidFlagError) Unwrap() error { return e.err }

type missingFlagError struct {
	flags []string
}

func (e missingFlagError) Error() string {
	if len(e.flags) == 1 {
		return fmt.Sprintf("missing --%s", e.flags[0])
	}
	return fmt.Sprintf("at least one of --%s is required", strings.Join(e.flags, ", --"))
}
