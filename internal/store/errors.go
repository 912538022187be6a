package store

import (
	"errors"
	"fmt"
)

var errNoDir = errors.New("store dir is empty")

// ErrNotInitialized is matched by errors returned when required selection
// info has never been saved.
var ErrNotInitialized = errors.New("store not initialized")

type missingKeysError struct {
	dir  string
	keys []string
}

func (e missingKeysError) Error() string {
	return fmt.Sprintf("store %s is missing %v; run `enddate bounds import <file>`, or `enddate bounds set` followed by `enddate end set <Y-M-D>`", e.dir, e.keys)
}

func (e missingKeysError) Is(target error) bool { return target == ErrNotInitialized }
