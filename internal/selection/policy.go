package selection

import (
	"fmt"
	"strconv"
	"strings"

	"enddate-cli/internal/options"
)

// Policy decides what happens to a stored month or day label that is no
// longer offered after its option list is regenerated.
type Policy int

const (
	// PolicyKeep leaves the label untouched.
	PolicyKeep Policy = iota
	// PolicyClamp moves the label to the nearest offered value.
	PolicyClamp
	// PolicyReset moves the label to the first offered value.
	PolicyReset
)

func (p Policy) String() string {
	switch p {
	case PolicyClamp:
		return "clamp"
	case PolicyReset:
		return "reset"
	default:
		return "keep"
	}
}

// ParsePolicy accepts "keep", "clamp" or "reset"; blank means keep.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "keep":
		return PolicyKeep, nil
	case "clamp":
		return PolicyClamp, nil
	case "reset":
		return PolicyReset, nil
	}
	return PolicyKeep, fmt.Errorf("unknown stale policy %q (expected keep|clamp|reset)", s)
}

// apply returns the label to store given the current list. ok is false when
// label is not offered, whatever the policy then did.
func (p Policy) apply(label string, list []options.Item) (string, bool) {
	if options.IndexOf(list, label) >= 0 {
		return label, true
	}
	if len(list) == 0 || p == PolicyKeep {
		return label, false
	}
	if p == PolicyReset {
		return list[0].Label, false
	}
	return nearest(label, list), false
}

func nearest(label string, list []options.Item) string {
	want, err := strconv.Atoi(strings.TrimSpace(label))
	if err != nil {
		return list[0].Label
	}
	best, bestDist := list[0].Label, -1
	for _, it := range list {
		v, err := strconv.Atoi(it.Label)
		if err != nil {
			continue
		}
		d := v - want
		if d < 0 {
			d = -d
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = it.Label, d
		}
	}
	return best
}
