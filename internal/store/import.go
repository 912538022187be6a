package store

import (
	"fmt"
	"os"
	"strings"

	"enddate-cli/internal/calendar"

	cerrors "cloudeng.io/errors"
	"gopkg.in/yaml.v3"
)

// ReadSelectionInfoFile reads selection info from a YAML or JSON file with
// start, past, latest and end keys, and checks that every value present
// parses as a date.
func ReadSelectionInfoFile(path string) (SelectionInfo, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return SelectionInfo{}, err
	}
	var si SelectionInfo
	// JSON is valid YAML, so one decoder handles both.
	if err := yaml.Unmarshal(b, &si); err != nil {
		return SelectionInfo{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := si.Validate(); err != nil {
		return SelectionInfo{}, fmt.Errorf("%s: %w", path, err)
	}
	return si, nil
}

// Validate reports every missing required key and every value that is not a
// "Y-M-D" date.
func (si SelectionInfo) Validate() error {
	var errs cerrors.M
	if keys := si.missing(); len(keys) > 0 {
		errs.Append(fmt.Errorf("missing %s", strings.Join(keys, ", ")))
	}
	for _, f := range []struct {
		name, value string
	}{
		{keyStart, si.Start},
		{keyPast, si.Past},
		{keyLatest, si.Latest},
	} {
		if strings.TrimSpace(f.value) == "" {
			continue
		}
		if _, err := calendar.Parse(f.value); err != nil {
			errs.Append(cerrors.Annotate(f.name, err))
		}
	}
	if strings.TrimSpace(si.End) != "" {
		if _, _, _, err := calendar.SplitComposite(si.End); err != nil {
			errs.Append(cerrors.Annotate(keyEnd, err))
		}
	}
	return errs.Err()
}
