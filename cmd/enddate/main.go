package main

import (
	"os"
	"strings"

	"enddate-cli/internal/cli"
)

// looksLikeDate reports whether s has the Y-M-D shape. Range checks are left
// to `end set`, which reports a proper error.
func looksLikeDate(s string) bool {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
		for _, r := range p {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}

func rewriteDirectEndArgs(argv []string) []string {
	// Convenience: `enddate <Y-M-D>` works like `enddate end set <Y-M-D>`.
	//
	// Cobra treats the first non-flag token as a subcommand, so we rewrite argv before parsing.
	// Persistent flags may come first (e.g. `enddate --dir ... 2024-1-31`), so we look for the
	// first positional token, not just argv[1].
	if len(argv) < 2 {
		return argv
	}

	// Unknown flags are skipped without their value so a date is never consumed as one.
	valueFlags := map[string]bool{
		"--dir":          true,
		"--format":       true,
		"--log-level":    true,
		"--stale-policy": true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	insert := func(at int) []string {
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:at]...)
		out = append(out, "end", "set")
		out = append(out, argv[at:]...)
		return out
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && looksLikeDate(argv[i+1]) {
				return insert(i)
			}
			return argv
		}

		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "=") || boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++
			}
			continue
		}

		if looksLikeDate(a) {
			return insert(i)
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteDirectEndArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
