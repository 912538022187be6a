package tui

import (
	"os"
	"strings"
)

// Some fonts render the Unicode arrows poorly; ASCII is the fallback.
type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

// resolveGlyphs picks the set from ENDDATE_TUI_GLYPHS, then the configured
// preference. Unknown values mean Unicode.
func resolveGlyphs(configured string) glyphSet {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("ENDDATE_TUI_GLYPHS")))
	if v == "" {
		v = strings.ToLower(strings.TrimSpace(configured))
	}
	if v == "ascii" {
		return glyphSetASCII
	}
	return glyphSetUnicode
}

func (gs glyphSet) closed() string {
	if gs == glyphSetASCII {
		return "v"
	}
	return "▾"
}

func (gs glyphSet) opened() string {
	if gs == glyphSetASCII {
		return "^"
	}
	return "▴"
}

func (gs glyphSet) check() string {
	if gs == glyphSetASCII {
		return "*"
	}
	return "✓"
}
