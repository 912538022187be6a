package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	colorAccent     = lipgloss.AdaptiveColor{Light: "25", Dark: "75"}
	colorMuted      = lipgloss.AdaptiveColor{Light: "244", Dark: "243"}
	colorError      = lipgloss.AdaptiveColor{Light: "160", Dark: "203"}
	colorSelectedFg = lipgloss.Color("255")
	colorSelectedBg = lipgloss.Color("236")
)

func styleMuted() lipgloss.Style { return lipgloss.NewStyle().Foreground(colorMuted) }
func styleError() lipgloss.Style { return lipgloss.NewStyle().Foreground(colorError) }
func styleTitle() lipgloss.Style { return lipgloss.NewStyle().Bold(true).Foreground(colorAccent) }

func styleBox(focused bool) lipgloss.Style {
	s := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Width(dropdownWidth)
	if focused {
		return s.BorderForeground(colorAccent)
	}
	return s.BorderForeground(colorMuted)
}

// applyColorProfilePreference sets Lip Gloss's color profile. NO_COLOR wins;
// otherwise TERM/COLORTERM may raise termenv's guess, since probing tends to
// under-report on some terminals.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	profile := termenv.ColorProfile()
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	switch {
	case strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit"):
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	case strings.Contains(term, "256color"):
		if profile == termenv.Ascii || profile == termenv.ANSI {
			profile = termenv.ANSI256
		}
	}
	lipgloss.SetColorProfile(profile)
}
