// Package tui is the interactive end-date selector: three dropdowns (year,
// month, day) driven by a selection.Picker, with every emitted end date
// applied back to the store.
package tui

import (
	"context"

	"enddate-cli/internal/selection"
	"enddate-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

type Options struct {
	Policy selection.Policy
	// Glyphs is "unicode" (default) or "ascii".
	Glyphs string
}

func Run(ctx context.Context, st store.Store, info store.SelectionInfo, opts Options) error {
	applyColorProfilePreference()
	m, err := newModel(ctx, st, info, opts)
	if err != nil {
		return err
	}
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(model); ok && fm.err != nil {
		return fm.err
	}
	return nil
}
