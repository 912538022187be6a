package tui

import (
	"fmt"
	"io"
	"strings"

	"enddate-cli/internal/options"
	"enddate-cli/internal/selection"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

const (
	dropdownWidth     = 10
	dropdownMaxHeight = 10
)

type optionItem struct {
	options.Item
	current bool
}

func (i optionItem) Title() string       { return i.Label }
func (i optionItem) FilterValue() string { return i.Label }

// optionDelegate renders one option per line and marks the stored label.
type optionDelegate struct {
	glyphs   glyphSet
	normal   lipgloss.Style
	selected lipgloss.Style
}

func newOptionDelegate(gs glyphSet) optionDelegate {
	return optionDelegate{
		glyphs: gs,
		normal: lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
	}
}

func (d optionDelegate) Height() int                             { return 1 }
func (d optionDelegate) Spacing() int                            { return 0 }
func (d optionDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d optionDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		return
	}
	it, ok := item.(optionItem)
	if !ok {
		fmt.Fprint(w, item.FilterValue())
		return
	}
	style := d.normal
	if index == m.Index() {
		style = d.selected
	}
	mark := "  "
	if it.current {
		mark = d.glyphs.check() + " "
	}
	line := mark + it.Label
	if lineW := xansi.StringWidth(line); lineW < contentW {
		line += strings.Repeat(" ", contentW-lineW)
	} else if lineW > contentW {
		line = xansi.Cut(line, 0, contentW)
	}
	fmt.Fprint(w, style.Render(line))
}

// dropdown is one selector: a closed box showing the stored label, or an
// open list of the current options.
type dropdown struct {
	field selection.Field
	open  bool
	list  list.Model
}

func newDropdown(f selection.Field, gs glyphSet) dropdown {
	l := list.New([]list.Item{}, newOptionDelegate(gs), dropdownWidth, dropdownMaxHeight)
	l.SetShowTitle(false)
	l.SetFilteringEnabled(false)
	l.SetShowFilter(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()
	return dropdown{field: f, list: l}
}

// sync replaces the option list and highlights current when it is offered.
func (d *dropdown) sync(opts []options.Item, current string) {
	items := make([]list.Item, 0, len(opts))
	for _, o := range opts {
		items = append(items, optionItem{Item: o, current: o.Label == current})
	}
	_ = d.list.SetItems(items)
	h := len(items)
	if h > dropdownMaxHeight {
		h = dropdownMaxHeight
	}
	if h < 1 {
		h = 1
	}
	d.list.SetSize(dropdownWidth, h)
	if idx := options.IndexOf(opts, current); idx >= 0 {
		d.list.Select(idx)
	} else {
		d.list.Select(0)
	}
}

func (d dropdown) highlighted() (options.Item, bool) {
	it, ok := d.list.SelectedItem().(optionItem)
	if !ok {
		return options.Item{}, false
	}
	return it.Item, true
}

// step returns the option delta positions away from current, staying at the
// ends of the list.
func step(opts []options.Item, current string, delta int) (options.Item, bool) {
	if len(opts) == 0 {
		return options.Item{}, false
	}
	idx := options.IndexOf(opts, current)
	switch {
	case idx < 0 && delta > 0:
		idx = 0
	case idx < 0:
		idx = len(opts) - 1
	default:
		idx += delta
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(opts) {
		idx = len(opts) - 1
	}
	return opts[idx], true
}
