package tui

import (
	"context"
	"strings"

	"enddate-cli/internal/selection"
	"enddate-cli/internal/store"

	"cloudeng.io/logging/ctxlog"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var fields = [3]selection.Field{selection.FieldYear, selection.FieldMonth, selection.FieldDay}

// emissionSink collects values emitted by the Picker until they can be
// applied to the store. At most one apply runs at a time, so the store and
// the history see emissions in order.
type emissionSink struct {
	pending  []string
	inFlight bool
}

func (s *emissionSink) push(v string) { s.pending = append(s.pending, v) }

func (s *emissionSink) drain() []string {
	out := s.pending
	s.pending = nil
	return out
}

type endAppliedMsg struct {
	end string
	err error
}

type model struct {
	ctx    context.Context
	store  store.Store
	picker *selection.Picker
	sink   *emissionSink
	glyphs glyphSet
	keys   keyMap

	drops [3]dropdown
	focus int

	width  int
	height int

	applied string
	err     error
}

func newModel(ctx context.Context, st store.Store, info store.SelectionInfo, opts Options) (model, error) {
	sink := &emissionSink{}
	p, err := selection.New(ctx, info.PickerInputs(), sink.push, selection.WithPolicy(opts.Policy))
	if err != nil {
		return model{}, err
	}
	gs := resolveGlyphs(opts.Glyphs)
	m := model{
		ctx:    ctx,
		store:  st,
		picker: p,
		sink:   sink,
		glyphs: gs,
		keys:   defaultKeyMap(),
	}
	for i, f := range fields {
		m.drops[i] = newDropdown(f, gs)
	}
	if ts, err := st.LoadTUIState(); err == nil {
		m.focus = focusIndex(ts.Focus)
	}
	m.syncDropdowns()
	return m, nil
}

func focusIndex(name string) int {
	for i, f := range fields {
		if f.String() == strings.TrimSpace(name) {
			return i
		}
	}
	return 0
}

func (m model) Init() tea.Cmd {
	// The mount emission reaches the store like any other.
	return m.flush()
}

func (m *model) syncDropdowns() {
	for i := range m.drops {
		f := m.drops[i].field
		m.drops[i].sync(m.picker.Options(f), m.picker.Label(f))
	}
}

// flush applies the latest pending emission, unless an apply is already
// running; the endAppliedMsg handler flushes again once it finishes.
func (m model) flush() tea.Cmd {
	if m.sink.inFlight {
		return nil
	}
	pending := m.sink.drain()
	if len(pending) == 0 {
		return nil
	}
	end := pending[len(pending)-1]
	m.sink.inFlight = true
	ctx, st := m.ctx, m.store
	return func() tea.Msg {
		return endAppliedMsg{end: end, err: st.ApplyEnd(ctx, end, "tui")}
	}
}

func (m *model) closeAll() {
	for i := range m.drops {
		m.drops[i].open = false
	}
}

func (m model) anyOpen() bool {
	for _, d := range m.drops {
		if d.open {
			return true
		}
	}
	return false
}

func (m *model) moveFocus(delta int) {
	m.closeAll()
	m.focus = (m.focus + delta + len(m.drops)) % len(m.drops)
}

func (m *model) pick(f selection.Field, label string) tea.Cmd {
	m.picker.Set(m.ctx, f, label)
	m.syncDropdowns()
	return m.flush()
}

func (m model) quit() (tea.Model, tea.Cmd) {
	if err := m.store.SaveTUIState(&store.TUIState{Focus: fields[m.focus].String()}); err != nil {
		ctxlog.Logger(m.ctx).Warn("save tui state", "error", err)
	}
	return m, tea.Quit
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case endAppliedMsg:
		m.sink.inFlight = false
		if msg.err != nil {
			m.err = msg.err
			ctxlog.Logger(m.ctx).Error("apply end date", "end", msg.end, "error", msg.err)
			return m, m.flush()
		}
		m.err = nil
		m.applied = msg.end
		return m, m.flush()

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := &m.drops[m.focus]
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Close):
		if m.anyOpen() {
			m.closeAll()
			return m, nil
		}
		return m.quit()

	case key.Matches(msg, m.keys.Toggle):
		if d.open {
			d.open = false
			if it, ok := d.highlighted(); ok {
				return m, m.pick(d.field, it.Label)
			}
			return m, nil
		}
		m.closeAll()
		d.open = true
		return m, nil

	case key.Matches(msg, m.keys.Next):
		m.moveFocus(1)
		return m, nil

	case key.Matches(msg, m.keys.Prev):
		m.moveFocus(-1)
		return m, nil

	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		if d.open {
			var cmd tea.Cmd
			d.list, cmd = d.list.Update(msg)
			return m, cmd
		}
		delta := 1
		if key.Matches(msg, m.keys.Up) {
			delta = -1
		}
		it, ok := step(m.picker.Options(d.field), m.picker.Label(d.field), delta)
		if !ok {
			return m, nil
		}
		return m, m.pick(d.field, it.Label)
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(styleTitle().Render("End date"))
	b.WriteString("\n\n")

	cols := make([]string, 0, len(m.drops))
	for i, d := range m.drops {
		arrow := m.glyphs.closed()
		if d.open {
			arrow = m.glyphs.opened()
		}
		label := m.picker.Label(d.field)
		box := styleBox(i == m.focus).Render(label + " " + arrow)
		col := lipgloss.JoinVertical(lipgloss.Left, styleMuted().Render(d.field.String()), box)
		if d.open {
			col = lipgloss.JoinVertical(lipgloss.Left, col, d.list.View())
		}
		cols = append(cols, col, "  ")
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	b.WriteString("\n\n")

	bounds := m.picker.Bounds()
	b.WriteString(styleMuted().Render("range " + bounds.Lower.String() + " .. " + bounds.Upper.String()))
	b.WriteString("\n")
	b.WriteString("end " + m.picker.Composite())
	if m.applied != "" && m.applied == m.picker.Composite() {
		b.WriteString(styleMuted().Render("  (saved)"))
	}
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(styleError().Render(m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	help := make([]string, 0, len(m.keys.help()))
	for _, k := range m.keys.help() {
		h := k.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	b.WriteString(styleMuted().Render(strings.Join(help, "  ")))
	return b.String()
}
