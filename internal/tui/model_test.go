package tui

import (
	"context"
	"strings"
	"testing"

	"enddate-cli/internal/options"
	"enddate-cli/internal/selection"
	"enddate-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/go-cmp/cmp"
	"github.com/muesli/termenv"
)

func testInfo() store.SelectionInfo {
	return store.SelectionInfo{Start: "2023-06-15", Past: "2001-1-1", Latest: "2024-02-10", End: "2023-12-25"}
}

func newTestModel(t *testing.T, opts Options) (model, store.Store) {
	t.Helper()
	s := store.Store{Dir: t.TempDir()}
	info := testInfo()
	if err := s.SaveSelectionInfo(context.Background(), info); err != nil {
		t.Fatalf("save: %v", err)
	}
	m, err := newModel(context.Background(), s, info, opts)
	if err != nil {
		t.Fatalf("newModel: %v", err)
	}
	return m, s
}

// send feeds msg to m and keeps running the resulting commands, feeding
// their messages back, the way the bubbletea runtime would.
func send(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(model)
	for cmd != nil {
		out := cmd()
		if out == nil {
			break
		}
		if _, isQuit := out.(tea.QuitMsg); isQuit {
			break
		}
		next, cmd = m.Update(out)
		m = next.(model)
	}
	return m
}

func keyRune(r rune) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}} }

func storedEnd(t *testing.T, s store.Store) string {
	t.Helper()
	si, err := s.LoadSelectionInfo(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return si.End
}

func TestModel_InitAppliesMountEmission(t *testing.T) {
	m, s := newTestModel(t, Options{})
	cmd := m.Init()
	if cmd == nil {
		t.Fatalf("expected Init to apply the mount emission")
	}
	next, _ := m.Update(cmd())
	m = next.(model)
	if m.applied != "2023-12-25" {
		t.Fatalf("applied = %q", m.applied)
	}
	hist, err := s.History(context.Background(), 0)
	if err != nil || len(hist) != 1 || hist[0].Source != "tui" {
		t.Fatalf("history = %+v, %v", hist, err)
	}
}

func TestModel_PickYearFromOpenDropdown(t *testing.T) {
	m, s := newTestModel(t, Options{})
	_ = m.sink.drain()

	if m.focus != 0 {
		t.Fatalf("expected year focus, got %d", m.focus)
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.drops[0].open {
		t.Fatalf("expected year dropdown to open")
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.drops[0].open {
		t.Fatalf("expected dropdown to close after pick")
	}
	if got := m.picker.State().Year; got != "2024" {
		t.Fatalf("year = %q", got)
	}
	if got := storedEnd(t, s); got != "2024-12-25" {
		t.Fatalf("stored end = %q", got)
	}
	if m.applied != "2024-12-25" {
		t.Fatalf("applied = %q", m.applied)
	}
}

func TestModel_ArrowsStepClosedDropdown(t *testing.T) {
	m, s := newTestModel(t, Options{})
	_ = m.sink.drain()

	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab}) // month
	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab}) // day
	if m.focus != 2 {
		t.Fatalf("focus = %d", m.focus)
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if got := m.picker.Composite(); got != "2023-12-24" {
		t.Fatalf("composite = %q", got)
	}
	m = send(t, m, keyRune('h')) // back to month
	m = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	// December is the last month; stepping past it stays put.
	if got := m.picker.Composite(); got != "2023-12-24" {
		t.Fatalf("composite = %q", got)
	}
	m = send(t, m, keyRune('k'))
	if got := m.picker.Composite(); got != "2023-11-24" {
		t.Fatalf("composite = %q", got)
	}
	if got := storedEnd(t, s); got != "2023-11-24" {
		t.Fatalf("stored end = %q", got)
	}
	if got := len(m.drops[2].list.Items()); got != 30 {
		t.Fatalf("day options for November = %d", got)
	}
}

func TestModel_AppliesOneEmissionAtATime(t *testing.T) {
	m, s := newTestModel(t, Options{})
	mount := m.Init()
	if mount == nil {
		t.Fatalf("expected mount emission to be applied")
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	for i := 0; i < 2; i++ {
		next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyDown})
		m = next.(model)
		if cmd != nil {
			t.Fatalf("pick %d started a second apply while one is running", i+1)
		}
	}
	if got := m.picker.Composite(); got != "2023-12-27" {
		t.Fatalf("composite = %q", got)
	}

	// Finishing the running apply sends only the newest pending value.
	next, cmd := m.Update(mount())
	m = next.(model)
	if cmd == nil {
		t.Fatalf("expected the pending emission to be applied next")
	}
	next, cmd = m.Update(cmd())
	m = next.(model)
	if cmd != nil {
		t.Fatalf("nothing should be left to apply")
	}

	if got := storedEnd(t, s); got != m.picker.Composite() {
		t.Fatalf("store holds %q while the selector shows %q", got, m.picker.Composite())
	}
	if m.applied != "2023-12-27" {
		t.Fatalf("applied = %q", m.applied)
	}
	hist, err := s.History(context.Background(), 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var ends []string
	for _, h := range hist {
		ends = append(ends, h.End)
	}
	if diff := cmp.Diff([]string{"2023-12-27", "2023-12-25"}, ends); diff != "" {
		t.Fatalf("history (-want +got):\n%s", diff)
	}
}

func TestModel_OnlyOneDropdownOpen(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.anyOpen() {
		t.Fatalf("moving focus should close the open dropdown")
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if !m.drops[1].open || m.drops[0].open {
		t.Fatalf("expected only month dropdown open")
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.anyOpen() {
		t.Fatalf("esc should close the dropdown")
	}
}

func TestModel_QuitSavesFocus(t *testing.T) {
	m, s := newTestModel(t, Options{})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab}) // wraps to day
	_, cmd := m.Update(keyRune('q'))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
	st, err := s.LoadTUIState()
	if err != nil || st.Focus != "day" {
		t.Fatalf("tui state = %+v, %v", st, err)
	}

	m2, err := newModel(context.Background(), s, testInfo(), Options{})
	if err != nil {
		t.Fatalf("newModel: %v", err)
	}
	if m2.focus != 2 {
		t.Fatalf("restored focus = %d", m2.focus)
	}
}

func TestModel_ClampPolicy(t *testing.T) {
	s := store.Store{Dir: t.TempDir()}
	info := store.SelectionInfo{Past: "2020-1-1", Latest: "2025-12-31", End: "2024-1-31"}
	m, err := newModel(context.Background(), s, info, Options{Policy: selection.PolicyClamp})
	if err != nil {
		t.Fatalf("newModel: %v", err)
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if got := m.picker.Composite(); got != "2024-2-29" {
		t.Fatalf("composite = %q", got)
	}
	if got := options.Labels(m.picker.Days()); len(got) != 29 {
		t.Fatalf("days = %v", got)
	}
}

func TestModel_InvalidInfo(t *testing.T) {
	s := store.Store{Dir: t.TempDir()}
	_, err := newModel(context.Background(), s, store.SelectionInfo{Past: "x", Latest: "2024-1-1", End: "2024-1-1"}, Options{})
	if err == nil {
		t.Fatalf("expected error for bad bounds")
	}
}

func TestModel_View(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Setenv("ENDDATE_TUI_GLYPHS", "")

	m, _ := newTestModel(t, Options{Glyphs: "ascii"})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	v := m.View()
	for _, want := range []string{"End date", "year", "month", "day", "2023 ^", "12 v", "range 2023-6-15 .. 2024-2-10", "end 2023-12-25", "* 2023"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q:\n%s", want, v)
		}
	}
}

func TestResolveGlyphs(t *testing.T) {
	t.Setenv("ENDDATE_TUI_GLYPHS", "")
	if resolveGlyphs("ascii") != glyphSetASCII || resolveGlyphs("") != glyphSetUnicode {
		t.Fatalf("configured glyphs not honored")
	}
	t.Setenv("ENDDATE_TUI_GLYPHS", "ascii")
	if resolveGlyphs("unicode") != glyphSetASCII {
		t.Fatalf("env should win over config")
	}
}

func TestStep(t *testing.T) {
	opts := options.Days(2024, 2)
	for _, tt := range []struct {
		cur   string
		delta int
		want  string
	}{
		{"10", 1, "11"},
		{"10", -1, "9"},
		{"1", -1, "1"},
		{"29", 1, "29"},
		{"31", 1, "1"},
		{"31", -1, "29"},
	} {
		it, ok := step(opts, tt.cur, tt.delta)
		if !ok || it.Label != tt.want {
			t.Errorf("step(%q, %d) = %q, %v; want %q", tt.cur, tt.delta, it.Label, ok, tt.want)
		}
	}
	if _, ok := step(nil, "1", 1); ok {
		t.Errorf("step on empty list should fail")
	}
}
