package selection

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"enddate-cli/internal/calendar"
	"enddate-cli/internal/options"

	"cloudeng.io/logging/ctxlog"
	"github.com/google/go-cmp/cmp"
)

type recorder struct{ got []string }

func (r *recorder) onChange(v string) { r.got = append(r.got, v) }

func seq(from, to int) []string {
	out := []string{}
	for v := from; v <= to; v++ {
		out = append(out, strconv.Itoa(v))
	}
	return out
}

func newPicker(t *testing.T, in Inputs, opts ...Option) (*Picker, *recorder) {
	t.Helper()
	rec := &recorder{}
	p, err := New(context.Background(), in, rec.onChange, opts...)
	if err != nil {
		t.Fatalf("New(%+v): %v", in, err)
	}
	return p, rec
}

func scenarioInputs() Inputs {
	return Inputs{
		Inputs: options.Inputs{Start: "2023-06-15", Past: "2001-1-1", Latest: "2024-02-10"},
		End:    "2023-12-25",
	}
}

func TestPicker_MountEmitsSeededSelection(t *testing.T) {
	p, rec := newPicker(t, scenarioInputs())

	if diff := cmp.Diff([]string{"2023-12-25"}, rec.got); diff != "" {
		t.Fatalf("emissions (-want +got):\n%s", diff)
	}
	if !p.Emitter().Emitted() || p.Emitter().Last() != "2023-12-25" {
		t.Fatalf("emitter state: emitted=%v last=%q", p.Emitter().Emitted(), p.Emitter().Last())
	}
	if diff := cmp.Diff([]string{"2023", "2024"}, options.Labels(p.Years())); diff != "" {
		t.Fatalf("years (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(seq(1, 12), options.Labels(p.Months())); diff != "" {
		t.Fatalf("months (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(seq(1, 31), options.Labels(p.Days())); diff != "" {
		t.Fatalf("days (-want +got):\n%s", diff)
	}
}

func TestPicker_StaleMonthIsKeptByDefault(t *testing.T) {
	ctx := context.Background()
	p, rec := newPicker(t, scenarioInputs())

	p.SetYear(ctx, "2024")

	// Bound years differ, so every year offers all twelve months and the
	// stored month survives even though 2024-12 is past the upper bound.
	if diff := cmp.Diff(seq(1, 12), options.Labels(p.Months())); diff != "" {
		t.Fatalf("months (-want +got):\n%s", diff)
	}
	if got := p.State().Month; got != "12" {
		t.Fatalf("month = %q, want 12", got)
	}
	if diff := cmp.Diff(seq(1, 31), options.Labels(p.Days())); diff != "" {
		t.Fatalf("days (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"2023-12-25", "2024-12-25"}, rec.got); diff != "" {
		t.Fatalf("emissions (-want +got):\n%s", diff)
	}
}

func TestPicker_DaysFollowYearAndMonth(t *testing.T) {
	ctx := context.Background()
	p, rec := newPicker(t, Inputs{
		Inputs: options.Inputs{Past: "2020-1-1", Latest: "2025-12-31"},
		End:    "2023-2-10",
	})
	if got := len(p.Days()); got != 28 {
		t.Fatalf("days in 2023-02 = %d", got)
	}
	p.SetYear(ctx, "2024")
	if got := len(p.Days()); got != 29 {
		t.Fatalf("days in 2024-02 = %d", got)
	}
	p.SetMonth(ctx, "4")
	if got := len(p.Days()); got != 30 {
		t.Fatalf("days in 2024-04 = %d", got)
	}
	p.SetDay(ctx, "30")
	if got := p.Composite(); got != "2024-4-30" {
		t.Fatalf("composite = %q", got)
	}
	want := []string{"2023-2-10", "2024-2-10", "2024-4-10", "2024-4-30"}
	if diff := cmp.Diff(want, rec.got); diff != "" {
		t.Fatalf("emissions (-want +got):\n%s", diff)
	}
}

func TestPicker_UnchangedPickDoesNotEmit(t *testing.T) {
	ctx := context.Background()
	p, rec := newPicker(t, scenarioInputs())
	p.SetYear(ctx, "2023")
	p.SetMonth(ctx, "12")
	p.PickDay(ctx, options.Item{ID: 24, Label: "25"})
	if len(rec.got) != 1 {
		t.Fatalf("expected only the mount emission, got %v", rec.got)
	}
}

func TestPicker_PickReadsOnlyLabel(t *testing.T) {
	ctx := context.Background()
	p, _ := newPicker(t, scenarioInputs())
	p.PickMonth(ctx, options.Item{ID: 99, Label: "7"})
	if got := p.State().Month; got != "7" {
		t.Fatalf("month = %q", got)
	}
}

func TestPicker_SameYearBoundsClampMonths(t *testing.T) {
	p, _ := newPicker(t, Inputs{
		Inputs: options.Inputs{Start: "2024-03-10", Latest: "2024-11-05"},
		End:    "2024-5-5",
	})
	if diff := cmp.Diff(seq(3, 11), options.Labels(p.Months())); diff != "" {
		t.Fatalf("months (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"2024"}, options.Labels(p.Years())); diff != "" {
		t.Fatalf("years (-want +got):\n%s", diff)
	}
}

func TestPicker_Policies(t *testing.T) {
	in := Inputs{
		Inputs: options.Inputs{Start: "2024-03-10", Latest: "2024-11-05"},
		End:    "2023-1-31",
	}
	tests := []struct {
		policy    Policy
		wantMonth string
		wantDay   string
	}{
		{PolicyKeep, "1", "31"},
		{PolicyClamp, "3", "31"},
		{PolicyReset, "3", "31"},
	}
	for _, tt := range tests {
		t.Run(tt.policy.String(), func(t *testing.T) {
			ctx := context.Background()
			p, rec := newPicker(t, in, WithPolicy(tt.policy))
			// 2023 is outside the single bound year: all months offered.
			if got := p.State().Month; got != "1" {
				t.Fatalf("mount month = %q", got)
			}
			p.SetYear(ctx, "2024")
			if got := p.State().Month; got != tt.wantMonth {
				t.Fatalf("month = %q, want %q", got, tt.wantMonth)
			}
			if got := p.State().Day; got != tt.wantDay {
				t.Fatalf("day = %q, want %q", got, tt.wantDay)
			}
			if got := rec.got[len(rec.got)-1]; got != p.Composite() {
				t.Fatalf("last emission %q != composite %q", got, p.Composite())
			}
		})
	}
}

func TestPicker_ClampDayToMonthLength(t *testing.T) {
	ctx := context.Background()
	in := Inputs{
		Inputs: options.Inputs{Past: "2020-1-1", Latest: "2025-12-31"},
		End:    "2024-1-31",
	}

	keep, _ := newPicker(t, in)
	keep.SetMonth(ctx, "2")
	if got := keep.Composite(); got != "2024-2-31" {
		t.Fatalf("keep: composite = %q", got)
	}

	clamp, _ := newPicker(t, in, WithPolicy(PolicyClamp))
	clamp.SetMonth(ctx, "2")
	if got := clamp.Composite(); got != "2024-2-29" {
		t.Fatalf("clamp: composite = %q", got)
	}

	reset, _ := newPicker(t, in, WithPolicy(PolicyReset))
	reset.SetMonth(ctx, "2")
	if got := reset.Composite(); got != "2024-2-1" {
		t.Fatalf("reset: composite = %q", got)
	}
}

func TestPicker_SetBoundsPropagatesInOrder(t *testing.T) {
	ctx := context.Background()
	p, rec := newPicker(t, scenarioInputs(), WithPolicy(PolicyClamp))

	err := p.SetBounds(ctx, options.Inputs{Start: "2023-1-1", Latest: "2023-9-30"})
	if err != nil {
		t.Fatalf("SetBounds: %v", err)
	}
	if diff := cmp.Diff([]string{"2023"}, options.Labels(p.Years())); diff != "" {
		t.Fatalf("years (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(seq(1, 9), options.Labels(p.Months())); diff != "" {
		t.Fatalf("months (-want +got):\n%s", diff)
	}
	// Month 12 clamps to 9, then the day list is built for September.
	if diff := cmp.Diff(seq(1, 30), options.Labels(p.Days())); diff != "" {
		t.Fatalf("days (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"2023-12-25", "2023-9-25"}, rec.got); diff != "" {
		t.Fatalf("emissions (-want +got):\n%s", diff)
	}

	// Same inputs again: nothing to do.
	if err := p.SetBounds(ctx, p.Inputs()); err != nil {
		t.Fatalf("SetBounds: %v", err)
	}
	if len(rec.got) != 2 {
		t.Fatalf("unexpected emission: %v", rec.got)
	}
}

func TestPicker_SetBoundsErrorLeavesStateAlone(t *testing.T) {
	ctx := context.Background()
	p, rec := newPicker(t, scenarioInputs())
	before := p.Bounds()
	err := p.SetBounds(ctx, options.Inputs{Past: "2023-1", Latest: "2024-1-1"})
	if !errors.Is(err, calendar.ErrInvalidDateFormat) {
		t.Fatalf("expected ErrInvalidDateFormat, got %v", err)
	}
	if p.Bounds() != before || len(rec.got) != 1 {
		t.Fatalf("picker changed after failed SetBounds")
	}
}

func TestPicker_DegenerateBounds(t *testing.T) {
	p, rec := newPicker(t, Inputs{
		Inputs: options.Inputs{Past: "2025-1-1", Latest: "2024-1-1"},
		End:    "2024-6-1",
	})
	if len(p.Years()) != 0 {
		t.Fatalf("expected no years, got %v", p.Years())
	}
	if len(rec.got) != 1 || rec.got[0] != "2024-6-1" {
		t.Fatalf("emissions = %v", rec.got)
	}
}

func TestPicker_InvalidInputs(t *testing.T) {
	ctx := context.Background()
	for _, in := range []Inputs{
		{Inputs: options.Inputs{Past: "bad", Latest: "2024-1-1"}, End: "2024-1-1"},
		{Inputs: options.Inputs{Past: "2020-1-1", Latest: "2024-1-1"}, End: "2024-1"},
	} {
		called := false
		_, err := New(ctx, in, func(string) { called = true })
		if !errors.Is(err, calendar.ErrInvalidDateFormat) {
			t.Errorf("New(%+v): expected ErrInvalidDateFormat, got %v", in, err)
		}
		if called {
			t.Errorf("New(%+v): callback should not run on error", in)
		}
	}
}

func TestPicker_UnparseableMonthYieldsNoDaysAndLogs(t *testing.T) {
	var buf bytes.Buffer
	ctx := ctxlog.NewJSONLogger(context.Background(), &buf, nil)

	p, err := New(ctx, scenarioInputs(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p.SetMonth(ctx, "13")
	if len(p.Days()) != 0 {
		t.Fatalf("expected empty day list, got %d", len(p.Days()))
	}
	if !strings.Contains(buf.String(), "cannot derive days") {
		t.Fatalf("expected a warning in the log, got:\n%s", buf.String())
	}
}

func TestPicker_Dispatch(t *testing.T) {
	ctx := context.Background()
	p, _ := newPicker(t, scenarioInputs())
	p.Set(ctx, FieldDay, "1")
	p.Set(ctx, FieldMonth, "7")
	p.Set(ctx, FieldYear, "2024")
	if got := p.Composite(); got != "2024-7-1" {
		t.Fatalf("composite = %q", got)
	}
	for _, f := range []Field{FieldYear, FieldMonth, FieldDay} {
		if len(p.Options(f)) == 0 || p.Label(f) == "" {
			t.Fatalf("field %v: empty options or label", f)
		}
	}
}

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]Policy{"": PolicyKeep, "keep": PolicyKeep, "Clamp": PolicyClamp, " reset ": PolicyReset} {
		got, err := ParsePolicy(in)
		if err != nil || got != want {
			t.Errorf("ParsePolicy(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParsePolicy("nearest"); err == nil {
		t.Errorf("expected error for unknown policy")
	}
}

func TestChanged(t *testing.T) {
	s := State{Year: "2024", Month: "1", Day: "1"}
	if got := Changed(s, s.WithDay("2")); got != FieldDay {
		t.Fatalf("got %v", got)
	}
	if got := Changed(s, s.WithMonth("2").WithDay("2")); got != FieldMonth {
		t.Fatalf("got %v", got)
	}
	if got := Changed(s, s.WithYear("2025")); got != FieldYear {
		t.Fatalf("got %v", got)
	}
	if got := Changed(s, s); got != FieldNone {
		t.Fatalf("got %v", got)
	}
	if s.Day != "1" {
		t.Fatalf("reducers must not mutate the receiver")
	}
}

func TestCompositeRoundTrip(t *testing.T) {
	s := State{Year: "2024", Month: "2", Day: "29"}
	got, err := StateFromComposite(s.Composite())
	if err != nil || got != s {
		t.Fatalf("round trip: %+v, %v", got, err)
	}
	d, err := calendar.Parse(s.Composite())
	if err != nil || d.MonthNumber() != 2 || d.Day != 29 {
		t.Fatalf("Parse(%q) = %+v, %v", s.Composite(), d, err)
	}
}
