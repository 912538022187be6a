// Package selection holds the end-date selection state and the Picker that
// keeps the year, month and day option lists consistent with it.
//
// Every change runs the same ordered pipeline, starting at the changed
// dependency: bounds, years, months, days, then the composite emission.
// All work happens synchronously inside the call that caused it. A Picker is
// not safe for concurrent use.
package selection

import (
	"context"
	"strconv"
	"strings"

	"enddate-cli/internal/options"

	"cloudeng.io/logging/ctxlog"
)

// Inputs are the bounds plus the initial composite end date.
type Inputs struct {
	options.Inputs
	End string `json:"end" yaml:"end"`
}

// Option configures a Picker.
type Option func(*Picker)

// WithPolicy sets the stale-selection policy. The default is PolicyKeep.
func WithPolicy(p Policy) Option {
	return func(pk *Picker) { pk.policy = p }
}

type Picker struct {
	inputs  options.Inputs
	bounds  options.Bounds
	state   State
	policy  Policy
	emitter *Emitter

	years  []options.Item
	months []options.Item
	days   []options.Item
}

// New resolves the bounds, seeds the selection from in.End, builds every
// option list and emits the initial composite to onChange.
func New(ctx context.Context, in Inputs, onChange func(string), opts ...Option) (*Picker, error) {
	bounds, err := options.Resolve(in.Inputs)
	if err != nil {
		return nil, err
	}
	st, err := StateFromComposite(in.End)
	if err != nil {
		return nil, err
	}
	p := &Picker{
		inputs:  in.Inputs,
		bounds:  bounds,
		state:   st,
		emitter: NewEmitter(onChange),
	}
	for _, o := range opts {
		o(p)
	}
	p.recompute(ctx, FieldNone)
	return p, nil
}

func (p *Picker) Bounds() options.Bounds { return p.bounds }
func (p *Picker) Inputs() options.Inputs { return p.inputs }
func (p *Picker) State() State           { return p.state }
func (p *Picker) Policy() Policy         { return p.policy }
func (p *Picker) Years() []options.Item  { return p.years }
func (p *Picker) Months() []options.Item { return p.months }
func (p *Picker) Days() []options.Item   { return p.days }
func (p *Picker) Composite() string      { return p.state.Composite() }
func (p *Picker) Emitter() *Emitter      { return p.emitter }

// SetYear stores label as the year, then regenerates months and days.
func (p *Picker) SetYear(ctx context.Context, label string) {
	p.apply(ctx, p.state.WithYear(label))
}

// SetMonth stores label as the month, then regenerates days.
func (p *Picker) SetMonth(ctx context.Context, label string) {
	p.apply(ctx, p.state.WithMonth(label))
}

// SetDay stores label as the day.
func (p *Picker) SetDay(ctx context.Context, label string) {
	p.apply(ctx, p.state.WithDay(label))
}

// PickYear, PickMonth and PickDay take an item reported by a widget; only
// its label is used.
func (p *Picker) PickYear(ctx context.Context, it options.Item)  { p.SetYear(ctx, it.Label) }
func (p *Picker) PickMonth(ctx context.Context, it options.Item) { p.SetMonth(ctx, it.Label) }
func (p *Picker) PickDay(ctx context.Context, it options.Item)   { p.SetDay(ctx, it.Label) }

// SetBounds replaces the bounds and recomputes everything downstream of them.
// On error the Picker is left unchanged.
func (p *Picker) SetBounds(ctx context.Context, in options.Inputs) error {
	if in == p.inputs {
		return nil
	}
	bounds, err := options.Resolve(in)
	if err != nil {
		return err
	}
	p.inputs = in
	p.bounds = bounds
	ctxlog.Logger(ctx).Debug("bounds changed", "lower", bounds.Lower.String(), "upper", bounds.Upper.String())
	p.recompute(ctx, FieldNone)
	return nil
}

func (p *Picker) apply(ctx context.Context, next State) {
	changed := Changed(p.state, next)
	if changed == FieldNone {
		return
	}
	p.state = next
	ctxlog.Logger(ctx).Debug("selection changed", "field", changed.String(), "state", next.Composite())
	p.recompute(ctx, changed)
}

// recompute regenerates every list downstream of from and emits once.
func (p *Picker) recompute(ctx context.Context, from Field) {
	logger := ctxlog.Logger(ctx)
	switch from {
	case FieldNone:
		p.years = options.Years(p.bounds)
		if p.bounds.Degenerate() {
			logger.Warn("lower bound is after upper bound", "lower", p.bounds.Lower.String(), "upper", p.bounds.Upper.String())
		}
		if options.IndexOf(p.years, p.state.Year) < 0 {
			logger.Warn("selected year is not offered", "year", p.state.Year)
		}
		fallthrough
	case FieldYear:
		p.months = options.Months(p.bounds, p.state.Year)
		p.state.Month = p.settle(ctx, FieldMonth, p.state.Month, p.months)
		fallthrough
	case FieldMonth:
		p.days = p.dayOptions(ctx)
		p.state.Day = p.settle(ctx, FieldDay, p.state.Day, p.days)
	}
	v := p.emitter.Emit(p.state)
	logger.Debug("emitted", "from", from.String(), "end", v,
		"years", len(p.years), "months", len(p.months), "days", len(p.days))
}

func (p *Picker) settle(ctx context.Context, f Field, label string, list []options.Item) string {
	next, ok := p.policy.apply(label, list)
	if !ok {
		ctxlog.Logger(ctx).Warn("selection is not offered", "field", f.String(), "label", label, "policy", p.policy.String(), "now", next)
	}
	return next
}

func (p *Picker) dayOptions(ctx context.Context) []options.Item {
	y, yerr := strconv.Atoi(strings.TrimSpace(p.state.Year))
	m, merr := strconv.Atoi(strings.TrimSpace(p.state.Month))
	if yerr != nil || merr != nil || m < 1 || m > 12 {
		ctxlog.Logger(ctx).Warn("cannot derive days", "year", p.state.Year, "month", p.state.Month)
		return []options.Item{}
	}
	return options.Days(y, m)
}

// Label returns the selected label for f.
func (p *Picker) Label(f Field) string {
	switch f {
	case FieldYear:
		return p.state.Year
	case FieldMonth:
		return p.state.Month
	case FieldDay:
		return p.state.Day
	}
	return ""
}

// Options returns the current list for f.
func (p *Picker) Options(f Field) []options.Item {
	switch f {
	case FieldYear:
		return p.years
	case FieldMonth:
		return p.months
	case FieldDay:
		return p.days
	}
	return nil
}

// Set dispatches to SetYear, SetMonth or SetDay.
func (p *Picker) Set(ctx context.Context, f Field, label string) {
	switch f {
	case FieldYear:
		p.SetYear(ctx, label)
	case FieldMonth:
		p.SetMonth(ctx, label)
	case FieldDay:
		p.SetDay(ctx, label)
	}
}
