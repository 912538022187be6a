package selection

// Emitter hands the composite date of a State to an on-change callback.
type Emitter struct {
	onChange func(string)
	emitted  bool
	last     string
}

// NewEmitter returns an Emitter calling onChange; a nil onChange is allowed.
func NewEmitter(onChange func(string)) *Emitter {
	return &Emitter{onChange: onChange}
}

// Emit formats s and passes it to the callback.
func (e *Emitter) Emit(s State) string {
	v := s.Composite()
	e.emitted = true
	e.last = v
	if e.onChange != nil {
		e.onChange(v)
	}
	return v
}

// Emitted reports whether Emit has been called at least once.
func (e *Emitter) Emitted() bool { return e.emitted }

// Last returns the most recently emitted value.
func (e *Emitter) Last() string { return e.last }
