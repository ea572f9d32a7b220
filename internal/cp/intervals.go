package cp

// OptionalInterval is a compound start/duration/end/presence value, kept
// as one record rather than parallel maps so every component that
// carries an interval around (internal/intervals, internal/constraints,
// internal/extractor) can pass a single value instead of four.
type OptionalInterval struct {
	Start, End IntVar
	Duration   int64
	Present    BoolVar
	Meta       any
}

// NewFixedInterval creates an interval that is always present, with
// End == Start + Duration enforced unconditionally. Used for maintenance
// windows and hard-blocker bands, which are never optional.
func (m *Model) NewFixedInterval(start IntVar, duration int64, meta any) OptionalInterval {
	end := m.NewIntVar(start.model.vars[start.id].domain.Min(), start.model.vars[start.id].domain.Max()+duration, "")
	m.AddLinearEqual([]Term{{Var: end, Coeff: 1}, {Var: start, Coeff: -1}}, duration)
	return OptionalInterval{Start: start, End: end, Duration: duration, Present: m.TrueVar(), Meta: meta}
}

// NewOptionalInterval creates an interval present iff present is true,
// with End == Start + Duration enforced whenever it is present.
func (m *Model) NewOptionalInterval(start IntVar, duration int64, present BoolVar, meta any) OptionalInterval {
	end := m.NewIntVar(start.model.vars[start.id].domain.Min(), start.model.vars[start.id].domain.Max()+duration, "")
	m.AddImplicationLE(present, []Term{{Var: end, Coeff: 1}, {Var: start, Coeff: -1}}, duration)
	m.AddImplicationGE(present, []Term{{Var: end, Coeff: 1}, {Var: start, Coeff: -1}}, duration)
	return OptionalInterval{Start: start, End: end, Duration: duration, Present: present, Meta: meta}
}
