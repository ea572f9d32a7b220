package cp

// AddImplicationLinearEqual adds cond => sum(terms) == constant.
func (m *Model) AddImplicationLinearEqual(cond BoolVar, terms []Term, constant int64) {
	m.AddImplicationLE(cond, terms, constant)
	m.AddImplicationGE(cond, terms, constant)
}

// NewReifiedEqual returns a fresh boolean variable r with
// r == 1 iff sum(terms) == constant, used to turn the "proper-order
// labeling" ordinal comparisons of spec §4.3 into a usable boolean
// without hand-rolling the channeling at every call site.
func (m *Model) NewReifiedEqual(name string, terms []Term, constant int64) BoolVar {
	r := m.NewBoolVar(name)
	m.AddImplicationLinearEqual(r, terms, constant)

	notR := r.Not()
	ge := m.NewBoolVar(name + ".ge")
	below := m.NewBoolAnd(name+".below", notR, ge.Not())
	above := m.NewBoolAnd(name+".above", notR, ge)
	m.AddImplicationLE(below, terms, constant-1)
	m.AddImplicationGE(above, terms, constant+1)
	return r
}

// NewReifiedLE returns a fresh boolean r with r == 1 iff sum(terms) <= constant.
func (m *Model) NewReifiedLE(name string, terms []Term, constant int64) BoolVar {
	r := m.NewBoolVar(name)
	m.AddImplicationLE(r, terms, constant)
	m.AddImplicationGE(r.Not(), terms, constant+1)
	return r
}

// NewReifiedGE returns a fresh boolean r with r == 1 iff sum(terms) >= constant.
func (m *Model) NewReifiedGE(name string, terms []Term, constant int64) BoolVar {
	r := m.NewBoolVar(name)
	m.AddImplicationGE(r, terms, constant)
	m.AddImplicationLE(r.Not(), terms, constant-1)
	return r
}
