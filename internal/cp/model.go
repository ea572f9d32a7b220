package cp

import "fmt"

// Term is one addend coeff*Var of a linear expression.
type Term struct {
	Var   IntVar
	Coeff int64
}

// Model owns every variable and constraint of one scheduling run. Per the
// exclusive-ownership design, a Model is built up by exactly one caller
// (internal/runner, through internal/intervals, internal/constraints and
// internal/objective) and handed to Solve only once construction is
// complete.
type Model struct {
	vars        []varState
	constraints []constraint
	objective   []Term
	negations   map[VarID]BoolVar
	trueVar     *BoolVar
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{negations: map[VarID]BoolVar{}}
}

// relKind is the relational operator of a linear constraint.
type relKind int

const (
	relEQ relKind = iota
	relLE
	relGE
)

// constraint is the engine's single propagator interface. Every
// higher-level building block (implication, exactly-one, no-overlap,
// allowed assignments) either narrows a variable's Domain once at
// build time or compiles down to one of these two concrete kinds.
type constraint interface {
	propagate(m *Model, st []Domain) (changed bool, ok bool)
	check(m *Model, st []Domain) bool
}

// AddLinearEqual adds sum(terms) == constant.
func (m *Model) AddLinearEqual(terms []Term, constant int64) {
	m.constraints = append(m.constraints, &linearConstraint{terms: terms, kind: relEQ, constant: constant})
}

// AddLinearLessOrEqual adds sum(terms) <= constant.
func (m *Model) AddLinearLessOrEqual(terms []Term, constant int64) {
	m.constraints = append(m.constraints, &linearConstraint{terms: terms, kind: relLE, constant: constant})
}

// AddLinearGreaterOrEqual adds sum(terms) >= constant.
func (m *Model) AddLinearGreaterOrEqual(terms []Term, constant int64) {
	m.constraints = append(m.constraints, &linearConstraint{terms: terms, kind: relGE, constant: constant})
}

// AddEquality adds a == b.
func (m *Model) AddEquality(a, b IntVar) {
	m.AddLinearEqual([]Term{{Var: a, Coeff: 1}, {Var: b, Coeff: -1}}, 0)
}

// bigM returns a safe upper bound on the absolute value sum(terms) can
// take, used to relax an implication's consequent to a no-op when its
// guard is false. Domains only shrink after this point, so computing it
// from the current bounds at add-time is sound.
func (m *Model) bigM(terms []Term, constant int64) int64 {
	var total int64
	for _, t := range terms {
		d := m.vars[t.Var.id].domain
		if d.IsEmpty() {
			continue
		}
		lo, hi := d.Min(), d.Max()
		a, b := t.Coeff*lo, t.Coeff*hi
		if a < 0 {
			a = -a
		}
		if b < 0 {
			b = -b
		}
		if a > b {
			total += a
		} else {
			total += b
		}
	}
	if constant < 0 {
		total += -constant
	} else {
		total += constant
	}
	return total + 1
}

// AddImplicationLE adds cond => sum(terms) <= constant.
func (m *Model) AddImplicationLE(cond BoolVar, terms []Term, constant int64) {
	M := m.bigM(terms, constant)
	relaxed := append(append([]Term{}, terms...), Term{Var: cond.IntVar, Coeff: M})
	m.AddLinearLessOrEqual(relaxed, constant+M)
}

// AddImplicationGE adds cond => sum(terms) >= constant.
func (m *Model) AddImplicationGE(cond BoolVar, terms []Term, constant int64) {
	M := m.bigM(terms, constant)
	relaxed := append(append([]Term{}, terms...), Term{Var: cond.IntVar, Coeff: -M})
	m.AddLinearGreaterOrEqual(relaxed, constant-M)
}

// AddImplicationEqual adds cond => v == value.
func (m *Model) AddImplicationEqual(cond BoolVar, v IntVar, value int64) {
	m.AddImplicationLE(cond, []Term{{Var: v, Coeff: 1}}, value)
	m.AddImplicationGE(cond, []Term{{Var: v, Coeff: 1}}, value)
}

// AddExactlyOne adds the constraint that exactly one of lits is true.
func (m *Model) AddExactlyOne(lits []BoolVar) {
	terms := make([]Term, len(lits))
	for i, l := range lits {
		terms[i] = Term{Var: l.IntVar, Coeff: 1}
	}
	m.AddLinearEqual(terms, 1)
}

// AddBoolOr adds the constraint that at least one of lits is true.
func (m *Model) AddBoolOr(lits []BoolVar) {
	terms := make([]Term, len(lits))
	for i, l := range lits {
		terms[i] = Term{Var: l.IntVar, Coeff: 1}
	}
	m.AddLinearGreaterOrEqual(terms, 1)
}

// NewBoolAnd returns a fresh boolean variable reified to the conjunction
// of lits: r == 1 iff every lit in lits is 1.
func (m *Model) NewBoolAnd(name string, lits ...BoolVar) BoolVar {
	r := m.NewBoolVar(name)
	for _, l := range lits {
		// r <= lit
		m.AddLinearLessOrEqual([]Term{{Var: r.IntVar, Coeff: 1}, {Var: l.IntVar, Coeff: -1}}, 0)
	}
	terms := make([]Term, 0, len(lits)+1)
	for _, l := range lits {
		terms = append(terms, Term{Var: l.IntVar, Coeff: 1})
	}
	terms = append(terms, Term{Var: r.IntVar, Coeff: -1})
	// sum(lits) - r <= n-1
	m.AddLinearLessOrEqual(terms, int64(len(lits)-1))
	return r
}

// AddAllowedAssignments statically restricts v's domain to the union of
// the given inclusive [lo, hi] ranges. Unlike the other constraints here
// this is not a runtime propagator: the restriction holds unconditionally
// from build time on, matching CP-SAT's own allowed-assignments Domain
// construction.
func (m *Model) AddAllowedAssignments(v IntVar, ranges [][2]int64) {
	allowed := NewDomainFromRanges(ranges)
	m.vars[v.id].domain = m.vars[v.id].domain.Intersect(allowed)
}

// Minimize accumulates terms into the objective. Safe to call more than
// once; every call's terms are summed. Every term used across this
// codebase carries a non-negative coefficient over a non-negative
// variable, which the search's admissible lower bound (sum of
// coeff*domain.Min()) relies on.
func (m *Model) Minimize(terms ...Term) {
	m.objective = append(m.objective, terms...)
}

func (m *Model) String() string {
	return fmt.Sprintf("cp.Model{vars=%d, constraints=%d, objectiveTerms=%d}", len(m.vars), len(m.constraints), len(m.objective))
}
