package cp

// VarID identifies a variable within a single Model. VarIDs are not
// portable across models.
type VarID int

// IntVar is a handle to an integer variable owned by a Model.
type IntVar struct {
	id    VarID
	model *Model
}

// ID returns the variable's identity, stable for the lifetime of the
// owning Model.
func (v IntVar) ID() VarID { return v.id }

// BoolVar is an IntVar constrained to {0, 1}. True is encoded as 1.
type BoolVar struct {
	IntVar
}

// Not returns a boolean variable tied to the negation of b via a linear
// equality (b + Not(b) == 1), registered once per BoolVar.
func (b BoolVar) Not() BoolVar {
	return b.IntVar.model.negate(b)
}

type varState struct {
	name   string
	domain Domain
}

// NewIntVar creates an integer variable ranging over [lo, hi].
func (m *Model) NewIntVar(lo, hi int64, name string) IntVar {
	id := VarID(len(m.vars))
	m.vars = append(m.vars, varState{name: name, domain: NewDomain(lo, hi)})
	return IntVar{id: id, model: m}
}

// NewBoolVar creates a boolean variable.
func (m *Model) NewBoolVar(name string) BoolVar {
	return BoolVar{m.NewIntVar(0, 1, name)}
}

// NewConstant creates a fixed single-value variable, used where the API
// expects an IntVar but the value is known at model-build time.
func (m *Model) NewConstant(v int64) IntVar {
	return m.NewIntVar(v, v, "")
}

// TrueVar returns a BoolVar fixed to true, suitable as the presence
// literal of an unconditionally-present interval.
func (m *Model) TrueVar() BoolVar {
	if m.trueVar == nil {
		v := BoolVar{m.NewIntVar(1, 1, "true")}
		m.trueVar = &v
	}
	return *m.trueVar
}

func (m *Model) negate(b BoolVar) BoolVar {
	if v, ok := m.negations[b.id]; ok {
		return v
	}
	n := m.NewBoolVar(b.model.vars[b.id].name + ".not")
	m.AddLinearEqual([]Term{{Var: b.IntVar, Coeff: 1}, {Var: n.IntVar, Coeff: 1}}, 1)
	m.negations[b.id] = n
	return n
}

// Domain returns the variable's current domain as last narrowed by model
// construction. Before Solve runs this reflects only build-time
// constraints (AllowedAssignments, explicit bounds); after Solve it is
// unchanged — per-solution values come from Solution.Value.
func (v IntVar) Domain() Domain { return v.model.vars[v.id].domain }

// Name returns the variable's debug name.
func (v IntVar) Name() string { return v.model.vars[v.id].name }
