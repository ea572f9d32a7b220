package cp

// propagateToFixpoint runs every constraint's propagate method until no
// further narrowing occurs or infeasibility is detected.
func propagateToFixpoint(m *Model, st []Domain) bool {
	for {
		anyChanged := false
		for _, c := range m.constraints {
			changed, ok := c.propagate(m, st)
			if !ok {
				return false
			}
			if changed {
				anyChanged = true
			}
		}
		if !anyChanged {
			return true
		}
	}
}

// objectiveLowerBound returns an admissible lower bound on the objective
// given the current domains, used to prune branches that cannot beat the
// best solution found so far. Every term in this codebase has a
// non-negative coefficient over a non-negative variable, so the minimum
// of each domain summed across terms is always a valid lower bound.
func objectiveLowerBound(m *Model, st []Domain) int64 {
	var lb int64
	for _, t := range m.objective {
		lb += t.Coeff * st[t.Var.id].Min()
	}
	return lb
}

func objectiveValue(m *Model, st []Domain) int64 {
	var v int64
	for _, t := range m.objective {
		v += t.Coeff * st[t.Var.id].Min()
	}
	return v
}

// selectBranchVar picks the first unfixed variable in declaration order.
// Declaration order in this codebase is: task intervals, then capacity
// intervals, then swap-window domains, then blocker intervals, then the
// per-machine and global constraint auxiliaries, matching the ordering
// guarantee model construction already follows — so branching explores
// presence/ordering decisions before the penalty-shaping variables that
// depend on them.
func selectBranchVar(st []Domain, order []VarID) (VarID, bool) {
	for _, id := range order {
		if !st[id].IsFixed() {
			return id, true
		}
	}
	return 0, false
}

// splitDomain returns two candidate sub-domains to branch into, trying
// the lower half first so the search finds small objective values early.
func splitDomain(d Domain) (Domain, Domain) {
	lo, hi := d.Min(), d.Max()
	if lo == hi {
		return d, Domain{}
	}
	mid := lo + (hi-lo)/2
	return d.IntersectRange(lo, mid), d.IntersectRange(mid+1, hi)
}

// searchWorker runs a single depth-first branch-and-bound search. It
// mutates only its own copy of the domain state; callers run one of
// these per solver worker.
type searchWorker struct {
	model      *Model
	order      []VarID
	deadline   func() bool
	nodesSeen  int
	best       *int64 // shared best objective across workers, read/write under bestMu
	bestMu     *workerMutex
	onSolution func(st []Domain, objective int64)
}

// workerMutex is a tiny renaming indirection so search.go does not need
// to import sync directly; solve.go supplies the real *sync.Mutex.
type workerMutex interface {
	Lock()
	Unlock()
}

func (w *searchWorker) run(st []Domain) (feasible bool) {
	w.nodesSeen++
	if w.nodesSeen%2048 == 0 && w.deadline() {
		return false
	}
	working := make([]Domain, len(st))
	copy(working, st)
	if !propagateToFixpoint(w.model, working) {
		return false
	}

	w.bestMu.Lock()
	best := *w.best
	w.bestMu.Unlock()
	if best >= 0 && objectiveLowerBound(w.model, working) >= best {
		return false
	}

	id, found := selectBranchVar(working, w.order)
	if !found {
		obj := objectiveValue(w.model, working)
		w.bestMu.Lock()
		improves := *w.best < 0 || obj < *w.best
		if improves {
			*w.best = obj
		}
		w.bestMu.Unlock()
		if improves {
			w.onSolution(working, obj)
		}
		return improves
	}

	base := working[id]
	lowHalf, highHalf := splitDomain(base)
	anySolved := false
	if !lowHalf.IsEmpty() {
		working[id] = lowHalf
		if w.run(working) {
			anySolved = true
		}
		working[id] = base
	}
	if w.deadline() {
		return anySolved
	}
	if !highHalf.IsEmpty() {
		working[id] = highHalf
		if w.run(working) {
			anySolved = true
		}
	}
	return anySolved
}
