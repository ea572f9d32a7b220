package cp

import (
	"context"
	"sync"
	"time"
)

// Status mirrors the handful of solver outcomes the rest of this codebase
// distinguishes between.
type Status int

const (
	StatusUnknown Status = iota
	StatusInfeasible
	StatusFeasible
	StatusOptimal
	StatusModelInvalid
)

func (s Status) String() string {
	switch s {
	case StatusInfeasible:
		return "INFEASIBLE"
	case StatusFeasible:
		return "FEASIBLE"
	case StatusOptimal:
		return "OPTIMAL"
	case StatusModelInvalid:
		return "MODEL_INVALID"
	default:
		return "UNKNOWN"
	}
}

// ProgressEvent is emitted during search when Options.OnProgress is set,
// mirroring the CP solver's own search-progress log lines.
type ProgressEvent struct {
	Worker    int
	Objective int64
	Elapsed   time.Duration
}

// Options configures one Solve call.
type Options struct {
	MaxDuration time.Duration
	Workers     int
	OnProgress  func(ProgressEvent)
}

// Solution is the result of a Solve call: the status, the best objective
// found, and the variable assignment backing it.
type Solution struct {
	Status         Status
	ObjectiveValue int64
	WallTime       time.Duration
	values         []int64
}

// Value returns v's value in this solution. Only valid when Status is
// StatusOptimal or StatusFeasible.
func (s *Solution) Value(v IntVar) int64 { return s.values[v.id] }

// BoolValue returns b's boolean value in this solution.
func (s *Solution) BoolValue(b BoolVar) bool { return s.values[b.id] == 1 }

// Solve runs the configured number of parallel search workers against the
// model until a worker proves optimality, every worker exhausts its
// search tree, the wall-clock budget expires, or ctx is cancelled.
//
// Parallelism here mirrors the single knob the core scheduling run
// exposes: a fixed worker count searching the same model, sharing a best-
// objective bound so an improving find in one worker prunes the others.
// There is no cooperative cancellation beyond the deadline and ctx — by
// design, matching the single blocking call to Solve described for the
// wider pipeline.
func (m *Model) Solve(ctx context.Context, opts Options) (*Solution, error) {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	start := time.Now()
	deadline := start.Add(opts.MaxDuration)

	st0 := make([]Domain, len(m.vars))
	for i, v := range m.vars {
		st0[i] = v.domain.Clone()
	}
	if !propagateToFixpoint(m, st0) {
		return &Solution{Status: StatusInfeasible, WallTime: time.Since(start)}, nil
	}

	order := make([]VarID, len(m.vars))
	for i := range order {
		order[i] = VarID(i)
	}

	var mu sync.Mutex
	best := int64(-1)
	var bestState []Domain
	exhausted := make([]bool, opts.Workers)

	timeUp := func() bool {
		if ctx.Err() != nil {
			return true
		}
		return time.Now().After(deadline)
	}

	var wg sync.WaitGroup
	for w := 0; w < opts.Workers; w++ {
		wg.Add(1)
		workerID := w
		go func() {
			defer wg.Done()
			sw := &searchWorker{
				model:    m,
				order:    rotate(order, workerID),
				deadline: timeUp,
				best:     &best,
				bestMu:   &mu,
				onSolution: func(st []Domain, objective int64) {
					mu.Lock()
					snapshot := make([]Domain, len(st))
					copy(snapshot, st)
					bestState = snapshot
					mu.Unlock()
					if opts.OnProgress != nil {
						opts.OnProgress(ProgressEvent{Worker: workerID, Objective: objective, Elapsed: time.Since(start)})
					}
				},
			}
			sw.run(st0)
			exhausted[workerID] = !timeUp()
		}()
	}
	wg.Wait()

	wallTime := time.Since(start)
	if bestState == nil {
		if timeUp() {
			return &Solution{Status: StatusUnknown, WallTime: wallTime}, nil
		}
		return &Solution{Status: StatusInfeasible, WallTime: wallTime}, nil
	}

	allExhausted := true
	for _, e := range exhausted {
		if !e {
			allExhausted = false
			break
		}
	}

	values := make([]int64, len(bestState))
	for i, d := range bestState {
		values[i] = d.Min()
	}
	status := StatusFeasible
	if allExhausted {
		status = StatusOptimal
	}
	return &Solution{Status: status, ObjectiveValue: best, WallTime: wallTime, values: values}, nil
}

// rotate returns order starting from a different offset per worker so
// parallel workers explore the branching order differently instead of
// racing down the identical path.
func rotate(order []VarID, workerID int) []VarID {
	if len(order) == 0 || workerID == 0 {
		return order
	}
	offset := workerID % len(order)
	out := make([]VarID, len(order))
	copy(out, order[offset:])
	copy(out[len(order)-offset:], order[:offset])
	return out
}
