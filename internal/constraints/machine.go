// Package constraints is the Constraint Injector: per-machine ordering
// and changeover rules, the weekend duration extension, and the global
// shared-resource and swap-window rules, all built directly on the
// intervals already assembled by internal/intervals.Builder.
package constraints

import (
	"fmt"
	"strings"
	"time"

	"github.com/deca-be/ml-scheduler/internal/cp"
	"github.com/deca-be/ml-scheduler/internal/domain"
	"github.com/deca-be/ml-scheduler/internal/dts"
	"github.com/deca-be/ml-scheduler/internal/intervals"
)

const (
	ombouwPenaltySeconds      int64 = 14400
	ombouw2PenaltySeconds     int64 = 3600
	stockFillSuccessorPenalty int64 = 3000
)

// Prep is one induced changeover interval between two consecutive chosen
// tasks on the same machine, kept alongside the pair it was derived from
// so the global and weekend stages can read its kind back out.
type Prep struct {
	cp.OptionalInterval
	Kind     domain.PrepKind
	Machine  string
	From, To *intervals.TaskInterval
}

// Injector accumulates the prep intervals produced while walking every
// machine, split by kind, for the global stage to consume.
type Injector struct {
	Builder *intervals.Builder
	Now     time.Time

	OmbouwPreps  []*Prep
	Ombouw2Preps []*Prep
}

// NewInjector returns an Injector over b.
func NewInjector(b *intervals.Builder, now time.Time) *Injector {
	return &Injector{Builder: b, Now: now}
}

// BuildMachineConstraints runs spec §4.3 for every machine known to the
// builder: proper-order labeling, pairwise setup policy, no-overlap, and
// subseries blackouts.
func (inj *Injector) BuildMachineConstraints(blackouts []domain.SubseriesBlackout) {
	for machine, tasks := range inj.Builder.MachineIntervals {
		inj.buildOrdering(machine, tasks)
		inj.buildPairwiseSetup(machine, tasks)
		inj.buildBlackouts(machine, tasks, blackouts)
		inj.buildNoOverlap(machine, tasks)
	}
}

// buildOrdering introduces chosen_count(M) and, for every candidate on M,
// an order_var forced to -1 when absent and to a contiguous ordinal in
// [0, chosen_count) when present.
func (inj *Injector) buildOrdering(machine string, tasks []*intervals.TaskInterval) {
	m := inj.Builder.Model
	k := int64(len(tasks))
	chosenCount := m.NewIntVar(0, k, machine+".chosenCount")

	sumTerms := make([]cp.Term, 0, len(tasks)+1)
	for _, t := range tasks {
		sumTerms = append(sumTerms, cp.Term{Var: t.Interval.Present.IntVar, Coeff: 1})
	}
	sumTerms = append(sumTerms, cp.Term{Var: chosenCount, Coeff: -1})
	m.AddLinearEqual(sumTerms, 0)

	for _, t := range tasks {
		ov := m.NewIntVar(-1, k-1, t.Task.ID+".order")
		t.OrderVar = ov
		present := t.Interval.Present
		m.AddImplicationEqual(present.Not(), ov, -1)
		m.AddImplicationGE(present, []cp.Term{{Var: ov, Coeff: 1}}, 0)
		m.AddImplicationLE(present, []cp.Term{{Var: ov, Coeff: 1}, {Var: chosenCount, Coeff: -1}}, -1)
	}
}

// buildPairwiseSetup walks every ordered pair of candidates on machine,
// reifies "t2 immediately follows t1 and both are chosen", and emits the
// setup-policy table of spec §4.3.
func (inj *Injector) buildPairwiseSetup(machine string, tasks []*intervals.TaskInterval) {
	m := inj.Builder.Model
	for _, t1 := range tasks {
		for _, t2 := range tasks {
			if t1 == t2 {
				continue
			}
			follows := m.NewReifiedEqual(
				fmt.Sprintf("%s>%s.follows", t1.Task.ID, t2.Task.ID),
				[]cp.Term{{Var: t2.OrderVar, Coeff: 1}, {Var: t1.OrderVar, Coeff: -1}},
				1,
			)
			fabc := m.NewBoolAnd(fmt.Sprintf("%s>%s.fabc", t1.Task.ID, t2.Task.ID),
				follows, t1.Interval.Present, t2.Interval.Present)

			if penalty, kind := setupFor(t1.Task, t2.Task); penalty > 0 {
				inj.addPrep(machine, t1, t2, fabc, penalty, kind)
			}

			if t1.Task.AdjustedPriority == domain.PriorityStockFill && t2.Task.AdjustedPriority != domain.PriorityStockFill {
				m.Minimize(cp.Term{Var: fabc.IntVar, Coeff: stockFillSuccessorPenalty})
			}
		}
	}
}

// setupFor implements the setup-policy table: subseries differ is a full
// "ombouw" swap, same subseries but differing IML variant is the shorter
// "ombouw2" insert swap, otherwise no changeover is needed.
func setupFor(t1, t2 domain.CandidateTask) (penaltySeconds int64, kind domain.PrepKind) {
	if !strings.EqualFold(t1.Subseries, t2.Subseries) {
		return ombouwPenaltySeconds, domain.PrepKindOmbouw
	}
	if t1.IMLPossible != t2.IMLPossible {
		return ombouw2PenaltySeconds, domain.PrepKindOmbouw2
	}
	return 0, domain.PrepKindNone
}

// addPrep creates the optional fixed-size preparation interval present
// iff fabc, pinned after t1 ends and before t2 starts, and records it for
// no-overlap on machine plus the global/weekend stages keyed by kind.
func (inj *Injector) addPrep(machine string, t1, t2 *intervals.TaskInterval, fabc cp.BoolVar, durationSeconds int64, kind domain.PrepKind) {
	m := inj.Builder.Model
	start := m.NewIntVar(0, domain.Horizon, fmt.Sprintf("%s>%s.prepstart", t1.Task.ID, t2.Task.ID))
	iv := m.NewOptionalInterval(start, durationSeconds, fabc, fmt.Sprintf("%s>%s", t1.Task.ID, t2.Task.ID))

	m.AddImplicationGE(fabc, []cp.Term{{Var: iv.Start, Coeff: 1}, {Var: t1.ExtendedEnd, Coeff: -1}}, 0)
	m.AddImplicationLE(fabc, []cp.Term{{Var: iv.End, Coeff: 1}, {Var: t2.Interval.Start, Coeff: -1}}, 0)

	p := &Prep{OptionalInterval: iv, Kind: kind, Machine: machine, From: t1, To: t2}
	inj.Builder.PrepIntervalsForNoOverlap[machine] = append(inj.Builder.PrepIntervalsForNoOverlap[machine], iv)
	switch kind {
	case domain.PrepKindOmbouw:
		inj.OmbouwPreps = append(inj.OmbouwPreps, p)
	case domain.PrepKindOmbouw2:
		inj.Ombouw2Preps = append(inj.Ombouw2Preps, p)
	}
}

// buildBlackouts forces is_chosen => (end <= blackout_start || start >=
// blackout_end) for every blackout window matching a task's subseries.
func (inj *Injector) buildBlackouts(machine string, tasks []*intervals.TaskInterval, blackouts []domain.SubseriesBlackout) {
	m := inj.Builder.Model
	for _, t := range tasks {
		for _, bl := range blackouts {
			if !strings.EqualFold(bl.Subseries, t.Task.Subseries) {
				continue
			}
			startSeconds, startOK := dts.Convert(bl.Start, inj.Now)
			endSeconds, endOK := dts.Convert(bl.End, inj.Now)
			if !startOK && !endOK {
				continue
			}
			if !startOK {
				startSeconds = 0
			}
			if !endOK {
				endSeconds = domain.Horizon
			}

			before := m.NewBoolVar(t.Task.ID + ".blackout.before")
			after := m.NewBoolVar(t.Task.ID + ".blackout.after")
			m.AddImplicationLE(before, []cp.Term{{Var: t.ExtendedEnd, Coeff: 1}}, startSeconds)
			m.AddImplicationGE(after, []cp.Term{{Var: t.Interval.Start, Coeff: 1}}, endSeconds)
			m.AddImplicationGE(t.Interval.Present, []cp.Term{{Var: before.IntVar, Coeff: 1}, {Var: after.IntVar, Coeff: 1}}, 1)
		}
	}
}

// buildNoOverlap gathers every chosen task interval, induced prep
// interval and machine-maintenance interval on machine into one
// no-overlap constraint. BlockerIntervals is intentionally excluded:
// it is built but not consumed by this or any other constraint — see
// Builder.BlockerIntervals.
//
// Each task's reserved interval ends at ExtendedEnd, not Interval.End: a
// task that pauses across a forbidden weekend day (spec §4.4) must keep
// the machine reserved for its full, extended span, or a later task or
// prep could be scheduled into the gap it is actually still occupying.
func (inj *Injector) buildNoOverlap(machine string, tasks []*intervals.TaskInterval) {
	all := make([]cp.OptionalInterval, 0, len(tasks))
	for _, t := range tasks {
		reserved := t.Interval
		reserved.End = t.ExtendedEnd
		all = append(all, reserved)
	}
	all = append(all, inj.Builder.PrepIntervalsForNoOverlap[machine]...)
	all = append(all, inj.Builder.MaintenanceIntervals[machine]...)
	inj.Builder.Model.AddNoOverlap(all)
}
