// Package objective builds the priority penalty scheme of spec §4.6: the
// universal "minimize every chosen end" term plus each task's
// priority-specific contribution.
package objective

import (
	"time"

	"github.com/deca-be/ml-scheduler/internal/cp"
	"github.com/deca-be/ml-scheduler/internal/domain"
	"github.com/deca-be/ml-scheduler/internal/dts"
	"github.com/deca-be/ml-scheduler/internal/intervals"
)

const (
	emergencyEndWeight     int64 = 10000
	asapEndWeight          int64 = 50
	mustMeetSlackWeight    int64 = 20
	normalPastDueWeight    int64 = 10
	normalOnTimeWeight     int64 = 5
	runningExemptEndWeight int64 = 1000
)

// Build runs spec §4.6 over every candidate task the builder knows about.
func Build(b *intervals.Builder, now time.Time) {
	m := b.Model
	hasEmergency := emergencyByMachine(b)

	for _, tasks := range b.MachineIntervals {
		for _, t := range tasks {
			m.Minimize(cp.Term{Var: t.ExtendedEnd, Coeff: 1})
			applyPriority(m, t, hasEmergency[t.Task.Machine], now)
		}
	}
}

// emergencyByMachine reifies, per machine, whether any priority-1
// candidate on it ends up chosen — priority 2's forced start exemption
// needs this before any single task's contribution can be written.
func emergencyByMachine(b *intervals.Builder) map[string]cp.BoolVar {
	out := map[string]cp.BoolVar{}
	for machine, tasks := range b.MachineIntervals {
		var emergencyLits []cp.BoolVar
		for _, t := range tasks {
			if t.Task.AdjustedPriority == domain.PriorityEmergency {
				emergencyLits = append(emergencyLits, t.Interval.Present)
			}
		}
		if len(emergencyLits) == 0 {
			continue
		}
		r := b.Model.NewBoolVar(machine + ".hasEmergency")
		for _, lit := range emergencyLits {
			// r >= lit for every literal: any one chosen emergency candidate
			// is enough to force r=1 (disjunction), not the conjunction
			// r<=lit would have encoded (which would pin r=0 whenever at
			// least one emergency candidate on the machine goes unchosen).
			b.Model.AddLinearGreaterOrEqual([]cp.Term{{Var: r.IntVar, Coeff: 1}, {Var: lit.IntVar, Coeff: -1}}, 0)
		}
		terms := make([]cp.Term, 0, len(emergencyLits)+1)
		for _, lit := range emergencyLits {
			terms = append(terms, cp.Term{Var: lit.IntVar, Coeff: 1})
		}
		terms = append(terms, cp.Term{Var: r.IntVar, Coeff: -1})
		b.Model.AddLinearGreaterOrEqual(terms, 0)
		out[machine] = r
	}
	return out
}

// applyPriority adds t's priority-specific terms on top of the universal
// chosen-end contribution already added by Build.
func applyPriority(m *cp.Model, t *intervals.TaskInterval, machineHasEmergency cp.BoolVar, now time.Time) {
	present := t.Interval.Present
	start := t.Interval.Start

	switch t.Task.AdjustedPriority {
	case domain.PriorityEmergency:
		m.AddImplicationEqual(present, start, 0)
		m.Minimize(cp.Term{Var: t.ExtendedEnd, Coeff: emergencyEndWeight})

	case domain.PriorityRunning:
		if machineHasEmergency.IntVar != (cp.IntVar{}) {
			notExempt := m.NewBoolAnd(t.Task.ID+".running.gate", present, machineHasEmergency.Not())
			m.AddImplicationEqual(notExempt, start, 0)

			exempt := m.NewBoolAnd(t.Task.ID+".running.exempt", present, machineHasEmergency)
			penaltyEnd := m.NewIntVar(0, 2*domain.Horizon, t.Task.ID+".running.penaltyEnd")
			m.AddImplicationLinearEqual(exempt, []cp.Term{{Var: penaltyEnd, Coeff: 1}, {Var: t.ExtendedEnd, Coeff: -1}}, 0)
			m.Minimize(cp.Term{Var: penaltyEnd, Coeff: runningExemptEndWeight})
		} else {
			m.AddImplicationEqual(present, start, 0)
		}

	case domain.PriorityAsapNoInterrupt:
		m.Minimize(cp.Term{Var: t.ExtendedEnd, Coeff: asapEndWeight})

	case domain.PriorityMustMeet:
		if slack, ok := deadlineSlack(m, t, now); ok {
			m.Minimize(cp.Term{Var: slack, Coeff: mustMeetSlackWeight})
		}

	case domain.PriorityNormal, domain.PriorityNormalDefault:
		if t.Task.AdjustedPriority == domain.PriorityNormalDefault {
			return
		}
		if slack, ok := deadlineSlack(m, t, now); ok {
			weight := int64(normalOnTimeWeight)
			if t.Task.IsPastDue {
				weight = normalPastDueWeight
			}
			m.Minimize(cp.Term{Var: slack, Coeff: weight})
		}

	case domain.PriorityStockFill:
		// No end contribution beyond the universal term; the successor
		// penalty is added alongside the setup policy in internal/constraints.
	}
}

// deadlineSlack returns a slack variable computed once per task, with
// slack >= extendedEnd - due_date_seconds when chosen and slack >= 0
// always (spec §9 Open Question: computed once, not re-derived per
// priority branch).
func deadlineSlack(m *cp.Model, t *intervals.TaskInterval, now time.Time) (cp.IntVar, bool) {
	dueSeconds, ok := dts.Convert(t.Task.DueDate, now)
	if !ok {
		return cp.IntVar{}, false
	}
	slack := m.NewIntVar(0, 2*domain.Horizon, t.Task.ID+".deadlineSlack")
	m.AddImplicationGE(t.Interval.Present,
		[]cp.Term{{Var: slack, Coeff: 1}, {Var: t.ExtendedEnd, Coeff: -1}}, -dueSeconds)
	return slack, true
}
