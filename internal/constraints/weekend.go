package constraints

import (
	"fmt"
	"time"

	"github.com/deca-be/ml-scheduler/internal/cp"
	"github.com/deca-be/ml-scheduler/internal/domain"
	"github.com/deca-be/ml-scheduler/internal/dts"
	"github.com/deca-be/ml-scheduler/internal/intervals"
)

const weekendExtensionSeconds int64 = 86400

// BuildWeekendExtensions runs spec §4.4 for every task on every machine:
// a task's interval may not start or end inside a forbidden weekend day,
// but may span one by having its reported end pushed out by a full day.
func (inj *Injector) BuildWeekendExtensions(availableWeekendDays []domain.AvailableWeekendDay) {
	for machine, tasks := range inj.Builder.MachineIntervals {
		days := inj.Builder.ForbiddenWeekendDays(machine, availableWeekendDays)
		for _, t := range tasks {
			inj.buildWeekendExtension(t, days)
		}
	}
}

func (inj *Injector) buildWeekendExtension(t *intervals.TaskInterval, days []time.Time) {
	m := inj.Builder.Model

	// extendedEnd is declared before the per-day loop and fed back into
	// that same loop's end_before/end_after/inside tests: whether day d
	// falls inside the task's reserved span depends on the *final* end,
	// which in turn depends on every day's inside bool, including d's.
	// The system is solved jointly, not evaluated top to bottom, so the
	// self-reference is well-formed — it is what makes a weekend that is
	// only reached because an earlier weekend already pushed the end out
	// still register as "inside" and contribute its own extension.
	extendedEnd := m.NewIntVar(0, 2*domain.Horizon, t.Task.ID+".extendedEnd")
	endEquationTerms := []cp.Term{{Var: t.Interval.Start, Coeff: -1}, {Var: extendedEnd, Coeff: 1}}

	for _, d := range days {
		dStart, ok1 := dts.Convert(dts.StartOfDay(d), inj.Now)
		dEnd, ok2 := dts.Convert(dts.StartOfDay(d).AddDate(0, 0, 1), inj.Now)
		if !ok1 || !ok2 {
			continue
		}
		name := fmt.Sprintf("%s.%s", t.Task.ID, d.Format("2006-01-02"))

		startBefore := m.NewReifiedLE(name+".start_before", []cp.Term{{Var: t.Interval.Start, Coeff: 1}}, dStart-1)
		startAfter := m.NewReifiedGE(name+".start_after", []cp.Term{{Var: t.Interval.Start, Coeff: 1}}, dEnd+1)
		m.AddImplicationGE(t.Interval.Present,
			[]cp.Term{{Var: startBefore.IntVar, Coeff: 1}, {Var: startAfter.IntVar, Coeff: 1}}, 1)

		endBefore := m.NewReifiedLE(name+".end_before", []cp.Term{{Var: extendedEnd, Coeff: 1}}, dStart-1)
		endAfter := m.NewReifiedGE(name+".end_after", []cp.Term{{Var: extendedEnd, Coeff: 1}}, dEnd+1)
		m.AddImplicationGE(t.Interval.Present,
			[]cp.Term{{Var: endBefore.IntVar, Coeff: 1}, {Var: endAfter.IntVar, Coeff: 1}}, 1)

		inside := m.NewBoolAnd(name+".inside", startBefore, endAfter)
		m.Minimize(cp.Term{Var: inside.IntVar, Coeff: weekendExtensionSeconds})
		endEquationTerms = append(endEquationTerms, cp.Term{Var: inside.IntVar, Coeff: -weekendExtensionSeconds})
		t.WeekendExtensions = append(t.WeekendExtensions, intervals.WeekendExtension{Day: d, Inside: inside})
	}

	m.AddImplicationLinearEqual(t.Interval.Present, endEquationTerms, t.Task.DurationSeconds)
	t.ExtendedEnd = extendedEnd
}
