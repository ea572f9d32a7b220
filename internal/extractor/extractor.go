// Package extractor is the Result Extractor: decodes a solved model's
// variable assignment back into the two output tables, or emits both
// empty with a logged status on a non-success solve.
package extractor

import (
	"fmt"
	"sort"
	"time"

	"github.com/deca-be/ml-scheduler/internal/constraints"
	"github.com/deca-be/ml-scheduler/internal/cp"
	"github.com/deca-be/ml-scheduler/internal/domain"
	"github.com/deca-be/ml-scheduler/internal/dts"
	"github.com/deca-be/ml-scheduler/internal/intervals"
)

// Result is the pair of output tables spec §4.7 produces.
type Result struct {
	ScheduledOrders      []domain.ScheduledOrder
	PreparationIntervals []domain.PreparationInterval
}

// Extract decodes sol against b and inj's tables. On a non-success status
// it returns an empty Result; the caller is expected to log sol.Status.
func Extract(sol *cp.Solution, b *intervals.Builder, inj *constraints.Injector, now time.Time) Result {
	if sol.Status != cp.StatusOptimal && sol.Status != cp.StatusFeasible {
		return Result{}
	}

	var res Result
	for _, tasks := range b.MachineIntervals {
		for _, t := range tasks {
			if !sol.BoolValue(t.Interval.Present) {
				continue
			}
			res.ScheduledOrders = append(res.ScheduledOrders, scheduledOrderFor(sol, t, now))
		}
	}

	for _, p := range inj.OmbouwPreps {
		if row, ok := preparationIntervalFor(sol, p, now); ok {
			res.PreparationIntervals = append(res.PreparationIntervals, row)
		}
	}
	for _, p := range inj.Ombouw2Preps {
		if row, ok := preparationIntervalFor(sol, p, now); ok {
			res.PreparationIntervals = append(res.PreparationIntervals, row)
		}
	}

	sort.Slice(res.ScheduledOrders, func(i, j int) bool {
		a, c := res.ScheduledOrders[i], res.ScheduledOrders[j]
		if a.Machine != c.Machine {
			return a.Machine < c.Machine
		}
		return a.Start.Before(c.Start)
	})
	return res
}

func scheduledOrderFor(sol *cp.Solution, t *intervals.TaskInterval, now time.Time) domain.ScheduledOrder {
	startSeconds := sol.Value(t.Interval.Start)
	endSeconds := sol.Value(t.ExtendedEnd)

	var weekends []time.Time
	for _, ext := range t.WeekendExtensions {
		if sol.BoolValue(ext.Inside) {
			weekends = append(weekends, ext.Day)
		}
	}

	info := domain.InfoNormal
	switch {
	case t.Task.IsImpossibleDeadline:
		info = domain.InfoImpossibleDeadline
	case t.Task.IsPastDue:
		info = domain.InfoPastDue
	}

	return domain.ScheduledOrder{
		OrderID:        t.Task.OrderID,
		Machine:        t.Task.Machine,
		Start:          dts.FromSeconds(startSeconds, now),
		End:            dts.FromSeconds(endSeconds, now),
		DurationHours:  float64(t.Task.DurationSeconds) / 3600,
		IMLPossible:    t.Task.IMLPossible,
		InfoCode:       info,
		WeekendsInside: weekends,
	}
}

func preparationIntervalFor(sol *cp.Solution, p *constraints.Prep, now time.Time) (domain.PreparationInterval, bool) {
	if !sol.BoolValue(p.Present) {
		return domain.PreparationInterval{}, false
	}
	reason := fmt.Sprintf("changeover from %q to %q", p.From.Task.Description, p.To.Task.Description)
	return domain.PreparationInterval{
		Machine:  p.Machine,
		Start:    dts.FromSeconds(sol.Value(p.Start), now),
		End:      dts.FromSeconds(sol.Value(p.End), now),
		Kind:     p.Kind,
		Reason:   reason,
		FromMold: p.From.Task.MoldName,
		ToMold:   p.To.Task.MoldName,
		FromDesc: p.From.Task.Description,
		ToDesc:   p.To.Task.Description,
	}, true
}
