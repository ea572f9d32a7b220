package constraints

import (
	"fmt"

	"github.com/deca-be/ml-scheduler/internal/cp"
	"github.com/deca-be/ml-scheduler/internal/domain"
	"github.com/deca-be/ml-scheduler/internal/dts"
)

const changeoverCapacity int64 = 3

// BuildGlobalConstraints runs spec §4.5: the shared changeover-technician
// cumulative capacity, the subseries-swap start window, and the IML-swap
// weekend ban.
func (inj *Injector) BuildGlobalConstraints(availableWeekendDays []domain.AvailableWeekendDay) {
	inj.buildChangeoverCapacity()
	inj.buildSwapStartWindow()
	inj.buildIMLSwapWeekendBan(availableWeekendDays)
}

// buildChangeoverCapacity combines every "ombouw" prep interval (demand
// 1) with every capacity-reduction interval (demand 3-C) into a single
// cumulative constraint of capacity 3.
func (inj *Injector) buildChangeoverCapacity() {
	n := len(inj.OmbouwPreps) + len(inj.Builder.CapacityReductionIntervals)
	if n == 0 {
		return
	}
	ivs := make([]cp.OptionalInterval, 0, n)
	demands := make([]int64, 0, n)
	for _, p := range inj.OmbouwPreps {
		ivs = append(ivs, p.OptionalInterval)
		demands = append(demands, 1)
	}
	for i, iv := range inj.Builder.CapacityReductionIntervals {
		ivs = append(ivs, iv)
		demands = append(demands, inj.Builder.CapacityReductionDemands[i])
	}
	inj.Builder.Model.AddCumulative(ivs, demands, changeoverCapacity)
}

// buildSwapStartWindow constrains every "ombouw" prep's start to the
// allowed-swap-start domain built by the Interval Builder.
func (inj *Injector) buildSwapStartWindow() {
	for _, p := range inj.OmbouwPreps {
		inj.Builder.Model.AddAllowedAssignments(p.Start, inj.Builder.AllowedSwapStartRanges)
	}
}

// buildIMLSwapWeekendBan forbids every "ombouw2" prep's start and end
// from falling inside a forbidden weekend day on its machine.
func (inj *Injector) buildIMLSwapWeekendBan(availableWeekendDays []domain.AvailableWeekendDay) {
	m := inj.Builder.Model
	byMachine := map[string][]*Prep{}
	for _, p := range inj.Ombouw2Preps {
		byMachine[p.Machine] = append(byMachine[p.Machine], p)
	}
	for machine, preps := range byMachine {
		days := inj.Builder.ForbiddenWeekendDays(machine, availableWeekendDays)
		for _, p := range preps {
			for _, d := range days {
				dStart, ok1 := dts.Convert(dts.StartOfDay(d), inj.Now)
				dEnd, ok2 := dts.Convert(dts.StartOfDay(d).AddDate(0, 0, 1), inj.Now)
				if !ok1 || !ok2 {
					continue
				}
				name := fmt.Sprintf("%s.%s.ban", p.Meta, d.Format("2006-01-02"))

				startBefore := m.NewReifiedLE(name+".start_before", []cp.Term{{Var: p.Start, Coeff: 1}}, dStart-1)
				startAfter := m.NewReifiedGE(name+".start_after", []cp.Term{{Var: p.Start, Coeff: 1}}, dEnd+1)
				m.AddImplicationGE(p.Present,
					[]cp.Term{{Var: startBefore.IntVar, Coeff: 1}, {Var: startAfter.IntVar, Coeff: 1}}, 1)

				endBefore := m.NewReifiedLE(name+".end_before", []cp.Term{{Var: p.End, Coeff: 1}}, dStart-1)
				endAfter := m.NewReifiedGE(name+".end_after", []cp.Term{{Var: p.End, Coeff: 1}}, dEnd+1)
				m.AddImplicationGE(p.Present,
					[]cp.Term{{Var: endBefore.IntVar, Coeff: 1}, {Var: endAfter.IntVar, Coeff: 1}}, 1)
			}
		}
	}
}
