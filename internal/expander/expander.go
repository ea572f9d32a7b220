// Package expander implements the Task Expander: joining orders with
// eligible machines to produce one CandidateTask per (order, machine,
// IML-variant) option, or dropping the order with feedback when no
// option exists.
package expander

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/deca-be/ml-scheduler/internal/domain"
	"github.com/deca-be/ml-scheduler/internal/dts"
	"github.com/deca-be/ml-scheduler/internal/feedback"
)

var fold = cases.Fold()

// Expander turns orders and machine capabilities into candidate tasks.
type Expander struct {
	Now      time.Time
	Feedback *feedback.Log
	// DefaultCavity and DefaultCycleAverageSeconds are used when a
	// capability row omits cavity/cycleAvg.
	DefaultCavity              int64
	DefaultCycleAverageSeconds float64

	// OnReject, if set, is called with a short reason code every time an
	// order is dropped instead of expanded, letting the caller track
	// rejections (e.g. as a metric) without parsing feedback text.
	OnReject func(reason string)
}

// Expand runs the algorithm of spec §4.1 over every order.
func (e *Expander) Expand(orders []domain.Order, capabilities []domain.MachineCapability) []domain.CandidateTask {
	bySubseries := map[string][]domain.MachineCapability{}
	for _, c := range capabilities {
		key := fold.String(c.Subseries)
		bySubseries[key] = append(bySubseries[key], c)
	}

	var tasks []domain.CandidateTask
	for _, order := range orders {
		tasks = append(tasks, e.expandOne(order, bySubseries[fold.String(order.Subseries)])...)
	}
	return tasks
}

func (e *Expander) expandOne(order domain.Order, rows []domain.MachineCapability) []domain.CandidateTask {
	if len(rows) == 0 {
		e.Feedback.Add(fmt.Sprintf("order %s: no machines capable of producing subseries %q", order.ID, order.Subseries))
		e.reject("no_eligible_machine")
		return nil
	}

	eligible := rows
	if order.IMLRequested {
		var imlRows []domain.MachineCapability
		for _, r := range rows {
			if r.IMLPossible {
				imlRows = append(imlRows, r)
			}
		}
		if len(imlRows) == 0 {
			e.Feedback.Add(fmt.Sprintf("order %s: IML requested but no capable machine supports IML for subseries %q", order.ID, order.Subseries))
			e.reject("iml_impossible")
			return nil
		}
		eligible = imlRows
	}

	dueSeconds, dueOK := dts.Convert(order.DueDate, e.Now)

	tasks := make([]domain.CandidateTask, 0, len(eligible))
	for _, cap := range eligible {
		cavity := cap.Cavity
		cycleAvg := cap.CycleAvgSecond
		defaultsUsed := false
		if cavity <= 0 {
			cavity = e.DefaultCavity
			defaultsUsed = true
		}
		if cycleAvg <= 0 {
			cycleAvg = e.DefaultCycleAverageSeconds
			defaultsUsed = true
		}
		if defaultsUsed {
			e.Feedback.AddOnce(
				"defaults:"+order.Subseries+":"+cap.Machine,
				[2]float64{float64(cavity), cycleAvg},
				fmt.Sprintf("subseries %q on machine %q: using default cavity/cycle-average values", order.Subseries, cap.Machine),
			)
		}

		seconds := int64(math.Round((float64(order.Quantity) / float64(cavity)) * cycleAvg))
		priority := order.RawPriority
		if priority == domain.PriorityUnset {
			priority = domain.PriorityNormalDefault
		}

		var isPastDue, isImpossible bool
		if dueOK {
			isPastDue = dueSeconds <= 0
			isImpossible = dueSeconds > 0 && dueSeconds <= seconds
		}

		tasks = append(tasks, domain.CandidateTask{
			ID:                   strings.Join([]string{order.ID, order.Subseries, cap.Machine, imlSuffix(cap.IMLPossible)}, "⧧"),
			OrderID:              order.ID,
			Subseries:            order.Subseries,
			Machine:              cap.Machine,
			IMLPossible:          cap.IMLPossible,
			DurationSeconds:      seconds,
			DefaultsUsed:         defaultsUsed,
			DueDate:              order.DueDate,
			IsPastDue:            isPastDue,
			IsImpossibleDeadline: isImpossible,
			AdjustedPriority:     priority,
			Description:          order.Description,
			MoldName:             order.MoldName,
			HotRunner:            order.HotRunner,
		})
	}
	return tasks
}

func (e *Expander) reject(reason string) {
	if e.OnReject != nil {
		e.OnReject(reason)
	}
}

func imlSuffix(possible bool) string {
	if possible {
		return "iml"
	}
	return "noiml"
}

