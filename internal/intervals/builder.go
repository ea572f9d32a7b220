// Package intervals implements the Interval Builder: per-task optional
// intervals, the shared machine/maintenance/capacity-reduction tables,
// the allowed swap-start domain, and the hard-blocker band — everything
// later constraint and objective code reads back out of a Builder rather
// than recomputing.
package intervals

import (
	"fmt"
	"time"

	"github.com/deca-be/ml-scheduler/internal/cp"
	"github.com/deca-be/ml-scheduler/internal/domain"
	"github.com/deca-be/ml-scheduler/internal/dts"
)

// TaskInterval pairs one CandidateTask with its CP interval and the
// per-weekend-day extension booleans built for it (spec §4.4). Kept as
// one record, per the exclusive-ownership/compound-value design note,
// rather than three parallel maps keyed by task ID.
type TaskInterval struct {
	Task              domain.CandidateTask
	Interval          cp.OptionalInterval
	OrderVar          cp.IntVar
	WeekendExtensions []WeekendExtension

	// ExtendedEnd is end = start + duration + Σ per-day weekend
	// extensions (spec §4.4), the value every downstream reader — the
	// no-overlap set, the changeover pins, the objective, and the
	// extractor — must use in place of Interval.End.
	ExtendedEnd cp.IntVar
}

// WeekendExtension is the per-forbidden-weekend-day booking for one task.
type WeekendExtension struct {
	Day    time.Time
	Inside cp.BoolVar
}

// Builder owns every shared lookup table built during interval
// construction and consumed by the constraint injector and objective
// stages. Per the exclusive-ownership design note, exactly one Builder
// is created per run and handed down through model construction; nothing
// outside this pipeline stage may mutate its tables once Solve begins.
type Builder struct {
	Model *cp.Model
	Now   time.Time

	// MachineIntervals holds every task candidate targeting a given
	// machine, including tasks whose presence literal may end up false.
	MachineIntervals map[string][]*TaskInterval

	// PrepIntervalsForNoOverlap is keyed here so the per-machine
	// constraint stage can append to it as it creates changeover
	// intervals, without first having to know which machines exist.
	PrepIntervalsForNoOverlap map[string][]cp.OptionalInterval

	// MaintenanceIntervals holds one fixed interval per
	// MachineMaintenanceWindow, keyed by machine.
	MaintenanceIntervals map[string][]cp.OptionalInterval

	// BlockerIntervals are the "forbidden hour band" intervals (spec §9
	// Open Question #1: 13:00 of day D to 06:00 of day D+1), built for
	// parity with the source this specification was distilled from.
	// That source constructs this same list and never feeds it into any
	// constraint — not the no-overlap set, not a cumulative — so it is
	// kept here built but unconsumed rather than invented a use for.
	BlockerIntervals []cp.OptionalInterval

	// CapacityReductionIntervals and CapacityReductionDemands are one
	// fixed interval (and its demand, 3-C) per contiguous run of
	// technician-short days, consumed by the global cumulative
	// constraint alongside the "ombouw" preparation intervals.
	CapacityReductionIntervals []cp.OptionalInterval
	CapacityReductionDemands   []int64

	// AllowedSwapStartRanges is the union of [06:00,13:00] ranges (in
	// seconds-from-now) across weekdays and explicitly-available
	// weekend days, used by AddAllowedAssignments on every "ombouw"
	// preparation interval's start variable.
	AllowedSwapStartRanges [][2]int64

	tasksByOrder map[string][]*TaskInterval
}

// NewBuilder returns an empty Builder over model, anchored at now.
func NewBuilder(model *cp.Model, now time.Time) *Builder {
	return &Builder{
		Model:                     model,
		Now:                       now,
		MachineIntervals:          map[string][]*TaskInterval{},
		PrepIntervalsForNoOverlap: map[string][]cp.OptionalInterval{},
		MaintenanceIntervals:      map[string][]cp.OptionalInterval{},
		tasksByOrder:              map[string][]*TaskInterval{},
	}
}

// BuildTaskIntervals is ordering step (1): one optional interval per
// candidate task, plus one exactly-one constraint per order over its
// candidates' presence literals.
func (b *Builder) BuildTaskIntervals(tasks []domain.CandidateTask) error {
	for _, t := range tasks {
		if t.DurationSeconds < 0 {
			return fmt.Errorf("intervals: task %s has negative duration %d", t.ID, t.DurationSeconds)
		}
		present := b.Model.NewBoolVar(t.ID + ".chosen")
		start := b.Model.NewIntVar(0, domain.Horizon, t.ID+".start")
		iv := b.Model.NewOptionalInterval(start, t.DurationSeconds, present, t.ID)
		ti := &TaskInterval{Task: t, Interval: iv}
		b.MachineIntervals[t.Machine] = append(b.MachineIntervals[t.Machine], ti)
		b.tasksByOrder[t.OrderID] = append(b.tasksByOrder[t.OrderID], ti)
	}
	for _, group := range b.tasksByOrder {
		lits := make([]cp.BoolVar, len(group))
		for i, ti := range group {
			lits[i] = ti.Interval.Present
		}
		b.Model.AddExactlyOne(lits)
	}
	return nil
}

// TasksByOrder exposes the grouping built by BuildTaskIntervals.
func (b *Builder) TasksByOrder() map[string][]*TaskInterval { return b.tasksByOrder }

// BuildMaintenanceIntervals turns MachineMaintenanceWindow rows into
// fixed intervals, keyed by machine.
func (b *Builder) BuildMaintenanceIntervals(windows []domain.MachineMaintenanceWindow) {
	for _, w := range windows {
		startSeconds, ok := dts.Convert(w.Start, b.Now)
		if !ok {
			continue
		}
		endSeconds, ok := dts.Convert(w.End, b.Now)
		if !ok || endSeconds <= startSeconds {
			continue
		}
		start := b.Model.NewConstant(startSeconds)
		iv := b.Model.NewFixedInterval(start, endSeconds-startSeconds, w)
		b.MaintenanceIntervals[w.Machine] = append(b.MaintenanceIntervals[w.Machine], iv)
	}
}
