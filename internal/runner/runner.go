// Package runner is the single-writer, synchronous pipeline described in
// spec §5: one call into CalculatePlanning owns the logger context, the
// store handles, the CP model, and every shared table built along the
// way, and runs every stage in the mandated order.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go"
	"golang.org/x/sync/errgroup"

	"github.com/deca-be/ml-scheduler/internal/config"
	"github.com/deca-be/ml-scheduler/internal/constraints"
	"github.com/deca-be/ml-scheduler/internal/cp"
	"github.com/deca-be/ml-scheduler/internal/domain"
	"github.com/deca-be/ml-scheduler/internal/expander"
	"github.com/deca-be/ml-scheduler/internal/extractor"
	"github.com/deca-be/ml-scheduler/internal/feedback"
	"github.com/deca-be/ml-scheduler/internal/intervals"
	"github.com/deca-be/ml-scheduler/internal/objective"
	"github.com/deca-be/ml-scheduler/internal/store"
	"github.com/deca-be/ml-scheduler/internal/telemetry"
)

// Sentinel error classes (spec §7). Every error CalculatePlanning returns
// wraps exactly one of these, so callers and tests can classify a
// failure with errors.Is without parsing message text.
var (
	ErrConnectivity    = errors.New("connectivity")
	ErrInputValidation = errors.New("input validation")
	ErrModeling        = errors.New("modeling")
	ErrSolver          = errors.New("solver")
	ErrCleanup         = errors.New("cleanup")
)

// Runner owns the collaborators one CalculatePlanning run needs: the
// store and the settings every stage reads from. It carries no
// per-run state itself — that lives entirely on the stack of one
// CalculatePlanning call, per the exclusive-ownership design note.
type Runner struct {
	Store    store.Store
	Settings config.RunSettings
}

// New returns a Runner over the given collaborators.
func New(s store.Store, settings config.RunSettings) *Runner {
	return &Runner{Store: s, Settings: settings}
}

// inputs is every reference table the Input Assembler pulls, fetched
// concurrently since none depends on another.
type inputs struct {
	orders         []domain.Order
	capabilities   []domain.MachineCapability
	maintenance    []domain.MachineMaintenanceWindow
	technicianDays []domain.TechnicianAvailabilityChange
	weekendDays    []domain.AvailableWeekendDay
	blackouts      []domain.SubseriesBlackout
}

// CalculatePlanning runs the full pipeline once: assemble inputs, expand
// orders into candidate tasks, build the CP model in the mandated
// ordering, solve it within duration, extract the result, and write it
// back. On every exit path a deferred finalizer writes the feedback
// document and the run's log tree; no ERP session is acquired or
// logged out here.
func (r *Runner) CalculatePlanning(ctx context.Context, duration time.Duration) (res extractor.Result, err error) {
	now := time.Now()
	log := telemetry.FromContext(ctx)
	tree := feedback.NewTree("calculate_planning", now)
	fb := feedback.NewLog()

	defer func() {
		tree.Root().Close(time.Now())
		if werr := r.writeFeedback(ctx, fb, tree); werr != nil {
			log.Warnw("writing feedback/log documents failed", "error", werr)
		}
	}()

	in, err := r.assembleInputs(ctx, tree)
	if err != nil {
		tree.Root().Error(err.Error())
		return extractor.Result{}, fmt.Errorf("%w: %v", ErrConnectivity, err)
	}

	exp := &expander.Expander{
		Now:                        now,
		Feedback:                   fb,
		DefaultCavity:              r.Settings.DefaultCavity,
		DefaultCycleAverageSeconds: r.Settings.DefaultCycleAverageSeconds,
		OnReject: func(reason string) {
			telemetry.OrdersRejected.WithLabelValues(reason).Inc()
		},
	}
	tasks := exp.Expand(in.orders, in.capabilities)

	model := cp.NewModel()
	b := intervals.NewBuilder(model, now)

	buildFrame := tree.Root().Child("build_model", time.Now())
	if err := b.BuildTaskIntervals(tasks); err != nil {
		buildFrame.Error(err.Error())
		buildFrame.Close(time.Now())
		return extractor.Result{}, fmt.Errorf("%w: %v", ErrInputValidation, err)
	}
	b.BuildCapacityReductionIntervals(in.technicianDays, r.Settings.DefaultOmbouwersAvailable)
	b.BuildAllowedSwapStartDomain(in.weekendDays)
	b.BuildBlockerIntervals()
	b.BuildMaintenanceIntervals(in.maintenance)

	inj := constraints.NewInjector(b, now)
	// Weekend extensions must be built first: they set every task's
	// ExtendedEnd, which BuildMachineConstraints' no-overlap set and
	// changeover pins reserve against instead of the un-extended
	// Interval.End.
	inj.BuildWeekendExtensions(in.weekendDays)
	inj.BuildMachineConstraints(in.blackouts)
	inj.BuildGlobalConstraints(in.weekendDays)
	objective.Build(b, now)
	buildFrame.Close(time.Now())

	solveStart := time.Now()
	solveFrame := tree.Root().Child("solve", solveStart)
	sol, err := model.Solve(ctx, cp.Options{
		MaxDuration: duration,
		Workers:     r.Settings.SolverWorkers,
		OnProgress: func(ev cp.ProgressEvent) {
			log.Infow("search progress", "worker", ev.Worker, "objective", ev.Objective, "elapsed", ev.Elapsed)
		},
	})
	solveFrame.Close(time.Now())
	telemetry.SolveDurationSeconds.WithLabelValues(statusLabel(sol, err)).Observe(time.Since(solveStart).Seconds())
	if err != nil {
		solveFrame.Error(err.Error())
		return extractor.Result{}, fmt.Errorf("%w: %v", ErrModeling, err)
	}
	telemetry.RunsTotal.WithLabelValues(statusLabel(sol, err)).Inc()

	if sol.Status != cp.StatusOptimal && sol.Status != cp.StatusFeasible {
		solveFrame.Error(sol.Status.String())
		fb.Add(fmt.Sprintf("solver returned status %s", sol.Status))
		return extractor.Result{}, fmt.Errorf("%w: %s", ErrSolver, sol.Status)
	}

	res = extractor.Extract(sol, b, inj, now)
	for _, so := range res.ScheduledOrders {
		telemetry.OrdersScheduled.WithLabelValues(infoCodeLabel(so.InfoCode)).Inc()
	}

	if err := r.Store.ReplacePlanning(ctx, res.ScheduledOrders, res.PreparationIntervals); err != nil {
		return res, fmt.Errorf("%w: %v", ErrConnectivity, err)
	}
	return res, nil
}

// assembleInputs fetches every reference table concurrently, since no
// table depends on another, and retries each fetch against transient
// connectivity failures before giving up.
func (r *Runner) assembleInputs(ctx context.Context, tree *feedback.Tree) (inputs, error) {
	frame := tree.Root().Child("assemble_inputs", time.Now())
	defer frame.Close(time.Now())

	var in inputs
	g, ctx := errgroup.WithContext(ctx)
	g.Go(fetch(ctx, &in.orders, r.Store.Orders))
	g.Go(fetch(ctx, &in.capabilities, r.Store.Capabilities))
	g.Go(fetch(ctx, &in.maintenance, r.Store.MaintenanceWindows))
	g.Go(fetch(ctx, &in.technicianDays, r.Store.TechnicianAvailability))
	g.Go(fetch(ctx, &in.weekendDays, r.Store.AvailableWeekendDays))
	g.Go(fetch(ctx, &in.blackouts, r.Store.SubseriesBlackouts))
	if err := g.Wait(); err != nil {
		frame.Error(err.Error())
		return inputs{}, err
	}
	return in, nil
}

// fetch wraps one store call with a bounded retry against transient
// connectivity errors, matching spec §7 class 1.
func fetch[T any](ctx context.Context, dst *[]T, call func(context.Context) ([]T, error)) func() error {
	return func() error {
		return retry.Do(
			func() error {
				rows, err := call(ctx)
				if err != nil {
					return err
				}
				*dst = rows
				return nil
			},
			retry.Context(ctx),
			retry.Attempts(3),
			retry.Delay(200*time.Millisecond),
		)
	}
}

// writeFeedback is the cleanup finalizer of spec §7 class 5: write the
// feedback document and the run's log tree, trim log retention, and
// never re-raise a failure — the caller only logs what comes back.
func (r *Runner) writeFeedback(ctx context.Context, fb *feedback.Log, tree *feedback.Tree) error {
	return errors.Join(
		r.Store.WriteFeedback(ctx, fb.Document()),
		r.Store.WriteLog(ctx, tree, r.Settings.LogRetentionCount),
	)
}

func statusLabel(sol *cp.Solution, err error) string {
	if err != nil || sol == nil {
		return "ERROR"
	}
	return sol.Status.String()
}

func infoCodeLabel(code domain.InfoCode) string {
	switch code {
	case domain.InfoImpossibleDeadline:
		return "impossible_deadline"
	case domain.InfoPastDue:
		return "past_due"
	default:
		return "normal"
	}
}
