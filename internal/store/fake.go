package store

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/deca-be/ml-scheduler/internal/domain"
	"github.com/deca-be/ml-scheduler/internal/feedback"
)

// Fake is an in-memory Store used by the store and runner tests and by
// internal/test fixtures. It also models the ERP registration session's
// throttling (spec §6.3) with a rate limiter, so tests exercising many
// concurrent fetches see the same backpressure a real session would
// apply.
type Fake struct {
	OrderRows        []domain.Order
	CapabilityRows   []domain.MachineCapability
	MachineNames     []string
	MaintenanceRows  []domain.MachineMaintenanceWindow
	TechnicianRows   []domain.TechnicianAvailabilityChange
	WeekendRows      []domain.AvailableWeekendDay
	BlackoutRows     []domain.SubseriesBlackout
	WrittenScheduled []domain.ScheduledOrder
	WrittenPrep      []domain.PreparationInterval
	WrittenLogs      []*feedback.Tree
	WrittenFeedback  map[string]string

	erpLimiter *rate.Limiter
	RunID      string
}

// NewFake returns an empty Fake store with a fresh run identifier,
// mirroring the original implementation's use of a generated UUID to tag
// one run's order-group identifier.
func NewFake() *Fake {
	return &Fake{
		erpLimiter: rate.NewLimiter(rate.Limit(50), 10),
		RunID:      uuid.NewString(),
	}
}

func (f *Fake) Orders(ctx context.Context) ([]domain.Order, error) {
	return append([]domain.Order{}, f.OrderRows...), nil
}

func (f *Fake) Capabilities(ctx context.Context) ([]domain.MachineCapability, error) {
	return append([]domain.MachineCapability{}, f.CapabilityRows...), nil
}

func (f *Fake) Machines(ctx context.Context) ([]string, error) {
	if err := f.erpLimiter.Wait(ctx); err != nil {
		return nil, err
	}
	return append([]string{}, f.MachineNames...), nil
}

func (f *Fake) MaintenanceWindows(ctx context.Context) ([]domain.MachineMaintenanceWindow, error) {
	return append([]domain.MachineMaintenanceWindow{}, f.MaintenanceRows...), nil
}

// TechnicianAvailability applies the minimum-wins deduplication rule
// (spec §10) over any rows sharing a date before returning them.
func (f *Fake) TechnicianAvailability(ctx context.Context) ([]domain.TechnicianAvailabilityChange, error) {
	byDate := map[time.Time]int64{}
	order := []time.Time{}
	for _, r := range f.TechnicianRows {
		d := truncateToDay(r.Date)
		if existing, ok := byDate[d]; !ok {
			byDate[d] = r.Available
			order = append(order, d)
		} else if r.Available < existing {
			byDate[d] = r.Available
		}
	}
	sort.Slice(order, func(i, j int) bool { return order[i].Before(order[j]) })
	out := make([]domain.TechnicianAvailabilityChange, 0, len(order))
	for _, d := range order {
		out = append(out, domain.TechnicianAvailabilityChange{Date: d, Available: byDate[d]})
	}
	return out, nil
}

func (f *Fake) AvailableWeekendDays(ctx context.Context) ([]domain.AvailableWeekendDay, error) {
	return append([]domain.AvailableWeekendDay{}, f.WeekendRows...), nil
}

// SubseriesBlackouts discards any row whose End is already in the past
// (spec §10 "past blackout discard") relative to the wall clock.
func (f *Fake) SubseriesBlackouts(ctx context.Context) ([]domain.SubseriesBlackout, error) {
	now := time.Now()
	out := make([]domain.SubseriesBlackout, 0, len(f.BlackoutRows))
	for _, b := range f.BlackoutRows {
		if b.End.Before(now) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *Fake) ReplacePlanning(ctx context.Context, scheduled []domain.ScheduledOrder, preparations []domain.PreparationInterval) error {
	f.WrittenScheduled = append([]domain.ScheduledOrder{}, scheduled...)
	f.WrittenPrep = append([]domain.PreparationInterval{}, preparations...)
	return nil
}

// WriteLog appends tree and trims the retained history to retentionCount
// most-recent entries, mirroring the real ML_Logs retention policy.
func (f *Fake) WriteLog(ctx context.Context, tree *feedback.Tree, retentionCount int) error {
	f.WrittenLogs = append(f.WrittenLogs, tree)
	if over := len(f.WrittenLogs) - retentionCount; over > 0 {
		f.WrittenLogs = f.WrittenLogs[over:]
	}
	return nil
}

// WriteFeedback replaces the previous feedback document with messages.
func (f *Fake) WriteFeedback(ctx context.Context, messages map[string]string) error {
	f.WrittenFeedback = messages
	return nil
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

var _ Store = (*Fake)(nil)
