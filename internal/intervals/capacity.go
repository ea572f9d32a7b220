package intervals

import (
	"sort"
	"time"

	"github.com/deca-be/ml-scheduler/internal/domain"
	"github.com/deca-be/ml-scheduler/internal/dts"
)

// BuildCapacityReductionIntervals is ordering step (2): one fixed
// interval per maximal contiguous run of days sharing the same reduced
// technician capacity, with demand (default - available). Rows are
// assumed already deduplicated to one row per date by the minimum-wins
// rule (spec §10); this step only groups consecutive days.
func (b *Builder) BuildCapacityReductionIntervals(rows []domain.TechnicianAvailabilityChange, defaultAvailable int64) {
	reduced := make([]domain.TechnicianAvailabilityChange, 0, len(rows))
	for _, r := range rows {
		if r.Available < defaultAvailable {
			reduced = append(reduced, r)
		}
	}
	sort.Slice(reduced, func(i, j int) bool { return reduced[i].Date.Before(reduced[j].Date) })

	i := 0
	for i < len(reduced) {
		j := i + 1
		for j < len(reduced) &&
			reduced[j].Available == reduced[i].Available &&
			dts.StartOfDay(reduced[j].Date).Equal(dts.StartOfDay(reduced[j-1].Date).AddDate(0, 0, 1)) {
			j++
		}
		b.addCapacityRun(reduced[i].Date, reduced[j-1].Date, defaultAvailable-reduced[i].Available)
		i = j
	}
}

func (b *Builder) addCapacityRun(first, last time.Time, demand int64) {
	startSeconds, ok := dts.Convert(dts.StartOfDay(first), b.Now)
	if !ok {
		return
	}
	endOfLast := dts.StartOfDay(last).AddDate(0, 0, 1)
	endSeconds, ok := dts.Convert(endOfLast, b.Now)
	if !ok || endSeconds <= startSeconds {
		return
	}
	start := b.Model.NewConstant(clamp(startSeconds, 0, domain.Horizon))
	duration := clamp(endSeconds, 0, domain.Horizon) - clamp(startSeconds, 0, domain.Horizon)
	if duration <= 0 {
		return
	}
	iv := b.Model.NewFixedInterval(start, duration, nil)
	b.CapacityReductionIntervals = append(b.CapacityReductionIntervals, iv)
	b.CapacityReductionDemands = append(b.CapacityReductionDemands, demand)
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
