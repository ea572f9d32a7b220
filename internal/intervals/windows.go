package intervals

import (
	"time"

	"github.com/deca-be/ml-scheduler/internal/domain"
	"github.com/deca-be/ml-scheduler/internal/dts"
)

// BuildAllowedSwapStartDomain is ordering step (3): the union of
// [06:00,13:00] ranges (seconds-from-now) for every weekday, plus every
// weekend day explicitly marked available for at least one machine,
// across the whole horizon.
func (b *Builder) BuildAllowedSwapStartDomain(availableWeekendDays []domain.AvailableWeekendDay) {
	availableDates := map[time.Time]bool{}
	for _, w := range availableWeekendDays {
		availableDates[dts.StartOfDay(w.Date)] = true
	}

	day := dts.StartOfDay(b.Now)
	end := b.Now.Add(time.Duration(domain.Horizon) * time.Second)
	for !day.After(end) {
		if !dts.IsWeekend(day) || availableDates[day] {
			lo, loOK := dts.Convert(dts.AtClock(day, 6, 0), b.Now)
			hi, hiOK := dts.Convert(dts.AtClock(day, 13, 0), b.Now)
			if loOK && hiOK && lo <= hi {
				loC, hiC := clamp(lo, 0, domain.Horizon), clamp(hi, 0, domain.Horizon)
				if loC <= hiC {
					b.AllowedSwapStartRanges = append(b.AllowedSwapStartRanges, [2]int64{loC, hiC})
				}
			}
		}
		day = day.AddDate(0, 0, 1)
	}
}

// BuildBlockerIntervals is ordering step (4): one fixed interval per day
// covering the hard-blocker band from 13:00 of day D to 06:00 of day
// D+1. The band is built exactly as the source this specification was
// distilled from builds it — 13:00→06:00, not the "11 PM - 1 AM" its
// own docstring claimed (spec §9 Open Question #1) — but, matching that
// same source, the resulting intervals are never wired into a
// constraint. No task or preparation interval is restricted by it.
func (b *Builder) BuildBlockerIntervals() {
	day := dts.StartOfDay(b.Now)
	end := b.Now.Add(time.Duration(domain.Horizon) * time.Second)
	for !day.After(end) {
		bandStart := dts.AtClock(day, 13, 0)
		bandEnd := dts.AtClock(day.AddDate(0, 0, 1), 6, 0)
		startSeconds, startOK := dts.Convert(bandStart, b.Now)
		endSeconds, endOK := dts.Convert(bandEnd, b.Now)
		day = day.AddDate(0, 0, 1)
		if !startOK || !endOK {
			continue
		}
		startC := clamp(startSeconds, 0, domain.Horizon)
		endC := clamp(endSeconds, 0, domain.Horizon)
		if endC <= startC {
			continue
		}
		start := b.Model.NewConstant(startC)
		iv := b.Model.NewFixedInterval(start, endC-startC, "blocker")
		b.BlockerIntervals = append(b.BlockerIntervals, iv)
	}
}

// ForbiddenWeekendDays returns every Saturday/Sunday within the horizon
// that is NOT explicitly marked available for machine — the days the
// weekend-duration-extension constraint (spec §4.4) must account for.
func (b *Builder) ForbiddenWeekendDays(machine string, available []domain.AvailableWeekendDay) []time.Time {
	availableDates := map[time.Time]bool{}
	for _, w := range available {
		if w.Machine == machine {
			availableDates[dts.StartOfDay(w.Date)] = true
		}
	}
	var out []time.Time
	day := dts.StartOfDay(b.Now)
	end := b.Now.Add(time.Duration(domain.Horizon) * time.Second)
	for !day.After(end) {
		if dts.IsWeekend(day) && !availableDates[day] {
			out = append(out, day)
		}
		day = day.AddDate(0, 0, 1)
	}
	return out
}
