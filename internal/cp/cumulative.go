package cp

import "sort"

// cumulativeConstraint enforces that the sum of demands of intervals
// active at any instant never exceeds capacity, for intervals that are
// present. Propagation is time-table filtering over compulsory parts,
// grounded on the sweep used by a standalone Cumulative implementation
// found in the wider reference corpus for this module: compute each
// interval's compulsory part from its current [earliestStart, latestStart]
// window, sum demands over the union of compulsory parts into a profile,
// and forbid any start for interval i that would push the profile over
// capacity. Profiles are built from sorted events rather than a
// second-granularity array, since the scheduling horizon is half a year
// of seconds.
type cumulativeConstraint struct {
	intervals []OptionalInterval
	demands   []int64
	capacity  int64
}

// AddCumulative enforces that at every instant, the sum of demands of
// intervals present at that instant does not exceed capacity.
func (m *Model) AddCumulative(intervals []OptionalInterval, demands []int64, capacity int64) {
	m.constraints = append(m.constraints, &cumulativeConstraint{
		intervals: append([]OptionalInterval{}, intervals...),
		demands:   append([]int64{}, demands...),
		capacity:  capacity,
	})
}

// AddNoOverlap enforces that no two present intervals overlap; it is
// sugar over AddCumulative with a unit demand per interval and capacity 1.
func (m *Model) AddNoOverlap(intervals []OptionalInterval) {
	demands := make([]int64, len(intervals))
	for i := range demands {
		demands[i] = 1
	}
	m.AddCumulative(intervals, demands, 1)
}

type event struct {
	t      int64
	delta  int64
	isEnd  bool
	idx    int
}

func (c *cumulativeConstraint) propagate(m *Model, st []Domain) (changed, ok bool) {
	n := len(c.intervals)
	if n == 0 {
		return false, true
	}

	// Intervals carry both a fixed Duration (the guaranteed minimum
	// occupied span for any chosen start — task intervals whose end is
	// extended past start+Duration by the weekend-extension booking
	// still occupy at least Duration) and an End variable whose domain
	// may run ahead of start+Duration once that booking applies. The
	// compulsory part — the window every valid assignment is guaranteed
	// to occupy — must be derived from the End domain, not Duration
	// alone, or a task whose actual reserved span is longer than its
	// base Duration could be overlapped undetected.
	type window struct{ est, lst, ect int64 }
	windows := make([]window, n)
	var events []event
	for i, iv := range c.intervals {
		pd := st[iv.Present.id]
		if pd.IsEmpty() {
			return false, false
		}
		if pd.Max() == 0 {
			continue // cannot be present, contributes nothing
		}
		sd := st[iv.Start.id]
		ed := st[iv.End.id]
		if sd.IsEmpty() || ed.IsEmpty() {
			return false, false
		}
		est, lst := sd.Min(), sd.Max()
		ect := ed.Min()
		windows[i] = window{est: est, lst: lst, ect: ect}
		if lst <= ect-1 && c.demands[i] > 0 {
			cpStart, cpEnd := lst, ect-1
			events = append(events,
				event{t: cpStart, delta: c.demands[i], idx: i},
				event{t: cpEnd + 1, delta: -c.demands[i], idx: i, isEnd: true},
			)
		}
	}
	if len(events) == 0 {
		return false, true
	}
	sort.Slice(events, func(i, j int) bool { return events[i].t < events[j].t })

	// Build the profile as a step function over the sorted event times.
	type step struct {
		t     int64
		level int64
	}
	var steps []step
	var level int64
	for i := 0; i < len(events); {
		t := events[i].t
		for i < len(events) && events[i].t == t {
			level += events[i].delta
			i++
		}
		if level > c.capacity {
			return false, false
		}
		steps = append(steps, step{t: t, level: level})
	}

	// segEnd[k] is the last instant at which steps[k]'s level holds
	// (steps[k+1].t - 1, or the latest any interval could possibly end
	// for the final step).
	segEnd := make([]int64, len(steps))
	for k := range steps {
		if k+1 < len(steps) {
			segEnd[k] = steps[k+1].t - 1
		} else {
			segEnd[k] = steps[k].t + maxSpan(c.intervals, st)
		}
	}

	for i, iv := range c.intervals {
		if c.demands[i] == 0 {
			continue
		}
		pd := st[iv.Present.id]
		if pd.Max() == 0 {
			continue
		}
		sd := st[iv.Start.id]
		w := windows[i]
		cpStart, cpEnd := w.lst, w.ect-1
		hasCP := cpStart <= cpEnd

		// A window [v, v+dur-1] is infeasible if any segment it touches
		// has (level, minus this task's own compulsory contribution)
		// plus this task's demand exceeding capacity. Collect the
		// forbidden start ranges directly from the overloaded segments
		// instead of scanning every second of the horizon. Duration here
		// is the guaranteed minimum occupied width, so excluding a start
		// on this basis is always sound even though it may under-prune
		// relative to the true (possibly extended) end.
		var forbidden [][2]int64
		for k, s := range steps {
			level := s.level
			segLo, segHi := s.t, segEnd[k]
			if hasCP {
				// Subtract this task's own compulsory contribution where
				// the segment overlaps it, conservatively over the whole
				// segment if it overlaps at all.
				if segLo <= cpEnd && segHi >= cpStart {
					level -= c.demands[i]
				}
			}
			if level+c.demands[i] <= c.capacity {
				continue
			}
			// Any start v with [v, v+dur-1] intersecting [segLo, segHi]
			// is forbidden: v in [segLo-dur+1, segHi].
			forbidden = append(forbidden, [2]int64{segLo - iv.Duration + 1, segHi})
		}

		sd2 := sd
		for _, f := range forbidden {
			sd2 = subtractRange(sd2, f[0], f[1])
		}

		if sd2.IsEmpty() {
			if pd.Min() == 1 {
				return false, false
			}
			// interval cannot be present at any feasible start; force absent
			forced := st[iv.Present.id].IntersectRange(0, 0)
			if forced.IsEmpty() {
				return false, false
			}
			if st[iv.Present.id].Max() != 0 {
				st[iv.Present.id] = forced
				changed = true
			}
			continue
		}
		if sd2.Min() != sd.Min() || sd2.Max() != sd.Max() || len(sd2.Ranges()) != len(sd.Ranges()) {
			st[iv.Start.id] = sd2
			changed = true
		}
	}
	return changed, true
}

// subtractRange removes [lo, hi] from d.
func subtractRange(d Domain, lo, hi int64) Domain {
	if d.IsEmpty() || lo > hi {
		return d
	}
	out := make([][2]int64, 0, len(d.ranges)+1)
	for _, r := range d.ranges {
		if hi < r[0] || lo > r[1] {
			out = append(out, r)
			continue
		}
		if lo > r[0] {
			out = append(out, [2]int64{r[0], lo - 1})
		}
		if hi < r[1] {
			out = append(out, [2]int64{hi + 1, r[1]})
		}
	}
	return Domain{ranges: out}
}

// maxSpan returns the furthest any interval's End domain currently
// reaches, used as a stand-in for +infinity when closing out the final
// profile segment.
func maxSpan(intervals []OptionalInterval, st []Domain) int64 {
	var m int64
	for _, iv := range intervals {
		if e := st[iv.End.id].Max(); e > m {
			m = e
		}
	}
	return m
}

func (c *cumulativeConstraint) check(m *Model, st []Domain) bool {
	type iv struct{ s, e int64; d int64 }
	var active []iv
	for i, interval := range c.intervals {
		if st[interval.Present.id].Min() != 1 {
			continue
		}
		s := st[interval.Start.id].Min()
		e := st[interval.End.id].Min()
		active = append(active, iv{s: s, e: e - 1, d: c.demands[i]})
	}
	if len(active) == 0 {
		return true
	}
	var events []event
	for _, a := range active {
		events = append(events, event{t: a.s, delta: a.d}, event{t: a.e + 1, delta: -a.d})
	}
	sort.Slice(events, func(i, j int) bool { return events[i].t < events[j].t })
	var level int64
	for _, e := range events {
		level += e.delta
		if level > c.capacity {
			return false
		}
	}
	return true
}
