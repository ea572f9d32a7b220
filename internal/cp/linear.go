package cp

// linearConstraint enforces sum(coeff_i * var_i) REL constant, where REL
// is ==, <= or >=. Propagation is bound-consistency: isolate each term
// and tighten its variable's domain from the bounds the remaining terms
// allow.
type linearConstraint struct {
	terms    []Term
	kind     relKind
	constant int64
}

// termBounds returns the minimum and maximum value coeff*domain can take.
func termBounds(coeff int64, d Domain) (int64, int64) {
	lo, hi := d.Min()*coeff, d.Max()*coeff
	if lo > hi {
		return hi, lo
	}
	return lo, hi
}

func (c *linearConstraint) propagate(m *Model, st []Domain) (changed, ok bool) {
	n := len(c.terms)
	lows := make([]int64, n)
	highs := make([]int64, n)
	var sumLow, sumHigh int64
	for i, t := range c.terms {
		lo, hi := termBounds(t.Coeff, st[t.Var.id])
		lows[i], highs[i] = lo, hi
		sumLow += lo
		sumHigh += hi
	}

	switch c.kind {
	case relEQ:
		if sumLow > c.constant || sumHigh < c.constant {
			return false, false
		}
	case relLE:
		if sumLow > c.constant {
			return false, false
		}
	case relGE:
		if sumHigh < c.constant {
			return false, false
		}
	}

	for i, t := range c.terms {
		restLow := sumLow - lows[i]
		restHigh := sumHigh - highs[i]

		var targetLow, targetHigh int64
		haveLow, haveHigh := false, false
		switch c.kind {
		case relEQ:
			targetLow, targetHigh = c.constant-restHigh, c.constant-restLow
			haveLow, haveHigh = true, true
		case relLE:
			targetHigh = c.constant - restLow
			haveHigh = true
		case relGE:
			targetLow = c.constant - restHigh
			haveLow = true
		}

		d := st[t.Var.id]
		if t.Coeff == 0 {
			continue
		}
		var newLo, newHi int64 = d.Min(), d.Max()
		if t.Coeff > 0 {
			if haveLow {
				lo := ceilDiv(targetLow, t.Coeff)
				if lo > newLo {
					newLo = lo
				}
			}
			if haveHigh {
				hi := floorDiv(targetHigh, t.Coeff)
				if hi < newHi {
					newHi = hi
				}
			}
		} else {
			if haveLow {
				hi := floorDiv(targetLow, t.Coeff)
				if hi < newHi {
					newHi = hi
				}
			}
			if haveHigh {
				lo := ceilDiv(targetHigh, t.Coeff)
				if lo > newLo {
					newLo = lo
				}
			}
		}
		if newLo > d.Min() || newHi < d.Max() {
			narrowed := d.IntersectRange(newLo, newHi)
			if narrowed.IsEmpty() {
				return false, false
			}
			st[t.Var.id] = narrowed
			changed = true
		}
	}
	return changed, true
}

func (c *linearConstraint) check(m *Model, st []Domain) bool {
	var sum int64
	for _, t := range c.terms {
		sum += t.Coeff * st[t.Var.id].Min()
	}
	switch c.kind {
	case relEQ:
		return sum == c.constant
	case relLE:
		return sum <= c.constant
	case relGE:
		return sum >= c.constant
	}
	return false
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func ceilDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) == (b < 0)) {
		q++
	}
	return q
}
