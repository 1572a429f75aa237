package puzzle

/*

Cage constraint checking

A cage's satisfiability check is a pruning oracle, not a
completeness check: given the current (possibly partial) values
at the cage's cells, it must never reject an assignment that
could still be completed, and should reject as early as possible
when the partial assignment already makes success impossible.

For the commutative operators (sum, product) we fold the values
in encounter order and stop at the first unfilled cell.  Because
cell values and goals are always positive integers, both folds
are monotonically non-decreasing, so an accumulator that exceeds
the goal can never recover and the branch is rejected
immediately.

For the non-commutative operators (difference, quotient) the
order of application matters and the cell order is arbitrary, so
we try every cell as the anchor and search all orderings of the
remainder.  A partial assignment is never rejected here: proving
impossibility across orderings of unknown values isn't worth the
cost for the cage sizes this puzzle family uses (rarely more
than 3 or 4 cells).

*/

// unset is the cell value meaning "not yet guessed".
const unset = 0

// A cage is one constraint unit: its label, operator, and goal
// from the summary, plus the cell indices it covers, computed
// once at puzzle creation and immutable afterward.  The scratch
// slice holds the grid values at those cells during a check, so
// checking doesn't allocate.
type cage struct {
	label   string
	op      Operator
	goal    int
	ord     int   // index of this cage in the puzzle's cage list
	cells   []int // grid indices, in reading order
	scratch []int
}

func newCage(spec CageSpec) *cage {
	return &cage{label: spec.Label, op: spec.Operator, goal: spec.Goal}
}

// satisfied gathers the current grid values at the cage's cells
// and checks satisfiability.
func (cg *cage) satisfied(g *grid) bool {
	for i, ci := range cg.cells {
		cg.scratch[i] = g.cells[ci]
	}
	return cg.satisfiable(cg.scratch)
}

// satisfiable reports whether the cage's constraint is exactly
// met (all values set) or still could be (some values unset).
func (cg *cage) satisfiable(vals []int) bool {
	switch cg.op {
	case SumOp, ProductOp:
		return cg.commutative(vals)
	case DifferenceOp, QuotientOp:
		return cg.ordered(vals)
	}
	return false
}

// commutative folds sum or product cages in encounter order,
// short-circuiting on the first unset value and on overshoot.
func (cg *cage) commutative(vals []int) bool {
	acc := 0
	if cg.op == ProductOp {
		acc = 1
	}
	for _, v := range vals {
		if v == unset {
			return true
		}
		if cg.op == SumOp {
			acc += v
		} else {
			acc *= v
		}
		if acc > cg.goal {
			return false
		}
	}
	return acc == cg.goal
}

// ordered checks difference and quotient cages.  Any unset value
// means the cage can't be disproven yet.  On a complete value
// set, the cage is satisfiable iff some anchor cell combined
// against some ordering of the rest reproduces the goal.
func (cg *cage) ordered(vals []int) bool {
	if len(vals) == 0 {
		// cages are validated non-empty; defensive boundary only
		return false
	}
	for _, v := range vals {
		if v == unset {
			return true
		}
	}
	rest := make([]int, len(vals)-1)
	for i, anchor := range vals {
		copy(rest, vals[:i])
		copy(rest[i:], vals[i+1:])
		if cg.applies(anchor, rest) {
			return true
		}
	}
	return false
}

// applies searches all orderings of rest applied against acc,
// looking for one that hits the goal exactly.  Quotient steps
// check divisibility first; a division that would leave a
// remainder fails that ordering rather than truncating into a
// false positive.
func (cg *cage) applies(acc int, rest []int) bool {
	if len(rest) == 0 {
		return acc == cg.goal
	}
	for i := range rest {
		rest[0], rest[i] = rest[i], rest[0]
		v := rest[0]
		ok := false
		if cg.op == DifferenceOp {
			ok = cg.applies(acc-v, rest[1:])
		} else if acc%v == 0 {
			ok = cg.applies(acc/v, rest[1:])
		}
		rest[0], rest[i] = rest[i], rest[0]
		if ok {
			return true
		}
	}
	return false
}
