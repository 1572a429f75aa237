package puzzle

/*

KenKen puzzle solver

The solver is a depth-first backtracking search over the grid
cells in reading order.  At each cell it tries the candidate
values 1..N in ascending order; after each tentative placement
it checks the affected row, the affected column, and the cage
containing the cell.  If all three accept the placement it
recurses to the next cell; when every candidate at a cell fails
it resets the cell and reports failure to its caller, which
resumes with its own next candidate.

The search is destructive: backtracking undoes placements in the
grid rather than copying it.  It is also deterministic; the
first solution in row-major, ascending-value order always wins,
and the same puzzle always yields the same grid.  Recursion
depth is bounded by N squared, one frame per cell on the active
path, which is negligible for the sizes this puzzle family uses.

*/

// Solve runs the search and returns the solution, or an Error
// with UnsatisfiableCondition if the search space is exhausted
// without one.  Exhaustion is a normal negative result, not an
// internal error; callers can distinguish it with
// IsUnsatisfiable.  The outcome is memoized, so repeated calls
// are cheap.
func (p *Puzzle) Solve() (*Solution, error) {
	if p.soln != nil {
		return p.soln, nil
	}
	if !p.unsat {
		if p.place(0, 0) {
			p.soln = &Solution{Values: append([]int(nil), p.grid.cells...)}
			return p.soln, nil
		}
		p.unsat = true
	}
	return nil, Error{
		Scope:     GridScope,
		Structure: ScopeStructure,
		Condition: UnsatisfiableCondition,
	}
}

// place tries to complete the grid from the cursor (r, c)
// onward, returning whether it succeeded.  On failure the grid
// is exactly as it was on entry.
func (p *Puzzle) place(r, c int) bool {
	if c == p.grid.size {
		return p.place(r+1, 0)
	}
	if r == p.grid.size {
		// the cursor has passed the last cell, so every cell is
		// assigned and every placement was checked on the way in
		return true
	}
	for v := 1; v <= p.grid.size; v++ {
		p.grid.set(r, c, v)
		if p.admissible(r, c) && p.place(r, c+1) {
			return true
		}
	}
	p.grid.clear(r, c)
	return false
}

// admissible checks the just-placed cell at (r, c): no duplicate
// in its row or column, and the cage covering it still
// satisfiable under the current partial assignment.
func (p *Puzzle) admissible(r, c int) bool {
	if p.grid.rowHasDuplicate(r) || p.grid.colHasDuplicate(c) {
		return false
	}
	return p.cages[p.cageOf[p.grid.index(r, c)]].satisfied(p.grid)
}
