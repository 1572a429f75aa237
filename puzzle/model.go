package puzzle

/*

KenKen puzzle representation

*/

// The grid is the mutable search state: an N-by-N array of cell
// values in reading order, where 0 means the cell hasn't been
// guessed yet.  Only the solver mutates it.  The seen slice is
// scratch storage for the duplicate checks, sized once so the
// checks don't allocate; search is single-threaded so sharing it
// is safe.
type grid struct {
	size  int
	cells []int
	seen  []bool
}

func newGrid(size int) *grid {
	return &grid{
		size:  size,
		cells: make([]int, size*size),
		seen:  make([]bool, size+1),
	}
}

// index converts a (row, col) position to a cell index.
func (g *grid) index(r, c int) int {
	return r*g.size + c
}

func (g *grid) set(r, c, v int) {
	g.cells[g.index(r, c)] = v
}

func (g *grid) clear(r, c int) {
	g.cells[g.index(r, c)] = unset
}

// rowHasDuplicate scans one row for a value that appears twice,
// ignoring unset cells.  Only the row containing the most recent
// placement is ever checked, which keeps the row/column pruning
// linear in the side length per placement.
func (g *grid) rowHasDuplicate(r int) bool {
	return g.hasDuplicate(g.index(r, 0), 1)
}

// colHasDuplicate is the column form of rowHasDuplicate.
func (g *grid) colHasDuplicate(c int) bool {
	return g.hasDuplicate(c, g.size)
}

func (g *grid) hasDuplicate(start, stride int) bool {
	for v := 1; v <= g.size; v++ {
		g.seen[v] = false
	}
	for i, n := start, 0; n < g.size; i, n = i+stride, n+1 {
		v := g.cells[i]
		if v == unset {
			continue
		}
		if g.seen[v] {
			return true
		}
		g.seen[v] = true
	}
	return false
}

/*

Puzzle construction

*/

// Side length bounds.  The upper bound is the largest value the
// single-character grid rendering can show.
const (
	minSize = 2
	maxSize = 35
)

// create validates a summary and builds the puzzle from it: the
// empty grid, the cage list with each cage's memoized cell
// indices, and the cell-to-cage mapping the solver consults
// after each placement.  Any summary this accepts satisfies the
// structural invariants the solver relies on: every cell belongs
// to exactly one cage, every cage has at least one cell, and
// every goal is a positive integer.
func create(summary *Summary) (*Puzzle, error) {
	size := summary.Size
	if size < minSize {
		return nil, sizeError(SizeAttribute, size, TooSmallCondition, minSize)
	}
	if size > maxSize {
		return nil, sizeError(SizeAttribute, size, TooLargeCondition, maxSize)
	}
	if len(summary.Boxes) != size {
		return nil, Error{
			Scope:     ArgumentScope,
			Structure: AttributeStructure,
			Attribute: RowAttribute,
			Condition: WrongRowCountCondition,
			Values:    ErrorData{len(summary.Boxes), size},
		}
	}
	for r, row := range summary.Boxes {
		if len(row) != size {
			return nil, Error{
				Scope:     ArgumentScope,
				Structure: AttributeStructure,
				Attribute: RowAttribute,
				Condition: WrongRowLengthCondition,
				Values:    ErrorData{r + 1, len(row), size},
			}
		}
	}

	// build the cages from the constraint list
	cages := make([]*cage, 0, len(summary.Cages))
	byLabel := make(map[string]*cage, len(summary.Cages))
	for _, spec := range summary.Cages {
		if byLabel[spec.Label] != nil {
			return nil, cageError(spec.Label, DuplicateConstraintCondition, nil)
		}
		if !spec.Operator.Known() {
			return nil, cageError(spec.Label, UnknownOperatorCondition,
				ErrorData{spec.Operator.String()})
		}
		if spec.Goal < 1 {
			return nil, cageError(spec.Label, NonPositiveGoalCondition,
				ErrorData{spec.Goal})
		}
		cg := newCage(spec)
		cg.ord = len(cages)
		cages = append(cages, cg)
		byLabel[spec.Label] = cg
	}

	// walk the layout once, memoizing each cage's cell indices
	// and the reverse cell-to-cage mapping
	cageOf := make([]int, size*size)
	for r, row := range summary.Boxes {
		for c := 0; c < size; c++ {
			label := row[c : c+1]
			cg := byLabel[label]
			if cg == nil {
				return nil, cageError(label, UncagedCellCondition,
					ErrorData{r + 1, c + 1})
			}
			idx := r*size + c
			cg.cells = append(cg.cells, idx)
			cageOf[idx] = cg.ord
		}
	}
	for _, cg := range cages {
		if len(cg.cells) == 0 {
			return nil, cageError(cg.label, EmptyCageCondition, nil)
		}
		cg.scratch = make([]int, len(cg.cells))
	}

	return &Puzzle{
		summary: summary.copy(),
		grid:    newGrid(size),
		cages:   cages,
		cageOf:  cageOf,
	}, nil
}

/*

Errors

*/

func sizeError(attr ErrorAttribute, val int, cond ErrorCondition, limit int) Error {
	return Error{
		Scope:     ArgumentScope,
		Structure: AttributeValueStructure,
		Attribute: attr,
		Condition: cond,
		Values:    ErrorData{val, limit},
	}
}

func cageError(label string, cond ErrorCondition, extra ErrorData) Error {
	return Error{
		Scope:     CageScope,
		Structure: ScopeStructure,
		Condition: cond,
		Values:    append(ErrorData{label}, extra...),
	}
}
