// Copyright 2016 Aaron Kimball.  All rights reserved.

// Package puzzle provides a model for KenKen puzzles and
// operations on them.  It supports both a golang interface and a
// web interface to the puzzles.
//
// In this package, a KenKen puzzle is an N-by-N grid whose cells
// are partitioned into labeled cages.  Each cage carries an
// arithmetic constraint: an operator (one of + - * /) and a goal
// value that applying the operator across the cage's cell values
// must reproduce exactly.  A solution fills every cell with a
// value between 1 and N such that every row and every column
// contains each value exactly once (the Latin property) and every
// cage's constraint is met.
//
// Cells are designated by indices that start at 0 and increase
// left-to-right, top-to-bottom (English reading order).  A cell
// value of 0 means the cell is not yet filled.
//
// The sum and product operators are commutative, so their cages
// can be checked by folding the cell values in any order.  The
// difference and quotient operators are not: their goal must be
// reproducible by combining some anchor cell's value against the
// remaining values in some order.  Division is integer-exact; an
// ordering whose division leaves a remainder does not meet the
// goal.
package puzzle

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

/*

Operators

*/

// An Operator is the arithmetic constraint symbol a cage
// carries.  The zero Operator is not a known operator.
type Operator byte

// Constants for the four cage operators.
const (
	SumOp        Operator = '+'
	DifferenceOp Operator = '-'
	ProductOp    Operator = '*'
	QuotientOp   Operator = '/'
)

// Known reports whether the operator is one of the four cage
// operators.
func (op Operator) Known() bool {
	switch op {
	case SumOp, DifferenceOp, ProductOp, QuotientOp:
		return true
	}
	return false
}

// Operators implement Stringer, producing their puzzle-file
// symbol.
func (op Operator) String() string {
	if op.Known() {
		return string(rune(op))
	}
	return fmt.Sprintf("<operator %d>", int(op))
}

// Operators marshal as their symbol so summaries are readable in
// the cache, the database, and web clients.
func (op Operator) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(op.String())), nil
}

func (op *Operator) UnmarshalJSON(bytes []byte) error {
	s, err := strconv.Unquote(string(bytes))
	if err != nil {
		return err
	}
	if len(s) != 1 || !Operator(s[0]).Known() {
		return Error{
			Scope:     ArgumentScope,
			Structure: ScopeStructure,
			Attribute: OperatorAttribute,
			Condition: UnknownOperatorCondition,
			Values:    ErrorData{s},
		}
	}
	*op = Operator(s[0])
	return nil
}

/*

Summaries

*/

// A CageSpec is the constraint on one cage: the cage's label in
// the box layout, its operator, and its goal value.
type CageSpec struct {
	Label    string   `json:"label"`
	Operator Operator `json:"operator"`
	Goal     int      `json:"goal"`
}

// A Summary is the complete, immutable description of a KenKen
// puzzle: the side length, the box layout (one string per row,
// one cage-label character per cell), and the cage constraints.
// Summaries are JSON-serializable so they can go into the cache
// and database as well as to web clients.
type Summary struct {
	Size  int        `json:"size"`
	Boxes []string   `json:"boxes"`
	Cages []CageSpec `json:"cages"`
}

// Signature produces a short hex string that identifies the
// puzzle a Summary describes, so identical puzzles share
// storage.  Constraints are hashed in given order; parsed
// summaries list them in file order.
func (s *Summary) Signature() string {
	h := sha256.New()
	fmt.Fprintf(h, "%d\n%s\n", s.Size, strings.Join(s.Boxes, "\n"))
	for _, c := range s.Cages {
		fmt.Fprintf(h, "%s %s %d\n", c.Label, c.Operator, c.Goal)
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// copy returns a Summary that shares no storage with the
// original.
func (s *Summary) copy() *Summary {
	return &Summary{
		Size:  s.Size,
		Boxes: append([]string(nil), s.Boxes...),
		Cages: append([]CageSpec(nil), s.Cages...),
	}
}

/*

Puzzles

*/

// A Puzzle is a validated KenKen puzzle ready to be solved.  The
// summary and the cage cell lists are computed once at creation
// and are immutable thereafter; the grid is owned by the solver
// and mutated in place during search.
type Puzzle struct {
	summary *Summary
	grid    *grid
	cages   []*cage
	cageOf  []int // cell index -> index into cages
	soln    *Solution
	unsat   bool
}

// A Solution is a fully assigned grid, as values in reading
// order.
type Solution struct {
	Values []int `json:"values"`
}

// The State of a puzzle gives its summary data plus the solved
// values once a solution has been found.
type State struct {
	Size   int        `json:"size"`
	Boxes  []string   `json:"boxes"`
	Cages  []CageSpec `json:"cages"`
	Values []int      `json:"values,omitempty"`
}

// New either returns a Puzzle for the given summary or an Error
// explaining why the summary doesn't describe a well-formed
// puzzle.  The cage cell lists are computed here, once; they are
// never recomputed because the layout is immutable for the life
// of the puzzle.
func New(summary *Summary) (*Puzzle, error) {
	if summary == nil || summary.Size == 0 {
		return nil, Error{
			Scope:     ArgumentScope,
			Structure: ScopeStructure,
			Condition: EmptyArgumentCondition,
		}
	}
	return create(summary)
}

// Summary returns a copy of the puzzle's summary (no shared
// storage).
func (p *Puzzle) Summary() *Summary {
	return p.summary.copy()
}

// State returns the puzzle's current state.  The solved values
// are present only after a successful Solve.
func (p *Puzzle) State() *State {
	s := &State{
		Size:  p.summary.Size,
		Boxes: append([]string(nil), p.summary.Boxes...),
		Cages: append([]CageSpec(nil), p.summary.Cages...),
	}
	if p.soln != nil {
		s.Values = append([]int(nil), p.soln.Values...)
	}
	return s
}
