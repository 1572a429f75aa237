// kenken - a KenKen puzzle solver and web service.
// Copyright (C) 2016 Aaron Kimball.
//
// Licensed under the LGPL v3.  See the LICENSE file for details

package puzzle

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

/*

Reading puzzle files

The textual puzzle format is N lines of single-character cage
labels forming the N-by-N layout, a blank line, then one
constraint per line of the form

	<label> <operator> <goal>

where operator is one of + - * /.  Blank lines among the
constraints are ignored.

*/

// Read parses a puzzle description into a Summary.  Problems
// with the text produce puzzle Errors with FormatScope; the
// Summary is not otherwise validated here (that's New's job), so
// a Read that succeeds can still describe an ill-formed puzzle.
func Read(r io.Reader) (*Summary, error) {
	scanner := bufio.NewScanner(r)
	summary := &Summary{}

	// the layout: the first line fixes the side length
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if line == "" {
			break
		}
		summary.Boxes = append(summary.Boxes, line)
		if summary.Size == 0 {
			summary.Size = len(line)
		}
		if len(summary.Boxes) == summary.Size {
			break
		}
	}
	if summary.Size == 0 {
		return nil, formatError(lineno, EmptyArgumentCondition, nil)
	}
	if len(summary.Boxes) != summary.Size {
		return nil, formatError(lineno, WrongRowCountCondition,
			ErrorData{len(summary.Boxes), summary.Size})
	}

	// the separator
	if !scanner.Scan() {
		return nil, formatError(lineno, MissingSeparatorCondition, nil)
	}
	lineno++
	if sep := strings.TrimSpace(scanner.Text()); sep != "" {
		return nil, formatError(lineno, MissingSeparatorCondition, nil)
	}

	// the constraints
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 || len(fields[0]) != 1 || len(fields[1]) != 1 {
			return nil, formatError(lineno, MalformedConstraintCondition, ErrorData{line})
		}
		goal, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, formatError(lineno, MalformedConstraintCondition, ErrorData{line})
		}
		summary.Cages = append(summary.Cages, CageSpec{
			Label:    fields[0],
			Operator: Operator(fields[1][0]),
			Goal:     goal,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, formatError(lineno, GeneralCondition, ErrorData{err.Error()})
	}
	return summary, nil
}

func formatError(lineno int, cond ErrorCondition, extra ErrorData) Error {
	return Error{
		Scope:     FormatScope,
		Structure: AttributeStructure,
		Attribute: LineAttribute,
		Condition: cond,
		Values:    append(ErrorData{lineno}, extra...),
	}
}

/*

Print forms of puzzle values

*/

var (
	valueStrings = []string{
		" ", "1", "2", "3", "4", "5", "6", "7", "8", "9",
		"A", "B", "C", "D", "E", "F", "G", "H", "I", "J",
		"K", "L", "M", "N", "O", "P", "Q", "R", "S", "T",
		"U", "V", "W", "X", "Y", "Z",
	}
	nonValueString = "?"
	bigValueString = "!"
)

func vstr(i int) string {
	if i < 0 {
		return nonValueString
	}
	if i < len(valueStrings) {
		return valueStrings[i]
	}
	return bigValueString
}

/*

Pretty-printed puzzles in strings, for terminals and debugging.

*/

// String gives a pretty-printed view of a puzzle: the grid with
// cage boundaries drawn, filled with the solution values if the
// puzzle has been solved and with cage labels otherwise, plus
// the constraint list.
func (p *Puzzle) String() string {
	return p.ValuesString() + p.ConstraintsString()
}

// ValuesString returns a pretty-printed grid.  Borders are drawn
// between cells that belong to different cages (and around the
// outside), so the cage shapes are visible in the text form.
func (p *Puzzle) ValuesString() (result string) {
	if p == nil {
		return
	}
	size := p.summary.Size
	cell := func(r, c int) string {
		if p.soln != nil {
			return vstr(p.soln.Values[r*size+c])
		}
		return p.summary.Boxes[r][c : c+1]
	}
	sameCage := func(i, j int) bool {
		return p.cageOf[i] == p.cageOf[j]
	}
	for r := 0; r < size; r++ {
		// border above row r
		for c := 0; c < size; c++ {
			if r == 0 || !sameCage((r-1)*size+c, r*size+c) {
				result += "+---"
			} else {
				result += "+   "
			}
		}
		result += "+\n"
		// row r itself
		for c := 0; c < size; c++ {
			if c == 0 || !sameCage(r*size+c-1, r*size+c) {
				result += "|"
			} else {
				result += " "
			}
			result += fmt.Sprintf(" %s ", cell(r, c))
		}
		result += "|\n"
	}
	for c := 0; c < size; c++ {
		result += "+---"
	}
	result += "+\n"
	return
}

// ConstraintsString lists the cage constraints, one per line, in
// the puzzle-file form.
func (p *Puzzle) ConstraintsString() (result string) {
	if p == nil {
		return
	}
	for _, c := range p.summary.Cages {
		result += fmt.Sprintf("%s %s %d\n", c.Label, c.Operator, c.Goal)
	}
	return
}

/*

Markdown-formatted tables, for documentation

*/

// ValuesMarkdown returns a markdown-format table for a puzzle as
// a string: solution values if solved, cage labels otherwise.
func (p *Puzzle) ValuesMarkdown() (result string) {
	if p == nil {
		return
	}
	size := p.summary.Size

	// first put out the header
	result += "|     |"
	for i := 0; i < size; i++ {
		result += "  " + strconv.Itoa(i+1) + "  |"
	}
	result += "\n"
	// next comes the header separator line
	result += "|"
	for i := 0; i < size+1; i++ {
		result += ":---:|"
	}
	result += "\n"
	// next comes the content of the puzzle,
	// with each line prefixed by a letter.
	for r, rowhdr := 0, 'a'; r < size; r, rowhdr = r+1, rowhdr+1 {
		result += "|**" + string(rowhdr) + "**"
		for c := 0; c < size; c++ {
			if p.soln != nil {
				result += "| " + vstr(p.soln.Values[r*size+c]) + " "
			} else {
				result += "| " + p.summary.Boxes[r][c:c+1] + " "
			}
		}
		result += "|\n"
	}
	return
}
