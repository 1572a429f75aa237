// kenken - a KenKen puzzle solver and web service.
// Copyright (C) 2016 Aaron Kimball.
//
// Licensed under the LGPL v3.  See the LICENSE file for details

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/jackc/pgx/v5"

	"github.com/kimballa/kenken/puzzle"
)

/*

puzzle entries

*/

// A puzzleEntry is the stored form of a puzzle summary.  It is
// JSON-serializable so it can go into the cache as well as the
// database.  The PuzzleId is the summary's signature, so the
// same puzzle submitted twice shares one entry.
type puzzleEntry struct {
	PuzzleId string
	Size     int
	Boxes    []string
	Cages    []puzzle.CageSpec
}

// SavePuzzle stores the puzzle described by a summary, if it
// isn't already stored, and returns its puzzle ID.
func SavePuzzle(summary *puzzle.Summary) string {
	pe := &puzzleEntry{
		PuzzleId: summary.Signature(),
		Size:     summary.Size,
		Boxes:    summary.Boxes,
		Cages:    summary.Cages,
	}
	if pe.cacheLoad() {
		return pe.PuzzleId
	}
	if pe.databaseLoad() {
		pe.cacheInsert()
		return pe.PuzzleId
	}
	pe.databaseInsert()
	pe.cacheInsert()
	return pe.PuzzleId
}

// LoadPuzzle returns a fresh Puzzle for a stored puzzle ID, and
// whether the ID was found.
func LoadPuzzle(id string) (*puzzle.Puzzle, bool) {
	pe := &puzzleEntry{PuzzleId: id}
	if !pe.cacheLoad() {
		if !pe.databaseLoad() {
			return nil, false
		}
		pe.cacheInsert()
	}
	return pe.makePuzzle(), true
}

// summary: reconstruct the Summary a puzzle entry stores.
func (pe *puzzleEntry) summary() *puzzle.Summary {
	return &puzzle.Summary{
		Size:  pe.Size,
		Boxes: pe.Boxes,
		Cages: pe.Cages,
	}
}

// makePuzzle: make the puzzle described in a puzzle entry.
// Stored entries were validated on the way in, so a failure here
// is an internal error.
func (pe *puzzleEntry) makePuzzle() *puzzle.Puzzle {
	p, e := puzzle.New(pe.summary())
	if e != nil {
		panic(fmt.Errorf("Failed to create puzzle %q: %v", pe.PuzzleId, e))
	}
	return p
}

// key: compute the cache key for a puzzleEntry.
func (pe *puzzleEntry) key() string {
	return "PID:" + pe.PuzzleId
}

// cacheLoad: load an already cached puzzle entry.  Returns
// whether the entry was found in the cache.
func (pe *puzzleEntry) cacheLoad() bool {
	var bytes []byte
	body := func(tx redis.Conn) (err error) {
		bytes, err = redis.Bytes(tx.Do("GET", pe.key()))
		if err == redis.ErrNil {
			return nil
		}
		if err != nil {
			err = fmt.Errorf("Cache failure loading puzzle entry %q: %v", pe.PuzzleId, err)
		}
		return
	}
	rdExecute(body)
	if len(bytes) == 0 {
		return false
	}
	var spe *puzzleEntry
	if err := json.Unmarshal(bytes, &spe); err != nil {
		panic(fmt.Errorf("Failed to unmarshal puzzle entry %q: %v", pe.PuzzleId, err))
	}
	if spe.PuzzleId != pe.PuzzleId {
		panic(fmt.Errorf("Cached puzzle entry (id: %q) found for puzzle %q!",
			spe.PuzzleId, pe.PuzzleId))
	}
	*pe = *spe
	return true
}

// cacheInsert: insert a puzzle entry into the cache.  Replaces
// any existing entry with the same id.
func (pe *puzzleEntry) cacheInsert() {
	bytes, e := json.Marshal(pe)
	if e != nil {
		panic(fmt.Errorf("Failed to marshal puzzle entry %q: %v", pe.PuzzleId, e))
	}
	body := func(tx redis.Conn) (err error) {
		_, err = tx.Do("SET", pe.key(), bytes)
		if err != nil {
			err = fmt.Errorf("Cache failure saving puzzle entry %q: %v", pe.PuzzleId, err)
		}
		return
	}
	rdExecute(body)
}

// databaseLoad: load a puzzle entry from the database.  Returns
// whether a saved entry with the given id was found.
func (pe *puzzleEntry) databaseLoad() (found bool) {
	body := func(tx pgx.Tx) error {
		var boxes []string
		var cages []byte
		row := tx.QueryRow(context.Background(),
			"SELECT sideLength, boxes, cageList FROM puzzles "+
				"WHERE puzzleId = $1", pe.PuzzleId)
		err := row.Scan(&pe.Size, &boxes, &cages)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("Failure looking up puzzle %q: %v", pe.PuzzleId, err)
		}
		pe.Boxes = boxes
		if err := json.Unmarshal(cages, &pe.Cages); err != nil {
			return fmt.Errorf("Failure decoding cages of puzzle %q: %v", pe.PuzzleId, err)
		}
		found = true
		return nil
	}
	pgExecute(body)
	return
}

// databaseInsert: insert a new puzzle entry into the database.
// Panics if there is already a saved entry with the given id.
func (pe *puzzleEntry) databaseInsert() {
	cages, e := json.Marshal(pe.Cages)
	if e != nil {
		panic(fmt.Errorf("Failed to marshal cages of puzzle %q: %v", pe.PuzzleId, e))
	}
	body := func(tx pgx.Tx) (err error) {
		_, err = tx.Exec(context.Background(),
			"INSERT INTO puzzles (puzzleId, sideLength, boxes, cageList, created) "+
				"VALUES ($1, $2, $3, $4, $5)",
			pe.PuzzleId, pe.Size, pe.Boxes, cages, time.Now())
		if err != nil {
			err = fmt.Errorf("Database error saving puzzle entry %q: %v", pe.PuzzleId, err)
		}
		return
	}
	pgExecute(body)
}

/*

solution entries

*/

// A solutionEntry is the stored result of solving a puzzle:
// either the solved values or the fact that no solution exists.
// Solves are deterministic, so the result is stored once and
// every later request for the same puzzle is a lookup.
type solutionEntry struct {
	PuzzleId      string
	Values        []int
	Unsatisfiable bool
}

// SaveSolution stores the outcome of a solve.  A nil solution
// records that the puzzle is unsatisfiable.
func SaveSolution(pid string, soln *puzzle.Solution) {
	se := &solutionEntry{PuzzleId: pid}
	if soln == nil {
		se.Unsatisfiable = true
	} else {
		se.Values = soln.Values
	}
	se.databaseInsert()
	se.cacheInsert()
}

// LoadSolution looks up the stored outcome of solving a puzzle.
// found reports whether an outcome was stored; if found, a nil
// solution means the puzzle is unsatisfiable.
func LoadSolution(pid string) (soln *puzzle.Solution, found bool) {
	se := &solutionEntry{PuzzleId: pid}
	if !se.cacheLoad() {
		if !se.databaseLoad() {
			return nil, false
		}
		se.cacheInsert()
	}
	if se.Unsatisfiable {
		return nil, true
	}
	return &puzzle.Solution{Values: se.Values}, true
}

// key: compute the cache key for a solutionEntry.
func (se *solutionEntry) key() string {
	return "SOLN:" + se.PuzzleId
}

// cacheLoad: load an already cached solution entry.  Returns
// whether the entry was found in the cache.
func (se *solutionEntry) cacheLoad() bool {
	var bytes []byte
	body := func(tx redis.Conn) (err error) {
		bytes, err = redis.Bytes(tx.Do("GET", se.key()))
		if err == redis.ErrNil {
			return nil
		}
		if err != nil {
			err = fmt.Errorf("Cache failure loading solution entry %q: %v", se.PuzzleId, err)
		}
		return
	}
	rdExecute(body)
	if len(bytes) == 0 {
		return false
	}
	var sse *solutionEntry
	if err := json.Unmarshal(bytes, &sse); err != nil {
		panic(fmt.Errorf("Failed to unmarshal solution entry %q: %v", se.PuzzleId, err))
	}
	*se = *sse
	return true
}

// cacheInsert: insert a solution entry into the cache.
func (se *solutionEntry) cacheInsert() {
	bytes, e := json.Marshal(se)
	if e != nil {
		panic(fmt.Errorf("Failed to marshal solution entry %q: %v", se.PuzzleId, e))
	}
	body := func(tx redis.Conn) (err error) {
		_, err = tx.Do("SET", se.key(), bytes)
		if err != nil {
			err = fmt.Errorf("Cache failure saving solution entry %q: %v", se.PuzzleId, err)
		}
		return
	}
	rdExecute(body)
}

// databaseLoad: load a solution entry from the database.
// Returns whether a saved entry with the given id was found.
func (se *solutionEntry) databaseLoad() (found bool) {
	body := func(tx pgx.Tx) error {
		row := tx.QueryRow(context.Background(),
			"SELECT valueList, unsatisfiable FROM solutions "+
				"WHERE puzzleId = $1", se.PuzzleId)
		err := row.Scan(&se.Values, &se.Unsatisfiable)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("Failure looking up solution %q: %v", se.PuzzleId, err)
		}
		found = true
		return nil
	}
	pgExecute(body)
	return
}

// databaseInsert: insert a solution entry into the database.
// Solving is deterministic, so a concurrent duplicate insert
// would carry the same values; we keep whichever landed first.
func (se *solutionEntry) databaseInsert() {
	body := func(tx pgx.Tx) (err error) {
		_, err = tx.Exec(context.Background(),
			"INSERT INTO solutions (puzzleId, valueList, unsatisfiable, created) "+
				"VALUES ($1, $2, $3, $4) ON CONFLICT (puzzleId) DO NOTHING",
			se.PuzzleId, se.Values, se.Unsatisfiable, time.Now())
		if err != nil {
			err = fmt.Errorf("Database error saving solution entry %q: %v", se.PuzzleId, err)
		}
		return
	}
	pgExecute(body)
}
