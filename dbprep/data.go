// kenken - a KenKen puzzle solver and web service.
// Copyright (C) 2016 Aaron Kimball.
//
// Licensed under the LGPL v3.  See the LICENSE file for details

package dbprep

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kimballa/kenken/puzzle"
)

/*

entries

*/

type dataFunction func(context.Context, pgx.Tx) error

var (
	upFunctions = []dataFunction{
		insertSamples,
	}
	downFunctions = []dataFunction{
		deleteSamples,
	}
)

// DataUp: load the sample data into the database.  You should do
// this after you get the schema up!
func DataUp() error {
	return applyFunctions(upFunctions)
}

// DataDown: remove the sample data from the database.  You
// should do this before you tear the schema down!
func DataDown() error {
	return applyFunctions(downFunctions)
}

// apply dataFunctions to the database.  Each is applied in a
// separate transaction, so later ones can rely on the effect of
// earlier ones having been committed.
func applyFunctions(fns []dataFunction) error {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		url = "postgres://localhost/kenken?sslmode=disable"
	}
	ctx := context.Background()

	// open the database, defer the close
	conn, err := pgx.Connect(ctx, url)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	// helper that runs each function inside a transaction, and
	// ensures that any problems are rolled back.
	runFunc := func(fn dataFunction) error {
		tx, err := conn.Begin(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if e := recover(); e != nil {
				tx.Rollback(ctx)
				panic(e)
			}
		}()
		if err := fn(ctx, tx); err != nil {
			tx.Rollback(ctx)
			return err
		}
		return tx.Commit(ctx)
	}

	// run the functions
	for _, fn := range fns {
		if err := runFunc(fn); err != nil {
			return fmt.Errorf("%v failed: %v", fn, err)
		}
	}
	return nil
}

/*

sample puzzles

*/

// The sample puzzles every fresh database starts with.  Each has
// at least one solution.  The first is the puzzle new sessions
// open on.
var sampleSummaries = []*puzzle.Summary{
	{
		Size:  4,
		Boxes: []string{"AABC", "DEBC", "DEFF", "GGHH"},
		Cages: []puzzle.CageSpec{
			{Label: "A", Operator: puzzle.QuotientOp, Goal: 2},
			{Label: "B", Operator: puzzle.SumOp, Goal: 7},
			{Label: "C", Operator: puzzle.ProductOp, Goal: 12},
			{Label: "D", Operator: puzzle.DifferenceOp, Goal: 1},
			{Label: "E", Operator: puzzle.ProductOp, Goal: 4},
			{Label: "F", Operator: puzzle.QuotientOp, Goal: 2},
			{Label: "G", Operator: puzzle.SumOp, Goal: 7},
			{Label: "H", Operator: puzzle.DifferenceOp, Goal: 1},
		},
	},
	{
		Size:  3,
		Boxes: []string{"ABB", "ACB", "CCD"},
		Cages: []puzzle.CageSpec{
			{Label: "A", Operator: puzzle.SumOp, Goal: 3},
			{Label: "B", Operator: puzzle.ProductOp, Goal: 6},
			{Label: "C", Operator: puzzle.SumOp, Goal: 7},
			{Label: "D", Operator: puzzle.SumOp, Goal: 2},
		},
	},
	{
		Size:  5,
		Boxes: []string{"AABBC", "DEEFC", "DGFFH", "GGIHH", "JJIIK"},
		Cages: []puzzle.CageSpec{
			{Label: "A", Operator: puzzle.SumOp, Goal: 3},
			{Label: "B", Operator: puzzle.ProductOp, Goal: 12},
			{Label: "C", Operator: puzzle.QuotientOp, Goal: 5},
			{Label: "D", Operator: puzzle.DifferenceOp, Goal: 1},
			{Label: "E", Operator: puzzle.SumOp, Goal: 7},
			{Label: "F", Operator: puzzle.ProductOp, Goal: 25},
			{Label: "G", Operator: puzzle.SumOp, Goal: 13},
			{Label: "H", Operator: puzzle.ProductOp, Goal: 12},
			{Label: "I", Operator: puzzle.SumOp, Goal: 6},
			{Label: "J", Operator: puzzle.DifferenceOp, Goal: 4},
			{Label: "K", Operator: puzzle.SumOp, Goal: 4},
		},
	},
}

// DefaultPuzzleID returns the ID of the puzzle a new session
// opens on.
func DefaultPuzzleID() string {
	return sampleSummaries[0].Signature()
}

// insertSamples: put the sample puzzles into the puzzles table.
// Samples that are already present are left alone, so loading
// the data twice is harmless.
func insertSamples(ctx context.Context, tx pgx.Tx) error {
	for _, summary := range sampleSummaries {
		cages, err := json.Marshal(summary.Cages)
		if err != nil {
			return fmt.Errorf("Couldn't marshal cages of sample %q: %v",
				summary.Signature(), err)
		}
		_, err = tx.Exec(ctx,
			"INSERT INTO puzzles (puzzleId, sideLength, boxes, cageList, created) "+
				"VALUES ($1, $2, $3, $4, $5) ON CONFLICT (puzzleId) DO NOTHING",
			summary.Signature(), summary.Size, summary.Boxes, cages, time.Now())
		if err != nil {
			return fmt.Errorf("Couldn't insert sample %q: %v", summary.Signature(), err)
		}
	}
	return nil
}

// deleteSamples: remove the sample puzzles and any solutions
// stored for them.  Deleting absent samples is harmless.
func deleteSamples(ctx context.Context, tx pgx.Tx) error {
	for _, summary := range sampleSummaries {
		id := summary.Signature()
		if _, err := tx.Exec(ctx,
			"DELETE FROM solutions WHERE puzzleId = $1", id); err != nil {
			return fmt.Errorf("Couldn't delete sample %q solution: %v", id, err)
		}
		if _, err := tx.Exec(ctx,
			"DELETE FROM puzzles WHERE puzzleId = $1", id); err != nil {
			return fmt.Errorf("Couldn't delete sample %q: %v", id, err)
		}
	}
	return nil
}
