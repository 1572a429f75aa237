// kenken - a KenKen puzzle solver and web service.
// Copyright (C) 2016 Aaron Kimball.
//
// Licensed under the LGPL v3.  See the LICENSE file for details

package storage

import (
	"fmt"
	"log"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/google/uuid"

	"github.com/kimballa/kenken/dbprep"
	"github.com/kimballa/kenken/puzzle"
)

// how many recently viewed puzzles a session remembers
const recentPuzzleLimit = 20

// A Session tracks one browser's activity: the puzzle it is
// currently looking at plus the puzzles it has viewed before.
// Sessions live only in the cache.
type Session struct {
	// these elements are persisted in the session hash
	SID     string // session ID
	PID     string // ID of the puzzle being viewed
	Created string // RFC3339 time when the session was created
	Saved   string // RFC3339 time when the session was last saved

	// these elements are rebuilt from the puzzle store
	Summary *puzzle.Summary `redis:"-"` // summary of the current puzzle
	Puzzle  *puzzle.Puzzle  `redis:"-"` // current puzzle
}

// NewSession creates a session with a fresh ID, viewing the
// default puzzle.  The session is saved by StartPuzzle.
func NewSession() *Session {
	session := &Session{
		SID:     uuid.New().String(),
		Created: time.Now().Format(time.RFC3339),
	}
	session.StartPuzzle("default")
	log.Printf("Started new session %v.", session.SID)
	return session
}

/*

session manipulation

*/

// StartPuzzle: set the puzzle ID for the session and load its
// puzzle.  If the given puzzle ID is empty, use the session's
// current puzzle ID.  If the given puzzle ID is the special
// value "default", or isn't a stored puzzle, use the default
// puzzle ID.
func (session *Session) StartPuzzle(pid string) {
	// change to the given pid, making sure it's valid
	if pid == "" {
		pid = session.PID
	} else if pid == "default" {
		pid = dbprep.DefaultPuzzleID()
	}
	p, found := LoadPuzzle(pid)
	if !found {
		pid = dbprep.DefaultPuzzleID()
		if p, found = LoadPuzzle(pid); !found {
			panic(fmt.Errorf("Default puzzle %q is not stored", pid))
		}
	}
	session.PID = pid
	session.Puzzle = p
	session.Summary = p.Summary()

	// update the cache
	session.Saved = time.Now().Format(time.RFC3339)
	body := func(tx redis.Conn) (err error) {
		tx.Send("HMSET", redis.Args{}.Add(session.key()).AddFlat(session)...)
		tx.Send("LREM", session.recentKey(), 0, pid)
		tx.Send("RPUSH", session.recentKey(), pid)
		_, err = tx.Do("LTRIM", session.recentKey(), -recentPuzzleLimit, -1)
		if err != nil {
			err = fmt.Errorf("Cache failure saving session %q: %v", session.SID, err)
		}
		return
	}
	rdExecute(body)
	log.Printf("Session %v now viewing puzzle %q.", session.SID, session.PID)
}

// Lookup: find the saved session data for the session's ID and
// load its puzzle.  Returns whether the session was found.
func (session *Session) Lookup() (found bool) {
	body := func(tx redis.Conn) error {
		vals, err := redis.Values(tx.Do("HGETALL", session.key()))
		if len(vals) > 0 {
			if err := redis.ScanStruct(vals, session); err != nil {
				return fmt.Errorf("Cache failure parsing saved session %q: %v",
					session.SID, err)
			}
			found = true
			return nil
		}
		if err != nil {
			return fmt.Errorf("Cache failure loading session %q: %v", session.SID, err)
		}
		return nil
	}
	rdExecute(body)
	if !found {
		return
	}
	// rebuild the puzzle for the saved puzzle ID
	session.StartPuzzle("")
	return
}

// RecentPuzzles: the puzzle IDs this session has viewed, oldest
// first, current puzzle last.
func (session *Session) RecentPuzzles() []string {
	var pids []string
	body := func(tx redis.Conn) (err error) {
		pids, err = redis.Strings(tx.Do("LRANGE", session.recentKey(), 0, -1))
		if err != nil {
			err = fmt.Errorf("Cache failure listing session %q puzzles: %v",
				session.SID, err)
		}
		return
	}
	rdExecute(body)
	return pids
}

/*

solving through a session

*/

// Solve returns the solution of the session's current puzzle,
// going to the solution store before the solver so each distinct
// puzzle is solved at most once.  An unsatisfiable puzzle yields
// the usual unsatisfiable Error.
func (session *Session) Solve() (*puzzle.Solution, error) {
	if soln, found := LoadSolution(session.PID); found {
		if soln == nil {
			return nil, puzzle.Error{
				Scope:     puzzle.GridScope,
				Structure: puzzle.ScopeStructure,
				Condition: puzzle.UnsatisfiableCondition,
			}
		}
		return soln, nil
	}
	soln, err := session.Puzzle.Solve()
	if err != nil {
		if !puzzle.IsUnsatisfiable(err) {
			return nil, err
		}
		SaveSolution(session.PID, nil)
		return nil, err
	}
	SaveSolution(session.PID, soln)
	return soln, nil
}

/*

session key generation

*/

// key - returns the session key
func (session *Session) key() string {
	return "SID:" + session.SID
}

// recentKey - returns the key for the session's viewed-puzzle list
func (session *Session) recentKey() string {
	return session.key() + ":Recent"
}
