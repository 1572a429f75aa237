// kenken - a KenKen puzzle solver and web service.
// Copyright (C) 2016 Aaron Kimball.
//
// Licensed under the LGPL v3.  See the LICENSE file for details

// Web server for the kenken solver.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/kimballa/kenken/client"
	"github.com/kimballa/kenken/puzzle"
	"github.com/kimballa/kenken/storage"
)

const cookieName = "kenkenID"
const cookiePath = "/"

/*

session selection

*/

// sessionSelect: find or create the session for the current
// connection.  Sessions are persisted in the cache, so a
// returning browser picks up the puzzle it was viewing even
// after a server restart.
func sessionSelect(w http.ResponseWriter, r *http.Request) *storage.Session {
	if sc, e := r.Cookie(cookieName); e == nil && sc.Value != "" {
		session := &storage.Session{SID: sc.Value}
		if session.Lookup() {
			return session
		}
		log.Printf("No saved session %q, starting a new one.", sc.Value)
	}
	session := storage.NewSession()
	sc := &http.Cookie{Name: cookieName, Value: session.SID, Path: cookiePath}
	http.SetCookie(w, sc)
	return session
}

/*

request handlers

*/

// rootHandler routes every request: registered static resources
// first, then the API and page endpoints, each of which needs a
// session.
func rootHandler(w http.ResponseWriter, r *http.Request) {
	defer errorRecovery(w, r)
	if client.StaticHandler(w, r) {
		return
	}
	log.Printf("Handling %s %s...", r.Method, r.URL.Path)
	session := sessionSelect(w, r)
	switch {
	case strings.HasPrefix(r.URL.Path, "/api/"):
		apiHandler(session, w, r)
	case strings.HasPrefix(r.URL.Path, "/solver/"):
		if pid := r.URL.Path[len("/solver/"):]; pid != "" {
			session.StartPuzzle(pid)
		}
		solverHandler(session, w, r)
	case r.URL.Path == "/" || r.URL.Path == "/home.html":
		homeHandler(session, w, r)
	default:
		http.Redirect(w, r, "/solver/", http.StatusFound)
	}
}

func apiHandler(session *storage.Session, w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/newPuzzle":
		newPuzzleHandler(session, w, r)
	case "/api/summary":
		session.Puzzle.SummaryHandler(w, r)
	case "/api/state":
		session.Puzzle.StateHandler(w, r)
	case "/api/solve":
		solveHandler(session, w, r)
	default:
		err := puzzle.Error{
			Scope:     puzzle.RequestScope,
			Structure: puzzle.AttributeValueStructure,
			Attribute: puzzle.URLAttribute,
			Condition: puzzle.GeneralCondition,
			Values:    puzzle.ErrorData{r.URL.Path, "No such endpoint"},
		}
		err.Message = err.Error()
		sendJSON(w, http.StatusNotFound, err)
		log.Printf("No such endpoint %q.", r.URL.Path)
	}
}

// newPuzzleHandler validates a posted summary, stores the puzzle
// it describes, and points the session at it.  The response is
// the validated state; the client then navigates to /solver/ to
// view the stored puzzle.
func newPuzzleHandler(session *storage.Session, w http.ResponseWriter, r *http.Request) {
	p, e := puzzle.NewHandler(w, r)
	if p == nil {
		log.Printf("New puzzle rejected: %v", e)
		return
	}
	pid := storage.SavePuzzle(p.Summary())
	session.StartPuzzle(pid)
	log.Printf("Session %v now viewing new puzzle %q.", session.SID, pid)
}

func solveHandler(session *storage.Session, w http.ResponseWriter, r *http.Request) {
	soln, e := session.Solve()
	if e != nil {
		if err, ok := e.(puzzle.Error); ok && puzzle.IsUnsatisfiable(e) {
			err.Message = err.Error()
			sendJSON(w, http.StatusConflict, err)
			log.Printf("Puzzle %q has no solution.", session.PID)
			return
		}
		panic(e)
	}
	sendJSON(w, http.StatusOK, soln)
	log.Printf("Returned solution of puzzle %q.", session.PID)
}

func solverHandler(session *storage.Session, w http.ResponseWriter, r *http.Request) {
	state := session.Puzzle.State()
	// show the solved grid if this puzzle's solution is stored
	if soln, found := storage.LoadSolution(session.PID); found && soln != nil {
		state.Values = soln.Values
	}
	serveHTML(w, http.StatusOK, client.SolverPage(session.SID, session.PID, state))
}

func homeHandler(session *storage.Session, w http.ResponseWriter, r *http.Request) {
	serveHTML(w, http.StatusOK, client.HomePage(session.SID, session.PID, session.RecentPuzzles()))
}

/*

response helpers

*/

// storage failures panic out of the handlers; catch them here
// and turn them into a response the client can use.
func errorRecovery(w http.ResponseWriter, r *http.Request) {
	if rec := recover(); rec != nil {
		log.Printf("Panic handling %s %s: %v", r.Method, r.URL.Path, rec)
		e, ok := rec.(error)
		if !ok {
			e = fmt.Errorf("%v", rec)
		}
		if strings.HasPrefix(r.URL.Path, "/api/") {
			sendJSON(w, http.StatusInternalServerError, puzzle.Error{
				Scope:     puzzle.InternalScope,
				Structure: puzzle.ScopeStructure,
				Condition: puzzle.GeneralCondition,
				Values:    puzzle.ErrorData{e.Error()},
				Message:   e.Error(),
			})
		} else {
			serveHTML(w, http.StatusInternalServerError, client.ErrorPage(e))
		}
	}
}

func sendJSON(w http.ResponseWriter, status int, obj interface{}) {
	bytes, e := json.Marshal(obj)
	if e != nil {
		http.Error(w, e.Error(), http.StatusInternalServerError)
		return
	}
	hs := w.Header()
	hs.Add("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(bytes)
}

func serveHTML(w http.ResponseWriter, status int, body string) {
	hs := w.Header()
	hs.Add("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

/*

main

*/

func main() {
	if err := client.VerifyResources(); err != nil {
		log.Fatalf("Couldn't find client resources: %v", err)
	}
	cacheId, databaseId, err := storage.Connect()
	if err != nil {
		log.Fatalf("Couldn't connect to storage: %v", err)
	}
	defer storage.Close()
	log.Printf("Connected to cache at %q and database at %q.", cacheId, databaseId)

	http.HandleFunc("/", rootHandler)

	// Heroku environment port sensing
	port := os.Getenv("PORT")
	if port == "" {
		// running locally in dev mode
		port = "localhost:8080"
	} else {
		// running as a true server
		port = ":" + port
	}

	log.Printf("Listening on %s...", port)
	if err := http.ListenAndServe(port, nil); err != nil {
		storage.Close()
		log.Fatal("Listener failure: ", err)
	}
}
