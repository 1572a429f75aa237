// kenken - a KenKen puzzle solver and web service.
// Copyright (C) 2016 Aaron Kimball.
//
// Licensed under the LGPL v3.  See the LICENSE file for details

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kimballa/kenken/dbprep"
	"github.com/kimballa/kenken/puzzle"
	"github.com/kimballa/kenken/storage"
)

/*

known-good test puzzles

*/

var (
	postedSummary = &puzzle.Summary{
		Size:  2,
		Boxes: []string{"AB", "BB"},
		Cages: []puzzle.CageSpec{
			{Label: "A", Operator: puzzle.SumOp, Goal: 1},
			{Label: "B", Operator: puzzle.SumOp, Goal: 5},
		},
	}
	// the only grid is 1,2/2,1
	postedSolution = []int{1, 2, 2, 1}

	hopelessSummary = &puzzle.Summary{
		Size:  2,
		Boxes: []string{"AA", "AA"},
		Cages: []puzzle.CageSpec{
			{Label: "A", Operator: puzzle.SumOp, Goal: 1},
		},
	}
)

/*

setup

*/

// These tests need a live cache and database.  When neither is
// available, skip the whole package rather than fail.
func TestMain(m *testing.M) {
	os.Setenv("DBPREP_PATH", filepath.Join("..", "..", "dbprep"))
	os.Setenv("STATIC_DIRECTORY", filepath.Join("..", "..", "static"))
	os.Setenv("TEMPLATE_DIRECTORY", filepath.Join("..", "..", "static", "tmpl"))
	if _, _, err := storage.Connect(); err != nil {
		fmt.Printf("Skipping server tests, no storage available: %v\n", err)
		os.Exit(0)
	}
	storage.Close()
	if err := dbprep.ReinitializeAll(); err != nil {
		panic(fmt.Errorf("Failed to reinitialize data at startup: %v", err))
	}
	defer func(code int) {
		if code == 0 {
			if err := dbprep.ReinitializeAll(); err != nil {
				panic(fmt.Errorf("Failed to reinitialize data at teardown: %v", err))
			}
		}
		os.Exit(code)
	}(m.Run())
}

// serve starts a test server over rootHandler with connected
// storage, and gives the caller a cookie-carrying client that
// reports redirects instead of following them.
func serve(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()
	if _, _, err := storage.Connect(); err != nil {
		t.Fatalf("Couldn't connect to storage: %v", err)
	}
	srv := httptest.NewServer(http.HandlerFunc(rootHandler))
	t.Cleanup(func() {
		srv.Close()
		storage.Close()
	})
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("Couldn't create cookie jar: %v", err)
	}
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return srv, client
}

func getBody(t *testing.T, client *http.Client, url string, wantStatus int) string {
	t.Helper()
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("Request error on %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("GET %s returned status %d, expected %d", url, resp.StatusCode, wantStatus)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Couldn't read response of %s: %v", url, err)
	}
	return string(body)
}

func postJSON(t *testing.T, client *http.Client, url string, obj interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("Couldn't marshal request body: %v", err)
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("Request error on %s: %v", url, err)
	}
	return resp
}

/*

page tests

*/

func TestHomeAndSolverPages(t *testing.T) {
	srv, client := serve(t)

	home := getBody(t, client, srv.URL+"/", http.StatusOK)
	if !strings.Contains(home, "KenKen") {
		t.Errorf("Home page has no brand name: %s", home)
	}

	// the first request establishes the session cookie
	var sid string
	for _, c := range client.Jar.Cookies(mustParse(t, srv.URL)) {
		if c.Name == cookieName {
			sid = c.Value
		}
	}
	if sid == "" {
		t.Fatalf("No %s cookie after home page request", cookieName)
	}
	if !strings.Contains(home, sid) {
		t.Errorf("Home page doesn't carry session %q", sid)
	}

	solver := getBody(t, client, srv.URL+"/solver/", http.StatusOK)
	if !strings.Contains(solver, "solveButton") {
		t.Errorf("Solver page has no solve button: %s", solver)
	}
	if !strings.Contains(solver, dbprep.DefaultPuzzleID()) {
		t.Errorf("Solver page isn't showing the default puzzle")
	}
}

func TestStaticResources(t *testing.T) {
	srv, client := serve(t)
	for _, path := range []string{"/favicon.ico", "/robots.txt", "/solver.css", "/solver.js"} {
		if body := getBody(t, client, srv.URL+path, http.StatusOK); len(body) == 0 {
			t.Errorf("Empty static resource at %s", path)
		}
	}
}

func TestUnknownPageRedirects(t *testing.T) {
	srv, client := serve(t)
	resp, err := client.Get(srv.URL + "/no/such/page")
	if err != nil {
		t.Fatalf("Request error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusFound {
		t.Errorf("Unknown page returned status %d, expected %d",
			resp.StatusCode, http.StatusFound)
	}
	if loc := resp.Header.Get("Location"); loc != "/solver/" {
		t.Errorf("Unknown page redirected to %q, expected %q", loc, "/solver/")
	}
}

func TestUnknownPuzzleFallsBack(t *testing.T) {
	srv, client := serve(t)
	body := getBody(t, client, srv.URL+"/solver/no-such-puzzle", http.StatusOK)
	if !strings.Contains(body, dbprep.DefaultPuzzleID()) {
		t.Errorf("Unknown puzzle didn't fall back to the default")
	}
}

/*

API tests

*/

func TestAPINewPuzzleAndSolve(t *testing.T) {
	srv, client := serve(t)
	getBody(t, client, srv.URL+"/", http.StatusOK) // establish the session

	resp := postJSON(t, client, srv.URL+"/api/newPuzzle", postedSummary)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("newPuzzle returned status %d, expected %d", resp.StatusCode, http.StatusOK)
	}
	var state puzzle.State
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatalf("Couldn't decode newPuzzle response: %v", err)
	}
	if state.Size != postedSummary.Size || len(state.Values) != 0 {
		t.Errorf("newPuzzle returned wrong state: %+v", state)
	}

	resp = postJSON(t, client, srv.URL+"/api/solve", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("solve returned status %d, expected %d", resp.StatusCode, http.StatusOK)
	}
	var soln puzzle.Solution
	if err := json.NewDecoder(resp.Body).Decode(&soln); err != nil {
		t.Fatalf("Couldn't decode solve response: %v", err)
	}
	if len(soln.Values) != len(postedSolution) {
		t.Fatalf("Solution has %d values, expected %d", len(soln.Values), len(postedSolution))
	}
	for i, v := range postedSolution {
		if soln.Values[i] != v {
			t.Errorf("Solution value %d is %d, expected %d", i, soln.Values[i], v)
		}
	}

	// the solver page now shows the solved grid
	solver := getBody(t, client, srv.URL+"/solver/", http.StatusOK)
	if !strings.Contains(solver, "kenken solved") {
		t.Errorf("Solver page isn't showing the solution")
	}
}

func TestAPISolveUnsatisfiable(t *testing.T) {
	srv, client := serve(t)
	getBody(t, client, srv.URL+"/", http.StatusOK)

	resp := postJSON(t, client, srv.URL+"/api/newPuzzle", hopelessSummary)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("newPuzzle returned status %d, expected %d", resp.StatusCode, http.StatusOK)
	}

	resp = postJSON(t, client, srv.URL+"/api/solve", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("solve returned status %d, expected %d", resp.StatusCode, http.StatusConflict)
	}
	var e puzzle.Error
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
		t.Fatalf("Couldn't decode solve error: %v", err)
	}
	if e.Condition != puzzle.UnsatisfiableCondition {
		t.Errorf("Solve error has condition %v, expected %v",
			e.Condition, puzzle.UnsatisfiableCondition)
	}
	if e.Message == "" {
		t.Errorf("Solve error carries no message")
	}
}

func TestAPIBadNewPuzzle(t *testing.T) {
	srv, client := serve(t)
	getBody(t, client, srv.URL+"/", http.StatusOK)

	resp, err := client.Post(srv.URL+"/api/newPuzzle", "application/json",
		strings.NewReader("this is not json"))
	if err != nil {
		t.Fatalf("Request error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Bad newPuzzle returned status %d, expected %d",
			resp.StatusCode, http.StatusBadRequest)
	}
}

func TestAPIUnknownEndpoint(t *testing.T) {
	srv, client := serve(t)
	body := getBody(t, client, srv.URL+"/api/noSuchCall", http.StatusNotFound)
	var e puzzle.Error
	if err := json.Unmarshal([]byte(body), &e); err != nil {
		t.Fatalf("Couldn't decode endpoint error: %v", err)
	}
	if e.Scope != puzzle.RequestScope {
		t.Errorf("Endpoint error has scope %v, expected %v", e.Scope, puzzle.RequestScope)
	}
}

/*

helpers

*/

func mustParse(t *testing.T, rawurl string) *url.URL {
	t.Helper()
	u, err := url.Parse(rawurl)
	if err != nil {
		t.Fatalf("Couldn't parse URL %q: %v", rawurl, err)
	}
	return u
}
