// kenken - a KenKen puzzle solver and web service.
// Copyright (C) 2016 Aaron Kimball.
//
// Licensed under the LGPL v3.  See the LICENSE file for details

package client

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/kimballa/kenken/puzzle"
)

/*

solver pages

*/

// A templateSolverPage contains the values to fill the solver
// page template.
type templateSolverPage struct {
	SessionID, PuzzleID       string
	Title, TopHead            string
	IconFile, CssFile, JsFile string
	Puzzle                    templatePuzzle
	Solved                    bool
	ApplicationFooter         string
}

// templatePuzzle is the structure expected by the puzzle grid
// section of the solver page template.
type templatePuzzle [][]templatePuzzleCell

// A templatePuzzleCell contains the cell's index, value, cage
// clue, and CSS styling classes as expected by the puzzle grid
// section of the solver page template.  The clue (goal followed
// by operator, KenKen style) is non-empty only in the first cell
// of each cage.  Value and Clue are trusted HTML, built here
// from validated puzzle data; escaping a clue would turn its +
// operator into an entity.
type templatePuzzleCell struct {
	Index   int
	Value   template.HTML
	Clue    template.HTML
	Borders string
}

// add solver statics to the static list
func init() {
	staticResourcePaths["/solver.js"] = filepath.Join("solver", "puzzle.js")
	staticResourcePaths["/solver.css"] = filepath.Join("solver", "puzzle.css")
}

// SolverPage executes the solver page template over the passed
// session and puzzle state, and returns the solver page content
// as a string.
func SolverPage(sessionID string, puzzleID string, state *puzzle.State) string {
	tp, err := kenkenTemplatePuzzle(state)
	if err != nil {
		return errorPage(err)
	}

	tsp := templateSolverPage{
		SessionID:         sessionID,
		PuzzleID:          puzzleID,
		Title:             fmt.Sprintf("%s: Solver", brandName),
		TopHead:           "Puzzle Solver",
		IconFile:          iconPath,
		CssFile:           "/solver.css",
		JsFile:            "/solver.js",
		Puzzle:            tp,
		Solved:            len(state.Values) > 0,
		ApplicationFooter: applicationFooter(),
	}

	tmpl, err := loadPageTemplate("solver")
	if err != nil {
		return errorPage(fmt.Errorf("Couldn't load the %q template: %v", "solver", err))
	}
	buf := new(bytes.Buffer)
	err = tmpl.Execute(buf, tsp)
	if err != nil {
		return errorPage(err)
	}
	return buf.String()
}

/*

KenKen grid templates

*/

// kenkenTemplatePuzzle takes a puzzle state and returns the
// template grid.  Cells get a border class for each side where
// the neighboring cell belongs to a different cage (or the grid
// ends), which is how the cage outlines get drawn.  Errors mean
// the state's shape is inconsistent.
func kenkenTemplatePuzzle(state *puzzle.State) (templatePuzzle, error) {
	size := state.Size
	if len(state.Boxes) != size {
		return nil, fmt.Errorf("Puzzle has %v box rows, side length is %v.",
			len(state.Boxes), size)
	}
	for i, row := range state.Boxes {
		if len(row) != size {
			return nil, fmt.Errorf("Box row %v has %v cells, side length is %v.",
				i, len(row), size)
		}
	}
	if len(state.Values) != 0 && len(state.Values) != size*size {
		return nil, fmt.Errorf("Puzzle has %v values, expected %v.",
			len(state.Values), size*size)
	}

	// the clue goes in the first cell of each cage, reading order
	clues := make(map[byte]string)
	for _, c := range state.Cages {
		if c.Label != "" {
			clues[c.Label[0]] = fmt.Sprintf("%d%s", c.Goal, c.Operator)
		}
	}

	cage := func(r, c int) byte {
		return state.Boxes[r][c]
	}
	rows := make(templatePuzzle, size)
	for i := 0; i < size; i++ {
		rows[i] = make([]templatePuzzleCell, size)
		for j := 0; j < size; j++ {
			index := i*size + j
			value := template.HTML("&nbsp;")
			if len(state.Values) > 0 {
				if val := state.Values[index]; val > 0 {
					value = template.HTML(fmt.Sprint(val))
				}
			}
			borders := ""
			if i == 0 || cage(i-1, j) != cage(i, j) {
				borders += " cage-top"
			}
			if i == size-1 || cage(i+1, j) != cage(i, j) {
				borders += " cage-bottom"
			}
			if j == 0 || cage(i, j-1) != cage(i, j) {
				borders += " cage-left"
			}
			if j == size-1 || cage(i, j+1) != cage(i, j) {
				borders += " cage-right"
			}
			clue := ""
			if s, ok := clues[cage(i, j)]; ok {
				clue = s
				delete(clues, cage(i, j))
			}
			rows[i][j] = templatePuzzleCell{
				Index:   index + 1,
				Value:   value,
				Clue:    template.HTML(clue),
				Borders: strings.TrimSpace(borders),
			}
		}
	}
	return rows, nil
}

/*

error pages

*/

// A templateErrorPage contains the values to fill the error page
// template.
type templateErrorPage struct {
	Title, TopHead, Message string
	IconFile, ReportBugPage string
	ApplicationFooter       string
}

// ErrorPage returns the error page content for an error.
func ErrorPage(e error) string {
	return errorPage(e)
}

// return error page content
func errorPage(e error) string {
	tep := templateErrorPage{
		Title:             fmt.Sprintf("%s: Error", brandName),
		TopHead:           "Error Page",
		Message:           e.Error(),
		IconFile:          iconPath,
		ReportBugPage:     reportBugPath,
		ApplicationFooter: applicationFooter(),
	}

	tmpl, err := loadPageTemplate("error")
	if err != nil {
		return fmt.Sprintf("Couldn't load the %q template: %v", "error", err)
	}

	buf := new(bytes.Buffer)
	err = tmpl.Execute(buf, tep)
	if err != nil {
		return fmt.Sprintf("A templating error has occurred: %v", err)
	}
	return buf.String()
}

/*

home page

*/

// A templateHomePage contains the values to fill the home page
// template.
type templateHomePage struct {
	SessionID, PuzzleID       string
	Title, TopHead            string
	IconFile, CssFile, JsFile string
	PuzzleIDs                 []string
	ApplicationFooter         string
}

// add home statics to the static list
func init() {
	staticResourcePaths["/home.js"] = filepath.Join("home", "home.js")
	staticResourcePaths["/home.css"] = filepath.Join("home", "home.css")
}

// HomePage executes the home page template over the passed
// session and puzzle info, and returns the home page content as
// a string.  If there is an error, what's returned is the error
// page content as a string.
func HomePage(sessionID string, puzzleID string, puzzleIDs []string) string {
	tsp := templateHomePage{
		SessionID:         sessionID,
		PuzzleID:          puzzleID,
		Title:             fmt.Sprintf("%s: Home", brandName),
		TopHead:           brandName,
		IconFile:          iconPath,
		CssFile:           "/home.css",
		JsFile:            "/home.js",
		PuzzleIDs:         puzzleIDs,
		ApplicationFooter: applicationFooter(),
	}

	tmpl, err := loadPageTemplate("home")
	if err != nil {
		return errorPage(fmt.Errorf("Couldn't load the %q template: %v", "home", err))
	}
	buf := new(bytes.Buffer)
	err = tmpl.Execute(buf, tsp)
	if err != nil {
		return errorPage(err)
	}
	return buf.String()
}

/*

application footer

*/

// applicationFooter - the application footer that shows at the
// bottom of all pages.
func applicationFooter() string {
	appName := os.Getenv(applicationNameEnvVar)
	appEnv := os.Getenv(applicationEnvEnvVar)
	appVersion := os.Getenv(applicationVersionEnvVar)
	appInstance := os.Getenv(applicationInstanceEnvVar)
	appBuild := os.Getenv(applicationBuildEnvVar)

	if appName == "" {
		appName = brandName
	}

	if appEnv == "" {
		appEnv = "local"
	}

	if appVersion != "" {
		appVersion = " " + appVersion
	}
	if len(appBuild) >= 7 {
		appBuild = appBuild[:7]
	}

	if appInstance != "" {
		appInstance = " (dyno " + appInstance + ")"
	}

	switch appEnv {
	case "local":
		return "[" + appName + " local]"
	case "dev":
		return "[" + appName + " CI/CD]"
	case "stg":
		return "[" + appName + appVersion + " <" + appBuild + ">]"
	case "prd":
		return "[" + appName + appVersion + " <" + appBuild + ">" + appInstance + "]"
	}
	return "[" + appName + " <??>]"
}
