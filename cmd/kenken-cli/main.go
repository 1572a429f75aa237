// kenken - a KenKen puzzle solver and web service.
// Copyright (C) 2016 Aaron Kimball.
//
// Licensed under the LGPL v3.  See the LICENSE file for details

// Command-line client for the kenken solver.
package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/kimballa/kenken/puzzle"
)

func main() {
	if len(os.Args) > 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s [puzzle-file]\n", os.Args[0])
		os.Exit(1)
	}
	if len(os.Args) == 2 {
		os.Exit(solveFile(os.Stdout, os.Args[1]))
	}

	// no argument: interactive on a terminal, usage otherwise
	if stat, _ := os.Stdin.Stat(); (stat.Mode() & os.ModeCharDevice) == 0 {
		fmt.Fprintf(os.Stderr, "Usage: %s puzzle-file\n", os.Args[0])
		os.Exit(1)
	}
	if err := listener(os.Stdout, os.Stdin); err != nil {
		log.Printf("CLI failure: %v", err)
		os.Exit(1)
	}
}

/*

one-shot file mode

*/

// solveFile: parse, validate, and solve one puzzle file, then
// print the solved grid, or "No solution." with the puzzle dump
// when the constraints can't be met.  The return value is the
// process exit code.
func solveFile(out io.Writer, path string) int {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Can't read %q: %v\n", path, err)
		return 1
	}
	defer f.Close()
	p, err := loadPuzzle(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid puzzle %q: %v\n", path, err)
		return 1
	}
	if _, err := p.Solve(); err != nil {
		if puzzle.IsUnsatisfiable(err) {
			fmt.Fprintf(out, "No solution.\n%s", p.String())
			return 0
		}
		fmt.Fprintf(os.Stderr, "Can't solve %q: %v\n", path, err)
		return 1
	}
	fmt.Fprintf(out, "%s", p.String())
	return 0
}

// loadPuzzle parses and validates one puzzle description.
func loadPuzzle(r io.Reader) (*puzzle.Puzzle, error) {
	summary, err := puzzle.Read(r)
	if err != nil {
		return nil, err
	}
	return puzzle.New(summary)
}

/*

CLI listener

*/

type request struct {
	inline  string
	command string
	args    []string
}

// listener reads lines and dispatches them to handlers
func listener(out io.Writer, in io.Reader) error {
	// if we are on a terminal, we do prompting
	prompt := false
	if f, ok := out.(*os.File); ok {
		if stat, _ := f.Stat(); (stat.Mode() & os.ModeCharDevice) != 0 {
			prompt = true
		}
	}

	scanner := bufio.NewScanner(in)
	for {
		if prompt {
			fmt.Fprintf(out, "kenken> ")
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				if prompt {
					fmt.Fprintf(out, " (read error)\n")
				}
				return err
			}
			// EOF
			if prompt {
				fmt.Fprintf(out, " (EOF)\n")
			}
			return nil
		}
		r := &request{inline: strings.Trim(scanner.Text(), " \t\r\n")}
		args := strings.Split(r.inline, " ")
		r.command = strings.ToLower(args[0])
		switch r.command {
		case "":
			continue
		case "quit":
			fallthrough
		case "exit":
			return nil
		}
		for _, arg := range args[1:] {
			if len(arg) > 0 {
				r.args = append(r.args, arg)
			}
		}
		dispatchCommand(out, r)
	}
}

// command dispatching
type commandInfo struct {
	command     string
	argInfo     string
	description string
	handler     func(*cliSession, io.Writer, *request)
}

// the command dispatch info is sorted for easy usage printing,
// and then hashed for rapid dispatching
var (
	dispatchInfo  []commandInfo
	dispatchTable map[string]*commandInfo
)

func init() {
	dispatchInfo = []commandInfo{
		{"constraints", "", "show the cage constraints", constraintsHandler},
		{"load", "filename", "load a puzzle from a file", loadHandler},
		{"markdown", "on|off", "format the grid in Markdown", markdownHandler},
		{"show", "", "show the current puzzle grid", showHandler},
		{"solve", "", "solve the current puzzle", solveHandler},
	}
	dispatchTable = make(map[string]*commandInfo, len(dispatchInfo))
	for i := range dispatchInfo {
		dispatchTable[dispatchInfo[i].command] = &dispatchInfo[i]
	}
}

func dispatchCommand(w io.Writer, r *request) {
	defer func() {
		if err := recover(); err != nil {
			errorHandler(err, w, r)
		}
	}()

	ci := dispatchTable[r.command]
	if ci == nil {
		usageHandler(fmt.Sprintf("%q is not a known command", r.command), w, r)
	} else {
		ci.handler(&session, w, r)
	}
}

/*

request handlers

*/

// the interactive session: the loaded puzzle, where it came
// from, and the output format toggle
type cliSession struct {
	path        string
	puzzle      *puzzle.Puzzle
	useMarkdown bool
}

var session cliSession

func markdownHandler(session *cliSession, w io.Writer, r *request) {
	if len(r.args) > 0 {
		switch strings.ToLower(r.args[0]) {
		case "on":
			session.useMarkdown = true
			showHandler(session, w, r)
		case "off":
			session.useMarkdown = false
			showHandler(session, w, r)
		default:
			usageHandler(fmt.Sprintf("argument to %s must be 'on' or 'off'", r.command), w, r)
		}
	} else {
		if session.useMarkdown {
			fmt.Fprintf(w, "Markdown is on\n")
		} else {
			fmt.Fprintf(w, "Markdown is off\n")
		}
	}
}

func loadHandler(session *cliSession, w io.Writer, r *request) {
	if len(r.args) != 1 {
		usageHandler(fmt.Sprintf("%s requires one argument", r.command), w, r)
		return
	}
	f, err := os.Open(r.args[0])
	if err != nil {
		fmt.Fprintf(w, "Can't read %q: %v\n", r.args[0], err)
		return
	}
	defer f.Close()
	p, err := loadPuzzle(f)
	if err != nil {
		fmt.Fprintf(w, "Invalid puzzle %q: %v\n", r.args[0], err)
		return
	}
	session.path, session.puzzle = r.args[0], p
	fmt.Fprintf(w, "Loaded %q:\n", session.path)
	showHandler(session, w, r)
}

func showHandler(session *cliSession, w io.Writer, r *request) {
	if session.puzzle == nil {
		fmt.Fprintf(w, "No puzzle loaded; use 'load' first.\n")
		return
	}
	if session.useMarkdown {
		fmt.Fprintf(w, "%s", session.puzzle.ValuesMarkdown())
	} else {
		fmt.Fprintf(w, "%s", session.puzzle.ValuesString())
	}
}

func constraintsHandler(session *cliSession, w io.Writer, r *request) {
	if session.puzzle == nil {
		fmt.Fprintf(w, "No puzzle loaded; use 'load' first.\n")
		return
	}
	fmt.Fprintf(w, "%s", session.puzzle.ConstraintsString())
}

func solveHandler(session *cliSession, w io.Writer, r *request) {
	if session.puzzle == nil {
		fmt.Fprintf(w, "No puzzle loaded; use 'load' first.\n")
		return
	}
	if _, err := session.puzzle.Solve(); err != nil {
		if puzzle.IsUnsatisfiable(err) {
			fmt.Fprintf(w, "No solution.\n")
		} else {
			fmt.Fprintf(w, "Solve failed: %v\n", err)
		}
		return
	}
	showHandler(session, w, r)
}

func usageHandler(msg string, w io.Writer, r *request) {
	fmt.Fprintf(w, "Error: %s\nUsage:\n", msg)
	for _, ci := range dispatchInfo {
		fmt.Fprintf(w, "    %11s %-8s\t%s\n", ci.command, ci.argInfo, ci.description)
	}
	fmt.Fprintf(w, "  and 'quit' or EOF to exit.\n")
}

func errorHandler(err interface{}, w io.Writer, r *request) {
	fmt.Fprintf(w, "Panic executing %q: %v\n", r.inline, err)
	log.Printf("CLI error executing %q: %v\n", r.inline, err)
}
