// kenken - a KenKen puzzle solver and web service.
// Copyright (C) 2016 Aaron Kimball.
//
// Licensed under the LGPL v3.  See the LICENSE file for details

package puzzle

import (
	"fmt"
)

/*

Errors

*/

// An Error describes a problem with a puzzle or a requested
// operation.  It can produce an error message in English, but
// its main function is to support localized error messaging by
// clients.  It tells the client "this thing failed to meet this
// condition", and provides supplemental details about the thing
// and the condition.
type Error struct {
	Scope     ErrorScope     `json:"scope"`
	Structure ErrorStructure `json:"structure,omitempty"`
	Condition ErrorCondition `json:"condition,omitempty"`
	Attribute ErrorAttribute `json:"attribute,omitempty"`
	Values    ErrorData      `json:"values,omitempty"`
	Message   string         `json:"message,omitempty"` // custom message
}

// An ErrorScope explains what type of thing the error is
// referring to: a client-supplied argument, the puzzle-file
// text, a cage, the grid as a whole, or a location in the code
// for internal logic errors.
type ErrorScope int

// Constants for the various error scopes.
const (
	UnknownScope ErrorScope = iota
	RequestScope
	ArgumentScope
	FormatScope
	CageScope
	GridScope
	InternalScope
	MaxScope
)

// The ErrorStructure denotes whether the problem is in the
// overall Scope, an Attribute of the Scope, or the value of an
// Attribute of the Scope.
type ErrorStructure int

// Constants for the various structure codes.
const (
	UnknownStructure ErrorStructure = iota
	ScopeStructure
	AttributeStructure
	AttributeValueStructure
	MaxStructure
)

// The ErrorCondition is the predicate that the
// scope/attribute/value failed to satisfy.  There are a bunch of
// known, named predicates and then a "general" (arbitrary
// English string) predicate for runtime errors.
type ErrorCondition int

// Constants for the various error conditions
const (
	UnknownCondition ErrorCondition = iota
	GeneralCondition
	TooLargeCondition
	TooSmallCondition
	EmptyArgumentCondition
	UnknownOperatorCondition
	NonPositiveGoalCondition
	UncagedCellCondition
	EmptyCageCondition
	DuplicateConstraintCondition
	WrongRowCountCondition
	WrongRowLengthCondition
	MissingSeparatorCondition
	MalformedConstraintCondition
	UnsatisfiableCondition
	MaxCondition
)

// An ErrorAttribute names the attribute that has a problem.
type ErrorAttribute int

// Constants for the various attribute codes.
const (
	UnknownAttribute ErrorAttribute = iota
	DecodeAttribute
	EncodeAttribute
	URLAttribute
	LocationAttribute
	SizeAttribute
	RowAttribute
	LineAttribute
	LabelAttribute
	OperatorAttribute
	GoalAttribute
	ValueAttribute
	IndexAttribute
	PuzzleAttribute
	MaxAttribute
)

// The ErrorData provides details about the thing that failed to
// meet the predicate (such as the value of an attribute) as well
// as the predicate itself (such as minimum required values).
//
// Every item in the slice of ErrorData is required to be
// JSON-serializable, so it can be returned to web clients.
type ErrorData []interface{}

// IsUnsatisfiable reports whether an error is the normal
// negative result of a solve, as opposed to an invalid-puzzle or
// internal failure.
func IsUnsatisfiable(e error) bool {
	err, ok := e.(Error)
	return ok && err.Condition == UnsatisfiableCondition
}

// Return an error string from an Error.  If the Error has a
// pre-canned message, this will use it, otherwise it will
// produce an appropriate (English, non-localized) message.
func (e Error) Error() string {
	es := e.Message
	if len(es) > 0 {
		return es
	}
	values := e.Values
	nextVal := func() interface{} {
		if len(values) == 0 {
			return "<unknown>"
		}
		val := values[0]
		values = values[1:]
		return val
	}
	switch e.Scope {
	case RequestScope:
		es = "Invalid request: "
	case ArgumentScope:
		es = "Invalid argument: "
	case FormatScope:
		es = "Invalid puzzle text: "
	case CageScope:
		es = fmt.Sprintf("Problem in cage %v: ", nextVal())
	case GridScope:
		es = "Problem in grid: "
	case InternalScope:
		es = "Internal logic error: "
	default:
		es = "Unknown error: "
	}
	if e.Structure == AttributeStructure || e.Structure == AttributeValueStructure {
		switch e.Attribute {
		case DecodeAttribute:
			es += "JSON Decode error"
		case EncodeAttribute:
			es += "JSON Encode error"
		case URLAttribute:
			es += "Resource path"
		case LocationAttribute:
			es += fmt.Sprintf("In puzzle.%v", nextVal())
		case SizeAttribute:
			es += "Side length"
		case RowAttribute:
			es += "Layout row"
		case LineAttribute:
			es += fmt.Sprintf("Line %v", nextVal())
		case LabelAttribute:
			es += "Cage label"
		case OperatorAttribute:
			es += "Operator"
		case GoalAttribute:
			es += "Goal"
		case ValueAttribute:
			es += "Value"
		case IndexAttribute:
			es += "Index"
		case PuzzleAttribute:
			es += "Puzzle"
		default:
			es += "<Unknown attribute>"
		}
		if e.Structure == AttributeValueStructure {
			es += " (" + fmt.Sprint(nextVal()) + ")"
		}
		es += ": "
	}
	switch e.Condition {
	case GeneralCondition:
		es += fmt.Sprint(nextVal())
	case TooLargeCondition:
		es += fmt.Sprintf("Must be at most %v", nextVal())
	case TooSmallCondition:
		es += fmt.Sprintf("Must be at least %v", nextVal())
	case EmptyArgumentCondition:
		es += "Required value was missing or empty"
	case UnknownOperatorCondition:
		es += fmt.Sprintf("Operator %v is not one of + - * /", nextVal())
	case NonPositiveGoalCondition:
		es += fmt.Sprintf("Goal %v is not a positive integer", nextVal())
	case UncagedCellCondition:
		es += fmt.Sprintf("Cell at row %v column %v has no constraint", nextVal(), nextVal())
	case EmptyCageCondition:
		es += "No layout cell carries this label"
	case DuplicateConstraintCondition:
		es += "Multiple constraints carry this label"
	case WrongRowCountCondition:
		es += fmt.Sprintf("Layout has %v rows, side length is %v", nextVal(), nextVal())
	case WrongRowLengthCondition:
		es += fmt.Sprintf("Row %v has %v cells, side length is %v",
			nextVal(), nextVal(), nextVal())
	case MissingSeparatorCondition:
		es += "No blank line between layout and constraints"
	case MalformedConstraintCondition:
		es += fmt.Sprintf("Not of the form <label> <operator> <goal>: %q", nextVal())
	case UnsatisfiableCondition:
		es += "No assignment satisfies every constraint"
	default:
		es += fmt.Sprintf("Supplemental data is %v", values)
	}
	return es
}
