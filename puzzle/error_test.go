package puzzle

import (
	"errors"
	"testing"
)

type errorTestcase struct {
	err  Error
	want string
}

func TestErrorStrings(t *testing.T) {
	tcs := []errorTestcase{
		{Error{Message: "canned"}, "canned"},
		{Error{
			Scope: ArgumentScope, Structure: ScopeStructure,
			Condition: EmptyArgumentCondition,
		},
			"Invalid argument: Required value was missing or empty"},
		{Error{
			Scope: ArgumentScope, Structure: AttributeValueStructure,
			Attribute: SizeAttribute, Condition: TooSmallCondition,
			Values: ErrorData{1, minSize},
		},
			"Invalid argument: Side length (1): Must be at least 2"},
		{Error{
			Scope: ArgumentScope, Structure: AttributeStructure,
			Attribute: RowAttribute, Condition: WrongRowCountCondition,
			Values: ErrorData{2, 3},
		},
			"Invalid argument: Layout row: Layout has 2 rows, side length is 3"},
		{Error{
			Scope: CageScope, Structure: ScopeStructure,
			Condition: DuplicateConstraintCondition,
			Values:    ErrorData{"A"},
		},
			"Problem in cage A: Multiple constraints carry this label"},
		{Error{
			Scope: CageScope, Structure: ScopeStructure,
			Condition: UnknownOperatorCondition,
			Values:    ErrorData{"B", "^"},
		},
			"Problem in cage B: Operator ^ is not one of + - * /"},
		{Error{
			Scope: CageScope, Structure: ScopeStructure,
			Condition: UncagedCellCondition,
			Values:    ErrorData{"C", 1, 2},
		},
			"Problem in cage C: Cell at row 1 column 2 has no constraint"},
		{Error{
			Scope: FormatScope, Structure: AttributeStructure,
			Attribute: LineAttribute, Condition: MalformedConstraintCondition,
			Values: ErrorData{4, "A plus 1"},
		},
			`Invalid puzzle text: Line 4: Not of the form <label> <operator> <goal>: "A plus 1"`},
		{Error{
			Scope: FormatScope, Structure: AttributeStructure,
			Attribute: LineAttribute, Condition: MissingSeparatorCondition,
			Values: ErrorData{2},
		},
			"Invalid puzzle text: Line 2: No blank line between layout and constraints"},
		{Error{
			Scope: GridScope, Structure: ScopeStructure,
			Condition: UnsatisfiableCondition,
		},
			"Problem in grid: No assignment satisfies every constraint"},
		{Error{
			Scope: InternalScope, Structure: AttributeStructure,
			Attribute: LocationAttribute, Condition: GeneralCondition,
			Values: ErrorData{"create", "oops"},
		},
			"Internal logic error: In puzzle.create: oops"},
		{Error{},
			"Unknown error: Supplemental data is []"},
	}
	for i, tc := range tcs {
		if got := tc.err.Error(); got != tc.want {
			t.Errorf("case %d: message was %q (expected %q)", i, got, tc.want)
		}
	}
}

// Short values slices never panic; missing values read as
// "<unknown>".
func TestErrorMissingValues(t *testing.T) {
	e := Error{
		Scope: CageScope, Structure: ScopeStructure,
		Condition: UnknownOperatorCondition,
	}
	want := "Problem in cage <unknown>: Operator <unknown> is not one of + - * /"
	if got := e.Error(); got != want {
		t.Errorf("message was %q (expected %q)", got, want)
	}
}

func TestIsUnsatisfiable(t *testing.T) {
	unsat := Error{
		Scope: GridScope, Structure: ScopeStructure,
		Condition: UnsatisfiableCondition,
	}
	if !IsUnsatisfiable(unsat) {
		t.Errorf("unsatisfiable error not recognized")
	}
	invalid := Error{
		Scope: ArgumentScope, Structure: ScopeStructure,
		Condition: EmptyArgumentCondition,
	}
	if IsUnsatisfiable(invalid) {
		t.Errorf("argument error recognized as unsatisfiable")
	}
	if IsUnsatisfiable(errors.New("not a puzzle error")) {
		t.Errorf("foreign error recognized as unsatisfiable")
	}
	if IsUnsatisfiable(nil) {
		t.Errorf("nil error recognized as unsatisfiable")
	}
}
