package puzzle

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestOperatorKnown(t *testing.T) {
	for _, op := range []Operator{SumOp, DifferenceOp, ProductOp, QuotientOp} {
		if !op.Known() {
			t.Errorf("operator %q not known", byte(op))
		}
	}
	for _, op := range []Operator{0, '^', '%', 'x'} {
		if op.Known() {
			t.Errorf("operator %q known", byte(op))
		}
	}
}

func TestOperatorJSON(t *testing.T) {
	bytes, e := json.Marshal(ProductOp)
	if e != nil {
		t.Fatalf("Failed to marshal operator: %v", e)
	}
	if string(bytes) != `"*"` {
		t.Errorf("marshaled operator is %s (expected %q)", bytes, "*")
	}
	var op Operator
	if e := json.Unmarshal([]byte(`"/"`), &op); e != nil {
		t.Fatalf("Failed to unmarshal operator: %v", e)
	}
	if op != QuotientOp {
		t.Errorf("unmarshaled operator is %v (expected %v)", op, QuotientOp)
	}
	for _, bad := range []string{`"^"`, `"++"`, `""`, `5`} {
		if e := json.Unmarshal([]byte(bad), &op); e == nil {
			t.Errorf("unmarshal accepted %s", bad)
		}
	}
}

func TestSummarySignature(t *testing.T) {
	s1 := &Summary{
		Size:  2,
		Boxes: []string{"AB", "BB"},
		Cages: []CageSpec{{"A", SumOp, 1}, {"B", SumOp, 5}},
	}
	s2 := s1.copy()
	if s1.Signature() != s2.Signature() {
		t.Errorf("copies have different signatures")
	}
	s2.Cages[1].Goal = 4
	if s1.Signature() == s2.Signature() {
		t.Errorf("different goals, same signature")
	}
	s3 := s1.copy()
	s3.Cages[0].Operator = ProductOp
	if s1.Signature() == s3.Signature() {
		t.Errorf("different operators, same signature")
	}
	if len(s1.Signature()) != 16 {
		t.Errorf("signature %q is not 16 hex digits", s1.Signature())
	}
}

// Summary() and State() share no storage with the puzzle.
func TestAccessorsCopy(t *testing.T) {
	orig := &Summary{
		Size:  2,
		Boxes: []string{"AB", "BB"},
		Cages: []CageSpec{{"A", SumOp, 1}, {"B", SumOp, 5}},
	}
	p, e := New(orig)
	if e != nil {
		t.Fatalf("Failed to create puzzle: %v", e)
	}
	s := p.Summary()
	if diff := cmp.Diff(orig, s); diff != "" {
		t.Fatalf("summary is wrong (-want +got):\n%s", diff)
	}
	s.Boxes[0] = "XX"
	s.Cages[0].Goal = 99
	if diff := cmp.Diff(orig, p.Summary()); diff != "" {
		t.Errorf("mutating a returned summary changed the puzzle (-want +got):\n%s", diff)
	}

	if st := p.State(); st.Values != nil {
		t.Errorf("unsolved state has values %v", st.Values)
	}
	soln, e := p.Solve()
	if e != nil {
		t.Fatalf("Failed to solve puzzle: %v", e)
	}
	st := p.State()
	if diff := cmp.Diff(soln.Values, st.Values); diff != "" {
		t.Fatalf("state values are wrong (-want +got):\n%s", diff)
	}
	st.Values[0] = 99
	if soln.Values[0] == 99 {
		t.Errorf("mutating returned state changed the solution")
	}
}
