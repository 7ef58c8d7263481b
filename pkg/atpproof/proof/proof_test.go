package proof

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIsLeaf(t *testing.T) {
	cases := []struct {
		premises []int
		want     bool
	}{
		{nil, true},
		{[]int{}, true},
		{[]int{0}, true},
		{[]int{3}, false},
		{[]int{0, 1}, false},
	}
	for _, tc := range cases {
		if got := (Step{Premises: tc.premises}).IsLeaf(); got != tc.want {
			t.Errorf("IsLeaf(%v) = %v, want %v", tc.premises, got, tc.want)
		}
	}
}

func TestRemoveDuplicatesCollapsesAndRenumbers(t *testing.T) {
	steps := []Step{
		{ID: 0, Axiom: "(instance John Human)"},
		{ID: 1, Axiom: "(instance Mary Human)"},
		{ID: 2, Axiom: "(instance John Human)"}, // duplicate of 0
		{ID: 3, Axiom: "(not (instance ?X Human))", Premises: []int{2}},
		{ID: 4, Axiom: "False", Premises: []int{3, 0, 2}},
	}

	got := RemoveDuplicates(steps)

	want := []Step{
		{ID: 0, Axiom: "(instance John Human)", Premises: []int{}},
		{ID: 1, Axiom: "(instance Mary Human)", Premises: []int{}},
		{ID: 2, Axiom: "(not (instance ?X Human))", Premises: []int{0}},
		{ID: 3, Axiom: "False", Premises: []int{2, 0}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("RemoveDuplicates mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveDuplicatesKeepsDistinctPremiseSets(t *testing.T) {
	steps := []Step{
		{ID: 0, Axiom: "(p a)"},
		{ID: 1, Axiom: "(q a)"},
		{ID: 2, Axiom: "(r a)", Premises: []int{0}},
		{ID: 3, Axiom: "(r a)", Premises: []int{1}},
	}
	got := RemoveDuplicates(steps)
	if len(got) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(got))
	}
	for i, s := range got {
		if s.ID != i {
			t.Errorf("step %d has id %d", i, s.ID)
		}
	}
}

func TestEdgesSkipLeaves(t *testing.T) {
	steps := []Step{
		{ID: 0, Axiom: "a"},
		{ID: 1, Axiom: "b", Premises: []int{0}}, // placeholder form, still a leaf
		{ID: 2, Axiom: "c", Premises: []int{0, 1}},
	}
	want := []Edge{{From: 2, To: 0}, {From: 2, To: 1}}
	if diff := cmp.Diff(want, Edges(steps)); diff != "" {
		t.Errorf("Edges mismatch (-want +got):\n%s", diff)
	}
}

func TestAxioms(t *testing.T) {
	got := Axioms([]Step{{Axiom: "a"}, {Axiom: "b"}})
	if diff := cmp.Diff([]string{"a", "b"}, got); diff != "" {
		t.Errorf("Axioms mismatch:\n%s", diff)
	}
}
