package skolem

import (
	"testing"

	"github.com/cognicore/atpproof/pkg/atpproof/proof"
)

func steps(axioms ...string) []proof.Step {
	out := make([]proof.Step, len(axioms))
	for i, ax := range axioms {
		out[i] = proof.Step{ID: i, Axiom: ax, Premises: []int{}}
	}
	return out
}

func newResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := NewResolver(Options{CacheSize: 16})
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	return r
}

func TestIsSkolem(t *testing.T) {
	cases := map[string]bool{
		"sk3":                true,
		"esk2_1(s__Arc13_1)": true,
		"(esk1_1 Human)":     true,
		"John":               false,
		"Skeleton":           false,
		"task":               false,
	}
	for in, want := range cases {
		if got := IsSkolem(in); got != want {
			t.Errorf("IsSkolem(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestHead(t *testing.T) {
	cases := map[string]string{
		"esk2_1(s__Arc13_1)": "esk2_1",
		"(esk2_1 Arc13_1)":   "esk2_1",
		"sk3":                "sk3",
		" esk1_0 ":           "esk1_0",
	}
	for in, want := range cases {
		if got := Head(in); got != want {
			t.Errorf("Head(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResolveInstanceFastPath(t *testing.T) {
	r := newResolver(t)
	got := r.Resolve(Request{Witness: "esk1_1", Steps: steps("(instance esk1_1 Human)")})
	if got != "Human" {
		t.Errorf("Resolve = %q, want Human", got)
	}
}

func TestResolveNestedSkolemCall(t *testing.T) {
	r := newResolver(t)
	got := r.Resolve(Request{
		Witness: "esk2_1(s__Arc13_1)",
		Steps: steps(
			"(not (instance ?X1 Arc))",
			"(instance (esk2_1 Arc13_1) Arc)",
		),
	})
	if got != "Arc" {
		t.Errorf("Resolve = %q, want Arc", got)
	}
}

func TestResolveUndetermined(t *testing.T) {
	r := newResolver(t)
	for _, req := range []Request{
		{Witness: "sk9", Steps: steps("(instance John Human)")},
		{Witness: "sk9"},
		{Witness: ""},
		{Witness: "sk1", Steps: steps("(instance sk1 ?C)")},
		{Witness: "sk1", Steps: steps("(instance sk1")},
	} {
		if got := r.Resolve(req); got != Undetermined {
			t.Errorf("Resolve(%+v) = %q, want %q", req, got, Undetermined)
		}
	}
}

func TestResolveRelationShape(t *testing.T) {
	r := newResolver(t)
	got := r.Resolve(Request{
		Witness: "esk3_1(s__Car1)",
		Steps: steps(
			"(part (esk3_1 Car1) Car1)",
			"(=> (and (part ?P ?W) (instance ?W Car)) (instance ?P CarPart))",
		),
	})
	if got != "CarPart" {
		t.Errorf("Resolve = %q, want CarPart", got)
	}
}

func TestResolveFromQuery(t *testing.T) {
	r := newResolver(t)

	got := r.Resolve(Request{
		Witness:  "sk0",
		Query:    "(exists (?X) (and (attribute ?X Tall) (instance ?X Human)))",
		Variable: "?X",
	})
	if got != "Human" {
		t.Errorf("Resolve = %q, want Human", got)
	}

	got = r.Resolve(Request{
		Witness:  "sk0",
		Query:    "(exists (?X) (part ?X Car1))",
		Variable: "?X",
		Steps:    steps("(=> (part ?P ?W) (instance ?P CarPart))"),
	})
	if got != "CarPart" {
		t.Errorf("Resolve = %q, want CarPart", got)
	}
}

func TestAnnotation(t *testing.T) {
	r := newResolver(t)
	a := r.Annotate(Request{Witness: "sk1", Steps: steps("(instance sk1 Human)")})
	if !a.Determined() || a.String() != "sk1 is an instance of Human" {
		t.Errorf("unexpected annotation %+v %q", a, a.String())
	}
	u := Annotation{Witness: "sk2", Class: Undetermined}
	if u.Determined() || u.String() != "the type of sk2 cannot be determined." {
		t.Errorf("unexpected annotation %q", u.String())
	}
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"(instance " + placeholder + " Human)":            "instance " + placeholder + " Human",
		"(located " + placeholder + " (FooFn (Bar Baz)))": "located " + placeholder + " _",
		"( part  " + placeholder + "\n Car1 )":             "part " + placeholder + " Car1",
	}
	for in, want := range cases {
		if got := normalize(in); got != want {
			t.Errorf("normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPatternCacheIsReused(t *testing.T) {
	r := newResolver(t)
	req := Request{Witness: "sk1", Steps: steps("(instance sk1 Human)")}
	r.Resolve(req)
	n := r.patterns.Len()
	r.Resolve(req)
	if r.patterns.Len() != n {
		t.Errorf("cache grew from %d to %d on a repeated request", n, r.patterns.Len())
	}
}
