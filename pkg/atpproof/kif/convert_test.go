package kif

import (
	"errors"
	"testing"

	"github.com/cognicore/atpproof/pkg/atpproof/internalerr"
)

func TestToKIF(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"s__instance(esk1_1,s__Human)", "(instance esk1_1 Human)"},
		{"(s__instance(s__John_1,s__Human))", "(instance John_1 Human)"},
		{"~(?[X1]:s__instance(X1,s__Human))", "(not (exists (?X1) (instance ?X1 Human)))"},
		{"![V__X,V__Y]:(s__p(V__X)=>s__q(V__Y))", "(forall (?X ?Y) (=> (p ?X) (q ?Y)))"},
		{"(s__p(a)&s__q(b)&s__r(c))", "(and (p a) (q b) (r c))"},
		{"s__p(a)|s__q(b)|~s__r(c)", "(or (p a) (q b) (not (r c)))"},
		{"(s__p(a)&s__q(b))|s__r(c)", "(or (and (p a) (q b)) (r c))"},
		{"s__p(a)<=s__q(b)", "(=> (q b) (p a))"},
		{"s__p(a)<=>s__q(b)", "(<=> (p a) (q b))"},
		{"X1=s__John", "(equal ?X1 John)"},
		{"esk2_1(X1)!=X1", "(not (equal (esk2_1 ?X1) ?X1))"},
		{"($false)", "False"},
		{"s__instance(s__instance__m,s__BinaryPredicate)", "(instance instance BinaryPredicate)"},
		{"s__name('Moby Dick',X1)", `(name "Moby Dick" ?X1)`},
		{"s__age(s__John,42)", "(age John 42)"},
	}
	for _, tc := range cases {
		got, err := ToKIF(tc.in)
		if err != nil {
			t.Errorf("ToKIF(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ToKIF(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestToKIFRejectsGarbage(t *testing.T) {
	for _, in := range []string{"s__p(", "& s__p(a)", ""} {
		_, err := ToKIF(in)
		if !errors.Is(err, internalerr.ErrConversion) {
			t.Errorf("ToKIF(%q) err = %v, want ErrConversion", in, err)
		}
	}
}

func TestToTPTP(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"(instance esk1_1 Human)", "s__instance(esk1_1,s__Human)"},
		{"(not (instance ?X Human))", "~(s__instance(V__X,s__Human))"},
		{"(forall (?X) (=> (instance ?X Human) (instance ?X Animal)))",
			"(! [V__X] : ((s__instance(V__X,s__Human) => s__instance(V__X,s__Animal))))"},
		{"(and (p a) (q b))", "(s__p(s__a) & s__q(s__b))"},
		{"(equal (esk2_1 ?X) John)", "(esk2_1(V__X) = s__John)"},
		{"False", "$false"},
		{"(age John 42)", "s__age(s__John,42)"},
	}
	for _, tc := range cases {
		got, err := ToTPTP(tc.in)
		if err != nil {
			t.Errorf("ToTPTP(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ToTPTP(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestToTPTPErrors(t *testing.T) {
	for _, in := range []string{"(", "()", "(not a b)", "(forall ?X (p ?X))", "(exists (Y) (p Y))"} {
		if _, err := ToTPTP(in); !errors.Is(err, internalerr.ErrConversion) {
			t.Errorf("ToTPTP(%q) err = %v, want ErrConversion", in, err)
		}
	}
}

func TestRoundTripIsStable(t *testing.T) {
	c := New()
	kifs := []string{
		"(instance esk1_1 Human)",
		"(forall (?X1) (=> (instance ?X1 Human) (exists (?Y) (mother ?X1 ?Y))))",
		"(not (equal (esk2_1 ?X1) ?X1))",
		"(or (p a) (q b) (r c))",
	}
	for _, k := range kifs {
		tptp, err := c.ToTPTP(k)
		if err != nil {
			t.Fatalf("ToTPTP(%q): %v", k, err)
		}
		back, err := c.ToKIF(tptp)
		if err != nil {
			t.Fatalf("ToKIF(%q): %v", tptp, err)
		}
		if back != k {
			t.Errorf("round trip of %q gave %q (via %q)", k, back, tptp)
		}
	}
}
