// Package answer converts a prover's XML queryResponse into a closed set of
// answer variants and formats them for reports and regression checks.
package answer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/cognicore/atpproof/pkg/atpproof/internalerr"
	"github.com/cognicore/atpproof/pkg/atpproof/proof"
	"github.com/cognicore/atpproof/pkg/atpproof/skolem"
	"github.com/cognicore/atpproof/pkg/atpproof/xmltree"
)

// Result values of the answer element.
const (
	ResultYes = "yes"
	ResultNo  = "no"

	// Definite marks a binding set whose values are exact.
	Definite = "definite"
)

// Answer is one of NoAnswer, YesAnswer or BindingAnswer.
type Answer interface {
	Result() string
	sealed()
}

// NoAnswer is a result="no" answer.
type NoAnswer struct{}

// YesAnswer is a result="yes" answer without bindings.
type YesAnswer struct {
	Proof []proof.Step
}

// BindingAnswer carries the variable bindings of a satisfying assignment.
type BindingAnswer struct {
	ResultValue string
	Type        string
	Bindings    []Binding
	Proof       []proof.Step
}

// Binding is one variable = value pair.
type Binding struct {
	Variable string
	Value    string
}

func (NoAnswer) Result() string        { return ResultNo }
func (YesAnswer) Result() string       { return ResultYes }
func (a BindingAnswer) Result() string { return a.ResultValue }

func (NoAnswer) sealed()      {}
func (YesAnswer) sealed()     {}
func (BindingAnswer) sealed() {}

// String joins the bindings as "var = value , var = value".
func (a BindingAnswer) String() string {
	return strings.Join(lo.Map(a.Bindings, func(b Binding, _ int) string {
		return b.Variable + " = " + b.Value
	}), " , ")
}

// Options configures answer formatting.
type Options struct {
	// Query is the KIF query the response answers. It lets Skolem values be
	// typed from the query's relations.
	Query string
	// Resolver types Skolem values; nil creates a default one.
	Resolver *skolem.Resolver
}

// Set is the validated content of a queryResponse.
type Set struct {
	answers  []Answer
	proofs   int
	query    string
	resolver *skolem.Resolver
}

// Decode reads a queryResponse document.
func Decode(r io.Reader, opts Options) (*Set, error) {
	root, err := xmltree.Decode(r)
	if err != nil {
		return nil, err
	}
	return FromTree(root, opts)
}

// FromTree validates a decoded queryResponse tree. Any departure from the
// expected shape is an error wrapping ErrMalformedResponse.
func FromTree(root *xmltree.Element, opts Options) (*Set, error) {
	if root == nil || root.Tag != "queryResponse" {
		return nil, malformed("root element is not queryResponse")
	}

	res := opts.Resolver
	if res == nil {
		var err error
		if res, err = skolem.NewResolver(skolem.Options{}); err != nil {
			return nil, err
		}
	}
	set := &Set{query: opts.Query, resolver: res}

	for i, el := range root.Children {
		switch el.Tag {
		case "answer":
			a, err := answerFromElement(el)
			if err != nil {
				return nil, fmt.Errorf("answer %d: %w", i, err)
			}
			set.answers = append(set.answers, a)
		case "summary":
			if v, ok := el.Attr("proofs"); ok {
				n, err := strconv.Atoi(v)
				if err != nil {
					return nil, malformed(fmt.Sprintf("summary proofs %q", v))
				}
				set.proofs = n
			}
		}
	}
	return set, nil
}

func answerFromElement(el *xmltree.Element) (Answer, error) {
	result, ok := el.Attr("result")
	if !ok {
		return nil, malformed("answer without result attribute")
	}
	if result == ResultNo {
		return NoAnswer{}, nil
	}

	steps, err := proofFromAnswer(el)
	if err != nil {
		return nil, err
	}

	bs, ok := el.First("bindingSet")
	if !ok {
		if result == ResultYes {
			return YesAnswer{Proof: steps}, nil
		}
		return nil, malformed(fmt.Sprintf("result %q without bindingSet", result))
	}

	typ, _ := bs.Attr("type")
	ans := BindingAnswer{ResultValue: result, Type: typ, Proof: steps}
	for _, b := range bs.ChildrenByTag("binding") {
		for _, v := range b.ChildrenByTag("var") {
			name, okName := v.Attr("name")
			value, okValue := v.Attr("value")
			if !okName || !okValue {
				return nil, malformed("var without name or value")
			}
			ans.Bindings = append(ans.Bindings, Binding{Variable: name, Value: value})
		}
	}
	if len(ans.Bindings) == 0 {
		return nil, malformed("bindingSet without bindings")
	}
	return ans, nil
}

func malformed(reason string) error {
	return fmt.Errorf("%w: %s", internalerr.ErrMalformedResponse, reason)
}

// Count returns the number of answers; the summary is not counted.
func (s *Set) Count() int { return len(s.answers) }

// Proofs returns the proof count reported by the summary element.
func (s *Set) Proofs() int { return s.proofs }

// Answer returns answer i (0-based).
func (s *Set) Answer(i int) (Answer, error) {
	if i < 0 || i >= len(s.answers) {
		return nil, fmt.Errorf("answer %d of %d: %w", i, len(s.answers), internalerr.ErrNotFound)
	}
	return s.answers[i], nil
}

// Get formats answer i: "no", "[yes]", or the bindings followed by one
// "; ..." clause per Skolem value giving its recovered class.
func (s *Set) Get(i int) (string, error) {
	a, err := s.Answer(i)
	if err != nil {
		return "", err
	}
	switch a := a.(type) {
	case NoAnswer:
		return ResultNo, nil
	case YesAnswer:
		return "[" + ResultYes + "]", nil
	case BindingAnswer:
		var b strings.Builder
		b.WriteString(a.String())
		for _, ann := range s.Annotations(a) {
			b.WriteString(" ; ")
			b.WriteString(ann.String())
		}
		return b.String(), nil
	}
	return "", malformed(fmt.Sprintf("unknown answer type %T", a))
}

// Annotations resolves the class of every Skolem value in a.
func (s *Set) Annotations(a BindingAnswer) []skolem.Annotation {
	var out []skolem.Annotation
	for _, b := range a.Bindings {
		if !skolem.IsSkolem(b.Value) {
			continue
		}
		out = append(out, s.resolver.Annotate(skolem.Request{
			Witness:  b.Value,
			Query:    s.query,
			Variable: b.Variable,
			Steps:    a.Proof,
		}))
	}
	return out
}

// Equals compares answer i with an expected literal. The comparison is
// case-insensitive but otherwise exact, binding order included. A "no"
// answer never matches, a bare "yes" matches only "yes", and bindings that
// are not definite never match.
func (s *Set) Equals(i int, expected string) bool {
	a, err := s.Answer(i)
	if err != nil {
		return false
	}
	switch a := a.(type) {
	case YesAnswer:
		return strings.EqualFold(expected, ResultYes)
	case BindingAnswer:
		if a.Type != Definite {
			return false
		}
		return strings.EqualFold(a.String(), expected)
	}
	return false
}
