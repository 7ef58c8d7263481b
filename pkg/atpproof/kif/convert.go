// Package kif converts formulas between TPTP term syntax and the KIF syntax
// of the knowledge base.
//
// Names follow the conventions of SUMO's TPTP translation: KB symbols carry
// an "s__" prefix in TPTP, KIF variables ?X become V__X, and mentions of a
// relation as a term carry a "__m" suffix.
package kif

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cognicore/atpproof/pkg/atpproof/internalerr"
)

const (
	symbolPrefix   = "s__"
	variablePrefix = "V__"
	mentionSuffix  = "__m"
)

var (
	skolemSymbol = regexp.MustCompile(`^e?sk\d+(?:_\d+)?$`)
	plainWord    = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_\-]*$`)
)

// Converter implements both directions of the term conversion. The zero
// value is ready to use and safe for concurrent use.
type Converter struct{}

// New returns a Converter.
func New() *Converter { return &Converter{} }

// ToKIF converts one TPTP formula to KIF.
func (c *Converter) ToKIF(formula string) (string, error) {
	return ToKIF(formula)
}

// ToTPTP converts one KIF formula to TPTP.
func (c *Converter) ToTPTP(formula string) (string, error) {
	return ToTPTP(formula)
}

// ToKIF converts one TPTP formula to KIF.
func ToKIF(formula string) (string, error) {
	if strings.TrimSpace(formula) == "" {
		return "", fmt.Errorf("%w: empty formula", internalerr.ErrConversion)
	}
	f, err := tptpParser.ParseString("", formula)
	if err != nil {
		return "", fmt.Errorf("%w: %v", internalerr.ErrConversion, err)
	}
	var b strings.Builder
	writeFormula(&b, f)
	return b.String(), nil
}

func writeFormula(b *strings.Builder, f *tptpFormula) {
	if len(f.Ops) == 0 {
		writeUnary(b, f.Left)
		return
	}

	// Binary chains fold to the left; runs of the same associative
	// connective flatten into one n-ary and/or.
	acc := unaryKIF(f.Left)
	var run []string
	runOp := ""
	flush := func() {
		if runOp != "" {
			acc = "(" + kifConnective(runOp) + " " + strings.Join(run, " ") + ")"
			run, runOp = nil, ""
		}
	}
	for _, op := range f.Ops {
		right := unaryKIF(op.Right)
		switch op.Op {
		case "&", "|":
			if runOp != op.Op {
				flush()
				runOp = op.Op
				run = []string{acc}
			}
			run = append(run, right)
		default:
			flush()
			acc = binaryKIF(op.Op, acc, right)
		}
	}
	flush()
	b.WriteString(acc)
}

func kifConnective(op string) string {
	if op == "&" {
		return "and"
	}
	return "or"
}

func binaryKIF(op, left, right string) string {
	switch op {
	case "=>":
		return "(=> " + left + " " + right + ")"
	case "<=":
		return "(=> " + right + " " + left + ")"
	case "<=>":
		return "(<=> " + left + " " + right + ")"
	case "<~>":
		return "(not (<=> " + left + " " + right + "))"
	case "~|":
		return "(not (or " + left + " " + right + "))"
	case "~&":
		return "(not (and " + left + " " + right + "))"
	}
	return "(" + op + " " + left + " " + right + ")"
}

func unaryKIF(u *tptpUnary) string {
	var b strings.Builder
	writeUnary(&b, u)
	return b.String()
}

func writeUnary(b *strings.Builder, u *tptpUnary) {
	switch {
	case u.Not != nil:
		b.WriteString("(not ")
		writeUnary(b, u.Not)
		b.WriteString(")")
	case u.Quantified != nil:
		q := u.Quantified
		if q.Quantifier == "!" {
			b.WriteString("(forall (")
		} else {
			b.WriteString("(exists (")
		}
		for i, v := range q.Vars {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString(kifVariable(v))
		}
		b.WriteString(") ")
		writeUnary(b, q.Body)
		b.WriteString(")")
	case u.Paren != nil:
		writeFormula(b, u.Paren)
	case u.Literal != nil:
		writeLiteral(b, u.Literal)
	}
}

func writeLiteral(b *strings.Builder, l *tptpLiteral) {
	if l.Eq == nil {
		writeTerm(b, l.Left)
		return
	}
	if l.Eq.Op == "!=" {
		b.WriteString("(not ")
	}
	b.WriteString("(equal ")
	writeTerm(b, l.Left)
	b.WriteString(" ")
	writeTerm(b, l.Eq.Right)
	b.WriteString(")")
	if l.Eq.Op == "!=" {
		b.WriteString(")")
	}
}

func writeTerm(b *strings.Builder, t *tptpTerm) {
	if t.Apply == nil {
		b.WriteString(kifVariable(t.Variable))
		return
	}
	name := kifSymbol(t.Apply.Functor)
	if len(t.Apply.Args) == 0 {
		b.WriteString(name)
		return
	}
	b.WriteString("(")
	b.WriteString(name)
	for _, arg := range t.Apply.Args {
		b.WriteString(" ")
		writeTerm(b, arg)
	}
	b.WriteString(")")
}

func kifVariable(v string) string {
	return "?" + strings.TrimPrefix(v, variablePrefix)
}

func kifSymbol(s string) string {
	switch s {
	case "$true":
		return "True"
	case "$false":
		return "False"
	}
	if strings.HasPrefix(s, "'") {
		inner := strings.ReplaceAll(s[1:len(s)-1], `\'`, `'`)
		if plainWord.MatchString(inner) {
			return kifSymbol(inner)
		}
		return `"` + strings.ReplaceAll(inner, `"`, `\"`) + `"`
	}
	s = strings.TrimPrefix(s, symbolPrefix)
	return strings.TrimSuffix(s, mentionSuffix)
}

// ToTPTP converts one KIF formula to TPTP.
func ToTPTP(formula string) (string, error) {
	if strings.TrimSpace(formula) == "" {
		return "", fmt.Errorf("%w: empty formula", internalerr.ErrConversion)
	}
	e, err := kifParser.ParseString("", formula)
	if err != nil {
		return "", fmt.Errorf("%w: %v", internalerr.ErrConversion, err)
	}
	return formulaTPTP(e)
}

func formulaTPTP(e *kifExpr) (string, error) {
	if e.List == nil {
		switch e.Atom {
		case "True":
			return "$true", nil
		case "False":
			return "$false", nil
		}
		return termTPTP(e)
	}

	items := e.List.Items
	if len(items) == 0 {
		return "", fmt.Errorf("%w: empty list", internalerr.ErrConversion)
	}
	head := items[0].Atom
	args := items[1:]

	switch head {
	case "not":
		if len(args) != 1 {
			return "", arityError(head, len(args))
		}
		inner, err := formulaTPTP(args[0])
		if err != nil {
			return "", err
		}
		return "~(" + inner + ")", nil
	case "and", "or":
		if len(args) == 0 {
			if head == "and" {
				return "$true", nil
			}
			return "$false", nil
		}
		parts := make([]string, len(args))
		for i, a := range args {
			p, err := formulaTPTP(a)
			if err != nil {
				return "", err
			}
			parts[i] = p
		}
		if len(parts) == 1 {
			return parts[0], nil
		}
		op := " & "
		if head == "or" {
			op = " | "
		}
		return "(" + strings.Join(parts, op) + ")", nil
	case "=>", "<=>":
		if len(args) != 2 {
			return "", arityError(head, len(args))
		}
		l, err := formulaTPTP(args[0])
		if err != nil {
			return "", err
		}
		r, err := formulaTPTP(args[1])
		if err != nil {
			return "", err
		}
		return "(" + l + " " + head + " " + r + ")", nil
	case "forall", "exists":
		if len(args) != 2 || args[0].List == nil {
			return "", arityError(head, len(args))
		}
		vars := make([]string, len(args[0].List.Items))
		for i, v := range args[0].List.Items {
			if !strings.HasPrefix(v.Atom, "?") {
				return "", fmt.Errorf("%w: %s binds non-variable %q", internalerr.ErrConversion, head, v.Atom)
			}
			vars[i] = tptpVariable(v.Atom)
		}
		body, err := formulaTPTP(args[1])
		if err != nil {
			return "", err
		}
		q := "!"
		if head == "exists" {
			q = "?"
		}
		return "(" + q + " [" + strings.Join(vars, ",") + "] : (" + body + "))", nil
	case "equal", "=":
		if len(args) != 2 {
			return "", arityError(head, len(args))
		}
		l, err := termTPTP(args[0])
		if err != nil {
			return "", err
		}
		r, err := termTPTP(args[1])
		if err != nil {
			return "", err
		}
		return "(" + l + " = " + r + ")", nil
	}
	return termTPTP(e)
}

func termTPTP(e *kifExpr) (string, error) {
	if e.List == nil {
		return atomTPTP(e.Atom), nil
	}
	items := e.List.Items
	if len(items) == 0 || items[0].List != nil {
		return "", fmt.Errorf("%w: list without a functor", internalerr.ErrConversion)
	}
	args := make([]string, 0, len(items)-1)
	for _, a := range items[1:] {
		s, err := termTPTP(a)
		if err != nil {
			return "", err
		}
		args = append(args, s)
	}
	return atomTPTP(items[0].Atom) + "(" + strings.Join(args, ",") + ")", nil
}

func atomTPTP(a string) string {
	switch {
	case strings.HasPrefix(a, "?"):
		return tptpVariable(a)
	case strings.HasPrefix(a, `"`):
		return a
	case skolemSymbol.MatchString(a), isNumber(a):
		return a
	}
	return symbolPrefix + strings.ReplaceAll(a, "-", "_")
}

func tptpVariable(v string) string {
	return variablePrefix + strings.ReplaceAll(strings.TrimPrefix(v, "?"), "-", "_")
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if (r < '0' || r > '9') && r != '.' && !(i == 0 && r == '-') {
			return false
		}
	}
	return s != "-"
}

func arityError(head string, n int) error {
	return fmt.Errorf("%w: %s with %d arguments", internalerr.ErrConversion, head, n)
}
