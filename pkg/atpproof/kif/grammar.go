package kif

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// TPTP first-order formulas, as printed by E and Vampire.

type tptpFormula struct {
	Left *tptpUnary    `@@`
	Ops  []*tptpBinary `@@*`
}

type tptpBinary struct {
	Op    string     `@("<=>" | "<~>" | "=>" | "<=" | "~|" | "~&" | "&" | "|")`
	Right *tptpUnary `@@`
}

type tptpUnary struct {
	Not        *tptpUnary      `  "~" @@`
	Quantified *tptpQuantified `| @@`
	Paren      *tptpFormula    `| "(" @@ ")"`
	Literal    *tptpLiteral    `| @@`
}

type tptpQuantified struct {
	Quantifier string     `@("!" | "?")`
	Vars       []string   `"[" @Variable ( "," @Variable )* "]" ":"`
	Body       *tptpUnary `@@`
}

type tptpLiteral struct {
	Left *tptpTerm     `@@`
	Eq   *tptpEquality `@@?`
}

type tptpEquality struct {
	Op    string    `@("!=" | "=")`
	Right *tptpTerm `@@`
}

type tptpTerm struct {
	Variable string     `  @Variable`
	Apply    *tptpApply `| @@`
}

type tptpApply struct {
	Functor string      `@(LowerWord | SingleQuoted | DollarWord | Number | DistinctObject)`
	Args    []*tptpTerm `( "(" @@ ( "," @@ )* ")" )?`
}

var tptpLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "SingleQuoted", Pattern: `'(?:\\.|[^'\\])*'`},
	{Name: "DistinctObject", Pattern: `"(?:\\.|[^"\\])*"`},
	{Name: "DollarWord", Pattern: `\$\$?[a-z][a-zA-Z0-9_]*`},
	{Name: "Variable", Pattern: `[A-Z][a-zA-Z0-9_]*`},
	{Name: "LowerWord", Pattern: `[a-z][a-zA-Z0-9_]*`},
	{Name: "Number", Pattern: `[-+]?[0-9]+(?:\.[0-9]+)?(?:[eE][-+]?[0-9]+)?`},
	{Name: "Operator", Pattern: `<=>|<~>|=>|<=|!=|~\||~&|[~&|=!?:,()\[\]]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var tptpParser = participle.MustBuild[tptpFormula](
	participle.Lexer(tptpLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// KIF s-expressions. Logical structure is recovered from list heads.

type kifExpr struct {
	List *kifList `  @@`
	Atom string   `| @(Word | String)`
}

type kifList struct {
	Items []*kifExpr `"(" @@* ")"`
}

var kifLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
	{Name: "Paren", Pattern: `[()]`},
	{Name: "Word", Pattern: `[^\s()"]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var kifParser = participle.MustBuild[kifExpr](
	participle.Lexer(kifLexer),
	participle.Elide("Whitespace"),
)
