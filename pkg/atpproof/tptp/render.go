package tptp

import (
	"strconv"
	"strings"

	"github.com/cognicore/atpproof/pkg/atpproof/proof"
)

// Formatter turns a KIF formula back into TPTP syntax.
type Formatter interface {
	ToTPTP(formula string) (string, error)
}

// Render writes steps as TPTP fof lines, one per step, labelled by step id.
// Leaves become axioms; every other step is a plain inference citing its
// premises. A formula the formatter rejects is emitted as a quoted atom.
func Render(steps []proof.Step, f Formatter) string {
	var b strings.Builder
	for _, s := range steps {
		b.WriteString(RenderStep(s, f))
		b.WriteByte('\n')
	}
	return b.String()
}

// RenderStep writes one step as a TPTP fof line.
func RenderStep(s proof.Step, f Formatter) string {
	formula := s.Axiom
	if f != nil {
		if out, err := f.ToTPTP(s.Axiom); err == nil {
			formula = out
		} else {
			formula = quote(s.Axiom)
		}
	}

	role, rule := "axiom", "axiom"
	var premises []string
	if !s.IsLeaf() {
		role, rule = "plain", "plain"
		if s.Rule != "" {
			rule = s.Rule
		}
		premises = make([]string, len(s.Premises))
		for i, p := range s.Premises {
			premises[i] = strconv.Itoa(p)
		}
	}

	var b strings.Builder
	b.WriteString("fof(")
	b.WriteString(strconv.Itoa(s.ID))
	b.WriteString(", ")
	b.WriteString(role)
	b.WriteString(", (")
	b.WriteString(formula)
	b.WriteString("), inference(")
	b.WriteString(rule)
	b.WriteString(",[],[")
	b.WriteString(strings.Join(premises, ","))
	b.WriteString("])).")
	return b.String()
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}
