package answer

import (
	"fmt"

	"github.com/cognicore/atpproof/pkg/atpproof/proof"
	"github.com/cognicore/atpproof/pkg/atpproof/tptp"
	"github.com/cognicore/atpproof/pkg/atpproof/xmltree"
)

// proofFromAnswer reads the optional <proof> of an answer:
//
//	<proof><proofStep>
//	  <premises><premise><formula number="3">KIF</formula></premise></premises>
//	  <conclusion><formula number="5" type="plain" role="negated_conjecture">KIF</formula></conclusion>
//	</proofStep></proof>
//
// Step numbers are mapped to dense ids in order of appearance. A premise
// that is never a conclusion becomes a leaf step of its own.
func proofFromAnswer(el *xmltree.Element) ([]proof.Step, error) {
	p, ok := el.First("proof")
	if !ok {
		return nil, nil
	}

	ids := tptp.NewIdentifierTable()
	var steps []proof.Step
	for i, ps := range p.ChildrenByTag("proofStep") {
		conclusion, err := conclusionFormula(ps)
		if err != nil {
			return nil, fmt.Errorf("proof step %d: %w", i, err)
		}
		number, _ := conclusion.Attr("number")

		premises := []int{}
		if pr, ok := ps.First("premises"); ok {
			for _, premise := range pr.ChildrenByTag("premise") {
				f, ok := premise.First("formula")
				if !ok {
					return nil, malformed(fmt.Sprintf("proof step %d: premise without formula", i))
				}
				n, ok := f.Attr("number")
				if !ok {
					return nil, malformed(fmt.Sprintf("proof step %d: premise formula without number", i))
				}
				id, known := ids.Lookup(n)
				if !known {
					id = ids.Assign(n)
					steps = append(steps, proof.Step{
						ID:          id,
						Label:       n,
						FormulaType: "axiom",
						Axiom:       f.Text,
						Premises:    []int{},
					})
				}
				premises = append(premises, id)
			}
		}

		typ, _ := conclusion.Attr("type")
		role, _ := conclusion.Attr("role")
		if id, known := ids.Lookup(number); known {
			// Already introduced as a premise of an earlier step.
			steps[id].FormulaType, steps[id].FormulaRole = typ, role
			steps[id].Premises = premises
			continue
		}
		steps = append(steps, proof.Step{
			ID:          ids.Assign(number),
			Label:       number,
			FormulaType: typ,
			FormulaRole: role,
			Axiom:       conclusion.Text,
			Premises:    premises,
		})
	}
	return steps, nil
}

func conclusionFormula(ps *xmltree.Element) (*xmltree.Element, error) {
	c, ok := ps.First("conclusion")
	if !ok {
		return nil, malformed("missing conclusion")
	}
	f, ok := c.First("formula")
	if !ok {
		return nil, malformed("conclusion without formula")
	}
	if _, ok := f.Attr("number"); !ok {
		return nil, malformed("conclusion formula without number")
	}
	return f, nil
}
