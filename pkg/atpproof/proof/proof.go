// Package proof holds the structured form of a prover's proof: ordered steps
// linked to their premises by dense integer ids.
package proof

import (
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Step is one axiom or inference node of a proof.
type Step struct {
	ID          int    // dense, assigned in parse order
	Label       string // the prover's native label, e.g. c_0_5
	FormulaType string // axiom, plain, negated_conjecture, ...
	FormulaRole string // role from XML conclusion metadata, if any
	Axiom       string // formula in KIF syntax
	Rule        string // outermost inference rule, if any
	Source      string // "file" or "introduced" for leaves with provenance
	Premises    []int
}

// IsLeaf reports whether the step depends on nothing. A premise list holding
// only the placeholder 0 also counts as empty.
func (s Step) IsLeaf() bool {
	if len(s.Premises) == 0 {
		return true
	}
	return len(s.Premises) == 1 && s.Premises[0] == 0
}

// Diagnostic records a non-fatal problem met while parsing.
type Diagnostic struct {
	Line int // 1-based input line, 0 when not tied to a line
	Text string
	Err  error
}

// Parsed is the result of reading one prover transcript.
type Parsed struct {
	Status      string
	Answers     []string
	Steps       []Step
	Diagnostics []Diagnostic
}

// Axioms returns the KIF text of every step, in proof order.
func Axioms(steps []Step) []string {
	return lo.Map(steps, func(s Step, _ int) string { return s.Axiom })
}

// Edge is a dependency from a step to one of its premises.
type Edge struct {
	From int
	To   int
}

// Edges lists every premise dependency of non-leaf steps, in proof order.
func Edges(steps []Step) []Edge {
	var edges []Edge
	for _, s := range steps {
		if s.IsLeaf() {
			continue
		}
		for _, p := range s.Premises {
			edges = append(edges, Edge{From: s.ID, To: p})
		}
	}
	return edges
}

// RemoveDuplicates collapses steps with identical axiom text and identical
// premise sets into their first occurrence, redirects premises that pointed
// at a removed step, and renumbers the survivors densely from 0.
func RemoveDuplicates(steps []Step) []Step {
	canonical := make(map[int]int, len(steps))
	seen := make(map[string]int, len(steps))
	kept := make([]Step, 0, len(steps))

	for _, s := range steps {
		premises := lo.Uniq(lo.Map(s.Premises, func(p int, _ int) int {
			if c, ok := canonical[p]; ok {
				return c
			}
			return p
		}))
		key := dedupeKey(s.Axiom, premises)
		if first, ok := seen[key]; ok {
			if _, assigned := canonical[s.ID]; !assigned {
				canonical[s.ID] = first
			}
			continue
		}
		seen[key] = s.ID
		if _, assigned := canonical[s.ID]; !assigned {
			canonical[s.ID] = s.ID
		}
		s.Premises = premises
		kept = append(kept, s)
	}

	dense := make(map[int]int, len(kept))
	for i, s := range kept {
		if _, ok := dense[s.ID]; !ok {
			dense[s.ID] = i
		}
	}

	out := make([]Step, len(kept))
	for i, s := range kept {
		s.ID = i
		s.Premises = lo.FilterMap(s.Premises, func(p int, _ int) (int, bool) {
			if c, ok := canonical[p]; ok {
				p = c
			}
			n, ok := dense[p]
			return n, ok
		})
		out[i] = s
	}
	return out
}

func dedupeKey(axiom string, premises []int) string {
	sorted := append([]int(nil), premises...)
	sort.Ints(sorted)
	var b strings.Builder
	b.WriteString(axiom)
	b.WriteString("\x00")
	for _, p := range sorted {
		b.WriteString(strconv.Itoa(p))
		b.WriteByte(',')
	}
	return b.String()
}
