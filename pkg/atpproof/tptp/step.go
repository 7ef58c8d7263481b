// Package tptp reads TPTP-3 proof transcripts (fof/cnf lines between SZS
// markers) into proof steps, and writes steps back as TPTP.
package tptp

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"github.com/cognicore/atpproof/pkg/atpproof/internalerr"
	"github.com/cognicore/atpproof/pkg/atpproof/parens"
	"github.com/cognicore/atpproof/pkg/atpproof/proof"
)

// Converter turns a TPTP formula into the knowledge base's KIF syntax.
type Converter interface {
	ToKIF(formula string) (string, error)
}

// Options configures a Processor.
type Options struct {
	// Converter translates formulas; nil keeps them in TPTP syntax.
	Converter Converter
	// Logger receives reports about skipped lines and dangling references.
	// Nil discards them; they are recorded as diagnostics either way.
	Logger *slog.Logger
	// KeepDuplicates disables duplicate-step removal after a transcript.
	KeepDuplicates bool
}

// Processor parses the proof steps of one transcript. It owns the
// identifier table, so a new Processor is needed per transcript.
type Processor struct {
	ids   *IdentifierTable
	conv  Converter
	log   *slog.Logger
	opts  Options
	line  int
	diags []proof.Diagnostic
}

// NewProcessor creates a Processor with an empty identifier table.
func NewProcessor(opts Options) *Processor {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Processor{
		ids:  NewIdentifierTable(),
		conv: opts.Converter,
		log:  logger,
		opts: opts,
	}
}

// Table exposes the identifier table built so far.
func (p *Processor) Table() *IdentifierTable { return p.ids }

// Diagnostics returns the problems recorded so far.
func (p *Processor) Diagnostics() []proof.Diagnostic { return p.diags }

// ParseStep parses one `fof(id, role, formula[, support]).` line. Malformed
// lines yield an error wrapping ErrMalformedLine and allocate no id.
func (p *Processor) ParseStep(line string) (proof.Step, error) {
	s := strings.TrimSpace(line)
	if !strings.HasSuffix(s, ").") {
		return proof.Step{}, malformed("missing trailing ').'")
	}
	open := strings.IndexByte(s, '(')
	if open <= 0 {
		return proof.Step{}, malformed("missing functor or '('")
	}
	if end := parens.Match(s, open); end != len(s)-2 {
		return proof.Step{}, fmt.Errorf("%w: %w", internalerr.ErrMalformedLine, internalerr.ErrUnbalanced)
	}

	args := parens.Split(s[open+1:len(s)-2], ',')
	if len(args) < 3 {
		return proof.Step{}, malformed(fmt.Sprintf("expected at least 3 arguments, got %d", len(args)))
	}
	label, role, formula := args[0], args[1], args[2]
	if label == "" || formula == "" {
		return proof.Step{}, malformed("empty label or formula")
	}

	step := proof.Step{
		ID:          p.ids.Assign(label),
		Label:       label,
		FormulaType: role,
		Axiom:       p.convert(formula),
		Premises:    []int{},
	}
	if len(args) > 3 {
		support := args[3]
		step.Rule, step.Source = describeSupport(support)
		step.Premises = p.ResolveSupport(support)
	}
	return step, nil
}

func malformed(reason string) error {
	return fmt.Errorf("%w: %s", internalerr.ErrMalformedLine, reason)
}

func (p *Processor) convert(formula string) string {
	if p.conv == nil {
		return formula
	}
	kif, err := p.conv.ToKIF(formula)
	if err != nil {
		p.report(formula, err)
		return formula
	}
	return kif
}

// ResolveSupport turns a support term into the ids of the steps it cites.
// Labels missing from the identifier table are reported and dropped.
func (p *Processor) ResolveSupport(support string) []int {
	premises := p.resolve(strings.TrimSpace(support))
	if premises == nil {
		return []int{}
	}
	return lo.Uniq(premises)
}

func (p *Processor) resolve(s string) []int {
	if s == "" {
		return nil
	}

	if s[0] == '[' {
		end := parens.Match(s, 0)
		if end != len(s)-1 {
			p.report(s, fmt.Errorf("%w: support list", internalerr.ErrUnbalanced))
			return nil
		}
		var out []int
		for _, item := range parens.Split(s[1:end], ',') {
			switch {
			case item == "":
			case strings.HasPrefix(item, "inference("):
				out = append(out, p.resolve(item)...)
			case strings.ContainsAny(item, "(["):
				// theory(equality), status(thm) and the like
			default:
				out = append(out, p.lookup(item)...)
			}
		}
		return out
	}

	functor, inner, ok := parens.Inner(s)
	if !ok {
		if strings.ContainsAny(s, "()[]") {
			p.report(s, fmt.Errorf("%w: support term", internalerr.ErrUnbalanced))
			return nil
		}
		return p.lookup(s)
	}

	switch functor {
	case "inference":
		args := parens.Split(inner, ',')
		if len(args) < 3 {
			p.report(s, malformed("inference needs rule, annotations and parents"))
			return nil
		}
		return p.resolve(strings.Join(args[2:], ","))
	case "file", "introduced":
		return nil
	}
	return nil
}

func (p *Processor) lookup(label string) []int {
	if id, ok := p.ids.Lookup(label); ok {
		return []int{id}
	}
	p.report(label, internalerr.ErrUnresolvedReference)
	return nil
}

func (p *Processor) report(text string, err error) {
	p.log.Warn("proof parse problem", "line", p.line, "text", text, "err", err)
	p.diags = append(p.diags, proof.Diagnostic{Line: p.line, Text: text, Err: err})
}

// describeSupport returns the outermost inference rule or the provenance of
// a leaf (file or introduced).
func describeSupport(support string) (rule, source string) {
	functor, inner, ok := parens.Inner(support)
	if !ok {
		return "", ""
	}
	switch functor {
	case "inference":
		if args := parens.Split(inner, ','); len(args) > 0 {
			return args[0], ""
		}
	case "file", "introduced":
		return "", functor
	}
	return "", ""
}
