// Package skolem recovers the class of a Skolem witness returned as an
// answer binding. The resolver is a best-effort heuristic over formula text,
// not a type inference: every failure degrades to Undetermined.
package skolem

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cognicore/atpproof/pkg/atpproof/parens"
	"github.com/cognicore/atpproof/pkg/atpproof/proof"
)

// Undetermined is returned when no class could be recovered.
const Undetermined = "cannot be determined."

const (
	placeholder = "SKOLEM_PLACEHOLDER"
	wildcard    = "_"

	// DefaultCacheSize bounds the compiled-pattern cache of a Resolver.
	DefaultCacheSize = 256

	// argument matches one KIF argument: an atom or a flat parenthesized term.
	argument = `[^\s()]+|\([^()]*\)`
)

var skolemPattern = regexp.MustCompile(`sk[0-9]+`)

// IsSkolem reports whether term contains a Skolem symbol (sk1, esk2_1, ...).
func IsSkolem(term string) bool {
	return skolemPattern.MatchString(term)
}

// Head returns the function symbol of a Skolem term in either syntax:
// esk2_1(s__Arc13_1), (esk2_1 Arc13_1) and sk3 yield esk2_1, esk2_1 and sk3.
func Head(term string) string {
	t := strings.TrimSpace(term)
	t = strings.TrimPrefix(t, "(")
	if i := strings.IndexAny(t, "( \t\n)"); i >= 0 {
		t = t[:i]
	}
	return t
}

// Annotation is the class recovered for one witness.
type Annotation struct {
	Witness string
	Class   string
}

// Determined reports whether a class was found.
func (a Annotation) Determined() bool { return a.Class != Undetermined }

// String renders the annotation as a sentence fragment.
func (a Annotation) String() string {
	if !a.Determined() {
		return "the type of " + a.Witness + " " + Undetermined
	}
	return a.Witness + " is an instance of " + a.Class
}

// Request names one witness to resolve.
type Request struct {
	// Witness is the Skolem term bound to the variable.
	Witness string
	// Query is the original KIF query. When set, the defining relation is
	// taken from the query with Variable masked out.
	Query    string
	Variable string
	// Steps are the proof steps whose axioms are searched.
	Steps []proof.Step
}

// Options configures a Resolver.
type Options struct {
	CacheSize int
	Logger    *slog.Logger
}

// Resolver finds Skolem classes, caching the patterns it compiles. It is
// safe for concurrent use.
type Resolver struct {
	patterns *lru.Cache[string, *regexp.Regexp]
	log      *slog.Logger
}

// NewResolver creates a Resolver.
func NewResolver(opts Options) (*Resolver, error) {
	size := opts.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, *regexp.Regexp](size)
	if err != nil {
		return nil, fmt.Errorf("skolem pattern cache: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Resolver{patterns: cache, log: logger}, nil
}

// Annotate resolves req and wraps the result.
func (r *Resolver) Annotate(req Request) Annotation {
	return Annotation{Witness: req.Witness, Class: r.Resolve(req)}
}

// Resolve returns the most specific class the witness is asserted to
// instantiate, or Undetermined.
func (r *Resolver) Resolve(req Request) string {
	axioms := proof.Axioms(req.Steps)

	var relations []string
	if req.Query != "" && req.Variable != "" {
		relations = r.queryRelations(req.Query, req.Variable)
	} else {
		relations = r.proofRelations(Head(req.Witness), axioms)
	}

	for _, rel := range relations {
		shape := normalize(rel)
		if class, ok := fastPath(shape); ok {
			r.log.Debug("skolem class from instance relation", "witness", req.Witness, "class", class)
			return class
		}
		if class, ok := r.matchShape(shape, axioms); ok {
			r.log.Debug("skolem class from relation shape", "witness", req.Witness, "shape", shape, "class", class)
			return class
		}
	}
	r.log.Debug("skolem class undetermined", "witness", req.Witness, "relations", len(relations))
	return Undetermined
}

// queryRelations masks variable in query and returns every innermost
// relation mentioning it, skipping quantifier variable lists.
func (r *Resolver) queryRelations(query, variable string) []string {
	re, ok := r.compile(`(^|[\s()])` + regexp.QuoteMeta(variable) + `([\s()]|$)`)
	if !ok {
		return nil
	}
	// Applied twice since adjacent occurrences share a delimiter.
	masked := re.ReplaceAllString(query, "${1}"+placeholder+"${2}")
	masked = re.ReplaceAllString(masked, "${1}"+placeholder+"${2}")

	var out []string
	for _, pos := range indexAll(masked, placeholder) {
		start, end, ok := parens.Enclosing(masked, pos)
		if !ok || isVariableList(masked[start+1:end]) {
			continue
		}
		out = append(out, masked[start:end+1])
	}
	return out
}

// proofRelations returns, for every occurrence of the Skolem head in the
// axioms, the relation directly containing the Skolem term with the term
// replaced by the placeholder.
func (r *Resolver) proofRelations(head string, axioms []string) []string {
	if head == "" {
		return nil
	}
	re, ok := r.compile(`\b` + regexp.QuoteMeta(head) + `\b`)
	if !ok {
		return nil
	}

	var out []string
	for _, ax := range axioms {
		for _, loc := range re.FindAllStringIndex(ax, -1) {
			termStart, termEnd := loc[0], loc[1]
			if termStart > 0 && ax[termStart-1] == '(' {
				// (head args...) call: the term is the whole group.
				s, e, ok := parens.Enclosing(ax, termStart)
				if !ok {
					continue
				}
				termStart, termEnd = s, e+1
			}
			s, e, ok := parens.Enclosing(ax, termStart)
			if !ok {
				continue
			}
			rel := ax[s:termStart] + placeholder + ax[termEnd:e+1]
			out = append(out, rel)
		}
	}
	return out
}

// normalize reduces a relation to its head and flat argument list, with
// every nested term other than the placeholder collapsed to the wildcard.
func normalize(relation string) string {
	inner := strings.TrimSpace(relation)
	inner = strings.TrimSuffix(strings.TrimPrefix(inner, "("), ")")

	var fields []string
	for i := 0; i < len(inner); {
		switch c := inner[i]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '(':
			end := parens.Match(inner, i)
			if end < 0 {
				end = len(inner) - 1
			}
			fields = append(fields, wildcard)
			i = end + 1
		default:
			j := i
			for j < len(inner) && !strings.ContainsRune(" \t\n\r()", rune(inner[j])) {
				j++
			}
			if j == i {
				i++
				continue
			}
			fields = append(fields, inner[i:j])
			i = j
		}
	}
	return strings.Join(fields, " ")
}

func fastPath(shape string) (string, bool) {
	f := strings.Fields(shape)
	if len(f) == 3 && f[0] == "instance" && f[1] == placeholder && isClass(f[2]) {
		return f[2], true
	}
	return "", false
}

// matchShape turns shape into a positional pattern, finds the term standing
// at the placeholder's position in some axiom and looks up its instance
// assertion, first in that axiom and then in all of them.
func (r *Resolver) matchShape(shape string, axioms []string) (string, bool) {
	f := strings.Fields(shape)
	if len(f) < 2 || f[0] == placeholder || f[0] == wildcard {
		return "", false
	}
	parts := []string{`\(\s*` + regexp.QuoteMeta(f[0])}
	captured := false
	for _, tok := range f[1:] {
		if tok == placeholder && !captured {
			parts = append(parts, `(`+argument+`)`)
			captured = true
			continue
		}
		parts = append(parts, `(?:`+argument+`)`)
	}
	if !captured {
		return "", false
	}
	re, ok := r.compile(strings.Join(parts, `\s+`) + `\s*\)`)
	if !ok {
		return "", false
	}

	for _, ax := range axioms {
		for _, m := range re.FindAllStringSubmatch(ax, -1) {
			term := m[1]
			if class, ok := r.instanceOf(term, []string{ax}); ok {
				return class, true
			}
			if class, ok := r.instanceOf(term, axioms); ok {
				return class, true
			}
		}
	}
	return "", false
}

func (r *Resolver) instanceOf(term string, axioms []string) (string, bool) {
	re, ok := r.compile(`\(\s*instance\s+` + regexp.QuoteMeta(term) + `\s+([^\s()]+)\s*\)`)
	if !ok {
		return "", false
	}
	for _, ax := range axioms {
		for _, m := range re.FindAllStringSubmatch(ax, -1) {
			if isClass(m[1]) {
				return m[1], true
			}
		}
	}
	return "", false
}

func (r *Resolver) compile(expr string) (*regexp.Regexp, bool) {
	if re, ok := r.patterns.Get(expr); ok {
		return re, true
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		r.log.Warn("skolem pattern rejected", "pattern", expr, "err", err)
		return nil, false
	}
	r.patterns.Add(expr, re)
	return re, true
}

func isClass(tok string) bool {
	return tok != "" && tok != wildcard && tok != placeholder && !strings.HasPrefix(tok, "?")
}

func isVariableList(s string) bool {
	f := strings.Fields(s)
	if len(f) == 0 {
		return false
	}
	for _, tok := range f {
		if tok != placeholder && !strings.HasPrefix(tok, "?") {
			return false
		}
	}
	return true
}

func indexAll(s, sub string) []int {
	var out []int
	for off := 0; ; {
		i := strings.Index(s[off:], sub)
		if i < 0 {
			return out
		}
		out = append(out, off+i)
		off += i + len(sub)
	}
}
