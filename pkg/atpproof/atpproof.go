// Package atpproof ties the proof tools together: it normalizes and parses
// prover transcripts, types Skolem answers, formats XML query responses and
// optionally archives every run.
package atpproof

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/lo"

	"github.com/cognicore/atpproof/pkg/atpproof/answer"
	"github.com/cognicore/atpproof/pkg/atpproof/kif"
	"github.com/cognicore/atpproof/pkg/atpproof/proof"
	"github.com/cognicore/atpproof/pkg/atpproof/skolem"
	"github.com/cognicore/atpproof/pkg/atpproof/store"
	"github.com/cognicore/atpproof/pkg/atpproof/tptp"
	"github.com/cognicore/atpproof/pkg/atpproof/transcript"
)

// Options configures a Harness
type Options struct {
	Store          store.Store      // nil disables archiving
	Converter      *kif.Converter   // nil keeps formulas in TPTP
	Resolver       *skolem.Resolver // nil builds a default resolver
	Logger         *slog.Logger
	KeepDuplicates bool
	Now            func() time.Time
}

// Harness is the entry point used by the command-line tools
type Harness struct {
	store    store.Store
	conv     *kif.Converter
	resolver *skolem.Resolver
	log      *slog.Logger
	keepDups bool
	now      func() time.Time

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// New creates a Harness with the given dependencies
func New(opts Options) (*Harness, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	res := opts.Resolver
	if res == nil {
		var err error
		if res, err = skolem.NewResolver(skolem.Options{Logger: logger}); err != nil {
			return nil, err
		}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Harness{
		store:    opts.Store,
		conv:     opts.Converter,
		resolver: res,
		log:      logger,
		keepDups: opts.KeepDuplicates,
		now:      now,
		entropy:  ulid.Monotonic(rand.Reader, 0),
	}, nil
}

// Close releases the archive store, if any
func (h *Harness) Close() error {
	if h.store == nil {
		return nil
	}
	return h.store.Close()
}

// Result is the outcome of one transcript parse
type Result struct {
	RunID       string // empty when archiving is off
	Parsed      *proof.Parsed
	Annotations []skolem.Annotation
}

// ParseTranscript parses a prover transcript, plain or HTML-wrapped, and
// types every Skolem answer against the proof. query is the KIF query the
// transcript answers and is only recorded.
func (h *Harness) ParseTranscript(ctx context.Context, r io.Reader, query string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	text, err := transcript.Read(r)
	if err != nil {
		return nil, err
	}

	opts := tptp.Options{Logger: h.log, KeepDuplicates: h.keepDups}
	if h.conv != nil {
		opts.Converter = h.conv
	}
	parsed, err := tptp.ParseString(text, opts)
	if err != nil {
		return nil, fmt.Errorf("parse transcript: %w", err)
	}

	res := &Result{Parsed: parsed}
	for _, a := range parsed.Answers {
		if !skolem.IsSkolem(a) {
			continue
		}
		res.Annotations = append(res.Annotations, h.resolver.Annotate(skolem.Request{
			Witness: a,
			Steps:   parsed.Steps,
		}))
	}
	h.log.Debug("transcript parsed",
		"status", parsed.Status, "steps", len(parsed.Steps),
		"answers", len(parsed.Answers), "diagnostics", len(parsed.Diagnostics))

	if h.store == nil {
		return res, nil
	}
	run := h.newRun(query, res)
	if err := h.store.SaveRun(ctx, run); err != nil {
		return nil, fmt.Errorf("archive run: %w", err)
	}
	res.RunID = run.ID
	return res, nil
}

// ParseResponse decodes an XML queryResponse.
func (h *Harness) ParseResponse(r io.Reader, query string) (*answer.Set, error) {
	return answer.Decode(r, answer.Options{Query: query, Resolver: h.resolver})
}

// Render writes steps back as TPTP lines.
func (h *Harness) Render(steps []proof.Step) string {
	if h.conv == nil {
		return tptp.Render(steps, nil)
	}
	return tptp.Render(steps, h.conv)
}

func (h *Harness) newRun(query string, res *Result) store.Run {
	h.mu.Lock()
	now := h.now()
	id := ulid.MustNew(ulid.Timestamp(now), h.entropy).String()
	h.mu.Unlock()

	p := res.Parsed
	return store.Run{
		ID:      id,
		Query:   query,
		Status:  p.Status,
		Answers: p.Answers,
		Annotations: lo.Map(res.Annotations, func(a skolem.Annotation, _ int) store.Annotation {
			return store.Annotation{Witness: a.Witness, Class: a.Class}
		}),
		Diagnostics: lo.Map(p.Diagnostics, func(d proof.Diagnostic, _ int) string {
			return fmt.Sprintf("line %d: %v: %s", d.Line, d.Err, d.Text)
		}),
		Steps:     p.Steps,
		CreatedAt: now,
	}
}
