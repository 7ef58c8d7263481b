package atpproof

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/cognicore/atpproof/pkg/atpproof/kif"
	"github.com/cognicore/atpproof/pkg/atpproof/skolem"
	"github.com/cognicore/atpproof/pkg/atpproof/store"
	"github.com/cognicore/atpproof/pkg/atpproof/store/memstore"
)

const skolemTranscript = `% SZS status Theorem for query
% SZS answers Tuple [[esk1_0]|_] for query
% SZS output start CNFRefutation
fof(c_0_0, axiom, (s__instance(esk1_0,s__Human)), file('kb.tptp', kb_1)).
fof(c_0_1, negated_conjecture, (~(?[V__X]:s__instance(V__X,s__Human))), file('kb.tptp', query)).
cnf(c_0_2, negated_conjecture, (~s__instance(X1,s__Human)), inference(fof_nnf,[status(thm)],[c_0_1])).
cnf(c_0_3, plain, ($false), inference(sr,[status(thm)],[c_0_2,c_0_0,c_0_9])).
% SZS output end CNFRefutation
`

func newHarness(t *testing.T, st store.Store) *Harness {
	t.Helper()
	h, err := New(Options{
		Store:     st,
		Converter: kif.New(),
		Now:       func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return h
}

func TestParseTranscriptAnnotatesSkolemAnswers(t *testing.T) {
	h := newHarness(t, nil)

	res, err := h.ParseTranscript(context.Background(), strings.NewReader(skolemTranscript), "")
	if err != nil {
		t.Fatalf("ParseTranscript: %v", err)
	}
	if res.RunID != "" {
		t.Errorf("RunID = %q without a store", res.RunID)
	}
	if res.Parsed.Status != "Theorem" || len(res.Parsed.Steps) != 4 {
		t.Fatalf("unexpected parse: status %q, %d steps", res.Parsed.Status, len(res.Parsed.Steps))
	}
	want := []skolem.Annotation{{Witness: "esk1_0", Class: "Human"}}
	if diff := cmp.Diff(want, res.Annotations); diff != "" {
		t.Errorf("annotations mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTranscriptArchivesRun(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	h := newHarness(t, st)
	defer h.Close()

	query := "(exists (?X) (instance ?X Human))"
	res, err := h.ParseTranscript(ctx, strings.NewReader("<pre>"+skolemTranscript+"</pre>"), query)
	if err != nil {
		t.Fatalf("ParseTranscript: %v", err)
	}
	if len(res.RunID) != 26 {
		t.Fatalf("RunID %q is not a ULID", res.RunID)
	}

	run, err := st.GetRun(ctx, res.RunID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.Query != query || run.Status != "Theorem" {
		t.Errorf("unexpected run header %+v", run)
	}
	if len(run.Steps) != 4 {
		t.Errorf("archived %d steps, want 4", len(run.Steps))
	}
	if diff := cmp.Diff([]store.Annotation{{Witness: "esk1_0", Class: "Human"}}, run.Annotations); diff != "" {
		t.Errorf("annotations mismatch (-want +got):\n%s", diff)
	}
	if len(run.Diagnostics) != 1 || !strings.Contains(run.Diagnostics[0], "c_0_9") {
		t.Errorf("expected the dangling c_0_9 diagnostic, got %v", run.Diagnostics)
	}

	second, err := h.ParseTranscript(ctx, strings.NewReader(skolemTranscript), query)
	if err != nil {
		t.Fatalf("ParseTranscript: %v", err)
	}
	if second.RunID <= res.RunID {
		t.Errorf("run ids should increase: %s then %s", res.RunID, second.RunID)
	}
}

func TestParseTranscriptHonoursCancellation(t *testing.T) {
	h := newHarness(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := h.ParseTranscript(ctx, strings.NewReader(skolemTranscript), ""); err == nil {
		t.Error("expected an error from a cancelled context")
	}
}

func TestParseResponse(t *testing.T) {
	h := newHarness(t, nil)
	doc := `<queryResponse>
  <answer result="yes"><bindingSet type="definite"><binding><var name="?X" value="sk0"/></binding></bindingSet></answer>
  <summary proofs="1"/>
</queryResponse>`

	set, err := h.ParseResponse(strings.NewReader(doc), "(exists (?X) (instance ?X Dog))")
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	got, err := set.Get(0)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "?X = sk0 ; sk0 is an instance of Dog" {
		t.Errorf("Get = %q", got)
	}
}

func TestRender(t *testing.T) {
	h := newHarness(t, nil)
	res, err := h.ParseTranscript(context.Background(), strings.NewReader(skolemTranscript), "")
	if err != nil {
		t.Fatalf("ParseTranscript: %v", err)
	}
	out := h.Render(res.Parsed.Steps)
	if !strings.HasPrefix(out, "fof(0, axiom, (s__instance(esk1_0,s__Human)), inference(axiom,[],[])).\n") {
		t.Errorf("unexpected rendering:\n%s", out)
	}
	if !strings.Contains(out, "inference(sr,[],[2,0]))") {
		t.Errorf("missing final step:\n%s", out)
	}
}
