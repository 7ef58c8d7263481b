package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/cognicore/atpproof/pkg/atpproof"
	"github.com/cognicore/atpproof/pkg/atpproof/config"
	"github.com/cognicore/atpproof/pkg/atpproof/proof"
)

type stepJSON struct {
	ID       int    `json:"id"`
	Label    string `json:"label,omitempty"`
	Type     string `json:"type,omitempty"`
	Axiom    string `json:"axiom"`
	Rule     string `json:"rule,omitempty"`
	Premises []int  `json:"premises"`
}

type reportJSON struct {
	RunID       string     `json:"run_id,omitempty"`
	Status      string     `json:"status"`
	Answers     []string   `json:"answers"`
	Annotations []string   `json:"annotations,omitempty"`
	Steps       []stepJSON `json:"steps"`
	Diagnostics []string   `json:"diagnostics,omitempty"`
}

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file (optional)")
		input      = flag.String("input", "", "Prover transcript or XML queryResponse (required)")
		xmlInput   = flag.Bool("xml", false, "Treat input as an XML queryResponse")
		query      = flag.String("query", "", "KIF query the output answers")
		render     = flag.Bool("render", false, "Print the proof re-serialized as TPTP")
		asJSON     = flag.Bool("json", false, "Print the parse as JSON")
	)
	flag.Parse()

	if *input == "" {
		log.Fatal("--input required")
	}

	ctx := context.Background()

	h, err := buildHarness(ctx, *configPath)
	if err != nil {
		log.Fatalf("build harness: %v", err)
	}
	defer h.Close()

	f, err := os.Open(*input)
	if err != nil {
		log.Fatalf("open input: %v", err)
	}
	defer f.Close()

	if *xmlInput {
		err = printResponse(os.Stdout, h, f, *query)
	} else {
		err = printTranscript(ctx, os.Stdout, h, f, *query, *render, *asJSON)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func buildHarness(ctx context.Context, configPath string) (*atpproof.Harness, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}

	loader := config.Loader{Config: cfg, LogOutput: os.Stderr}
	comp, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	return atpproof.New(atpproof.Options{
		Store:          comp.Store,
		Converter:      comp.Converter,
		Resolver:       comp.Resolver,
		Logger:         comp.Logger,
		KeepDuplicates: !comp.Dedupe,
	})
}

func printResponse(w io.Writer, h *atpproof.Harness, r io.Reader, query string) error {
	set, err := h.ParseResponse(r, query)
	if err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	fmt.Fprintf(w, "%d answer(s), %d proof(s)\n", set.Count(), set.Proofs())
	for i := 0; i < set.Count(); i++ {
		s, err := set.Get(i)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d. %s\n", i+1, s)
	}
	return nil
}

func printTranscript(ctx context.Context, w io.Writer, h *atpproof.Harness, r io.Reader, query string, render, asJSON bool) error {
	res, err := h.ParseTranscript(ctx, r, query)
	if err != nil {
		return err
	}
	p := res.Parsed

	if asJSON {
		rep := reportJSON{
			RunID:   res.RunID,
			Status:  p.Status,
			Answers: p.Answers,
			Steps:   make([]stepJSON, len(p.Steps)),
		}
		for i, s := range p.Steps {
			rep.Steps[i] = stepJSON{ID: s.ID, Label: s.Label, Type: s.FormulaType, Axiom: s.Axiom, Rule: s.Rule, Premises: s.Premises}
		}
		for _, a := range res.Annotations {
			rep.Annotations = append(rep.Annotations, a.String())
		}
		for _, d := range p.Diagnostics {
			rep.Diagnostics = append(rep.Diagnostics, formatDiagnostic(d))
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}

	fmt.Fprintf(w, "Status: %s\n", orDash(p.Status))
	fmt.Fprintf(w, "Answers: %s\n", orDash(strings.Join(p.Answers, ", ")))
	for _, a := range res.Annotations {
		fmt.Fprintf(w, "  %s\n", a)
	}
	if res.RunID != "" {
		fmt.Fprintf(w, "Run: %s\n", res.RunID)
	}

	fmt.Fprintf(w, "\nProof (%d steps):\n", len(p.Steps))
	if render {
		fmt.Fprint(w, h.Render(p.Steps))
	} else {
		for _, s := range p.Steps {
			fmt.Fprintf(w, "%3d. %s", s.ID, s.Axiom)
			if !s.IsLeaf() {
				fmt.Fprintf(w, "  [%s", joinInts(s.Premises))
				if s.Rule != "" {
					fmt.Fprintf(w, " %s", s.Rule)
				}
				fmt.Fprint(w, "]")
			}
			fmt.Fprintln(w)
		}
	}

	if len(p.Diagnostics) > 0 {
		fmt.Fprintf(w, "\nDiagnostics:\n")
		for _, d := range p.Diagnostics {
			fmt.Fprintf(w, "  %s\n", formatDiagnostic(d))
		}
	}
	return nil
}

func formatDiagnostic(d proof.Diagnostic) string {
	return fmt.Sprintf("line %d: %v: %s", d.Line, d.Err, d.Text)
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
