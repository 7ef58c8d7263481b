package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func openFixture(t *testing.T, name string) *os.File {
	t.Helper()
	f, err := os.Open(filepath.Join("../../testdata", name))
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestPrintTranscript(t *testing.T) {
	ctx := context.Background()
	h, err := buildHarness(ctx, "")
	if err != nil {
		t.Fatalf("buildHarness: %v", err)
	}
	defer h.Close()

	var out bytes.Buffer
	if err := printTranscript(ctx, &out, h, openFixture(t, "e_refutation.txt"), "", false, false); err != nil {
		t.Fatalf("printTranscript: %v", err)
	}

	for _, want := range []string{
		"Status: Theorem",
		"Answers: esk1_0",
		"esk1_0 is an instance of Human",
		"Proof (5 steps):",
		"  4. False  [3, 0 sr]",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestPrintTranscriptJSON(t *testing.T) {
	ctx := context.Background()
	h, err := buildHarness(ctx, "")
	if err != nil {
		t.Fatalf("buildHarness: %v", err)
	}
	defer h.Close()

	var out bytes.Buffer
	if err := printTranscript(ctx, &out, h, openFixture(t, "e_refutation.txt"), "", false, true); err != nil {
		t.Fatalf("printTranscript: %v", err)
	}

	var rep reportJSON
	if err := json.Unmarshal(out.Bytes(), &rep); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if rep.Status != "Theorem" || len(rep.Steps) != 5 {
		t.Errorf("unexpected report %+v", rep)
	}
}

func TestPrintResponse(t *testing.T) {
	h, err := buildHarness(context.Background(), "")
	if err != nil {
		t.Fatalf("buildHarness: %v", err)
	}
	defer h.Close()

	var out bytes.Buffer
	if err := printResponse(&out, h, openFixture(t, "query_response.xml"), ""); err != nil {
		t.Fatalf("printResponse: %v", err)
	}
	want := "1 answer(s), 1 proof(s)\n1. ?X = sk0 ; sk0 is an instance of Human\n"
	if out.String() != want {
		t.Errorf("output =\n%s\nwant\n%s", out.String(), want)
	}
}

func TestBuildHarnessBadConfig(t *testing.T) {
	if _, err := buildHarness(context.Background(), "/nonexistent/atpproof.yaml"); err == nil {
		t.Error("expected error for missing config")
	}
}
