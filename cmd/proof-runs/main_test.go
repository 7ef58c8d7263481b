package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cognicore/atpproof/pkg/atpproof/proof"
	"github.com/cognicore/atpproof/pkg/atpproof/store"
)

func TestOpenStoreRequiresSQLite(t *testing.T) {
	if _, err := openStore(context.Background(), "", ""); err == nil {
		t.Error("expected error without a sqlite store")
	}
}

func TestListAndShow(t *testing.T) {
	ctx := context.Background()
	st, err := openStore(ctx, "", filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("openStore: %v", err)
	}
	defer st.Close()

	run := store.Run{
		ID:          "01J0000000000000000000000A",
		Query:       "(exists (?X) (instance ?X Human))",
		Status:      "Theorem",
		Answers:     []string{"esk1_0"},
		Annotations: []store.Annotation{{Witness: "esk1_0", Class: "Human"}},
		Steps:       []proof.Step{{ID: 0, Axiom: "(instance esk1_0 Human)", Premises: []int{}}},
		CreatedAt:   time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	}
	if err := st.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	runs, err := st.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	var list bytes.Buffer
	printRuns(&list, runs)
	if !strings.Contains(list.String(), "01J0000000000000000000000A  2026-03-01 09:30:00  Theorem") {
		t.Errorf("unexpected listing %q", list.String())
	}

	got, err := st.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	var detail bytes.Buffer
	printRun(&detail, got)
	for _, want := range []string{"Query:   (exists", "esk1_0: Human", "  0. (instance esk1_0 Human)  []"} {
		if !strings.Contains(detail.String(), want) {
			t.Errorf("detail missing %q:\n%s", want, detail.String())
		}
	}
}
