package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/cognicore/atpproof/pkg/atpproof/config"
	"github.com/cognicore/atpproof/pkg/atpproof/store"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file (optional)")
		dbPath     = flag.String("db", "", "SQLite run archive (overrides store.path)")
		limit      = flag.Int("limit", store.DefaultListLimit, "Number of runs to list")
		show       = flag.String("show", "", "Run ID to print in full")
		del        = flag.String("delete", "", "Run ID to delete")
	)
	flag.Parse()

	ctx := context.Background()

	st, err := openStore(ctx, *configPath, *dbPath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer st.Close()

	switch {
	case *del != "":
		if err := st.DeleteRun(ctx, *del); err != nil {
			log.Fatalf("delete run: %v", err)
		}
		fmt.Printf("deleted %s\n", *del)
	case *show != "":
		run, err := st.GetRun(ctx, *show)
		if err != nil {
			log.Fatalf("get run: %v", err)
		}
		printRun(os.Stdout, run)
	default:
		runs, err := st.ListRuns(ctx, *limit)
		if err != nil {
			log.Fatalf("list runs: %v", err)
		}
		printRuns(os.Stdout, runs)
	}
}

func openStore(ctx context.Context, configPath, dbPath string) (store.Store, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return nil, err
		}
	}
	if dbPath != "" {
		cfg.Store = config.StoreConfig{Driver: config.DriverSQLite, Path: dbPath}
	}
	if cfg.Store.Driver != config.DriverSQLite {
		return nil, fmt.Errorf("runs are only kept by the sqlite store, got driver %q", cfg.Store.Driver)
	}

	comp, err := (&config.Loader{Config: cfg, LogOutput: os.Stderr}).Load(ctx)
	if err != nil {
		return nil, err
	}
	return comp.Store, nil
}

func printRuns(w io.Writer, runs []store.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "no runs")
		return
	}
	for _, r := range runs {
		fmt.Fprintf(w, "%s  %s  %-12s %s\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Status, strings.Join(r.Answers, ", "))
	}
}

func printRun(w io.Writer, r store.Run) {
	fmt.Fprintf(w, "Run:     %s\n", r.ID)
	fmt.Fprintf(w, "Created: %s\n", r.CreatedAt.Format("2006-01-02 15:04:05"))
	if r.Query != "" {
		fmt.Fprintf(w, "Query:   %s\n", r.Query)
	}
	fmt.Fprintf(w, "Status:  %s\n", r.Status)
	fmt.Fprintf(w, "Answers: %s\n", strings.Join(r.Answers, ", "))
	for _, a := range r.Annotations {
		fmt.Fprintf(w, "  %s: %s\n", a.Witness, a.Class)
	}
	fmt.Fprintf(w, "\nProof (%d steps):\n", len(r.Steps))
	for _, s := range r.Steps {
		fmt.Fprintf(w, "%3d. %s  %v\n", s.ID, s.Axiom, s.Premises)
	}
	for _, d := range r.Diagnostics {
		fmt.Fprintf(w, "! %s\n", d)
	}
}
