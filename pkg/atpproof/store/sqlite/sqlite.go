package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/atpproof/pkg/atpproof/internalerr"
	"github.com/cognicore/atpproof/pkg/atpproof/proof"
	"github.com/cognicore/atpproof/pkg/atpproof/store"
)

// timeLayout is fixed-width so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite run archive with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Steps are deleted with their run
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	query_text TEXT,
	status TEXT,
	answers TEXT,
	annotations TEXT,
	diagnostics TEXT,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);

CREATE TABLE IF NOT EXISTS run_steps (
	run_id TEXT NOT NULL,
	step_id INTEGER NOT NULL,
	label TEXT,
	formula_type TEXT,
	formula_role TEXT,
	axiom TEXT,
	rule TEXT,
	source TEXT,
	premises TEXT,
	PRIMARY KEY(run_id, step_id),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveRun inserts or replaces a run and its steps
func (s *sqliteStore) SaveRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("save run: empty id: %w", internalerr.ErrInvalidInput)
	}
	answersJSON, err := json.Marshal(r.Answers)
	if err != nil {
		return err
	}
	annotationsJSON, err := json.Marshal(r.Annotations)
	if err != nil {
		return err
	}
	diagnosticsJSON, err := json.Marshal(r.Diagnostics)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
INSERT INTO runs (id, query_text, status, answers, annotations, diagnostics, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	query_text=excluded.query_text,
	status=excluded.status,
	answers=excluded.answers,
	annotations=excluded.annotations,
	diagnostics=excluded.diagnostics,
	created_at=excluded.created_at;
`, r.ID, r.Query, r.Status, string(answersJSON), string(annotationsJSON), string(diagnosticsJSON),
		r.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return err
	}

	if err := replaceRunSteps(ctx, tx, r.ID, r.Steps); err != nil {
		return err
	}
	return tx.Commit()
}

func replaceRunSteps(ctx context.Context, tx *sql.Tx, runID string, steps []proof.Step) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM run_steps WHERE run_id=?`, runID); err != nil {
		return err
	}
	if len(steps) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO run_steps (run_id, step_id, label, formula_type, formula_role, axiom, rule, source, premises)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, st := range steps {
		premises := st.Premises
		if premises == nil {
			premises = []int{}
		}
		premisesJSON, err := json.Marshal(premises)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, runID, st.ID, st.Label, st.FormulaType, st.FormulaRole,
			st.Axiom, st.Rule, st.Source, string(premisesJSON)); err != nil {
			return err
		}
	}
	return nil
}

// GetRun loads a run with its steps
func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, query_text, status, answers, annotations, diagnostics, created_at
FROM runs WHERE id = ?;
`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	if err != nil {
		return store.Run{}, err
	}

	steps, err := s.loadSteps(ctx, id)
	if err != nil {
		return store.Run{}, err
	}
	r.Steps = steps
	return r, nil
}

// ListRuns returns run headers, newest first
func (s *sqliteStore) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = store.DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, query_text, status, answers, annotations, diagnostics, created_at
FROM runs
ORDER BY created_at DESC, id DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []store.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// DeleteRun removes a run and, through the foreign key, its steps
func (s *sqliteStore) DeleteRun(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (store.Run, error) {
	var (
		r                                             store.Run
		answersJSON, annotationsJSON, diagnosticsJSON string
		createdAt                                     string
	)
	if err := sc.Scan(&r.ID, &r.Query, &r.Status, &answersJSON, &annotationsJSON, &diagnosticsJSON, &createdAt); err != nil {
		return store.Run{}, err
	}
	if err := json.Unmarshal([]byte(answersJSON), &r.Answers); err != nil {
		return store.Run{}, err
	}
	if err := json.Unmarshal([]byte(annotationsJSON), &r.Annotations); err != nil {
		return store.Run{}, err
	}
	if err := json.Unmarshal([]byte(diagnosticsJSON), &r.Diagnostics); err != nil {
		return store.Run{}, err
	}
	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return store.Run{}, err
	}
	r.CreatedAt = t
	return r, nil
}

func (s *sqliteStore) loadSteps(ctx context.Context, runID string) ([]proof.Step, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT step_id, label, formula_type, formula_role, axiom, rule, source, premises
FROM run_steps
WHERE run_id = ?
ORDER BY step_id;
`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var steps []proof.Step
	for rows.Next() {
		var st proof.Step
		var premisesJSON string
		if err := rows.Scan(&st.ID, &st.Label, &st.FormulaType, &st.FormulaRole, &st.Axiom, &st.Rule, &st.Source, &premisesJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(premisesJSON), &st.Premises); err != nil {
			return nil, err
		}
		steps = append(steps, st)
	}
	return steps, rows.Err()
}
