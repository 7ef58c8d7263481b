// Package store archives parsed prover runs for later inspection.
package store

import (
	"context"
	"time"

	"github.com/cognicore/atpproof/pkg/atpproof/proof"
)

// Store persists runs. GetRun returns an error wrapping
// internalerr.ErrNotFound for unknown ids.
type Store interface {
	Close() error

	SaveRun(ctx context.Context, r Run) error
	GetRun(ctx context.Context, id string) (Run, error)
	// ListRuns returns up to limit runs, newest first, without their steps.
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	DeleteRun(ctx context.Context, id string) error
}

// Run is one archived transcript parse.
type Run struct {
	ID          string
	Query       string
	Status      string
	Answers     []string
	Annotations []Annotation
	Diagnostics []string
	Steps       []proof.Step
	CreatedAt   time.Time
}

// Annotation is the class recovered for a Skolem answer.
type Annotation struct {
	Witness string
	Class   string
}

// DefaultListLimit applies when ListRuns is called with a non-positive limit.
const DefaultListLimit = 20
