package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/atpproof/pkg/atpproof/internalerr"
	"github.com/cognicore/atpproof/pkg/atpproof/proof"
	"github.com/cognicore/atpproof/pkg/atpproof/store"
)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu   sync.RWMutex
	runs map[string]store.Run
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{runs: make(map[string]store.Run)}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveRun inserts or replaces a run, keyed by ID.
func (s *Store) SaveRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("save run: empty id: %w", internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[r.ID] = copyRun(r)
	return nil
}

// GetRun returns a run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.runs[id]
	if !ok {
		return store.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	return copyRun(r), nil
}

// ListRuns returns the newest runs first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = store.DefaultListLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Run, 0, len(s.runs))
	for _, r := range s.runs {
		r = copyRun(r)
		r.Steps = nil
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// DeleteRun removes a run. Deleting an unknown id is not an error.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.runs, id)
	return nil
}

func copyRun(r store.Run) store.Run {
	out := r
	out.Answers = append([]string(nil), r.Answers...)
	out.Annotations = append([]store.Annotation(nil), r.Annotations...)
	out.Diagnostics = append([]string(nil), r.Diagnostics...)
	if r.Steps != nil {
		out.Steps = make([]proof.Step, len(r.Steps))
		for i, st := range r.Steps {
			st.Premises = append([]int{}, st.Premises...)
			out.Steps[i] = st
		}
	}
	return out
}
