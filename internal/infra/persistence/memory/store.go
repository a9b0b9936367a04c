// Package memory provides an in-process HistoryStore for tests and ephemeral runs.
package memory

import (
	"context"
	"sync"

	"sakanacore/pkg/domain"
)

var _ domain.HistoryStore = (*Store)(nil)

// Store keeps validation results in append order.
type Store struct {
	mu      sync.RWMutex
	results []domain.ValidationResult
	closed  bool
}

// NewStore constructs an empty in-memory store.
func NewStore() *Store {
	return &Store{}
}

// Append stores a copy of res.
func (s *Store) Append(ctx context.Context, res domain.ValidationResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.results = append(s.results, res.Clone())
	return nil
}

// List returns copies of all stored results in append order.
func (s *Store) List(ctx context.Context) ([]domain.ValidationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ValidationResult, len(s.results))
	for i, res := range s.results {
		out[i] = res.Clone()
	}
	return out, nil
}

// Len returns the number of stored results.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}

// Close marks the store closed; further appends fail.
func (s *Store) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}
