package domain

import "context"

// HistoryStore is a minimal append-only abstraction over durable backends for
// validation results.
type HistoryStore interface {
	// Append stores a result after the entries already present.
	Append(ctx context.Context, result ValidationResult) error
	// List returns all stored results in append order.
	List(ctx context.Context) ([]ValidationResult, error)
	Close() error
}
