// Package postgres persists validation history to a PostgreSQL table through
// the pgx database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"sakanacore/pkg/domain"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

// Compile-time contract assertion ensuring the store satisfies the domain interface.
var _ domain.HistoryStore = (*Store)(nil)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/sakana?sslmode=disable"
)

const schema = `CREATE TABLE IF NOT EXISTS validation_history (
	seq BIGSERIAL PRIMARY KEY,
	record_id TEXT NOT NULL,
	domain TEXT NOT NULL,
	compliant BOOLEAN NOT NULL,
	payload JSONB NOT NULL
)`

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store appends each result as a JSONB row.
type Store struct {
	db *sql.DB
}

// NewStore opens a Postgres-backed store using dsn (falls back to defaultDSN),
// verifies connectivity and ensures the history table exists.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure history table: %w", err)
	}
	return &Store{db: db}, nil
}

// Append inserts res inside a transaction.
func (s *Store) Append(ctx context.Context, res domain.ValidationResult) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode %s: %w", res.RecordID, err)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO validation_history(record_id, domain, compliant, payload) VALUES($1,$2,$3,$4)`,
		res.RecordID, string(res.DetectedDomain), res.Compliant, payload,
	); err != nil {
		return fmt.Errorf("insert %s: %w", res.RecordID, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

// List returns every stored result in insertion order.
func (s *Store) List(ctx context.Context) ([]domain.ValidationResult, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM validation_history ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.ValidationResult
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		if len(payload) == 0 {
			continue
		}
		var res domain.ValidationResult
		if err := json.Unmarshal(payload, &res); err != nil {
			return nil, fmt.Errorf("decode history row: %w", err)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return out, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
