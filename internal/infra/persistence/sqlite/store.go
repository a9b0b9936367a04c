// Package sqlite persists validation history to an embedded SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"sakanacore/pkg/domain"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

var _ domain.HistoryStore = (*Store)(nil)

const schema = `CREATE TABLE IF NOT EXISTS validation_history (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	record_id TEXT NOT NULL,
	domain TEXT NOT NULL,
	compliant INTEGER NOT NULL,
	payload BLOB NOT NULL
)`

// Store appends each result as a JSON row.
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if needed) the database at path.
func NewStore(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = "sakana-history.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// modernc sqlite serialises writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create history table: %w", err)
	}
	return &Store{db: db}, nil
}

// Append inserts res.
func (s *Store) Append(ctx context.Context, res domain.ValidationResult) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode %s: %w", res.RecordID, err)
	}
	compliant := 0
	if res.Compliant {
		compliant = 1
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO validation_history(record_id, domain, compliant, payload) VALUES(?,?,?,?)`,
		res.RecordID, string(res.DetectedDomain), compliant, payload,
	); err != nil {
		return fmt.Errorf("insert %s: %w", res.RecordID, err)
	}
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
			return nil, fmt.Errorf("scan: %w", err)
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
