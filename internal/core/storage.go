package core

import (
	"context"
	"errors"
	"fmt"

	"sakanacore/internal/infra/persistence/memory"
	"sakanacore/internal/infra/persistence/postgres"
	"sakanacore/internal/infra/persistence/sqlite"
)

// StorageDriver identifies a concrete history store implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// DefaultSQLitePath is used when the sqlite driver is selected without a path.
const DefaultSQLitePath = "./sakana-history.db"

// ErrUnsupportedDriver is returned for unknown history drivers.
var ErrUnsupportedDriver = errors.New("unsupported history driver")

// HistoryStoreConfig selects and configures a history backend.
type HistoryStoreConfig struct {
	Driver      StorageDriver
	SQLitePath  string
	PostgresDSN string
}

// OpenHistoryStore opens the configured backend. An empty driver selects sqlite.
func OpenHistoryStore(ctx context.Context, cfg HistoryStoreConfig) (HistoryStore, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = StorageSQLite
	}
	switch driver {
	case StorageMemory:
		return memory.NewStore(), nil
	case StorageSQLite:
		path := cfg.SQLitePath
		if path == "" {
			path = DefaultSQLitePath
		}
		store, err := sqlite.NewStore(ctx, path)
		if err != nil {
			return nil, err
		}
		return store, nil
	case StoragePostgres:
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("postgres history store: dsn required")
		}
		store, err := postgres.NewStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, driver)
	}
}
