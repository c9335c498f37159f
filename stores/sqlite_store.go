package stores

import (
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SQLiteStore implements Store for SQLite databases
type SQLiteStore struct {
	*gormStore
	path string
}

// NewSQLiteStore creates a new SQLite store
func NewSQLiteStore(config *StoreConfig, log zerolog.Logger) (*SQLiteStore, error) {
	if config.Type != "sqlite" {
		return nil, fmt.Errorf("invalid store type for SQLite store: %s", config.Type)
	}

	store := &SQLiteStore{path: config.Connection}
	store.gormStore = &gormStore{
		dialector: func() gorm.Dialector { return sqlite.Open(store.path) },
		log:       log,
	}

	if err := store.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps a shared
	// in-memory database alive for the life of the store.
	if sqlDB, err := store.db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	return store, nil
}

// NewSQLiteStoreSimple creates a new SQLite store with just a file path or DSN
func NewSQLiteStoreSimple(dbPath string) (*SQLiteStore, error) {
	return NewSQLiteStore(NewStoreConfig("sqlite", dbPath), zerolog.Nop())
}
