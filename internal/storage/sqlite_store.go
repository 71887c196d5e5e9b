package storage

import (
	"database/sql"

	"github.com/julianstephens/confmate/internal/storage/sqlite"
)

// SQLiteStore is the default Provider, backed by a single-file database.
type SQLiteStore struct {
	*sqlite.Store
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{Store: sqlite.NewStore(path)}
}

// DB exposes the underlying connection for tests and diagnostics.
func (s *SQLiteStore) DB() *sql.DB {
	return s.Store.GetDB()
}
