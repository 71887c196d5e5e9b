package storage

import (
	"database/sql"
	"net/url"
	"strings"

	"github.com/julianstephens/confmate/internal/storage/postgres"
)

// PostgresStore is the Provider for shared, multi-device installations.
type PostgresStore struct {
	*postgres.Store
}

func NewPostgresStore(connStr string) *PostgresStore {
	return &PostgresStore{Store: postgres.NewStore(connStr)}
}

// DB exposes the underlying connection for tests and diagnostics.
func (s *PostgresStore) DB() *sql.DB {
	return s.Store.GetDB()
}

// IsPostgresConnString reports whether the config value looks like a
// PostgreSQL connection string rather than a file path.
func IsPostgresConnString(config string) bool {
	return strings.HasPrefix(config, "postgres://") || strings.HasPrefix(config, "postgresql://")
}

// HasEmbeddedCredentials reports whether a connection string carries a
// password inline. Passwords belong in the OS keyring, the environment, or a
// .pgpass file, never on the command line.
func HasEmbeddedCredentials(connStr string) bool {
	u, err := url.Parse(connStr)
	if err != nil {
		return false
	}
	if u.User == nil {
		return false
	}
	_, hasPassword := u.User.Password()
	return hasPassword
}
