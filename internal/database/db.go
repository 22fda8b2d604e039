package database

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// Driver names accepted by Open.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Open connects to the configured database and verifies the connection.
// SQLite is the default backend (one file per app); MySQL is supported for
// shared deployments.
func Open(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverSQLite:
		return openSQLite(dsn)
	case DriverMySQL:
		return openMySQL(dsn)
	default:
		return nil, errors.Errorf("unsupported database driver %q", driver)
	}
}

func openMySQL(dsn string) (*sql.DB, error) {
	db, err := sql.Open(DriverMySQL, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "error opening mysql database")
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := ping(db); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "error pinging mysql database")
	}
	return db, nil
}

func openSQLite(dsn string) (*sql.DB, error) {
	if isFilePath(dsn) {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, errors.Wrap(err, "error creating database directory")
		}
	}
	db, err := sql.Open(DriverSQLite, withForeignKeys(dsn))
	if err != nil {
		return nil, errors.Wrap(err, "error opening sqlite database")
	}
	// A single connection keeps in-memory databases intact and serialises
	// writers, which SQLite does anyway.
	db.SetMaxOpenConns(1)

	if err := ping(db); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "error pinging sqlite database")
	}
	return db, nil
}

// withForeignKeys asks the driver to run PRAGMA foreign_keys on every new
// connection, not just the first one.
func withForeignKeys(dsn string) string {
	const pragma = "_pragma=foreign_keys(1)"
	if strings.Contains(dsn, pragma) {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&" + pragma
	}
	return dsn + "?" + pragma
}

func ping(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}

func isFilePath(dsn string) bool {
	return dsn != "" && !strings.HasPrefix(dsn, "file:") && !strings.Contains(dsn, ":memory:")
}
