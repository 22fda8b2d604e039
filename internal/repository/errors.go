// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting driver specific error values.
package repository

import (
	"database/sql"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrNotFound is returned when the requested row does not exist.
// Handlers translate it into the 404 envelope or 404 page.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when a user with the same (normalised)
// email is already registered.
var ErrEmailExists = errors.New("email already exists")

// ErrConflict is returned when a write cannot be performed because of
// conflicting state: a duplicate primary key, a reference to a missing
// region or deleting a region that still has events. Handlers should
// translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// MySQL server error numbers used for classification.
const (
	mysqlDuplicateEntry   = 1062
	mysqlRowIsReferenced  = 1451
	mysqlNoReferencedRow  = 1452
	mysqlRowIsReferenced2 = 1217
	mysqlNoReferencedRow2 = 1216
)

// isUniqueViolation reports whether err is a duplicate key error from
// either supported driver.
func isUniqueViolation(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == mysqlDuplicateEntry
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
		return strings.Contains(se.Error(), "UNIQUE constraint failed")
	}
	return false
}

// isForeignKeyViolation reports whether err is a referential integrity
// error from either supported driver.
func isForeignKeyViolation(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case mysqlRowIsReferenced, mysqlNoReferencedRow, mysqlRowIsReferenced2, mysqlNoReferencedRow2:
			return true
		}
		return false
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY ||
			strings.Contains(se.Error(), "FOREIGN KEY constraint failed")
	}
	return false
}

// classify maps driver errors onto the sentinels above and wraps anything
// else with the operation name.
func classify(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	case isUniqueViolation(err), isForeignKeyViolation(err):
		return ErrConflict
	default:
		return errors.Wrap(err, op)
	}
}

// IsNotFound reports whether err is, or wraps, ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
