package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/paralympics-iris/internal/database"
)

func newTestDB(t *testing.T, app string) *sql.DB {
	t.Helper()
	db, err := database.OpenAndMigrate(database.DriverSQLite, ":memory:", app)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

var (
	ctx      = context.Background()
	testCost = bcrypt.MinCost
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }
