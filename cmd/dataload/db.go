package main

import (
	"database/sql"

	"github.com/pkg/errors"

	"github.com/iliyamo/paralympics-iris/internal/config"
	"github.com/iliyamo/paralympics-iris/internal/database"
)

// openDB opens and migrates the database of app as configured by the
// DB_* environment variables.
func openDB(app string) (*sql.DB, error) {
	dc, err := config.LoadDB()
	if err != nil {
		return nil, err
	}
	db, err := database.OpenAndMigrate(dc.DBDriver, dc.DSN(app), app)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening %s database", app)
	}
	return db, nil
}
