package database

import (
	"database/sql"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pkg/errors"

	"github.com/iliyamo/paralympics-iris/internal/database/migrations"
)

// App names select a migration set.
const (
	AppIris        = "iris"
	AppParalympics = "paralympics"
)

// Migrate applies any pending migrations of app to db.  The migration files
// are embedded in the binary, one directory per app and driver.
func Migrate(db *sql.DB, driver, app string) error {
	var (
		dbDriver database.Driver
		err      error
	)
	switch driver {
	case DriverSQLite:
		dbDriver, err = sqlite.WithInstance(db, &sqlite.Config{})
	case DriverMySQL:
		dbDriver, err = mysql.WithInstance(db, &mysql.Config{})
	default:
		return errors.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		return errors.Wrap(err, "error creating migration driver")
	}

	sub, err := fs.Sub(migrations.FS, app+"/"+driver)
	if err != nil {
		return errors.Wrapf(err, "no migrations for app %q", app)
	}
	source, err := iofs.New(sub, ".")
	if err != nil {
		return errors.Wrapf(err, "error reading migrations for app %q", app)
	}

	instance, err := migrate.NewWithInstance("iofs", source, driver, dbDriver)
	if err != nil {
		return errors.Wrap(err, "error creating migrate instance")
	}
	if err := instance.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrapf(err, "error applying %s migrations", app)
	}
	return nil
}

// OpenAndMigrate opens the database and brings its schema up to date.
func OpenAndMigrate(driver, dsn, app string) (*sql.DB, error) {
	db, err := Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db, driver, app); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
