package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/iliyamo/paralympics-iris/internal/database"
	"github.com/iliyamo/paralympics-iris/internal/importer"
	"github.com/iliyamo/paralympics-iris/internal/repository"
)

// importFunc stores every row through q.  runImport hands it a transaction
// so a failing row leaves nothing behind.
type importFunc func(ctx context.Context, r io.Reader, q repository.Querier) (int, error)

func runImport(c *cli.Context, app, what string, fn importFunc) error {
	if c.Args().Len() != 1 {
		return errors.Errorf("import %s requires one argument: a CSV file", what)
	}
	path := c.Args().First()
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "error opening %s", path)
	}
	defer f.Close()

	db, err := openDB(app)
	if err != nil {
		return err
	}
	defer db.Close()

	var n int
	err = repository.WithTx(c.Context, db, func(tx *sql.Tx) error {
		n, err = fn(c.Context, f, tx)
		return err
	})
	if err != nil {
		return errors.Wrapf(err, "error importing %s from %s", what, path)
	}
	fmt.Printf("Imported %d %s from %s.\n", n, what, path)
	return nil
}

func importIris(c *cli.Context) error {
	return runImport(c, database.AppIris, "iris rows", func(ctx context.Context, r io.Reader, q repository.Querier) (int, error) {
		return importer.ImportIris(ctx, r, repository.NewIrisRepo(q))
	})
}

func importRegions(c *cli.Context) error {
	return runImport(c, database.AppParalympics, "regions", func(ctx context.Context, r io.Reader, q repository.Querier) (int, error) {
		return importer.ImportRegions(ctx, r, repository.NewRegionRepo(q))
	})
}

func importEvents(c *cli.Context) error {
	return runImport(c, database.AppParalympics, "events", func(ctx context.Context, r io.Reader, q repository.Querier) (int, error) {
		return importer.ImportEvents(ctx, r, repository.NewEventRepo(q))
	})
}
