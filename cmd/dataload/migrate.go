package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

func migrateAction(c *cli.Context) error {
	app := c.String(flagApp)
	if err := validateApp(app); err != nil {
		return err
	}
	db, err := openDB(app)
	if err != nil {
		return err
	}
	defer db.Close()
	fmt.Printf("Database of %s is up to date.\n", app)
	return nil
}
