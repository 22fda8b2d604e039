package main

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/iliyamo/paralympics-iris/internal/database"
)

const (
	flagAMQPURL  = "amqp-url"
	flagApp      = "app"
	flagDir      = "dir"
	flagLogLevel = "log-level"
	flagOutput   = "output"
)

var (
	cliFlagApp = &cli.StringFlag{
		Name:     flagApp,
		Aliases:  []string{"a"},
		Usage:    "The app whose database is used. Supported apps: iris, paralympics",
		Required: true,
	}
	cliFlagOutput = &cli.StringFlag{
		Name:    flagOutput,
		Aliases: []string{"o"},
		Usage:   "Return output in another format. Supported formats: table, json, yaml",
		Value:   "table",
	}
)

func validateApp(app string) error {
	switch app {
	case database.AppIris, database.AppParalympics:
		return nil
	}
	return errors.Errorf("unknown app %q; supported apps are iris and paralympics", app)
}

func validateOutputFormat(output string) error {
	switch strings.ToLower(output) {
	case "table", "json", "yaml":
		return nil
	}
	return errors.Errorf("unknown output format %q", output)
}
