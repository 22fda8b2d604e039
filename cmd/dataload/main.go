package main // dataload migrates, seeds and inspects the databases of both apps

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	_ = godotenv.Load()

	app := cli.NewApp()
	app.Name = "dataload"
	app.Usage = "Manage the iris and paralympics databases"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  flagLogLevel,
			Usage: "Log level (debug, info, warn, error)",
			Value: "info",
		},
	}
	app.Commands = []*cli.Command{
		{
			Name:  "migrate",
			Usage: "Apply the embedded schema migrations",
			Flags: []cli.Flag{
				cliFlagApp,
			},
			Action: migrateAction,
		},
		{
			Name:  "import",
			Usage: "Import rows from a CSV file",
			Description: "The file must have a header row. Columns are matched by " +
				"name; empty, N/A, NULL and similar cells are stored as null.",
			Subcommands: []*cli.Command{
				{
					Name:      "iris",
					Usage:     "Import iris measurements",
					ArgsUsage: "FILE",
					Action:    importIris,
				},
				{
					Name:      "regions",
					Usage:     "Import NOC regions",
					ArgsUsage: "FILE",
					Action:    importRegions,
				},
				{
					Name:      "events",
					Usage:     "Import paralympic games (import regions first)",
					ArgsUsage: "FILE",
					Action:    importEvents,
				},
			},
		},
		{
			Name:  "list",
			Usage: "List stored rows",
			Subcommands: []*cli.Command{
				{
					Name:   "iris",
					Usage:  "List iris measurements",
					Flags:  []cli.Flag{cliFlagOutput},
					Action: listIris,
				},
				{
					Name:   "regions",
					Usage:  "List NOC regions",
					Flags:  []cli.Flag{cliFlagOutput},
					Action: listRegions,
				},
				{
					Name:   "events",
					Usage:  "List paralympic games",
					Flags:  []cli.Flag{cliFlagOutput},
					Action: listEvents,
				},
			},
		},
		{
			Name:  "consume",
			Usage: "Append catalog change events from AMQP to a log file",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    flagDir,
					Usage:   "Directory of the catalog log",
					Value:   "logs",
					EnvVars: []string{"CATALOG_LOG_DIR"},
				},
				&cli.StringFlag{
					Name:    flagAMQPURL,
					Usage:   "AMQP broker URL",
					EnvVars: []string{"AMQP_URL"},
				},
			},
			Action: consume,
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "\n%s\n\n", err)
		os.Exit(1)
	}
}
