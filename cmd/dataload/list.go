package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/gosuri/uitable"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/iliyamo/paralympics-iris/internal/database"
	"github.com/iliyamo/paralympics-iris/internal/repository"
)

// printRows writes rows as json or yaml, or calls table for the table
// format.
func printRows(output string, rows any, table func(*uitable.Table)) error {
	switch strings.ToLower(output) {
	case "table":
		t := uitable.New()
		t.MaxColWidth = 40
		t.Wrap = true
		table(t)
		fmt.Println(t)

	case "yaml":
		yamlBytes, err := yaml.Marshal(rows)
		if err != nil {
			return errors.Wrap(err, "error formatting output")
		}
		fmt.Println(string(yamlBytes))

	case "json":
		prettyJSON, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return errors.Wrap(err, "error formatting output")
		}
		fmt.Println(string(prettyJSON))
	}
	return nil
}

func listIris(c *cli.Context) error {
	output := c.String(flagOutput)
	if err := validateOutputFormat(output); err != nil {
		return err
	}
	db, err := openDB(database.AppIris)
	if err != nil {
		return err
	}
	defer db.Close()

	rows, err := repository.NewIrisRepo(db).List(c.Context)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("No iris rows found.")
		return nil
	}
	return printRows(output, rows, func(t *uitable.Table) {
		t.AddRow("ID", "SEPAL LENGTH", "SEPAL WIDTH", "PETAL LENGTH", "PETAL WIDTH", "SPECIES")
		for _, r := range rows {
			t.AddRow(r.ID, r.SepalLength, r.SepalWidth, r.PetalLength, r.PetalWidth, r.Species)
		}
	})
}

func listRegions(c *cli.Context) error {
	output := c.String(flagOutput)
	if err := validateOutputFormat(output); err != nil {
		return err
	}
	db, err := openDB(database.AppParalympics)
	if err != nil {
		return err
	}
	defer db.Close()

	regions, err := repository.NewRegionRepo(db).List(c.Context)
	if err != nil {
		return err
	}
	if len(regions) == 0 {
		fmt.Println("No regions found.")
		return nil
	}
	return printRows(output, regions, func(t *uitable.Table) {
		t.AddRow("NOC", "REGION", "NOTES")
		for _, r := range regions {
			var notes string
			if r.Notes != nil {
				notes = *r.Notes
			}
			t.AddRow(r.NOC, r.Region, notes)
		}
	})
}

func listEvents(c *cli.Context) error {
	output := c.String(flagOutput)
	if err := validateOutputFormat(output); err != nil {
		return err
	}
	db, err := openDB(database.AppParalympics)
	if err != nil {
		return err
	}
	defer db.Close()

	events, err := repository.NewEventRepo(db).List(c.Context)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Println("No events found.")
		return nil
	}
	return printRows(output, events, func(t *uitable.Table) {
		t.AddRow("ID", "TYPE", "YEAR", "LOCATION", "NOC", "PARTICIPANTS")
		for _, e := range events {
			t.AddRow(e.EventID, e.Type, e.Year, e.Location, e.NOC, e.Participants)
		}
	})
}
