// Package importer loads the published CSV datasets into the database
// through the repositories.
package importer

import (
	"context"
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/iliyamo/paralympics-iris/internal/model"
)

// naValues are read as null. The literal "NA" stays text.
var naValues = map[string]bool{
	"": true, "#N/A": true, "#N/A N/A": true, "#NA": true, "-1.#IND": true,
	"-1.#QNAN": true, "-NaN": true, "-nan": true, "1.#IND": true, "1.#QNAN": true,
	"<NA>": true, "N/A": true, "NULL": true, "NaN": true, "n/a": true,
	"nan": true, "null": true,
}

// IsNA reports whether a raw cell value is treated as missing.
func IsNA(s string) bool {
	return naValues[strings.TrimSpace(s)]
}

// IrisInserter stores iris measurements.
type IrisInserter interface {
	Insert(ctx context.Context, i *model.Iris) error
}

// RegionInserter stores regions.
type RegionInserter interface {
	Insert(ctx context.Context, r model.Region) error
}

// EventInserter stores events.
type EventInserter interface {
	Insert(ctx context.Context, e *model.Event) error
}

// table is a CSV document with a header row. Columns are looked up by
// lower-cased name.
type table struct {
	r     *csv.Reader
	index map[string]int
	row   []string
	line  int
}

func newTable(r io.Reader, required ...string) (*table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, "error reading csv header")
	}
	t := &table{r: cr, index: make(map[string]int, len(header)), line: 1}
	for i, h := range header {
		t.index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, col := range required {
		if _, ok := t.index[col]; !ok {
			return nil, errors.Errorf("csv is missing column %q", col)
		}
	}
	return t, nil
}

func (t *table) next() (bool, error) {
	row, err := t.r.Read()
	if err == io.EOF {
		return false, nil
	}
	t.line++
	if err != nil {
		return false, errors.Wrapf(err, "line %d", t.line)
	}
	t.row = row
	return true, nil
}

func (t *table) raw(col string) string {
	i, ok := t.index[col]
	if !ok || i >= len(t.row) {
		return ""
	}
	return strings.TrimSpace(t.row[i])
}

func (t *table) str(col string) (string, error) {
	v := t.raw(col)
	if IsNA(v) {
		return "", errors.Errorf("line %d: %s is required", t.line, col)
	}
	return v, nil
}

func (t *table) optStr(col string) *string {
	v := t.raw(col)
	if IsNA(v) {
		return nil
	}
	return &v
}

func (t *table) float(col string) (float64, error) {
	v, err := t.str(col)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.Errorf("line %d: %s %q is not a number", t.line, col, v)
	}
	return f, nil
}

func (t *table) optFloat(col string) (*float64, error) {
	v := t.raw(col)
	if IsNA(v) {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, errors.Errorf("line %d: %s %q is not a number", t.line, col, v)
	}
	return &f, nil
}

// integer accepts "12" and spreadsheet exports such as "12.0".
func (t *table) integer(col string) (int, error) {
	f, err := t.float(col)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, errors.Errorf("line %d: %s %v is not a whole number", t.line, col, f)
	}
	return int(f), nil
}

// ImportIris reads sepal_length, sepal_width, petal_length, petal_width and
// species columns and returns the number of rows stored.
func ImportIris(ctx context.Context, r io.Reader, repo IrisInserter) (int, error) {
	t, err := newTable(r, "sepal_length", "sepal_width", "petal_length", "petal_width", "species")
	if err != nil {
		return 0, err
	}
	n := 0
	for {
		ok, err := t.next()
		if err != nil || !ok {
			return n, err
		}
		var i model.Iris
		if i.SepalLength, err = t.float("sepal_length"); err != nil {
			return n, err
		}
		if i.SepalWidth, err = t.float("sepal_width"); err != nil {
			return n, err
		}
		if i.PetalLength, err = t.float("petal_length"); err != nil {
			return n, err
		}
		if i.PetalWidth, err = t.float("petal_width"); err != nil {
			return n, err
		}
		if i.Species, err = t.str("species"); err != nil {
			return n, err
		}
		if err := repo.Insert(ctx, &i); err != nil {
			return n, errors.Wrapf(err, "line %d", t.line)
		}
		n++
	}
}

// ImportRegions reads NOC, region and notes columns.
func ImportRegions(ctx context.Context, r io.Reader, repo RegionInserter) (int, error) {
	t, err := newTable(r, "noc", "region")
	if err != nil {
		return 0, err
	}
	n := 0
	for {
		ok, err := t.next()
		if err != nil || !ok {
			return n, err
		}
		var reg model.Region
		if reg.NOC, err = t.str("noc"); err != nil {
			return n, err
		}
		if reg.Region, err = t.str("region"); err != nil {
			return n, err
		}
		reg.Notes = t.optStr("notes")
		if err := repo.Insert(ctx, reg); err != nil {
			return n, errors.Wrapf(err, "line %d", t.line)
		}
		n++
	}
}

// ImportEvents reads the paralympics events dataset. Regions referenced by
// the NOC column must already exist.
func ImportEvents(ctx context.Context, r io.Reader, repo EventInserter) (int, error) {
	t, err := newTable(r, "type", "year", "location", "noc", "start", "end",
		"disabilities_included", "events", "sports", "countries", "male", "female", "participants")
	if err != nil {
		return 0, err
	}
	n := 0
	for {
		ok, err := t.next()
		if err != nil || !ok {
			return n, err
		}
		e, err := t.event()
		if err != nil {
			return n, err
		}
		if err := repo.Insert(ctx, &e); err != nil {
			return n, errors.Wrapf(err, "line %d", t.line)
		}
		n++
	}
}

func (t *table) event() (model.Event, error) {
	var (
		e   model.Event
		err error
	)
	for col, dst := range map[string]*string{
		"type": &e.Type, "location": &e.Location, "noc": &e.NOC,
		"start": &e.Start, "end": &e.End, "disabilities_included": &e.DisabilitiesIncluded,
	} {
		if *dst, err = t.str(col); err != nil {
			return e, err
		}
	}
	for col, dst := range map[string]*int{
		"year": &e.Year, "events": &e.Events, "sports": &e.Sports, "countries": &e.Countries,
		"male": &e.Male, "female": &e.Female, "participants": &e.Participants,
	} {
		if *dst, err = t.integer(col); err != nil {
			return e, err
		}
	}
	if e.Lat, err = t.optFloat("lat"); err != nil {
		return e, err
	}
	if e.Lon, err = t.optFloat("lon"); err != nil {
		return e, err
	}
	e.Highlights = t.optStr("highlights")
	return e, nil
}
