package importer

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/paralympics-iris/internal/database"
	"github.com/iliyamo/paralympics-iris/internal/model"
	"github.com/iliyamo/paralympics-iris/internal/repository"
)

type regionSink struct{ rows []model.Region }

func (s *regionSink) Insert(_ context.Context, r model.Region) error {
	s.rows = append(s.rows, r)
	return nil
}

func TestIsNA(t *testing.T) {
	for _, v := range []string{"", " ", "#N/A", "N/A", "NULL", "NaN", "null", "nan", "<NA>"} {
		assert.True(t, IsNA(v), v)
	}
	for _, v := range []string{"NA", "0", "Namibia"} {
		assert.False(t, IsNA(v), v)
	}
}

func TestImportRegions_NAHandling(t *testing.T) {
	csv := "NOC,region,notes\n" +
		"NAM,Namibia,NA\n" +
		"GBR,UK,\n" +
		"ROT,Refugee Olympic Team,NULL\n"
	sink := &regionSink{}

	n, err := ImportRegions(context.Background(), strings.NewReader(csv), sink)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.NotNil(t, sink.rows[0].Notes)
	assert.Equal(t, "NA", *sink.rows[0].Notes)
	assert.Nil(t, sink.rows[1].Notes)
	assert.Nil(t, sink.rows[2].Notes)
}

func TestImportRegions_MissingColumn(t *testing.T) {
	_, err := ImportRegions(context.Background(), strings.NewReader("code,name\nA,B\n"), &regionSink{})
	require.Error(t, err)
}

func TestImportIris_IntoDatabase(t *testing.T) {
	db, err := database.OpenAndMigrate(database.DriverSQLite, ":memory:", database.AppIris)
	require.NoError(t, err)
	defer db.Close()
	repo := repository.NewIrisRepo(db)

	csv := "sepal_length,sepal_width,petal_length,petal_width,species\n" +
		"5.1,3.5,1.4,0.2,Iris-setosa\n" +
		"7.0,3.2,4.7,1.4,Iris-versicolor\n"
	n, err := ImportIris(context.Background(), strings.NewReader(csv), repo)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rows, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Iris-versicolor", rows[1].Species)
}

func TestImportIris_BadNumberStopsWithLine(t *testing.T) {
	csv := "sepal_length,sepal_width,petal_length,petal_width,species\n" +
		"5.1,3.5,1.4,0.2,Iris-setosa\n" +
		"abc,3.2,4.7,1.4,Iris-versicolor\n"
	db, err := database.OpenAndMigrate(database.DriverSQLite, ":memory:", database.AppIris)
	require.NoError(t, err)
	defer db.Close()

	n, err := ImportIris(context.Background(), strings.NewReader(csv), repository.NewIrisRepo(db))
	require.Error(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, err.Error(), "line 3")
}

func TestImportEvents_IntoDatabase(t *testing.T) {
	db, err := database.OpenAndMigrate(database.DriverSQLite, ":memory:", database.AppParalympics)
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	_, err = ImportRegions(ctx, strings.NewReader("NOC,region,notes\nGBR,UK,\nCAN,Canada,\n"), repository.NewRegionRepo(db))
	require.NoError(t, err)

	csv := "type,year,location,lat,lon,NOC,start,end,disabilities_included,events,sports,countries,male,female,participants,highlights\n" +
		`Summer,2012,London,51.5072,-0.1276,GBR,29/08/2012,09/09/2012,"Spinal injury,Amputee",503,20,164,2736,1501,4237,` + "\n" +
		`Summer,1976,Toronto,,,CAN,03/08/1976,11/08/1976,"Spinal injury,Amputee,Vision Impairment",447.0,13,40,1347,253,1600,First amputee events` + "\n"
	events := repository.NewEventRepo(db)
	n, err := ImportEvents(ctx, strings.NewReader(csv), events)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, err := events.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	toronto := all[0]
	assert.Equal(t, "Toronto", toronto.Location)
	assert.Nil(t, toronto.Lat)
	assert.Equal(t, 447, toronto.Events)
	require.NotNil(t, toronto.Highlights)
	assert.Nil(t, all[1].Highlights)
	assert.Equal(t, "Spinal injury,Amputee", all[1].DisabilitiesIncluded)
}

func TestImportRegions_RollsBackOnBadRow(t *testing.T) {
	db, err := database.OpenAndMigrate(database.DriverSQLite, ":memory:", database.AppParalympics)
	require.NoError(t, err)
	defer db.Close()

	csv := "NOC,region,notes\n" +
		"GBR,UK,\n" +
		"FRA,France,\n" +
		"XXX,,\n"
	err = repository.WithTx(context.Background(), db, func(tx *sql.Tx) error {
		_, err := ImportRegions(context.Background(), strings.NewReader(csv), repository.NewRegionRepo(tx))
		return err
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 4: region is required")

	stored, err := repository.NewRegionRepo(db).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stored)

	err = repository.WithTx(context.Background(), db, func(tx *sql.Tx) error {
		_, err := ImportRegions(context.Background(), strings.NewReader("NOC,region\nGBR,UK\nFRA,France\n"), repository.NewRegionRepo(tx))
		return err
	})
	require.NoError(t, err)
	stored, err = repository.NewRegionRepo(db).List(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}
