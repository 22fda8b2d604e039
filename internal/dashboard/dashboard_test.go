package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/paralympics-iris/internal/model"
)

func f(v float64) *float64 { return &v }

var fixture = []model.Event{
	{Type: "Summer", Year: 1960, Location: "Rome", Lat: f(41.9), Lon: f(12.5), Events: 57, Sports: 8, Countries: 23, Male: 0, Female: 0, Participants: 209},
	{Type: "Winter", Year: 1976, Location: "Örnsköldsvik", Lat: f(63.3), Lon: f(18.7), Events: 53, Sports: 2, Countries: 16, Male: 161, Female: 37, Participants: 198},
	{Type: "Summer", Year: 1976, Location: "Toronto", Events: 447, Sports: 13, Countries: 40, Male: 1347, Female: 253, Participants: 1600},
	{Type: "Summer", Year: 2012, Location: "London", Lat: f(51.5), Lon: f(-0.1), Events: 503, Sports: 20, Countries: 164, Male: 2736, Female: 1501, Participants: 4237},
}

func TestNormalizeVariable(t *testing.T) {
	assert.Equal(t, "SPORTS", NormalizeVariable("sports"))
	assert.Equal(t, "PARTICIPANTS", NormalizeVariable(" PARTICIPANTS "))
	assert.Equal(t, "EVENTS", NormalizeVariable("medals"))
	assert.Equal(t, "EVENTS", NormalizeVariable(""))
}

func TestYearSeries(t *testing.T) {
	years, series := yearSeries(fixture, "PARTICIPANTS")
	assert.Equal(t, []int{1960, 1976, 2012}, years)
	assert.Equal(t, []any{209, 1600, 4237}, series["Summer"])
	assert.Equal(t, []any{nil, 198, nil}, series["Winter"])
}

func TestGenderShares(t *testing.T) {
	summer := genderShares(fixture, "Summer")
	require.Len(t, summer, 3)
	assert.Equal(t, "Rome 1960", summer[0].Label)
	assert.Zero(t, summer[0].Male) // no split recorded
	assert.InDelta(t, 84.2, summer[1].Male, 0.05)
	assert.InDelta(t, 100, summer[1].Male+summer[1].Female, 1e-9)

	winter := genderShares(fixture, "winter")
	require.Len(t, winter, 1)
	assert.InDelta(t, 81.3, winter[0].Male, 0.05)
}

func TestChartsProduceOptions(t *testing.T) {
	for name, c := range map[string]chart{
		"line":    LineOverTime(fixture, "COUNTRIES"),
		"bar":     StackedBarGender(fixture, TypeSummer),
		"scatter": Locations(fixture),
	} {
		t.Run(name, func(t *testing.T) {
			opt := Option(c)
			require.NotNil(t, opt)
			assert.Contains(t, opt, "series")
		})
	}
}

func TestVisibility(t *testing.T) {
	tests := []struct {
		name           string
		selected       []string
		winter, summer string
	}{
		{"both", []string{"Winter", "Summer"}, "block", "block"},
		{"winter only", []string{"Winter"}, "block", "none"},
		{"summer only", []string{"Summer"}, "none", "block"},
		{"none", nil, "none", "none"},
		{"unknown", []string{"Autumn"}, "none", "none"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, s := Visibility(tt.selected)
			assert.Equal(t, tt.winter, w.Display)
			assert.Equal(t, tt.summer, s.Display)
		})
	}
}
