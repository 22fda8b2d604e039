// Package dashboard builds the ECharts options shown on the paralympics
// dashboard from the stored events.
package dashboard

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/iliyamo/paralympics-iris/internal/model"
)

// Variables accepted by LineOverTime, with their axis labels.
var Variables = []struct {
	Value string
	Label string
}{
	{"EVENTS", "Events"},
	{"SPORTS", "Sports"},
	{"COUNTRIES", "Countries"},
	{"PARTICIPANTS", "Athletes"},
}

// Event types of the games.
const (
	TypeWinter = "Winter"
	TypeSummer = "Summer"
)

// NormalizeVariable upper-cases v and falls back to EVENTS for anything
// unknown.
func NormalizeVariable(v string) string {
	v = strings.ToUpper(strings.TrimSpace(v))
	for _, known := range Variables {
		if known.Value == v {
			return v
		}
	}
	return "EVENTS"
}

func variableLabel(v string) string {
	for _, known := range Variables {
		if known.Value == v {
			return known.Label
		}
	}
	return v
}

func variableValue(e model.Event, v string) int {
	switch v {
	case "SPORTS":
		return e.Sports
	case "COUNTRIES":
		return e.Countries
	case "PARTICIPANTS":
		return e.Participants
	default:
		return e.Events
	}
}

// yearSeries returns the sorted years of all games and, per event type,
// the value of variable for each of those years (nil where that type had no
// games that year).
func yearSeries(events []model.Event, variable string) ([]int, map[string][]any) {
	seen := map[int]bool{}
	byType := map[string]map[int]int{}
	for _, e := range events {
		seen[e.Year] = true
		if byType[e.Type] == nil {
			byType[e.Type] = map[int]int{}
		}
		byType[e.Type][e.Year] += variableValue(e, variable)
	}

	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)

	out := make(map[string][]any, len(byType))
	for typ, vals := range byType {
		row := make([]any, len(years))
		for i, y := range years {
			if v, ok := vals[y]; ok {
				row[i] = v
			}
		}
		out[typ] = row
	}
	return years, out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LineOverTime plots variable against year with one line per event type.
func LineOverTime(events []model.Event, variable string) *charts.Line {
	variable = NormalizeVariable(variable)
	label := variableLabel(variable)
	years, series := yearSeries(events, variable)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("How has the number of %s changed over time?", strings.ToLower(label))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Year"}),
		charts.WithYAxisOpts(opts.YAxis{Name: label}),
	)
	line.SetXAxis(years)
	for _, typ := range sortedKeys(series) {
		data := make([]opts.LineData, len(series[typ]))
		for i, v := range series[typ] {
			data[i] = opts.LineData{Value: v}
		}
		line.AddSeries(typ, data)
	}
	return line
}

// genderShare is the male and female percentage of one games.
type genderShare struct {
	Label  string
	Male   float64
	Female float64
}

func genderShares(events []model.Event, eventType string) []genderShare {
	var games []model.Event
	for _, e := range events {
		if strings.EqualFold(e.Type, eventType) {
			games = append(games, e)
		}
	}
	sort.SliceStable(games, func(i, j int) bool { return games[i].Year < games[j].Year })

	out := make([]genderShare, 0, len(games))
	for _, e := range games {
		s := genderShare{Label: fmt.Sprintf("%s %d", e.Location, e.Year)}
		if total := e.Male + e.Female; total > 0 {
			s.Male = round1(float64(e.Male) * 100 / float64(total))
			s.Female = round1(100 - s.Male)
		}
		out = append(out, s)
	}
	return out
}

func round1(f float64) float64 { return math.Round(f*10) / 10 }

// StackedBarGender shows the male/female split of every games of the
// given type as a stacked percentage bar.
func StackedBarGender(events []model.Event, eventType string) *charts.Bar {
	shares := genderShares(events, eventType)

	labels := make([]string, len(shares))
	male := make([]opts.BarData, len(shares))
	female := make([]opts.BarData, len(shares))
	for i, s := range shares {
		labels[i] = s.Label
		male[i] = opts.BarData{Value: s.Male}
		female[i] = opts.BarData{Value: s.Female}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("Ratio of male and female athletes at %s paralympics", eventType)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "%", Max: 100}),
	)
	bar.SetXAxis(labels)
	bar.AddSeries("Male", male, charts.WithBarChartOpts(opts.BarChart{Stack: "gender"}))
	bar.AddSeries("Female", female, charts.WithBarChartOpts(opts.BarChart{Stack: "gender"}))
	return bar
}

// Locations scatters the host cities by longitude and latitude. Games
// without coordinates are skipped.
func Locations(events []model.Event) *charts.Scatter {
	var points []opts.ScatterData
	for _, e := range events {
		if e.Lat == nil || e.Lon == nil {
			continue
		}
		points = append(points, opts.ScatterData{
			Name:  fmt.Sprintf("%s %d", e.Location, e.Year),
			Value: []float64{*e.Lon, *e.Lat},
		})
	}

	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Where have the paralympics been held?"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Longitude", Type: "value", Min: -180, Max: 180}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Latitude", Type: "value", Min: -90, Max: 90}),
	)
	sc.AddSeries("Host cities", points)
	return sc
}

// Style is the CSS visibility of one chart container.
type Style struct {
	Display string `json:"display"`
}

// Visibility decides which gender charts are shown for the checked event
// types. Both are hidden unless selected.
func Visibility(selected []string) (winter, summer Style) {
	winter, summer = Style{Display: "none"}, Style{Display: "none"}
	for _, s := range selected {
		switch s {
		case TypeWinter:
			winter.Display = "block"
		case TypeSummer:
			summer.Display = "block"
		}
	}
	return winter, summer
}

// chart is implemented by every go-echarts rectangular chart.
type chart interface {
	Validate()
	JSON() map[string]any
}

// Option validates c and returns the object handed to echarts.setOption.
func Option(c chart) map[string]any {
	c.Validate()
	return c.JSON()
}
