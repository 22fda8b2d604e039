package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/paralympics-iris/internal/dashboard"
	"github.com/iliyamo/paralympics-iris/internal/model"
)

// EventLister lists stored games.
type EventLister interface {
	List(ctx context.Context) ([]model.Event, error)
}

// DashboardHandler serves the dashboard page and its two callbacks.
type DashboardHandler struct {
	Events EventLister
}

func NewDashboardHandler(events EventLister) *DashboardHandler {
	return &DashboardHandler{Events: events}
}

func (h *DashboardHandler) events(c echo.Context) ([]model.Event, error) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	return h.Events.List(ctx)
}

// Page renders the dashboard with the static charts inlined.  The line
// chart is fetched by the page through Line.
func (h *DashboardHandler) Page(c echo.Context) error {
	events, err := h.events(c)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "dashboard.html", page(c, nil, echo.Map{
		"Variables": dashboard.Variables,
		"Winter":    dashboard.Option(dashboard.StackedBarGender(events, dashboard.TypeWinter)),
		"Summer":    dashboard.Option(dashboard.StackedBarGender(events, dashboard.TypeSummer)),
		"Locations": dashboard.Option(dashboard.Locations(events)),
	}))
}

// Line returns the line chart options for ?variable=.
func (h *DashboardHandler) Line(c echo.Context) error {
	events, err := h.events(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dashboard.Option(dashboard.LineOverTime(events, c.QueryParam("variable"))))
}

// Visibility returns the display style of the winter and summer charts for
// the checked ?type= values.
func (h *DashboardHandler) Visibility(c echo.Context) error {
	winter, summer := dashboard.Visibility(c.QueryParams()["type"])
	return c.JSON(http.StatusOK, echo.Map{"winter": winter, "summer": summer})
}
