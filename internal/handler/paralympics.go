package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/paralympics-iris/internal/model"
	"github.com/iliyamo/paralympics-iris/internal/repository"
)

// EventReader reads stored games.
type EventReader interface {
	List(ctx context.Context) ([]model.Event, error)
	FindByID(ctx context.Context, id int64) (model.Event, error)
}

// PagesHandler renders the paralympics HTML pages.
type PagesHandler struct {
	Events EventReader
}

func NewPagesHandler(events EventReader) *PagesHandler {
	return &PagesHandler{Events: events}
}

// Index lists every games.
func (h *PagesHandler) Index(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	events, err := h.Events.List(ctx)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "index.html", page(c, nil, echo.Map{"EventList": events}))
}

// DisplayEvent renders one games or the 404 page.
func (h *PagesHandler) DisplayEvent(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ev, err := h.Events.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return echo.ErrNotFound
		}
		return err
	}
	return c.Render(http.StatusOK, "event.html", page(c, nil, echo.Map{"Event": ev}))
}
