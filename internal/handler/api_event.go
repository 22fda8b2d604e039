package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/paralympics-iris/internal/model"
	"github.com/iliyamo/paralympics-iris/internal/queue"
	"github.com/iliyamo/paralympics-iris/internal/repository"
	"github.com/iliyamo/paralympics-iris/internal/service"
)

// ListEvents handles GET /api/event.
func (h *APIHandler) ListEvents(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()
	events, err := h.Events.List(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}

func eventIDParam(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("event_id"), 10, 64)
	return id, err == nil
}

// GetEvent handles GET /api/event/:event_id.  A non-numeric id is an
// unknown resource.
func (h *APIHandler) GetEvent(c echo.Context) error {
	id, ok := eventIDParam(c)
	if !ok {
		return notFoundJSON(c)
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	ev, err := h.Events.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return notFoundJSON(c)
		}
		return err
	}
	return c.JSON(http.StatusOK, ev)
}

// CreateEvent handles POST /api/event and answers with the stored record.
func (h *APIHandler) CreateEvent(c echo.Context) error {
	body, err := readAndValidateBody(c, eventCreateSchema)
	if err != nil {
		return handled(err)
	}
	var ev model.Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return badRequestJSON(c, "Could not decode request body.", nil)
	}
	ev.EventID = 0

	ctx, cancel := dbContext(c)
	defer cancel()
	if err := h.Events.Insert(ctx, &ev); err != nil {
		if err == repository.ErrConflict {
			return conflictJSON(c, "Unknown NOC for event.")
		}
		return err
	}
	service.NotifyCatalogChanged(c.Request().Context(), h.Publisher, queue.EntityEvent, strconv.FormatInt(ev.EventID, 10), queue.ActionCreated)
	return c.JSON(http.StatusCreated, ev)
}

// UpdateEvent handles PATCH /api/event/:event_id.  Fields absent from the
// body keep their stored value.
func (h *APIHandler) UpdateEvent(c echo.Context) error {
	id, ok := eventIDParam(c)
	if !ok {
		return notFoundJSON(c)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	current, err := h.Events.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return notFoundJSON(c)
		}
		return err
	}
	body, err := readAndValidateBody(c, eventPatchSchema)
	if err != nil {
		return handled(err)
	}
	var updated model.Event
	if err := mergePatch(current, body, &updated); err != nil {
		return badRequestJSON(c, "Could not decode request body.", nil)
	}
	updated.EventID = current.EventID

	if err := h.Events.Update(ctx, updated); err != nil {
		if err == repository.ErrConflict {
			return conflictJSON(c, "Unknown NOC for event.")
		}
		return err
	}
	service.NotifyCatalogChanged(c.Request().Context(), h.Publisher, queue.EntityEvent, strconv.FormatInt(id, 10), queue.ActionUpdated)
	return c.JSON(http.StatusOK, updated)
}
