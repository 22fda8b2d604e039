package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/paralympics-iris/internal/middleware"
	"github.com/iliyamo/paralympics-iris/internal/model"
	"github.com/iliyamo/paralympics-iris/internal/queue"
	"github.com/iliyamo/paralympics-iris/internal/repository"
	"github.com/iliyamo/paralympics-iris/internal/service"
)

// RegionStore is the region repository as used by the REST API.
type RegionStore interface {
	List(ctx context.Context) ([]model.Region, error)
	FindByKey(ctx context.Context, noc string) (model.Region, error)
	Insert(ctx context.Context, reg model.Region) error
	Update(ctx context.Context, reg model.Region) error
	Delete(ctx context.Context, noc string) error
}

// EventStore is the event repository as used by the REST API.
type EventStore interface {
	List(ctx context.Context) ([]model.Event, error)
	FindByID(ctx context.Context, id int64) (model.Event, error)
	Insert(ctx context.Context, e *model.Event) error
	Update(ctx context.Context, e model.Event) error
}

// APIHandler serves the JSON resources under /api.  Successful writes are
// announced through Publisher.
type APIHandler struct {
	Regions   RegionStore
	Events    EventStore
	Publisher service.Publisher
}

func NewAPIHandler(regions RegionStore, events EventStore, pub service.Publisher) *APIHandler {
	return &APIHandler{Regions: regions, Events: events, Publisher: pub}
}

func dbContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// ListRegions handles GET /api/noc.
func (h *APIHandler) ListRegions(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()
	regions, err := h.Regions.List(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, regions)
}

// GetRegion handles GET /api/noc/:code.
func (h *APIHandler) GetRegion(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()
	reg, err := h.Regions.FindByKey(ctx, c.Param("code"))
	if err != nil {
		if repository.IsNotFound(err) {
			return notFoundJSON(c)
		}
		return err
	}
	return c.JSON(http.StatusOK, reg)
}

// CreateRegion handles POST /api/noc.
func (h *APIHandler) CreateRegion(c echo.Context) error {
	body, err := readAndValidateBody(c, regionCreateSchema)
	if err != nil {
		return handled(err)
	}
	var reg model.Region
	if err := json.Unmarshal(body, &reg); err != nil {
		return badRequestJSON(c, "Could not decode request body.", nil)
	}

	ctx, cancel := dbContext(c)
	defer cancel()
	if err := h.Regions.Insert(ctx, reg); err != nil {
		if err == repository.ErrConflict {
			return conflictJSON(c, "A region with that NOC already exists.")
		}
		return err
	}
	service.NotifyCatalogChanged(c.Request().Context(), h.Publisher, queue.EntityRegion, reg.NOC, queue.ActionCreated)
	return c.JSON(http.StatusCreated, reg)
}

// UpdateRegion handles PATCH /api/noc/:code.  Only fields present in the
// body change; the code itself cannot be changed.
func (h *APIHandler) UpdateRegion(c echo.Context) error {
	code := c.Param("code")
	ctx, cancel := dbContext(c)
	defer cancel()

	current, err := h.Regions.FindByKey(ctx, code)
	if err != nil {
		if repository.IsNotFound(err) {
			return notFoundJSON(c)
		}
		return err
	}
	body, err := readAndValidateBody(c, regionPatchSchema)
	if err != nil {
		return handled(err)
	}
	var updated model.Region
	if err := mergePatch(current, body, &updated); err != nil {
		return badRequestJSON(c, "Could not decode request body.", nil)
	}
	if updated.NOC != current.NOC {
		return badRequestJSON(c, "NOC cannot be changed.", nil)
	}
	if err := h.Regions.Update(ctx, updated); err != nil {
		if repository.IsNotFound(err) {
			return notFoundJSON(c)
		}
		return err
	}
	service.NotifyCatalogChanged(c.Request().Context(), h.Publisher, queue.EntityRegion, updated.NOC, queue.ActionUpdated)
	return c.JSON(http.StatusOK, updated)
}

// DeleteRegion handles DELETE /api/noc/:code.  It must run behind
// middleware.TokenRequired.
func (h *APIHandler) DeleteRegion(c echo.Context) error {
	if middleware.PrincipalFrom(c) == nil {
		return middleware.TokenInvalid(c)
	}
	code := c.Param("code")
	ctx, cancel := dbContext(c)
	defer cancel()

	reg, err := h.Regions.FindByKey(ctx, code)
	if err != nil {
		if repository.IsNotFound(err) {
			return notFoundJSON(c)
		}
		return err
	}
	if err := h.Regions.Delete(ctx, reg.NOC); err != nil {
		switch {
		case repository.IsNotFound(err):
			return notFoundJSON(c)
		case err == repository.ErrConflict:
			return conflictJSON(c, "The region is still referenced by events.")
		}
		return err
	}
	service.NotifyCatalogChanged(c.Request().Context(), h.Publisher, queue.EntityRegion, reg.NOC, queue.ActionDeleted)
	return c.JSON(http.StatusOK, map[string]string{"Successfully deleted": reg.NOC})
}
