package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/paralympics-iris/internal/database"
	"github.com/iliyamo/paralympics-iris/internal/forms"
	"github.com/iliyamo/paralympics-iris/internal/queue"
	"github.com/iliyamo/paralympics-iris/internal/web"
)

type recordingPublisher struct {
	events []queue.CatalogChangedEvent
}

func (r *recordingPublisher) PublishCatalogChanged(_ context.Context, ev queue.CatalogChangedEvent) error {
	r.events = append(r.events, ev)
	return nil
}

func (r *recordingPublisher) actions() []string {
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Entity + ":" + ev.Key + ":" + string(ev.Action)
	}
	return out
}

func newEcho(t *testing.T, app string) *echo.Echo {
	t.Helper()
	e := echo.New()
	r, err := web.NewRenderer(app)
	require.NoError(t, err)
	e.Renderer = r
	e.Validator = forms.NewValidator()
	return e
}

// call builds a context for one request; params are name/value pairs.
func call(e *echo.Echo, method, target, body string, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if len(params) > 0 {
		var names, values []string
		for i := 0; i+1 < len(params); i += 2 {
			names = append(names, params[i])
			values = append(values, params[i+1])
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	return c, rec
}

func newTestDB(t *testing.T, app string) *sql.DB {
	t.Helper()
	db, err := database.OpenAndMigrate(database.DriverSQLite, ":memory:", app)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}
