package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/paralympics-iris/internal/predict"
	"github.com/iliyamo/paralympics-iris/internal/repository"
	"github.com/iliyamo/paralympics-iris/internal/session"
)

func newIris(t *testing.T) (*echo.Echo, *IrisHandler) {
	t.Helper()
	m, err := predict.Default()
	require.NoError(t, err)
	db := newTestDB(t, "iris")
	return newEcho(t, "iris"), NewIrisHandler(m, repository.NewIrisRepo(db), session.NewManager("secret", 0, false))
}

func TestIris_Predict(t *testing.T) {
	e, h := newIris(t)

	c, rec := call(e, http.MethodGet, "/predict?sep-len=5.1&sep-wid=3.5&pet-len=1.4&pet-wid=0.2", "")
	require.NoError(t, h.Predict(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "iris-setosa", rec.Body.String())

	for _, q := range []string{"sep-len=abc&sep-wid=3.5&pet-len=1.4&pet-wid=0.2", "sep-len=5.1"} {
		c, rec = call(e, http.MethodGet, "/predict?"+q, "")
		require.NoError(t, h.Predict(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func postForm(e *echo.Echo, target string, form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestIris_IndexForm(t *testing.T) {
	e, h := newIris(t)

	c, rec := call(e, http.MethodGet, "/", "")
	require.NoError(t, h.Index(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="sepal_length"`)
	assert.NotContains(t, rec.Body.String(), "Predicted Iris type")

	c, rec = postForm(e, "/", url.Values{
		"sepal_length": {"6.7"}, "sepal_width": {"3.0"}, "petal_length": {"5.2"}, "petal_width": {"2.3"},
	})
	require.NoError(t, h.Index(c))
	assert.Contains(t, rec.Body.String(), "Predicted Iris type: iris-virginica")

	c, rec = postForm(e, "/", url.Values{"sepal_length": {"abc"}, "sepal_width": {"3.0"}, "petal_length": {"5.2"}})
	require.NoError(t, h.Index(c))
	body := rec.Body.String()
	assert.Contains(t, body, "Not a valid decimal value.")
	assert.Contains(t, body, "This field is required.")
	assert.NotContains(t, body, "Predicted Iris type")
}

func TestIris_List(t *testing.T) {
	e, h := newIris(t)
	c, rec := call(e, http.MethodGet, "/iris", "")
	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPages_DisplayEvent(t *testing.T) {
	db := newTestDB(t, "paralympics")
	e := newEcho(t, "paralympics")
	h := NewPagesHandler(repository.NewEventRepo(db))

	for _, id := range []string{"7", "abc"} {
		c, _ := call(e, http.MethodGet, "/display_event/"+id, "", "id", id)
		err := h.DisplayEvent(c)
		assert.Equal(t, echo.ErrNotFound, err, id)
	}

	c, rec := call(e, http.MethodGet, "/", "")
	require.NoError(t, h.Index(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHTTPErrorHandler(t *testing.T) {
	e := newEcho(t, "paralympics")
	handle := NewHTTPErrorHandler()

	c, rec := call(e, http.MethodGet, "/api/nope", "")
	handle(echo.ErrNotFound, c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, notFoundBody, rec.Body.String())

	c, rec = call(e, http.MethodPut, "/api/noc", "")
	handle(echo.ErrMethodNotAllowed, c)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	c, rec = call(e, http.MethodGet, "/api/noc", "")
	handle(errors.New("boom"), c)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":500`)

	c, rec = call(e, http.MethodGet, "/display_event/9", "")
	handle(echo.ErrNotFound, c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")

	c, rec = call(e, http.MethodGet, "/", "")
	handle(errors.New("boom"), c)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "<html")
}

func TestDashboard(t *testing.T) {
	db := newTestDB(t, "paralympics")
	e := newEcho(t, "paralympics")
	api := NewAPIHandler(repository.NewRegionRepo(db), repository.NewEventRepo(db), nil)
	c, _ := call(e, http.MethodPost, "/api/noc", `{"NOC":"GBR","region":"UK"}`)
	require.NoError(t, api.CreateRegion(c))
	c, _ = call(e, http.MethodPost, "/api/event", londonEvent)
	require.NoError(t, api.CreateEvent(c))

	h := NewDashboardHandler(repository.NewEventRepo(db))

	c, rec := call(e, http.MethodGet, "/dashboard/visibility?type=Winter", "")
	require.NoError(t, h.Visibility(c))
	assert.JSONEq(t, `{"winter":{"display":"block"},"summer":{"display":"none"}}`, rec.Body.String())

	c, rec = call(e, http.MethodGet, "/dashboard/visibility?type=Winter&type=Summer", "")
	require.NoError(t, h.Visibility(c))
	assert.JSONEq(t, `{"winter":{"display":"block"},"summer":{"display":"block"}}`, rec.Body.String())

	c, rec = call(e, http.MethodGet, "/dashboard/line?variable=sports", "")
	require.NoError(t, h.Line(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"series"`)

	c, rec = call(e, http.MethodGet, "/dashboard/", "")
	require.NoError(t, h.Page(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "London")
}
