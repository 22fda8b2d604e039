package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(e *echo.Echo, cookies []*http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if n := len(cookies); n > 0 {
		// every save appends a Set-Cookie header; the browser keeps the last
		req.AddCookie(cookies[n-1])
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestLoginPersistsAcrossRequests(t *testing.T) {
	e := echo.New()
	m := NewManager("secret", time.Minute, false)

	c, rec := newContext(e, nil)
	_, ok := m.CurrentUserID(c)
	assert.False(t, ok)
	require.NoError(t, m.Login(c, 7, false))

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Zero(t, cookies[0].MaxAge)

	c2, _ := newContext(e, cookies)
	id, ok := m.CurrentUserID(c2)
	require.True(t, ok)
	assert.Equal(t, int64(7), id)
}

func TestRememberSetsMaxAge(t *testing.T) {
	e := echo.New()
	m := NewManager("secret", time.Minute, false)

	c, rec := newContext(e, nil)
	require.NoError(t, m.Login(c, 1, true))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, 60, cookies[0].MaxAge)
}

func TestOtherSecretIsAnonymous(t *testing.T) {
	e := echo.New()
	c, rec := newContext(e, nil)
	require.NoError(t, NewManager("one", time.Minute, false).Login(c, 3, false))

	c2, _ := newContext(e, rec.Result().Cookies())
	_, ok := NewManager("two", time.Minute, false).CurrentUserID(c2)
	assert.False(t, ok)
}

func TestLogout(t *testing.T) {
	e := echo.New()
	m := NewManager("secret", time.Minute, false)

	c, rec := newContext(e, nil)
	require.NoError(t, m.Login(c, 9, false))

	c2, rec2 := newContext(e, rec.Result().Cookies())
	require.NoError(t, m.Logout(c2))

	c3, _ := newContext(e, rec2.Result().Cookies())
	_, ok := m.CurrentUserID(c3)
	assert.False(t, ok)
}

func TestFlashesArePoppedOnce(t *testing.T) {
	e := echo.New()
	m := NewManager("secret", time.Minute, false)

	c, rec := newContext(e, nil)
	require.NoError(t, m.AddFlash(c, "Email address not found"))
	// visible within the same request
	c2, rec2 := newContext(e, rec.Result().Cookies())
	require.NoError(t, m.AddFlash(c2, "second"))
	assert.Equal(t, []string{"Email address not found", "second"}, m.Flashes(c2))

	c3, _ := newContext(e, rec2.Result().Cookies())
	assert.Empty(t, m.Flashes(c3))
}
