// Package session keeps the logged-in user and one-shot flash messages of
// the HTML apps in a signed cookie.
package session

import (
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const (
	cookieName = "session"
	userIDKey  = "user_id"
)

// Manager wraps a gorilla CookieStore. The store caches the session per
// request, so a flash added during a request is visible to Flashes in the
// same request.
type Manager struct {
	store    *sessions.CookieStore
	remember time.Duration
	secure   bool
}

// NewManager returns a Manager signing cookies with secret. remember is the
// lifetime of a "remember me" login; other logins last for the browser
// session.
func NewManager(secret string, remember time.Duration, secure bool) *Manager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = cookieOptions(0, secure)
	return &Manager{store: store, remember: remember, secure: secure}
}

func cookieOptions(maxAge int, secure bool) *sessions.Options {
	return &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (m *Manager) get(c echo.Context) *sessions.Session {
	// A cookie that fails verification yields a fresh session alongside the
	// error; treating it as anonymous is the desired outcome.
	sess, _ := m.store.Get(c.Request(), cookieName)
	return sess
}

func (m *Manager) save(c echo.Context, sess *sessions.Session) error {
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return errors.Wrap(err, "error saving session")
	}
	return nil
}

// Login records userID in the session.
func (m *Manager) Login(c echo.Context, userID int64, remember bool) error {
	sess := m.get(c)
	maxAge := 0
	if remember {
		maxAge = int(m.remember / time.Second)
	}
	sess.Options = cookieOptions(maxAge, m.secure)
	sess.Values[userIDKey] = userID
	return m.save(c, sess)
}

// Logout forgets the user. Pending flashes are kept.
func (m *Manager) Logout(c echo.Context) error {
	sess := m.get(c)
	delete(sess.Values, userIDKey)
	sess.Options = cookieOptions(0, m.secure)
	return m.save(c, sess)
}

// CurrentUserID returns the logged-in user id, if any.
func (m *Manager) CurrentUserID(c echo.Context) (int64, bool) {
	id, ok := m.get(c).Values[userIDKey].(int64)
	return id, ok
}

// AddFlash queues a message for the next rendered page.
func (m *Manager) AddFlash(c echo.Context, msg string) error {
	sess := m.get(c)
	sess.AddFlash(msg)
	return m.save(c, sess)
}

// Flashes pops every queued message.
func (m *Manager) Flashes(c echo.Context) []string {
	sess := m.get(c)
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			out = append(out, s)
		}
	}
	_ = m.save(c, sess)
	return out
}
