package middleware

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
)

// LoginMessage is flashed when an anonymous visitor opens a protected page.
const LoginMessage = "Please log in to access this page."

// SessionReader is the part of the session manager the guard needs.
type SessionReader interface {
	CurrentUserID(c echo.Context) (int64, bool)
	AddFlash(c echo.Context, msg string) error
}

// LoginRequired redirects anonymous visitors to /login, remembering the
// requested URI in the next parameter.
func LoginRequired(sessions SessionReader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := sessions.CurrentUserID(c); ok {
				return next(c)
			}
			if err := sessions.AddFlash(c, LoginMessage); err != nil {
				return err
			}
			target := "/login?next=" + url.QueryEscape(c.Request().URL.RequestURI())
			return c.Redirect(http.StatusFound, target)
		}
	}
}
