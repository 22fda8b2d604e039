package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Flasher is the part of the session manager pages need.
type Flasher interface {
	CurrentUserID(c echo.Context) (int64, bool)
	Flashes(c echo.Context) []string
}

// page adds the values every layout expects: pending flashes, the CSRF
// token and whether someone is logged in.
func page(c echo.Context, sessions Flasher, data echo.Map) echo.Map {
	if data == nil {
		data = echo.Map{}
	}
	if tok, ok := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string); ok {
		data["CSRF"] = tok
	}
	if sessions != nil {
		_, loggedIn := sessions.CurrentUserID(c)
		data["LoggedIn"] = loggedIn
		data["Flashes"] = sessions.Flashes(c)
	}
	return data
}
