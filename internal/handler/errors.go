package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/paralympics-iris/internal/logging"
)

// apiError is the JSON envelope for failed /api requests.
type apiError struct {
	Status  int      `json:"status"`
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

func notFoundJSON(c echo.Context) error {
	return c.JSON(http.StatusNotFound, apiError{Status: http.StatusNotFound, Error: "Not found", Message: "Invalid resource URI"})
}

func badRequestJSON(c echo.Context, msg string, details []string) error {
	return c.JSON(http.StatusBadRequest, apiError{Status: http.StatusBadRequest, Error: "Bad request", Message: msg, Details: details})
}

func conflictJSON(c echo.Context, msg string) error {
	return c.JSON(http.StatusConflict, apiError{Status: http.StatusConflict, Error: "Conflict", Message: msg})
}

func internalJSON(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, apiError{Status: http.StatusInternalServerError, Error: "Internal server error", Message: "An unexpected error occurred"})
}

// NewHTTPErrorHandler renders 404.html and 500.html for pages and the JSON
// envelope for paths under /api.  Unexpected errors are logged with the
// request logger.
func NewHTTPErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := ""
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if s, ok := he.Message.(string); ok {
				msg = s
			}
		}
		if code >= http.StatusInternalServerError {
			logging.FromContext(c.Request().Context()).Error("request failed", "error", err)
		}

		var werr error
		switch {
		case strings.HasPrefix(c.Request().URL.Path, "/api"):
			switch code {
			case http.StatusNotFound, http.StatusMethodNotAllowed:
				werr = notFoundJSON(c)
			case http.StatusInternalServerError:
				werr = internalJSON(c)
			default:
				werr = c.JSON(code, apiError{Status: code, Error: http.StatusText(code), Message: msg})
			}
		case code == http.StatusNotFound:
			werr = c.Render(code, "404.html", echo.Map{})
		case code >= http.StatusInternalServerError:
			werr = c.Render(http.StatusInternalServerError, "500.html", echo.Map{})
		default:
			if msg == "" {
				msg = http.StatusText(code)
			}
			werr = c.String(code, msg)
		}
		if werr != nil {
			logging.FromContext(c.Request().Context()).Error("error response failed", "error", werr)
		}
	}
}
