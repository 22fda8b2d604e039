package logging

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// HeaderRequestID is read from and echoed back on every response.
const HeaderRequestID = "X-Request-ID"

// Middleware logs every request and attaches a contextual logger carrying the
// request id to the request context.
func Middleware(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			reqID := req.Header.Get(HeaderRequestID)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			c.Response().Header().Set(HeaderRequestID, reqID)

			logger := base.With(
				"req_id", reqID,
				"method", req.Method,
				"path", req.URL.Path,
				"remote_addr", c.RealIP(),
			)
			c.SetRequest(req.WithContext(WithContext(req.Context(), logger)))

			err := next(c)
			if err != nil {
				// let echo's error handler write the response before we read the status
				c.Error(err)
			}

			logger.Info("http_request",
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"user_agent", req.UserAgent(),
			)
			return nil
		}
	}
}
