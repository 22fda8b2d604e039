package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/paralympics-iris/internal/logging"
	"github.com/iliyamo/paralympics-iris/internal/model"
	"github.com/iliyamo/paralympics-iris/internal/repository"
	"github.com/iliyamo/paralympics-iris/internal/utils"
)

// principalKey is the echo context key of the authenticated user.
const principalKey = "principal"

// PrincipalFinder resolves the subject of a verified token.
type PrincipalFinder interface {
	FindByID(ctx context.Context, id int64) (model.User, error)
}

// TokenRequired returns an Echo middleware that verifies the token in the
// Authorization header and resolves its subject to a user.  The header holds
// the raw token; a "Bearer " prefix is tolerated.  Any failure answers 401
// {"message":"Token invalid"} without calling the handler.  A verified token
// whose user no longer exists passes with a nil principal, so handlers must
// check PrincipalFrom before acting.
func TokenRequired(issuer *utils.TokenIssuer, users PrincipalFinder, now func() time.Time) echo.MiddlewareFunc {
	if now == nil {
		now = time.Now
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
			raw = strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))
			if raw == "" {
				return TokenInvalid(c)
			}

			subject, err := issuer.Verify(raw, now())
			if err != nil {
				logging.FromContext(c.Request().Context()).Info("token rejected", "error", err)
				return TokenInvalid(c)
			}
			id, err := strconv.ParseInt(subject, 10, 64)
			if err != nil {
				return TokenInvalid(c)
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			user, err := users.FindByID(ctx, id)
			switch {
			case err == nil:
				c.Set(principalKey, &user)
			case repository.IsNotFound(err):
				c.Set(principalKey, (*model.User)(nil))
			default:
				logging.FromContext(c.Request().Context()).Error("principal lookup failed", "error", err)
				return TokenInvalid(c)
			}
			return next(c)
		}
	}
}

// TokenInvalid writes the 401 body shared by the guard and guarded handlers.
func TokenInvalid(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Token invalid"})
}

// PrincipalFrom returns the user stored by TokenRequired, or nil.
func PrincipalFrom(c echo.Context) *model.User {
	u, _ := c.Get(principalKey).(*model.User)
	return u
}
