package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHealth(t *testing.T) {
	e := echo.New()
	tests := []struct {
		name string
		db   Pinger
		code int
		body string
	}{
		{"no database", nil, http.StatusOK, "ok"},
		{"database up", newTestDB(t, "iris"), http.StatusOK, "ok"},
		{"database down", pingerFunc(func(context.Context) error { return errors.New("gone") }), http.StatusServiceUnavailable, "database unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := call(e, http.MethodGet, "/healthz", "")
			require.NoError(t, Health(tt.db)(c))
			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.body, rec.Body.String())
		})
	}
}
