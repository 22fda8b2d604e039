package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/paralympics-iris/internal/config"
	"github.com/iliyamo/paralympics-iris/internal/repository"
	"github.com/iliyamo/paralympics-iris/internal/utils"
)

func TestAPIAuth(t *testing.T) {
	db := newTestDB(t, "paralympics")
	e := newEcho(t, "paralympics")
	cfg := config.Config{BcryptCost: bcrypt.MinCost, TokenTTL: 5 * time.Minute}
	h := NewAPIAuthHandler(cfg, repository.NewUserRepo(db), utils.NewTokenIssuer("secret"), nil)

	creds := `{"email":"a@b.com","password":"pw"}`

	c, rec := call(e, http.MethodPost, "/api/register", creds)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"status":"success","message":"Successfully registered."}`, rec.Body.String())

	c, rec = call(e, http.MethodPost, "/api/register", `{"email":"A@B.com","password":"other"}`)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"status":"fail","message":"User already exists. Please Log in."}`, rec.Body.String())

	c, rec = call(e, http.MethodPost, "/api/login", creds)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	// the issued token is not part of the response
	assert.JSONEq(t, `{"status":"success","message":"Successfully logged in."}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "token")

	for _, body := range []string{`{"email":"a@b.com","password":"wrong"}`, `{"email":"x@y.com","password":"pw"}`} {
		c, rec = call(e, http.MethodPost, "/api/login", body)
		require.NoError(t, h.Login(c))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"status":"fail","message":"Try again"}`, rec.Body.String())
	}
}

func TestAPIAuth_InvalidBody(t *testing.T) {
	db := newTestDB(t, "paralympics")
	e := newEcho(t, "paralympics")
	h := NewAPIAuthHandler(config.Config{BcryptCost: bcrypt.MinCost, TokenTTL: time.Minute}, repository.NewUserRepo(db), utils.NewTokenIssuer("secret"), nil)

	c, rec := call(e, http.MethodPost, "/api/register", `{"email":"a@b.com"}`)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = call(e, http.MethodPost, "/api/login", `[]`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
