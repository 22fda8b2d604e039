package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/iliyamo/paralympics-iris/internal/config"
	"github.com/iliyamo/paralympics-iris/internal/forms"
	"github.com/iliyamo/paralympics-iris/internal/model"
	"github.com/iliyamo/paralympics-iris/internal/repository"
	"github.com/iliyamo/paralympics-iris/internal/utils"
)

// UserStore creates and finds accounts.
type UserStore interface {
	Create(ctx context.Context, email, password string, cost int) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
}

// SessionStore is the session manager as used by the login pages.
type SessionStore interface {
	Flasher
	Login(c echo.Context, userID int64, remember bool) error
	Logout(c echo.Context) error
	AddFlash(c echo.Context, msg string) error
}

// SessionAuthHandler implements register, login and logout for the iris
// pages.
type SessionAuthHandler struct {
	Cfg      config.Config
	Users    UserStore
	Sessions SessionStore
}

func NewSessionAuthHandler(cfg config.Config, users UserStore, sessions SessionStore) *SessionAuthHandler {
	return &SessionAuthHandler{Cfg: cfg, Users: users, Sessions: sessions}
}

func (h *SessionAuthHandler) renderForm(c echo.Context, name, email string, errs map[string]string, extra echo.Map) error {
	if errs == nil {
		errs = map[string]string{}
	}
	data := echo.Map{"Email": email, "Errors": errs}
	for k, v := range extra {
		data[k] = v
	}
	return c.Render(http.StatusOK, name, page(c, h.Sessions, data))
}

// Register creates an account.  Success and duplicates both redirect with a
// flash message.
func (h *SessionAuthHandler) Register(c echo.Context) error {
	if c.Request().Method != http.MethodPost {
		return h.renderForm(c, "register.html", "", nil, nil)
	}
	var form forms.RegisterForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(form); err != nil {
		return h.renderForm(c, "register.html", form.Email, forms.Errors(err), nil)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Create(ctx, form.Email, form.Password, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			if err := h.Sessions.AddFlash(c, "An account with that email exists!"); err != nil {
				return err
			}
			return c.Redirect(http.StatusFound, "/login")
		}
		return err
	}
	if err := h.Sessions.AddFlash(c, "You are registered! "+u.String()); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/")
}

// Login signs the user in.  The next query parameter is honoured only when
// it points back to this host; an unsafe value answers 400 with no body.
func (h *SessionAuthHandler) Login(c echo.Context) error {
	next := c.QueryParam("next")
	extra := echo.Map{"Next": next}
	if c.Request().Method != http.MethodPost {
		return h.renderForm(c, "login.html", "", nil, extra)
	}

	var form forms.LoginForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(form); err != nil {
		return h.renderForm(c, "login.html", form.Email, forms.Errors(err), extra)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.FindByEmail(ctx, form.Email)
	if err != nil {
		if !repository.IsNotFound(err) {
			return err
		}
		if err := h.Sessions.AddFlash(c, "Email address not found"); err != nil {
			return err
		}
		return h.renderForm(c, "login.html", form.Email, nil, extra)
	}
	if !utils.VerifyPassword(u.PasswordHash, form.Password) {
		if err := h.Sessions.AddFlash(c, "Incorrect password"); err != nil {
			return err
		}
		return h.renderForm(c, "login.html", form.Email, nil, extra)
	}

	if err := h.Sessions.Login(c, u.ID, form.RememberMe()); err != nil {
		return err
	}
	if next == "" {
		return c.Redirect(http.StatusFound, "/")
	}
	if err := utils.CheckRedirect(next, utils.HostURL(c)); errors.Is(err, utils.ErrUnsafeRedirect) {
		return c.NoContent(http.StatusBadRequest)
	}
	return c.Redirect(http.StatusFound, next)
}

// Logout clears the session and returns to the home page.
func (h *SessionAuthHandler) Logout(c echo.Context) error {
	if err := h.Sessions.Logout(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/")
}
