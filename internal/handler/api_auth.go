package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/paralympics-iris/internal/config"
	"github.com/iliyamo/paralympics-iris/internal/logging"
	"github.com/iliyamo/paralympics-iris/internal/repository"
	"github.com/iliyamo/paralympics-iris/internal/utils"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type statusMessage struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// APIAuthHandler registers API users and verifies their credentials.
type APIAuthHandler struct {
	Cfg    config.Config
	Users  UserStore
	Issuer *utils.TokenIssuer
	Now    func() time.Time
}

func NewAPIAuthHandler(cfg config.Config, users UserStore, issuer *utils.TokenIssuer, now func() time.Time) *APIAuthHandler {
	if now == nil {
		now = time.Now
	}
	return &APIAuthHandler{Cfg: cfg, Users: users, Issuer: issuer, Now: now}
}

func (h *APIAuthHandler) readCredentials(c echo.Context) (credentials, error) {
	var cr credentials
	body, err := readAndValidateBody(c, credentialSchema)
	if err != nil {
		return cr, err
	}
	if err := json.Unmarshal(body, &cr); err != nil {
		return cr, writeBadBody(c, "Could not decode request body.", nil)
	}
	return cr, nil
}

// Register handles POST /api/register.  An existing account answers 202.
func (h *APIAuthHandler) Register(c echo.Context) error {
	cr, err := h.readCredentials(c)
	if err != nil {
		return handled(err)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	exists := statusMessage{Status: "fail", Message: "User already exists. Please Log in."}
	if _, err := h.Users.FindByEmail(ctx, cr.Email); err == nil {
		return c.JSON(http.StatusAccepted, exists)
	} else if !repository.IsNotFound(err) {
		logging.FromContext(ctx).Error("error looking up user", "error", err)
		return c.JSON(http.StatusUnauthorized, statusMessage{Status: "fail", Message: "An error occurred. Please try again."})
	}

	if _, err := h.Users.Create(ctx, cr.Email, cr.Password, h.Cfg.BcryptCost); err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusAccepted, exists)
		}
		logging.FromContext(ctx).Error("error registering user", "error", err)
		return c.JSON(http.StatusUnauthorized, statusMessage{Status: "fail", Message: "An error occurred. Please try again."})
	}
	return c.JSON(http.StatusCreated, statusMessage{Status: "success", Message: "Successfully registered."})
}

// Login handles POST /api/login.  A token is issued for valid credentials
// but the response body carries only the status message.
func (h *APIAuthHandler) Login(c echo.Context) error {
	cr, err := h.readCredentials(c)
	if err != nil {
		return handled(err)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	tryAgain := statusMessage{Status: "fail", Message: "Try again"}
	u, err := h.Users.FindByEmail(ctx, cr.Email)
	if err != nil {
		if !repository.IsNotFound(err) {
			logging.FromContext(ctx).Error("error looking up user", "error", err)
		}
		return c.JSON(http.StatusInternalServerError, tryAgain)
	}
	if !utils.VerifyPassword(u.PasswordHash, cr.Password) {
		return c.JSON(http.StatusInternalServerError, tryAgain)
	}
	if _, err := h.Issuer.Issue(strconv.FormatInt(u.ID, 10), h.Now(), h.Cfg.TokenTTL); err != nil {
		logging.FromContext(ctx).Error("error issuing token", "error", err)
		return c.JSON(http.StatusInternalServerError, tryAgain)
	}
	return c.JSON(http.StatusOK, statusMessage{Status: "success", Message: "Successfully logged in."})
}
