package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/melodia/music-catalog-api/internal/api/metrics"
	"github.com/melodia/music-catalog-api/internal/core/domain"
	"github.com/melodia/music-catalog-api/internal/core/ports"
)

// AuthHandler handles login, logout and identity introspection.
type AuthHandler struct {
	sessions ports.SessionManager
	users    ports.UserService
}

func NewAuthHandler(sessions ports.SessionManager, users ports.UserService) *AuthHandler {
	return &AuthHandler{sessions: sessions, users: users}
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=10"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Login verifies credentials and opens the single live session for the
// account, superseding any previous one.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /api/users/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.sessions.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	metrics.LoginsTotal.Inc()
	return c.JSON(http.StatusOK, loginResponse{Token: result.Token, User: result.User})
}

// Logout closes the caller's session. Idempotent.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/users/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.sessions.Logout(c.Request().Context(), identity.ID); err != nil {
		return err
	}

	metrics.LogoutsTotal.Inc()
	return c.JSON(http.StatusOK, map[string]string{"status": "logged out"})
}

// Whoami returns the account behind the presented token.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/users/whoami [get]
func (h *AuthHandler) Whoami(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.users.Get(c.Request().Context(), identity.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}
