package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/melodia/music-catalog-api/internal/core/domain"
	"github.com/melodia/music-catalog-api/internal/core/ports"
)

// UserHandler handles account management.
type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Surname  string `json:"surname"  validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=10"`
	Role     string `json:"role"     validate:"required,oneof=ADMIN USER"`
}

type updateUserRequest struct {
	Name     string `form:"name"`
	Surname  string `form:"surname"`
	Email    string `form:"email"    validate:"omitempty,email"`
	Password string `form:"password" validate:"omitempty,min=10"`
}

// Register creates a new account. At most one ADMIN account may exist.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/users [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Surname:  req.Surname,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, user)
}

// List returns every account. Admin only.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.GetAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Get returns one account by id.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "User id"
// @Success      200     {object}  domain.User
// @Failure      404     {object}  map[string]string
// @Router       /api/users/{userId} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.users.Get(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Update partially updates an account. Users may only update themselves;
// admins may update anyone. Accepts multipart form data so the avatar image
// can travel with the field changes.
//
// @Summary      Update a user
// @Tags         users
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true   "User id"
// @Param        image   formData  file    false  "Avatar image"
// @Success      200     {object}  domain.User
// @Failure      400     {object}  map[string]string
// @Failure      403     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /api/users/{userId} [put]
func (h *UserHandler) Update(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	targetID := c.Param("userId")
	if identity.Role != domain.RoleAdmin && identity.ID != targetID {
		return echo.NewHTTPError(http.StatusForbidden, "cannot update another user")
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Missing file is fine, the update may be fields only.
	image, err := c.FormFile("image")
	if err != nil {
		image = nil
	}

	user, err := h.users.Update(c.Request().Context(), targetID, ports.UpdateUserInput{
		Name:     req.Name,
		Surname:  req.Surname,
		Email:    req.Email,
		Password: req.Password,
	}, image)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}
