package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tallercharli/accounts-api/internal/api/metrics"
	"github.com/tallercharli/accounts-api/internal/api/middleware"
	"github.com/tallercharli/accounts-api/internal/core/domain"
	"github.com/tallercharli/accounts-api/internal/core/ports"
)

// UserHandler handles HTTP requests for user CRUD and soft-delete flows.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

type createUserRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	DNI       string `json:"dni" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone,omitempty"`
}

type createAdminUserRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	DNI       string `json:"dni" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role" validate:"required,oneof=ADMIN CLIENT"`
}

type updateUserRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	DNI       *string `json:"dni,omitempty"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     *string `json:"phone,omitempty"`
	Role      *string `json:"role,omitempty" validate:"omitempty,oneof=ADMIN CLIENT"`
}

type listUsersQuery struct {
	FirstName string `query:"firstName"`
	LastName  string `query:"lastName"`
	DNI       string `query:"dni"`
	Email     string `query:"email"`
	Phone     string `query:"phone"`
	Role      string `query:"role" validate:"omitempty,oneof=ADMIN CLIENT"`
	Page      int    `query:"page" validate:"omitempty,gte=1"`
	Limit     int    `query:"limit" validate:"omitempty,gte=1"`
}

func (q listUsersQuery) filter() domain.UserFilter {
	return domain.UserFilter{
		FirstName: q.FirstName,
		LastName:  q.LastName,
		DNI:       q.DNI,
		Email:     q.Email,
		Phone:     q.Phone,
		Role:      q.Role,
		Page:      q.Page,
		Limit:     q.Limit,
	}
}

// Create handles POST /users — admin-created CLIENT user.
//
// @Summary      Create a client user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "User details"
// @Success      201   {object}  envelope
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.service.Create(c.Request().Context(), ports.CreateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		DNI:       req.DNI,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		return err
	}

	metrics.UsersCreatedTotal.WithLabelValues(user.Role).Inc()
	return respond(c, http.StatusCreated, "user created successfully", user)
}

// CreateByAdmin handles POST /users/admin — user with an explicit role.
//
// @Summary      Create a user with any role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAdminUserRequest  true  "User details including role"
// @Success      201   {object}  envelope
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /users/admin [post]
func (h *UserHandler) CreateByAdmin(c echo.Context) error {
	var req createAdminUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.service.CreateByAdmin(c.Request().Context(), ports.CreateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		DNI:       req.DNI,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      req.Role,
	})
	if err != nil {
		return err
	}

	metrics.UsersCreatedTotal.WithLabelValues(user.Role).Inc()
	return respond(c, http.StatusCreated, "user created by admin successfully", user)
}

// List handles GET /users — paginated active users with optional filters.
//
// @Summary      List active users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        firstName  query     string  false  "Filter by first name"
// @Param        lastName   query     string  false  "Filter by last name"
// @Param        dni        query     string  false  "Filter by DNI"
// @Param        email      query     string  false  "Filter by email"
// @Param        phone      query     string  false  "Filter by phone"
// @Param        role       query     string  false  "Filter by role"  Enums(ADMIN, CLIENT)
// @Param        page       query     int     false  "Page number (1-based)"
// @Param        limit      query     int     false  "Items per page"
// @Success      200        {object}  envelope
// @Failure      403        {object}  map[string]string
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	var q listUsersQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	page, err := h.service.FindAll(c.Request().Context(), q.filter())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "users retrieved successfully", page)
}

// ListDeleted handles GET /users/deleted — paginated soft-deleted users.
//
// @Summary      List deleted users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (1-based)"
// @Param        limit  query     int  false  "Items per page"
// @Success      200    {object}  envelope
// @Failure      403    {object}  map[string]string
// @Router       /users/deleted [get]
func (h *UserHandler) ListDeleted(c echo.Context) error {
	var q listUsersQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	page, err := h.service.FindDeleted(c.Request().Context(), q.filter())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "deleted users retrieved successfully", page)
}

// Profile handles GET /users/profile — the caller's own record.
//
// @Summary      Get own profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Failure      401  {object}  map[string]string
// @Router       /users/profile [get]
func (h *UserHandler) Profile(c echo.Context) error {
	ident, ok := middleware.Identity(c)
	if !ok {
		return domain.ErrTokenRequired
	}
	return respond(c, http.StatusOK, "profile retrieved successfully", ident.User)
}

// Get handles GET /users/:id.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  envelope
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	user, err := h.service.FindOne(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "user retrieved successfully", user)
}

// Update handles PUT /users/:id. Admins may update anyone; other callers
// only their own record.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to update"
// @Success      200   {object}  envelope
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	ident, ok := middleware.Identity(c)
	if !ok {
		return domain.ErrTokenRequired
	}
	if err := middleware.CanActOn(ident, id); err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.service.Update(c.Request().Context(), id, domain.UserUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		DNI:       req.DNI,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      req.Role,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "user updated successfully", user)
}

// Delete handles DELETE /users/:id — soft delete.
//
// @Summary      Soft-delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  envelope
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	user, err := h.service.SoftDelete(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "user deleted successfully", user)
}

// Recover handles PATCH /users/:id/recover — restores a soft-deleted user.
//
// @Summary      Recover a deleted user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  envelope
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/{id}/recover [patch]
func (h *UserHandler) Recover(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	user, err := h.service.Recover(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "user recovered successfully", user)
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	return id, nil
}
