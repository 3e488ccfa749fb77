package handlers

import (
	"errors"
	"strconv"
	"strings"

	"ruralbuild/internal/adapters/http/middleware"
	"ruralbuild/internal/core/services"
	"ruralbuild/internal/pkg/pagination"
	"ruralbuild/internal/pkg/password"
	"ruralbuild/internal/pkg/rbac"
	"ruralbuild/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user management endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List handles user listing
// @Summary List users
// @Description List accounts within the caller's region scope; an explicit region query narrows further
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param search query string false "Username or full name search"
// @Param role query string false "Role filter"
// @Param region query string false "Region code filter"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)
	input := &services.ListUsersInput{
		Page:   params.Page,
		Limit:  params.Limit,
		Search: strings.TrimSpace(c.Query("search")),
		Role:   rbac.Role(c.Query("role")),
		Region: strings.TrimSpace(c.Query("region")),
	}

	result, err := h.userService.ListUsers(c.Context(), actor, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRegionDenied):
			return response.Forbidden(c, "Region is outside your scope")
		default:
			return response.InternalServerError(c, "Failed to list users")
		}
	}

	return response.Success(c, "Users retrieved successfully", result)
}

// Get handles fetching a single user
// @Summary Get user
// @Description Get a single account within the caller's region scope
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	user, err := h.userService.GetUser(c.Context(), actor, uint(id))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, services.ErrRegionDenied):
			return response.Forbidden(c, "Region is outside your scope")
		default:
			return response.InternalServerError(c, "Failed to get user")
		}
	}

	return response.Success(c, "User retrieved successfully", fiber.Map{
		"user": user.ToResponse(),
	})
}

// Create handles administrative account creation
// @Summary Create user
// @Description Create an account with a role below the caller's rank, inside the caller's region scope
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RegisterRequest true "Account data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Username == "" {
		return response.BadRequest(c, "Username is required")
	}
	if !password.Validate(req.Password) {
		return response.BadRequest(c, "Password must be at least 8 characters")
	}
	if req.RegionCode == "" {
		return response.BadRequest(c, "Region code is required")
	}

	input := &services.RegisterInput{
		Username:   strings.TrimSpace(req.Username),
		Password:   req.Password,
		FullName:   strings.TrimSpace(req.FullName),
		Phone:      strings.TrimSpace(req.Phone),
		Role:       rbac.Role(req.Role),
		RegionCode: strings.TrimSpace(req.RegionCode),
		RegionName: strings.TrimSpace(req.RegionName),
	}

	user, err := h.userService.CreateUser(c.Context(), actor, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRole):
			return response.BadRequest(c, "Unknown role")
		case errors.Is(err, services.ErrInsufficientRank):
			return response.Forbidden(c, "You cannot create accounts of this rank")
		case errors.Is(err, services.ErrRegionDenied):
			return response.Forbidden(c, "Region is outside your scope")
		case errors.Is(err, services.ErrUserAlreadyExists):
			return response.Conflict(c, "Username already exists")
		default:
			return response.InternalServerError(c, "Failed to create user")
		}
	}

	return response.Created(c, "User created successfully", fiber.Map{
		"user": user.ToResponse(),
	})
}

// Update handles administrative account updates
// @Summary Update user
// @Description Update an account the caller outranks
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body services.UpdateUserInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [put]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	var input services.UpdateUserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.UpdateUser(c.Context(), actor, uint(id), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, services.ErrInvalidRole):
			return response.BadRequest(c, "Unknown role")
		case errors.Is(err, services.ErrInsufficientRank):
			return response.Forbidden(c, "You cannot manage accounts of this rank")
		case errors.Is(err, services.ErrRegionDenied):
			return response.Forbidden(c, "Region is outside your scope")
		case errors.Is(err, services.ErrCannotChangeOwnRole):
			return response.BadRequest(c, "Cannot change your own role")
		case errors.Is(err, services.ErrCannotDisableSelf):
			return response.BadRequest(c, "Cannot disable your own account")
		default:
			return response.InternalServerError(c, "Failed to update user")
		}
	}

	return response.Success(c, "User updated successfully", fiber.Map{
		"user": user.ToResponse(),
	})
}

// Delete handles administrative account deletion
// @Summary Delete user
// @Description Soft delete an account the caller outranks
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	if err := h.userService.DeleteUser(c.Context(), actor, uint(id)); err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, services.ErrInsufficientRank):
			return response.Forbidden(c, "You cannot manage accounts of this rank")
		case errors.Is(err, services.ErrRegionDenied):
			return response.Forbidden(c, "Region is outside your scope")
		case errors.Is(err, services.ErrCannotDeleteSelf):
			return response.BadRequest(c, "Cannot delete your own account")
		default:
			return response.InternalServerError(c, "Failed to delete user")
		}
	}

	return response.Success(c, "User deleted successfully", nil)
}
