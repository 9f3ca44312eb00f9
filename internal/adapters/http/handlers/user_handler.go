package handlers

import (
	"errors"
	"strconv"

	"aeroclean/internal/adapters/persistence/models"
	"aeroclean/internal/core/services"
	"aeroclean/internal/pkg/pagination"
	"aeroclean/internal/pkg/response"

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

// Me returns the current user's profile
// @Summary Get current user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.UserResponse
// @Failure 401 {object} response.ErrorBody
// @Router /auth/me [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Authentication credentials were not provided.")
	}

	user, err := h.userService.GetUser(c.Context(), userID)
	if err != nil {
		return response.NotFound(c, "User not found.")
	}
	return response.OK(c, user.ToResponse())
}

// UpdateMe updates the current user's own profile
// @Summary Update current user
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdateUserInput true "Fields to update"
// @Success 200 {object} models.UserResponse
// @Failure 401 {object} response.ErrorBody
// @Router /auth/me [patch]
func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Authentication credentials were not provided.")
	}

	var input services.UpdateUserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body.")
	}
	// Role and active status are admin-managed
	input.Role = ""
	input.IsActive = nil

	user, err := h.userService.UpdateUser(c.Context(), userID, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found.")
		case errors.Is(err, services.ErrUserAlreadyExists):
			return response.Conflict(c, "A user with that email already exists.")
		default:
			return response.BadRequest(c, err.Error())
		}
	}
	return response.OK(c, user.ToResponse())
}

// List lists users (admin only)
// @Summary List users
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Page
// @Router /auth/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	users, total, err := h.userService.ListUsers(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list users.")
	}

	results := make([]*models.UserResponse, 0, len(users))
	for _, u := range users {
		results = append(results, u.ToResponse())
	}
	return response.List(c, results, total)
}

// Get returns one user (admin only)
// @Summary Get user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} models.UserResponse
// @Failure 404 {object} response.ErrorBody
// @Router /auth/users/{id} [get]
func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID.")
	}

	user, err := h.userService.GetUser(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found.")
		}
		return response.InternalServerError(c, "Failed to get user.")
	}
	return response.OK(c, user.ToResponse())
}

// Update updates a user (admin only)
// @Summary Update user
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body services.UpdateUserInput true "Fields to update"
// @Success 200 {object} models.UserResponse
// @Failure 404 {object} response.ErrorBody
// @Router /auth/users/{id} [patch]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID.")
	}

	var input services.UpdateUserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body.")
	}

	user, err := h.userService.UpdateUser(c.Context(), id, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found.")
		case errors.Is(err, services.ErrUserAlreadyExists):
			return response.Conflict(c, "A user with that email already exists.")
		default:
			return response.BadRequest(c, err.Error())
		}
	}
	return response.OK(c, user.ToResponse())
}

// Delete soft-deletes a user (admin only)
// @Summary Delete user
// @Tags Users
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 204
// @Failure 404 {object} response.ErrorBody
// @Router /auth/users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID.")
	}

	if err := h.userService.DeleteUser(c.Context(), id); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found.")
		}
		return response.InternalServerError(c, "Failed to delete user.")
	}
	return response.NoContent(c)
}

// parseID parses the :id route parameter
func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}
