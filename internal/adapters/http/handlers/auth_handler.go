package handlers

import (
	"errors"
	"strings"

	"aeroclean/internal/core/services"
	"aeroclean/internal/pkg/password"
	"aeroclean/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents registration request body
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
}

// LoginRequest represents login request body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest represents token refresh request body
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// LogoutRequest represents logout request body
type LogoutRequest struct {
	Refresh string `json:"refresh"`
}

// Login handles token obtainment
// @Summary Obtain token pair
// @Description Authenticate with username/password and return access and refresh tokens
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} services.TokenPair
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body.")
	}

	if req.Username == "" || req.Password == "" {
		return response.BadRequest(c, "Username and password are required.")
	}

	input := &services.LoginInput{
		Username: strings.TrimSpace(req.Username),
		Password: req.Password,
	}

	result, err := h.authService.Login(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			return response.Unauthorized(c, "No active account found with the given credentials")
		case errors.Is(err, services.ErrUserInactive):
			return response.Unauthorized(c, "No active account found with the given credentials")
		default:
			return response.InternalServerError(c, "Failed to login.")
		}
	}

	// The login endpoint returns the pair only; profile comes from /auth/me/
	return response.OK(c, services.TokenPair{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	})
}

// Refresh handles access token refresh
// @Summary Refresh access token
// @Description Exchange a refresh token for a new access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RefreshRequest true "Refresh token"
// @Success 200 {object} map[string]string
// @Failure 401 {object} response.ErrorBody
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body.")
	}
	if req.Refresh == "" {
		return response.BadRequest(c, "Refresh token is required.")
	}

	accessToken, err := h.authService.Refresh(c.Context(), req.Refresh)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTokenExpired),
			errors.Is(err, services.ErrTokenRevoked),
			errors.Is(err, services.ErrInvalidToken),
			errors.Is(err, services.ErrUserNotFound),
			errors.Is(err, services.ErrUserInactive):
			return response.Unauthorized(c, "Token is invalid or expired")
		default:
			return response.InternalServerError(c, "Failed to refresh token.")
		}
	}

	return response.OK(c, fiber.Map{"access": accessToken})
}

// Register handles user registration (admin only)
// @Summary Register new user
// @Description Create a new staff or admin account
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RegisterRequest true "Registration data"
// @Success 201 {object} models.UserResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body.")
	}

	if req.Username == "" {
		return response.BadRequest(c, "Username is required.")
	}
	if req.Email == "" {
		return response.BadRequest(c, "Email is required.")
	}
	if !password.ValidatePassword(req.Password) {
		return response.BadRequest(c, "Password must be at least 8 characters.")
	}

	input := &services.RegisterInput{
		Username:  strings.TrimSpace(req.Username),
		Email:     strings.TrimSpace(req.Email),
		Password:  req.Password,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Phone:     strings.TrimSpace(req.Phone),
		Role:      req.Role,
	}

	user, err := h.authService.Register(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserAlreadyExists):
			return response.Conflict(c, "A user with that username or email already exists.")
		default:
			return response.InternalServerError(c, "Failed to register user.")
		}
	}

	return response.Created(c, user.ToResponse())
}

// Logout revokes the presented refresh token
// @Summary Logout
// @Description Revoke the refresh token so it can no longer be used
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body LogoutRequest true "Refresh token"
// @Success 204
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req LogoutRequest
	if err := c.BodyParser(&req); err == nil && req.Refresh != "" {
		_ = h.authService.Logout(c.Context(), req.Refresh)
	}
	return response.NoContent(c)
}

// LogoutAll revokes every refresh token of the current user
// @Summary Logout from all devices
// @Description Revoke all refresh tokens of the authenticated user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} response.ErrorBody
// @Router /auth/logout-all [post]
func (h *AuthHandler) LogoutAll(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Authentication credentials were not provided.")
	}

	if err := h.authService.LogoutAll(c.Context(), userID); err != nil {
		return response.InternalServerError(c, "Failed to logout from all devices.")
	}
	return response.NoContent(c)
}
