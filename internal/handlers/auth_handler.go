package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tokobuku/internal/middleware"
	"tokobuku/internal/models"
	"tokobuku/internal/services"
)

// AuthHandler handles HTTP requests for sign-up, login and the caller's
// profile.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Routes lists the user endpoints.
func (h *AuthHandler) Routes() []Route {
	return []Route{
		{fiber.MethodPost, "/users", Public, h.HandleRegister},
		{fiber.MethodPost, "/users/login", Public, h.HandleLogin},
		{fiber.MethodGet, "/users/profile", Authenticated, h.HandleProfile},
	}
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := validateStruct(req); err != nil {
		return err
	}

	resp, err := h.authService.RegisterUser(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := validateStruct(req); err != nil {
		return err
	}

	resp, err := h.authService.LoginUser(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// HandleProfile returns the authenticated user.
func (h *AuthHandler) HandleProfile(c *fiber.Ctx) error {
	return c.JSON(middleware.CurrentUser(c))
}
