package handlers

import (
	"net/http"

	"github.com/anonto42/nano-posts/backend/internal/middleware"
	"github.com/anonto42/nano-posts/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	userRepository repositories.UserRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository) *UserHandler {
	return &UserHandler{userRepository: userRepo}
}

// RegisterUserRoutes registers user routes; all of them need an active user.
func (h *UserHandler) RegisterUserRoutes(g *echo.Group, requireUser ...echo.MiddlewareFunc) {
	g.GET("/users", h.GetUsers, requireUser...)
	g.GET("/users/me", h.GetProfile, requireUser...)
}

// GetUsers lists every user
func (h *UserHandler) GetUsers(c echo.Context) error {
	users, err := h.userRepository.GetUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// GetProfile returns the authenticated user
func (h *UserHandler) GetProfile(c echo.Context) error {
	return c.JSON(http.StatusOK, middleware.CurrentUser(c))
}
