package handlers

import (
	"net/http"

	"github.com/anonto42/nano-posts/backend/internal/models"
	"github.com/anonto42/nano-posts/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/sign-up", h.SignUp)
	g.POST("/token", h.Token)
	if h.authService.FirebaseEnabled() {
		g.POST("/auth/firebase-login", h.FirebaseLogin)
	}
}

// SignUp registers a local user with username, email and password
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req models.CreateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.authService.SignUp(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, user)
}

// Token exchanges form-encoded username and password for an access token
func (h *AuthHandler) Token(c echo.Context) error {
	var req models.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	token, err := h.authService.IssueToken(user)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// FirebaseLogin verifies a Firebase ID token and issues a local access token
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req FirebaseLoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	token, err := h.authService.FirebaseLogin(c.Request().Context(), req.IDToken)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.TokenResponse{AccessToken: token, TokenType: "bearer"})
}
