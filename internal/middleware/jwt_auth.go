package middleware

import (
	"context"
	"strings"

	"github.com/anonto42/nano-posts/backend/internal/apperrors"
	"github.com/anonto42/nano-posts/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// UserContextKey is the echo context key holding the authenticated *models.User.
const UserContextKey = "user"

// TokenAuthenticator resolves a bearer token to a user.
type TokenAuthenticator interface {
	UserFromToken(ctx context.Context, token string) (*models.User, error)
}

// JWTAuthMiddleware checks for a valid bearer token and stores its user in the context.
func JWTAuthMiddleware(authenticator TokenAuthenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return apperrors.New(apperrors.ErrUnauthorized, "Not authenticated", nil)
			}

			// Expecting "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return apperrors.New(apperrors.ErrUnauthorized, "Not authenticated", nil)
			}

			user, err := authenticator.UserFromToken(c.Request().Context(), parts[1])
			if err != nil {
				return err
			}

			c.Set(UserContextKey, user)
			return next(c)
		}
	}
}

// RequireActiveUser rejects users whose account has not been activated yet.
// It must run after JWTAuthMiddleware.
func RequireActiveUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := c.Get(UserContextKey).(*models.User)
			if !ok {
				return apperrors.New(apperrors.ErrUnauthorized, "Not authenticated", nil)
			}
			if !user.IsActive {
				return apperrors.New(apperrors.ErrInactiveUser, "Inactive user", nil)
			}
			return next(c)
		}
	}
}

// CurrentUser returns the user stored by JWTAuthMiddleware.
func CurrentUser(c echo.Context) *models.User {
	user, _ := c.Get(UserContextKey).(*models.User)
	return user
}
