package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/anonto42/nano-posts/backend/internal/apperrors"
	"github.com/anonto42/nano-posts/backend/internal/middleware"
	"github.com/anonto42/nano-posts/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifRepo repositories.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notificationRepository: notifRepo}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group, requireUser ...echo.MiddlewareFunc) {
	g.GET("/notifications", h.GetNotifications, requireUser...)
	g.PUT("/notifications/:id/read", h.MarkAsRead, requireUser...)
}

// GetNotifications returns the current user's notifications, newest first
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	skip, _ := strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if skip < 0 {
		skip = 0
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}

	user := middleware.CurrentUser(c)
	notifications, err := h.notificationRepository.GetByRecipientID(c.Request().Context(), user.ID, skip, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, notifications)
}

// MarkAsRead marks one of the current user's notifications as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	user := middleware.CurrentUser(c)
	err := h.notificationRepository.MarkAsRead(c.Request().Context(), c.Param("id"), user.ID)
	if errors.Is(err, repositories.ErrNotificationNotFound) {
		return apperrors.NotFound("Notification not found")
	}
	if err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
