package handlers

import (
	"net/http"

	"github.com/anonto42/nano-posts/backend/internal/middleware"
	"github.com/anonto42/nano-posts/backend/internal/models"
	"github.com/anonto42/nano-posts/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// ReactionHandler handles HTTP requests related to reactions
type ReactionHandler struct {
	reactionService *services.ReactionService
}

// NewReactionHandler creates a new ReactionHandler
func NewReactionHandler(reactionService *services.ReactionService) *ReactionHandler {
	return &ReactionHandler{reactionService: reactionService}
}

// RegisterReactionRoutes registers reaction routes. Writes go through requireUser.
func (h *ReactionHandler) RegisterReactionRoutes(g *echo.Group, requireUser ...echo.MiddlewareFunc) {
	g.GET("/posts/:id/reactions", h.ListReactions)
	g.POST("/posts/:id/reactions", h.AddReaction, requireUser...)
	g.DELETE("/posts/:id/reactions", h.RemoveReaction, requireUser...)
}

// AddReaction likes or dislikes a post, replacing the user's earlier reaction
func (h *ReactionHandler) AddReaction(c echo.Context) error {
	postID, err := postIDParam(c)
	if err != nil {
		return err
	}

	var req models.CreateReactionRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	if _, err := h.reactionService.AddOrFlip(c.Request().Context(), user, postID, models.ReactionValue(req.Value)); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Successfully reacted"})
}

// RemoveReaction deletes the user's reaction to a post
func (h *ReactionHandler) RemoveReaction(c echo.Context) error {
	postID, err := postIDParam(c)
	if err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	if err := h.reactionService.Remove(c.Request().Context(), user, postID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// ListReactions returns every reaction on a post
func (h *ReactionHandler) ListReactions(c echo.Context) error {
	postID, err := postIDParam(c)
	if err != nil {
		return err
	}

	reactions, err := h.reactionService.List(c.Request().Context(), postID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, reactions)
}
