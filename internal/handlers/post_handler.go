package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/nano-posts/backend/internal/middleware"
	"github.com/anonto42/nano-posts/backend/internal/models"
	"github.com/anonto42/nano-posts/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postService *services.PostService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postService *services.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group, requireUser ...echo.MiddlewareFunc) {
	g.GET("/posts", h.GetPosts)
	g.GET("/posts/:id", h.GetPost)
	g.POST("/posts", h.CreatePost, requireUser...)
	g.PATCH("/posts/:id", h.UpdatePost, requireUser...)
	g.DELETE("/posts/:id", h.DeletePost, requireUser...)
}

// CreatePost creates a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	post, err := h.postService.Create(c.Request().Context(), middleware.CurrentUser(c), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, post)
}

// GetPost retrieves a post with its reactions
func (h *PostHandler) GetPost(c echo.Context) error {
	postID, err := postIDParam(c)
	if err != nil {
		return err
	}

	post, err := h.postService.Get(c.Request().Context(), postID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, post)
}

// GetPosts retrieves posts, optionally paginated with skip and limit
func (h *PostHandler) GetPosts(c echo.Context) error {
	skip, _ := strconv.Atoi(c.QueryParam("skip"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if skip < 0 {
		skip = 0
	}

	posts, err := h.postService.List(c.Request().Context(), skip, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, posts)
}

// UpdatePost partially updates a post owned by the current user
func (h *PostHandler) UpdatePost(c echo.Context) error {
	postID, err := postIDParam(c)
	if err != nil {
		return err
	}

	var req models.UpdatePostRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	post, err := h.postService.Update(c.Request().Context(), middleware.CurrentUser(c), postID, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, post)
}

// DeletePost deletes a post owned by the current user
func (h *PostHandler) DeletePost(c echo.Context) error {
	postID, err := postIDParam(c)
	if err != nil {
		return err
	}

	if err := h.postService.Delete(c.Request().Context(), middleware.CurrentUser(c), postID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
