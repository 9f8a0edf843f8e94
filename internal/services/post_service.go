package services

import (
	"context"
	"fmt"

	"github.com/anonto42/nano-posts/backend/internal/apperrors"
	"github.com/anonto42/nano-posts/backend/internal/cache"
	"github.com/anonto42/nano-posts/backend/internal/models"
	"github.com/anonto42/nano-posts/backend/internal/repositories"
)

// PostService handles post CRUD and ownership rules.
type PostService struct {
	posts     repositories.PostRepository
	reactions repositories.ReactionRepository
	cache     cache.ReactionCache
}

// NewPostService creates a new PostService
func NewPostService(posts repositories.PostRepository, reactions repositories.ReactionRepository, reactionCache cache.ReactionCache) *PostService {
	return &PostService{posts: posts, reactions: reactions, cache: reactionCache}
}

func (s *PostService) Create(ctx context.Context, owner *models.User, req models.CreatePostRequest) (*models.Post, error) {
	post := &models.Post{
		Title:   req.Title,
		Text:    req.Text,
		OwnerID: owner.ID,
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) List(ctx context.Context, skip, limit int) ([]models.Post, error) {
	return s.posts.GetAllPosts(ctx, skip, limit)
}

// Get returns a post with its reactions, loaded by an explicit query.
func (s *PostService) Get(ctx context.Context, id uint) (*models.PostWithReactions, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := AssertPostExists(post); err != nil {
		return nil, err
	}

	reactions, err := s.reactions.GetReactionsByPostID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.PostWithReactions{Post: *post, Reactions: reactions}, nil
}

// Update applies a partial update. Only the owner may update a post.
func (s *PostService) Update(ctx context.Context, user *models.User, id uint, req models.UpdatePostRequest) (*models.Post, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := AssertPostExists(post); err != nil {
		return nil, err
	}
	if err := AssertIsOwner(post, user); err != nil {
		return nil, err
	}

	updated, err := s.posts.UpdatePost(ctx, id, req)
	if err != nil {
		return nil, err
	}
	// deleted between the ownership check and the update
	if updated == nil {
		return nil, apperrors.NotFound("Post not found")
	}
	return updated, nil
}

// Delete removes a post owned by user. The reactions are removed by the
// cascade, so the post's cache entry is invalidated as for any reaction write.
func (s *PostService) Delete(ctx context.Context, user *models.User, id uint) error {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return err
	}
	if err := AssertPostExists(post); err != nil {
		return err
	}
	if err := AssertIsOwner(post, user); err != nil {
		return err
	}

	deleted, err := s.posts.DeletePost(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.NotFound("Post not found")
	}

	if err := s.cache.Invalidate(ctx, id); err != nil {
		return fmt.Errorf("invalidate reactions of post %d: %w", id, err)
	}
	return nil
}
