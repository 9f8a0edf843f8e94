package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/anonto42/nano-posts/backend/internal/apperrors"
	"github.com/anonto42/nano-posts/backend/internal/cache"
	"github.com/anonto42/nano-posts/backend/internal/models"
	"github.com/anonto42/nano-posts/backend/internal/repositories"
)

// ReactionService adds, flips, removes and lists reactions. Every successful
// write invalidates the post's cache entry before returning, so a read that
// starts after a write completes never sees the pre-write list.
type ReactionService struct {
	posts         repositories.PostRepository
	reactions     repositories.ReactionRepository
	cache         cache.ReactionCache
	notifications repositories.NotificationRepository
	logger        *slog.Logger
}

// NewReactionService creates a new ReactionService
func NewReactionService(
	posts repositories.PostRepository,
	reactions repositories.ReactionRepository,
	reactionCache cache.ReactionCache,
	notifications repositories.NotificationRepository,
	logger *slog.Logger,
) *ReactionService {
	return &ReactionService{
		posts:         posts,
		reactions:     reactions,
		cache:         reactionCache,
		notifications: notifications,
		logger:        logger,
	}
}

// AddOrFlip records user's reaction to the post, overwriting an earlier one.
func (s *ReactionService) AddOrFlip(ctx context.Context, user *models.User, postID uint, value models.ReactionValue) (*models.Reaction, error) {
	if !value.Valid() {
		return nil, apperrors.Validation("Only -1 or 1 are allowed", nil)
	}

	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := AssertPostExists(post); err != nil {
		return nil, err
	}
	if err := AssertNotSelfReaction(post, user); err != nil {
		return nil, err
	}

	// Update first: the common case is a user changing an existing reaction.
	reaction, err := s.reactions.UpdateReaction(ctx, user.ID, postID, value)
	if errors.Is(err, repositories.ErrReactionNotFound) {
		reaction, err = s.reactions.CreateReaction(ctx, user.ID, postID, value)
	}
	if err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(ctx, postID); err != nil {
		return nil, fmt.Errorf("invalidate reactions of post %d: %w", postID, err)
	}

	s.notifyOwner(ctx, post, user, value)
	return reaction, nil
}

// Remove deletes user's reaction to the post. It fails with a NOTHING_TO_DO
// error when the user never reacted, leaving the cache untouched.
func (s *ReactionService) Remove(ctx context.Context, user *models.User, postID uint) error {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	if err := AssertPostExists(post); err != nil {
		return err
	}

	deleted, err := s.reactions.DeleteReaction(ctx, user.ID, postID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.NothingToDo("you have not reacted to this post yet")
	}

	if err := s.cache.Invalidate(ctx, postID); err != nil {
		return fmt.Errorf("invalidate reactions of post %d: %w", postID, err)
	}
	return nil
}

// List returns the post's reactions, from cache when possible.
// A cache hit is served without checking that the post still exists.
func (s *ReactionService) List(ctx context.Context, postID uint) ([]models.Reaction, error) {
	data, ok, err := s.cache.Get(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("read reactions cache of post %d: %w", postID, err)
	}
	if ok {
		var reactions []models.Reaction
		err := json.Unmarshal(data, &reactions)
		if err == nil {
			return reactions, nil
		}
		s.logger.WarnContext(ctx, "discarding undecodable reactions cache entry",
			slog.Uint64("post_id", uint64(postID)), slog.Any("error", err))
	}

	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := AssertPostExists(post); err != nil {
		return nil, err
	}

	reactions, err := s.reactions.GetReactionsByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if reactions == nil {
		reactions = []models.Reaction{}
	}

	data, err = json.Marshal(reactions)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, postID, data); err != nil {
		return nil, fmt.Errorf("populate reactions cache of post %d: %w", postID, err)
	}
	return reactions, nil
}

// notifyOwner is best-effort: the reaction is already committed and the cache
// invalidated, so a failure here is only logged.
func (s *ReactionService) notifyOwner(ctx context.Context, post *models.Post, actor *models.User, value models.ReactionValue) {
	verb := "liked"
	if value == models.Dislike {
		verb = "disliked"
	}

	notification := &models.Notification{
		Type:        models.NotificationTypeReaction,
		ActorID:     actor.ID,
		RecipientID: post.OwnerID,
		PostID:      post.ID,
		Value:       value,
		Message:     fmt.Sprintf("%s %s your post %q", actor.Username, verb, post.Title),
	}
	if err := s.notifications.CreateNotification(ctx, notification); err != nil {
		s.logger.WarnContext(ctx, "failed to store reaction notification",
			slog.Uint64("post_id", uint64(post.ID)),
			slog.Uint64("actor_id", uint64(actor.ID)),
			slog.Any("error", err))
	}
}
