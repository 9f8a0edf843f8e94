package services

import (
	"github.com/anonto42/nano-posts/backend/internal/apperrors"
	"github.com/anonto42/nano-posts/backend/internal/models"
)

// AssertPostExists must run before any ownership or reaction check so that a
// missing post always wins over authorization and conflict errors.
func AssertPostExists(post *models.Post) error {
	if post == nil {
		return apperrors.NotFound("Post not found")
	}
	return nil
}

// AssertNotSelfReaction rejects a user reacting to their own post.
func AssertNotSelfReaction(post *models.Post, user *models.User) error {
	if post.OwnerID == user.ID {
		return apperrors.SelfReaction()
	}
	return nil
}

// AssertIsOwner gates post update and delete.
func AssertIsOwner(post *models.Post, user *models.User) error {
	if post.OwnerID != user.ID {
		return apperrors.Forbidden("Not authorized")
	}
	return nil
}
