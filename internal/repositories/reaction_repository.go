package repositories

import (
	"context"
	"errors"

	"github.com/anonto42/nano-posts/backend/internal/apperrors"
	"github.com/anonto42/nano-posts/backend/internal/models"
	"gorm.io/gorm"
)

// ErrReactionNotFound is returned by UpdateReaction when the user has not reacted to the post.
var ErrReactionNotFound = errors.New("reaction not found")

// ReactionRepository defines the interface for reaction data operations
type ReactionRepository interface {
	CreateReaction(ctx context.Context, userID, postID uint, value models.ReactionValue) (*models.Reaction, error)
	UpdateReaction(ctx context.Context, userID, postID uint, value models.ReactionValue) (*models.Reaction, error)
	DeleteReaction(ctx context.Context, userID, postID uint) (bool, error)
	GetReactionsByPostID(ctx context.Context, postID uint) ([]models.Reaction, error)
}

// PostgresReactionRepository implements ReactionRepository on top of gorm
type PostgresReactionRepository struct {
	db *gorm.DB
}

// NewPostgresReactionRepository creates a new PostgresReactionRepository
func NewPostgresReactionRepository(db *gorm.DB) *PostgresReactionRepository {
	return &PostgresReactionRepository{db: db}
}

// CreateReaction inserts a new reaction. The unique (user_id, post_id) index is the
// source of truth for duplicates: a violation is reported as a conflict.
func (r *PostgresReactionRepository) CreateReaction(ctx context.Context, userID, postID uint, value models.ReactionValue) (*models.Reaction, error) {
	reaction := &models.Reaction{
		UserID: userID,
		PostID: postID,
		Value:  value,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(reaction).Error
	})
	switch {
	case err == nil:
		return reaction, nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return nil, apperrors.Conflict("reaction already exists for this user and post", err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return nil, apperrors.New(apperrors.ErrNotFound, "Post not found", err)
	default:
		return nil, err
	}
}

// UpdateReaction overwrites the value of the user's reaction to the post.
// It returns ErrReactionNotFound when no row matched.
func (r *PostgresReactionRepository) UpdateReaction(ctx context.Context, userID, postID uint, value models.ReactionValue) (*models.Reaction, error) {
	var reaction models.Reaction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Reaction{}).
			Where("user_id = ? AND post_id = ?", userID, postID).
			Update("value", value)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrReactionNotFound
		}
		return tx.Where("user_id = ? AND post_id = ?", userID, postID).First(&reaction).Error
	})
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

// DeleteReaction removes the user's reaction to the post and reports whether a row was deleted.
func (r *PostgresReactionRepository) DeleteReaction(ctx context.Context, userID, postID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Reaction{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// GetReactionsByPostID retrieves all reactions for a post. Order is not guaranteed.
func (r *PostgresReactionRepository) GetReactionsByPostID(ctx context.Context, postID uint) ([]models.Reaction, error) {
	reactions := []models.Reaction{}
	if err := r.db.WithContext(ctx).Where("post_id = ?", postID).Find(&reactions).Error; err != nil {
		return nil, err
	}
	return reactions, nil
}
