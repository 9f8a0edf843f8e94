package repositories

import (
	"context"
	"errors"

	"github.com/anonto42/nano-posts/backend/internal/models"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id uint) (*models.Post, error)
	GetAllPosts(ctx context.Context, skip, limit int) ([]models.Post, error)
	UpdatePost(ctx context.Context, id uint, req models.UpdatePostRequest) (*models.Post, error)
	DeletePost(ctx context.Context, id uint) (bool, error)
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// CreatePost creates a new post
func (r *PostgresPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// GetPostByID retrieves a post by ID. It returns nil, nil when the post does not exist.
func (r *PostgresPostRepository) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetAllPosts retrieves posts ordered by id. A non-positive limit returns every post.
func (r *PostgresPostRepository) GetAllPosts(ctx context.Context, skip, limit int) ([]models.Post, error) {
	posts := []models.Post{}
	q := r.db.WithContext(ctx).Order("id").Offset(skip)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdatePost applies the non-nil fields of req to the post and returns the result.
// It returns nil, nil when the post does not exist.
func (r *PostgresPostRepository) UpdatePost(ctx context.Context, id uint, req models.UpdatePostRequest) (*models.Post, error) {
	updates := map[string]any{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Text != nil {
		updates["text"] = *req.Text
	}

	var post models.Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&post, id).Error; err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&post).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&post, id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost deletes a post by ID; its reactions go with it through the foreign key cascade.
func (r *PostgresPostRepository) DeletePost(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
