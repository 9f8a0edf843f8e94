package repositories

import (
	"github.com/anonto42/nano-posts/backend/internal/models"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the relational schema.
// Order matters: posts reference users, reactions reference both.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Reaction{},
	)
}
