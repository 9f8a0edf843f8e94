package models

import "time"

// Post is a text post owned by a single user.
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"not null"`
	Text      string    `json:"text" gorm:"not null"`
	OwnerID   uint      `json:"owner_id" gorm:"not null;index"`
	Owner     *User     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostWithReactions is a post together with every reaction made on it.
type PostWithReactions struct {
	Post
	Reactions []Reaction `json:"reactions"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Title string `json:"title" validate:"required,min=1"`
	Text  string `json:"text" validate:"required,min=1"`
}

// UpdatePostRequest defines the request body for a partial post update.
// Nil fields are left untouched.
type UpdatePostRequest struct {
	Title *string `json:"title,omitempty" validate:"omitempty,min=1"`
	Text  *string `json:"text,omitempty" validate:"omitempty,min=1"`
}
