package models

// ReactionValue is the value of a reaction: a like or a dislike.
type ReactionValue int

const (
	Dislike ReactionValue = -1
	Like    ReactionValue = 1
)

// Valid reports whether v is one of the allowed reaction values.
func (v ReactionValue) Valid() bool {
	return v == Like || v == Dislike
}

// Reaction is a user's like or dislike of a post.
// The combination of UserID and PostID is unique.
type Reaction struct {
	ID     uint          `json:"id" gorm:"primaryKey"`
	UserID uint          `json:"user_id" gorm:"not null;uniqueIndex:idx_reactions_user_post"`
	PostID uint          `json:"post_id" gorm:"not null;uniqueIndex:idx_reactions_user_post;index"`
	Value  ReactionValue `json:"value" gorm:"not null"`

	User *User `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Post *Post `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// CreateReactionRequest defines the request body for reacting to a post
type CreateReactionRequest struct {
	Value int `json:"value" validate:"required,oneof=-1 1"`
}
