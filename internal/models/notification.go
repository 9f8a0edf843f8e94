package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const NotificationTypeReaction = "reaction"

// Notification tells a post owner that someone reacted to their post (MongoDB)
type Notification struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Type        string             `json:"type" bson:"type"`
	ActorID     uint               `json:"actor_id" bson:"actor_id"`
	RecipientID uint               `json:"recipient_id" bson:"recipient_id"`
	PostID      uint               `json:"post_id" bson:"post_id"`
	Value       ReactionValue      `json:"value" bson:"value"`
	Message     string             `json:"message" bson:"message"`
	IsRead      bool               `json:"is_read" bson:"is_read"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}
