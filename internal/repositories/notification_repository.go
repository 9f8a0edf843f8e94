package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/nano-posts/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotificationNotFound is returned when marking an unknown notification as read.
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	GetByRecipientID(ctx context.Context, recipientID uint, skip, limit int64) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, id string, recipientID uint) error
}

// MongoNotificationRepository implements NotificationRepository for MongoDB
type MongoNotificationRepository struct {
	collection *mongo.Collection
}

// NewMongoNotificationRepository creates a new MongoNotificationRepository
func NewMongoNotificationRepository(db *mongo.Database) *MongoNotificationRepository {
	return &MongoNotificationRepository{collection: db.Collection("notifications")}
}

// CreateNotification stores a new notification
func (r *MongoNotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	notification.ID = primitive.NewObjectID()
	notification.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, notification)
	return err
}

// GetByRecipientID returns a recipient's notifications, newest first
func (r *MongoNotificationRepository) GetByRecipientID(ctx context.Context, recipientID uint, skip, limit int64) ([]models.Notification, error) {
	notifications := []models.Notification{}
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"recipient_id": recipientID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkAsRead marks one of the recipient's notifications as read
func (r *MongoNotificationRepository) MarkAsRead(ctx context.Context, id string, recipientID uint) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotificationNotFound, id)
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objID, "recipient_id": recipientID},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// NopNotificationRepository is used when no MongoDB is configured.
// It drops writes and reports an empty inbox.
type NopNotificationRepository struct{}

func (NopNotificationRepository) CreateNotification(context.Context, *models.Notification) error {
	return nil
}

func (NopNotificationRepository) GetByRecipientID(context.Context, uint, int64, int64) ([]models.Notification, error) {
	return []models.Notification{}, nil
}

func (NopNotificationRepository) MarkAsRead(context.Context, string, uint) error {
	return ErrNotificationNotFound
}
