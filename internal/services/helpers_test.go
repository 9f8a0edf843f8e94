package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/anonto42/nano-posts/backend/internal/cache"
	"github.com/anonto42/nano-posts/backend/internal/models"
	"github.com/anonto42/nano-posts/backend/internal/repositories"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingCache wraps a real in-process cache and records invalidations.
type recordingCache struct {
	cache.ReactionCache

	mu            sync.Mutex
	invalidated   []uint
	invalidateErr error
}

func newRecordingCache(t *testing.T) *recordingCache {
	t.Helper()

	inner, err := cache.NewSturdycCache(cache.DefaultConfig())
	require.NoError(t, err)
	return &recordingCache{ReactionCache: inner}
}

func (c *recordingCache) Invalidate(ctx context.Context, postID uint) error {
	c.mu.Lock()
	c.invalidated = append(c.invalidated, postID)
	err := c.invalidateErr
	c.mu.Unlock()

	if err != nil {
		return err
	}
	return c.ReactionCache.Invalidate(ctx, postID)
}

func (c *recordingCache) invalidations() []uint {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]uint(nil), c.invalidated...)
}

// memoryNotifications keeps notifications in a slice.
type memoryNotifications struct {
	mu    sync.Mutex
	items []models.Notification
	err   error
}

func (n *memoryNotifications) CreateNotification(_ context.Context, notification *models.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.items = append(n.items, *notification)
	return nil
}

func (n *memoryNotifications) GetByRecipientID(_ context.Context, recipientID uint, _, _ int64) ([]models.Notification, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []models.Notification
	for _, item := range n.items {
		if item.RecipientID == recipientID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (n *memoryNotifications) MarkAsRead(context.Context, string, uint) error {
	return repositories.ErrNotificationNotFound
}

// untouchablePosts fails the test on any storage access.
type untouchablePosts struct {
	repositories.PostRepository
	t *testing.T
}

func (p untouchablePosts) GetPostByID(context.Context, uint) (*models.Post, error) {
	p.t.Fatal("post storage must not be reached")
	return nil, errors.New("unreachable")
}
