// Package cache holds the read-through, write-invalidate cache that sits in
// front of the reactions read path.
//
// Entries are keyed by post id and hold the JSON encoded list of the post's
// reactions. Writers never patch an entry: any change to a post's reactions
// deletes its entry and the next reader repopulates it from the store. An
// entry holding an empty list is a valid cached state and is distinct from a
// miss.
package cache

import (
	"context"
	"strconv"
)

// KeyPrefix is prepended to the post id to build the cache key.
const KeyPrefix = "reactions:"

// ReactionCache caches the serialized reaction list of a post.
type ReactionCache interface {
	// Get returns the cached list and true, or false on a miss.
	Get(ctx context.Context, postID uint) ([]byte, bool, error)
	// Set stores data as the current entry for the post.
	Set(ctx context.Context, postID uint, data []byte) error
	// Invalidate removes the post's entry. Removing an absent entry is not an error.
	Invalidate(ctx context.Context, postID uint) error
}

// Key returns the cache key of a post's reaction list.
func Key(postID uint) string {
	return KeyPrefix + strconv.FormatUint(uint64(postID), 10)
}
