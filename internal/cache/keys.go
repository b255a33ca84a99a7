package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	postKeyPrefix    = "post:%d"
	publishedListKey = "posts:published:front"
)

const (
	// PostTTL bounds how stale a cached post may get for anonymous readers.
	PostTTL = 30 * time.Minute
	// ListTTL is short: the front page changes on every approval and like.
	ListTTL = 1 * time.Minute
)

// PostKey returns the cache key for a single post.
func PostKey(postID uint) string {
	return fmt.Sprintf(postKeyPrefix, postID)
}

// PublishedListKey returns the cache key for the first page of the default
// published listing.
func PublishedListKey() string {
	return publishedListKey
}

// Invalidate removes a key; no-op when Redis is unavailable.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidatePost drops the cached post entry.
func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

// InvalidatePublishedList drops the cached front page.
func InvalidatePublishedList(ctx context.Context) {
	Invalidate(ctx, publishedListKey)
}
