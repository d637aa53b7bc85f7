package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	PostKeyPrefix = "post:%d"
	UserKeyPrefix = "user:%d"

	// FeaturedKey holds the current featured post, or a cached miss.
	FeaturedKey = "feed:featured"
	// RecentKeyPrefix holds one recent-approved feed slice per request limit;
	// slices with different limits must never be served for each other.
	RecentKeyPrefix = "feed:recent:%d"
	// TopTagsKeyPrefix holds one tag popularity listing per request limit.
	TopTagsKeyPrefix = "tags:top:%d"

	recentKeyPattern  = "feed:recent:*"
	topTagsKeyPattern = "tags:top:*"
)

const (
	PostTTL     = 30 * time.Minute
	UserTTL     = 5 * time.Minute
	FeaturedTTL = 1 * time.Minute
	RecentTTL   = 1 * time.Minute
	TopTagsTTL  = 5 * time.Minute
)

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func RecentKey(limit int) string {
	return fmt.Sprintf(RecentKeyPrefix, limit)
}

func TopTagsKey(limit int) string {
	return fmt.Sprintf(TopTagsKeyPrefix, limit)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func invalidatePattern(ctx context.Context, pattern string) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}

// InvalidateFeeds drops every cached feed slice, including every per-limit
// variant. Called after any mutation that can change feed membership or
// ordering (create, moderation, feature, delete, tag updates).
func InvalidateFeeds(ctx context.Context) {
	Invalidate(ctx, FeaturedKey)
	invalidatePattern(ctx, recentKeyPattern)
	invalidatePattern(ctx, topTagsKeyPattern)
}
