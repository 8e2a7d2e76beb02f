package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix         = "user:%d"
	PostKeyPrefix         = "post:%d"
	PostsListKey          = "posts:list"
	FollowStatusKeyPrefix = "follow:%d:%d"
	SearchKeyPrefix       = "search:%s"
)

const (
	UserTTL         = 5 * time.Minute
	PostTTL         = 30 * time.Minute
	FollowStatusTTL = 1 * time.Minute
	SearchTTL       = 30 * time.Second
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

// FollowStatusKey is keyed viewer-first; follow edges are directional.
func FollowStatusKey(viewerID, targetID uint) string {
	return fmt.Sprintf(FollowStatusKeyPrefix, viewerID, targetID)
}

func SearchKey(query string) string {
	return fmt.Sprintf(SearchKeyPrefix, query)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

func InvalidateFollowStatus(ctx context.Context, viewerID, targetID uint) {
	Invalidate(ctx, FollowStatusKey(viewerID, targetID))
}

// InvalidatePostsList drops the cached anonymous post listing after any write
// that could change which posts are visible.
func InvalidatePostsList(ctx context.Context) {
	Invalidate(ctx, PostsListKey)
}
