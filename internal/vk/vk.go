package vk

import (
	"context"

	"github.com/9049480440/vk-hashtag-monitor/internal/domain"
)

// Client wraps the VK API surface the collector needs. Implementations own
// rate limiting: every remote call is followed by the configured pause.
type Client interface {
	// SearchPosts queries newsfeed.search for posts matching the hashtag.
	// Transient API failures yield an empty result, not an error.
	SearchPosts(ctx context.Context, hashtag string, count int) ([]domain.RawPost, error)

	// GetPostByID fetches a single post via wall.getById. A deleted or
	// access-restricted post returns errors.ErrNotFound.
	GetPostByID(ctx context.Context, ownerID, postID int64) (*domain.RawPost, error)

	// GetGroupName resolves a community display name by its positive id.
	GetGroupName(ctx context.Context, groupID int64) (string, error)

	// GetUserName resolves a user's full name by id.
	GetUserName(ctx context.Context, userID int64) (string, error)
}
