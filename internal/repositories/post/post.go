package post

import (
	"context"
	"errors"

	"github.com/9049480440/vk-hashtag-monitor/internal/domain"
)

var (
	ErrAlreadyExists = errors.New("post already exists")
	ErrNotFound      = errors.New("post not found")
)

// Repository is the durable post store. Create is the sole deduplication
// gate: inserting an existing post_id fails with ErrAlreadyExists and leaves
// the stored record untouched.
type Repository interface {
	// Exists checks if a post with the given composite id is already stored.
	Exists(ctx context.Context, postID string) (bool, error)

	// Create inserts a newly discovered post.
	Create(ctx context.Context, post *domain.Post) error

	// UpdateMetrics applies a partial metrics refresh to one post,
	// restamping last_updated. Unknown ids yield ErrNotFound.
	UpdateMetrics(ctx context.Context, postID string, update domain.MetricsUpdate) error

	// GetAll returns every stored post, newest date_published first.
	GetAll(ctx context.Context) ([]*domain.Post, error)

	// GetByDateRange returns posts published inside [start, end], inclusive.
	GetByDateRange(ctx context.Context, start, end int64) ([]*domain.Post, error)

	// Count returns the number of stored posts.
	Count(ctx context.Context) (int, error)
}
