package vkimpl

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/9049480440/vk-hashtag-monitor/internal/domain"
	"github.com/9049480440/vk-hashtag-monitor/internal/vk/adapter"
	"github.com/9049480440/vk-hashtag-monitor/pkg/errors"
)

// SearchPosts looks up posts matching the hashtag through newsfeed.search.
// A bare keyword is normalized into tag syntax and the page size is capped
// at the platform maximum. Remote failures degrade to an empty result.
func (c *VKImpl) SearchPosts(ctx context.Context, hashtag string, count int) ([]domain.RawPost, error) {
	if !strings.HasPrefix(hashtag, "#") {
		hashtag = "#" + hashtag
	}
	if count > maxSearchCount {
		count = maxSearchCount
	}

	c.logger.Info("Searching posts", "hashtag", hashtag, "count", count)

	params := url.Values{}
	params.Set("q", hashtag)
	params.Set("count", strconv.Itoa(count))

	var result struct {
		Items []domain.RawPost `json:"items"`
	}
	if err := c.call(ctx, "newsfeed.search", params, &result); err != nil {
		var apiErr *apiError
		if errors.As(err, &apiErr) && apiErr.Code == errCodeTooManyCalls {
			c.logger.Warn("VK rate limit hit during search", "hashtag", hashtag)
		} else {
			c.logger.Error("Post search failed", "hashtag", hashtag, "error", err)
		}
		return nil, nil
	}

	c.logger.Info("Posts found", "hashtag", hashtag, "found", len(result.Items))
	return result.Items, nil
}

// GetPostByID fetches the current state of one post via wall.getById.
// Deleted, hidden or otherwise inaccessible posts map to ErrNotFound.
func (c *VKImpl) GetPostByID(ctx context.Context, ownerID, postID int64) (*domain.RawPost, error) {
	composite := adapter.PostID(ownerID, postID)
	c.logger.Debug("Fetching post", "post_id", composite)

	params := url.Values{}
	params.Set("posts", composite)

	var result []domain.RawPost
	if err := c.call(ctx, "wall.getById", params, &result); err != nil {
		var apiErr *apiError
		if errors.As(err, &apiErr) {
			c.logger.Warn("Post inaccessible", "post_id", composite, "error", err)
			return nil, errors.ErrNotFound
		}
		return nil, errors.Wrap(err, fmt.Sprintf("failed to fetch post %s", composite))
	}

	if len(result) == 0 {
		c.logger.Warn("Post not found", "post_id", composite)
		return nil, errors.ErrNotFound
	}
	return &result[0], nil
}
