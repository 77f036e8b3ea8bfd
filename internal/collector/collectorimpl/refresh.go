package collectorimpl

import (
	"context"

	"github.com/9049480440/vk-hashtag-monitor/internal/vk/adapter"
	"github.com/9049480440/vk-hashtag-monitor/pkg/errors"
)

// progressEvery controls how often the refresh loop logs its position.
const progressEvery = 10

// UpdateAllPosts re-fetches every stored post and rewrites its metrics.
// Deleted or inaccessible posts count as errors without stopping the run.
// When a refresh max age is configured, posts published before the cutoff
// are skipped entirely and counted in neither bucket.
func (c *CollectorImpl) UpdateAllPosts(ctx context.Context) (int, int, error) {
	c.Logger.Info("Refreshing metrics of all stored posts")

	posts, err := c.PostRepo.GetAll(ctx)
	if err != nil {
		return 0, 0, errors.Wrap(err, "failed to load stored posts")
	}
	if len(posts) == 0 {
		c.Logger.Info("No stored posts to refresh")
		return 0, 0, nil
	}

	var cutoff int64
	if maxAge := c.Config.Collector.RefreshMaxAge; maxAge > 0 {
		cutoff = c.Clock.Now().Add(-maxAge).Unix()
		c.Logger.Info("Refresh staleness cutoff active", "max_age", maxAge.String())
	}

	total := len(posts)
	c.Logger.Info("Posts to refresh", "count", total)

	updated, failed := 0, 0
	for i, p := range posts {
		if cutoff > 0 && p.DatePublished < cutoff {
			c.Logger.Debug("Post older than refresh cutoff, skipping", "post_id", p.PostID)
			continue
		}

		if c.refreshPost(ctx, p.PostID) {
			updated++
		} else {
			failed++
		}

		if (i+1)%progressEvery == 0 {
			c.Logger.Info("Refresh progress",
				"processed", i+1, "total", total, "updated", updated, "failed", failed)
		}
	}

	c.Logger.Info("Refresh finished", "updated", updated, "failed", failed, "total", total)
	return updated, failed, nil
}

func (c *CollectorImpl) refreshPost(ctx context.Context, postID string) bool {
	ownerID, id, err := adapter.ParsePostID(postID)
	if err != nil {
		c.Logger.Error("Stored post has malformed id", "post_id", postID, "error", err)
		return false
	}

	raw, err := c.VK.GetPostByID(ctx, ownerID, id)
	if err != nil {
		c.Logger.Warn("Post unavailable for refresh", "post_id", postID, "error", err)
		return false
	}

	update := adapter.ToMetricsUpdate(raw, c.Clock.Now())

	if err := c.PostRepo.UpdateMetrics(ctx, postID, update); err != nil {
		c.Logger.Warn("Failed to update post metrics", "post_id", postID, "error", err)
		return false
	}

	c.Logger.Debug("Post metrics updated", "post_id", postID)
	return true
}
