package collectorimpl

import (
	"context"

	"github.com/9049480440/vk-hashtag-monitor/internal/domain"
	"github.com/9049480440/vk-hashtag-monitor/internal/repositories/post"
	"github.com/9049480440/vk-hashtag-monitor/internal/vk/adapter"
	"github.com/9049480440/vk-hashtag-monitor/pkg/errors"
)

// searchCount is how many posts one ingest run asks the search API for.
const searchCount = 100

// CollectNewPosts searches for posts matching the hashtag and stores the
// ones not seen before. One malformed or failing record never aborts the
// batch.
func (c *CollectorImpl) CollectNewPosts(ctx context.Context, hashtag string) (int, error) {
	c.Logger.Info("Collecting new posts", "hashtag", hashtag)

	raws, err := c.VK.SearchPosts(ctx, hashtag, searchCount)
	if err != nil {
		return 0, errors.Wrap(err, "post search failed")
	}
	if len(raws) == 0 {
		c.Logger.Info("No posts found", "hashtag", hashtag)
		return 0, nil
	}

	added := 0
	for i := range raws {
		raw := &raws[i]

		ownerID := adapter.OwnerID(raw)
		if ownerID == 0 || raw.ID == 0 {
			c.Logger.Warn("Post without owner or id, skipping")
			continue
		}

		postID := adapter.PostID(ownerID, raw.ID)

		exists, err := c.PostRepo.Exists(ctx, postID)
		if err != nil {
			c.Logger.Error("Failed to check if post exists", "post_id", postID, "error", err)
			continue
		}
		if exists {
			c.Logger.Debug("Post already stored, skipping", "post_id", postID)
			continue
		}

		if c.processNewPost(ctx, raw, hashtag) {
			added++
		}
	}

	c.Logger.Info("Collection finished", "added", added, "found", len(raws))
	return added, nil
}

func (c *CollectorImpl) processNewPost(ctx context.Context, raw *domain.RawPost, hashtag string) bool {
	ownerID := adapter.OwnerID(raw)
	sourceType, ownerName := c.ownerInfo(ctx, ownerID)

	newPost := adapter.ToPost(raw, sourceType, ownerName, hashtag, c.Clock.Now())

	if err := c.PostRepo.Create(ctx, newPost); err != nil {
		if errors.Is(err, post.ErrAlreadyExists) {
			c.Logger.Warn("Post already exists", "post_id", newPost.PostID)
		} else {
			c.Logger.Error("Failed to save post", "post_id", newPost.PostID, "error", err)
		}
		return false
	}

	c.Logger.Info("New post added", "post_id", newPost.PostID, "owner", ownerName)
	return true
}

// ownerInfo resolves the source type and display name of a post owner.
// Negative ids are communities, positive ids are users; a failed lookup
// substitutes a deterministic placeholder and never blocks ingestion.
func (c *CollectorImpl) ownerInfo(ctx context.Context, ownerID int64) (domain.SourceType, string) {
	if ownerID < 0 {
		groupID := -ownerID
		name, err := c.VK.GetGroupName(ctx, groupID)
		if err != nil {
			c.Logger.Warn("Group name lookup failed, using placeholder", "group_id", groupID)
			return domain.SourceTypeGroup, groupPlaceholder(groupID)
		}
		return domain.SourceTypeGroup, name
	}

	name, err := c.VK.GetUserName(ctx, ownerID)
	if err != nil {
		c.Logger.Warn("User name lookup failed, using placeholder", "user_id", ownerID)
		return domain.SourceTypeUser, userPlaceholder(ownerID)
	}
	return domain.SourceTypeUser, name
}
