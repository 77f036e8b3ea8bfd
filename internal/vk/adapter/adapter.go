// Package adapter normalizes raw VK API records into the canonical post
// schema. Everything here is pure: no I/O, no clock reads.
package adapter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/9049480440/vk-hashtag-monitor/internal/domain"
	"github.com/9049480440/vk-hashtag-monitor/pkg/errors"
)

// PostID builds the composite post identifier "{owner_id}_{post_id}".
func PostID(ownerID, postID int64) string {
	return fmt.Sprintf("%d_%d", ownerID, postID)
}

// ParsePostID splits a composite id back into owner and post parts.
func ParsePostID(id string) (int64, int64, error) {
	parts := strings.Split(id, "_")
	if len(parts) != 2 {
		return 0, 0, errors.Wrap(errors.ErrInvalidInput, fmt.Sprintf("malformed post id %q", id))
	}
	ownerID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, errors.Wrap(err, fmt.Sprintf("malformed owner id in %q", id))
	}
	postID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, 0, errors.Wrap(err, fmt.Sprintf("malformed post part in %q", id))
	}
	return ownerID, postID, nil
}

// PostURL builds the canonical wall link for a post.
func PostURL(ownerID, postID int64) string {
	return fmt.Sprintf("https://vk.com/wall%d_%d", ownerID, postID)
}

// OwnerID picks the owner from whichever raw field carries it;
// owner_id wins, from_id is the fallback.
func OwnerID(raw *domain.RawPost) int64 {
	if raw.OwnerID != 0 {
		return raw.OwnerID
	}
	return raw.FromID
}

// ExtractVideoInfo scans the attachment list in order and returns the first
// video attachment's metadata. No video attachment yields the zero value.
func ExtractVideoInfo(raw *domain.RawPost) domain.VideoInfo {
	for _, att := range raw.Attachments {
		if att.Type != "video" || att.Video == nil {
			continue
		}
		return domain.VideoInfo{
			HasVideo:      true,
			VideoViews:    att.Video.Views,
			VideoDuration: att.Video.Duration,
			VideoTitle:    att.Video.Title,
		}
	}
	return domain.VideoInfo{}
}

// ExtractMetrics reads the engagement counters; any missing counter block
// counts as zero.
func ExtractMetrics(raw *domain.RawPost) domain.Metrics {
	return domain.Metrics{
		PostViews: countOf(raw.Views),
		Likes:     countOf(raw.Likes),
		Comments:  countOf(raw.Comments),
		Reposts:   countOf(raw.Reposts),
	}
}

func countOf(c *domain.Count) int {
	if c == nil {
		return 0
	}
	return c.Count
}

// ToPost assembles the full canonical record for a newly discovered post,
// stamping both first_collected and last_updated to now.
func ToPost(raw *domain.RawPost, sourceType domain.SourceType, ownerName, hashtag string, now time.Time) *domain.Post {
	ownerID := OwnerID(raw)
	metrics := ExtractMetrics(raw)
	video := ExtractVideoInfo(raw)
	ts := now.Unix()

	return &domain.Post{
		PostID:         PostID(ownerID, raw.ID),
		SourceType:     sourceType,
		OwnerID:        ownerID,
		OwnerName:      ownerName,
		PostURL:        PostURL(ownerID, raw.ID),
		Text:           raw.Text,
		DatePublished:  raw.Date,
		PostViews:      metrics.PostViews,
		Likes:          metrics.Likes,
		Comments:       metrics.Comments,
		Reposts:        metrics.Reposts,
		HasVideo:       video.HasVideo,
		VideoViews:     video.VideoViews,
		VideoDuration:  video.VideoDuration,
		VideoTitle:     video.VideoTitle,
		FirstCollected: ts,
		LastUpdated:    ts,
		Hashtag:        hashtag,
	}
}

// ToMetricsUpdate extracts only the refreshable fields of a post;
// first_collected and the identity fields are left alone.
func ToMetricsUpdate(raw *domain.RawPost, now time.Time) domain.MetricsUpdate {
	return domain.MetricsUpdate{
		Metrics:     ExtractMetrics(raw),
		VideoInfo:   ExtractVideoInfo(raw),
		LastUpdated: now.Unix(),
	}
}
