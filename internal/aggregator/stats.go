package aggregator

import (
	"context"
	"time"

	"github.com/9049480440/vk-hashtag-monitor/internal/domain"
	"github.com/9049480440/vk-hashtag-monitor/pkg/errors"
)

// DefaultRecentWindow is the lookback used by the "last 24 hours" report
// section.
const DefaultRecentWindow = 24 * time.Hour

// GetTotalStats computes corpus-wide sums and the average engagement rate.
func (a *Aggregator) GetTotalStats(ctx context.Context) (TotalStats, error) {
	a.Logger.Info("Computing total stats")

	posts, err := a.PostRepo.GetAll(ctx)
	if err != nil {
		return TotalStats{}, errors.Wrap(err, "failed to load posts")
	}
	if len(posts) == 0 {
		a.Logger.Warn("Post store is empty")
		return TotalStats{}, nil
	}

	var stats TotalStats
	var erSum float64
	for _, p := range posts {
		stats.TotalViews += p.PostViews
		stats.TotalLikes += p.Likes
		stats.TotalComments += p.Comments
		stats.TotalReposts += p.Reposts
		erSum += a.EngagementRate(p)
	}

	stats.TotalPosts = len(posts)
	stats.AvgER = round2(erSum / float64(len(posts)))

	a.Logger.Info("Total stats computed", "posts", stats.TotalPosts)
	return stats, nil
}

// GetRecentStats sums engagement over posts published inside the window.
// Filtering is by publication time: a post published days ago but discovered
// today does not count as recent.
func (a *Aggregator) GetRecentStats(ctx context.Context, window time.Duration) (PeriodStats, error) {
	if window <= 0 {
		window = DefaultRecentWindow
	}
	a.Logger.Info("Computing recent stats", "window", window.String())

	since := a.Clock.Now().Add(-window).Unix()

	posts, err := a.PostRepo.GetAll(ctx)
	if err != nil {
		return PeriodStats{}, errors.Wrap(err, "failed to load posts")
	}

	var stats PeriodStats
	for _, p := range posts {
		if p.DatePublished < since {
			continue
		}
		stats.NewPosts++
		stats.Views += p.PostViews
		stats.Likes += p.Likes
		stats.Comments += p.Comments
		stats.Reposts += p.Reposts
	}

	a.Logger.Info("Recent stats computed", "new_posts", stats.NewPosts)
	return stats, nil
}

// Sort keys accepted by GetTopPosts.
const (
	SortByViews    = "views"
	SortByER       = "er"
	SortByComments = "comments"
)

// GetTopPosts returns up to limit posts ranked descending by the chosen
// key. The sort is stable, so ties keep store order; an unknown key falls
// back to views.
func (a *Aggregator) GetTopPosts(ctx context.Context, limit int, sortBy string) ([]*domain.Post, error) {
	a.Logger.Info("Ranking top posts", "limit", limit, "sort_by", sortBy)

	posts, err := a.PostRepo.GetAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load posts")
	}
	if len(posts) == 0 {
		a.Logger.Warn("Post store is empty")
		return nil, nil
	}

	var key func(p *domain.Post) float64
	switch sortBy {
	case SortByViews:
		key = func(p *domain.Post) float64 { return float64(p.PostViews) }
	case SortByER:
		key = a.EngagementRate
	case SortByComments:
		key = func(p *domain.Post) float64 { return float64(p.Comments) }
	default:
		a.Logger.Warn("Unknown sort key, falling back to views", "sort_by", sortBy)
		key = func(p *domain.Post) float64 { return float64(p.PostViews) }
	}

	ranked := make([]*domain.Post, len(posts))
	copy(ranked, posts)
	stableSortDesc(ranked, key)

	if limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// GetBreakdown partitions the corpus by source type and video presence and
// counts distinct authors.
func (a *Aggregator) GetBreakdown(ctx context.Context) (Breakdown, error) {
	a.Logger.Info("Computing breakdown by type")

	posts, err := a.PostRepo.GetAll(ctx)
	if err != nil {
		return Breakdown{}, errors.Wrap(err, "failed to load posts")
	}
	if len(posts) == 0 {
		a.Logger.Warn("Post store is empty")
		return Breakdown{}, nil
	}

	var b Breakdown
	authors := make(map[int64]struct{})
	groupAuthors := make(map[int64]struct{})
	userAuthors := make(map[int64]struct{})

	for _, p := range posts {
		switch p.SourceType {
		case domain.SourceTypeGroup:
			b.Groups++
			groupAuthors[p.OwnerID] = struct{}{}
		case domain.SourceTypeUser:
			b.Users++
			userAuthors[p.OwnerID] = struct{}{}
		}

		if p.HasVideo {
			b.WithVideo++
		} else {
			b.WithoutVideo++
		}

		authors[p.OwnerID] = struct{}{}
	}

	b.UniqueAuthors = UniqueAuthors{
		Total:  len(authors),
		Groups: len(groupAuthors),
		Users:  len(userAuthors),
	}

	a.Logger.Info("Breakdown computed",
		"groups", b.Groups, "users", b.Users, "unique_authors", b.UniqueAuthors.Total)
	return b, nil
}
