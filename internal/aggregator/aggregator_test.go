package aggregator_test

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/9049480440/vk-hashtag-monitor/internal/aggregator"
	"github.com/9049480440/vk-hashtag-monitor/internal/domain"
	"github.com/9049480440/vk-hashtag-monitor/pkg/config"
	"github.com/9049480440/vk-hashtag-monitor/pkg/logger"
)

// fakeRepo serves a fixed corpus; only the read side matters here.
type fakeRepo struct {
	posts []*domain.Post
}

func (f *fakeRepo) Exists(ctx context.Context, postID string) (bool, error) { return false, nil }
func (f *fakeRepo) Create(ctx context.Context, post *domain.Post) error     { return nil }
func (f *fakeRepo) UpdateMetrics(ctx context.Context, postID string, update domain.MetricsUpdate) error {
	return nil
}
func (f *fakeRepo) GetAll(ctx context.Context) ([]*domain.Post, error) { return f.posts, nil }
func (f *fakeRepo) GetByDateRange(ctx context.Context, start, end int64) ([]*domain.Post, error) {
	var out []*domain.Post
	for _, p := range f.posts {
		if p.DatePublished >= start && p.DatePublished <= end {
			out = append(out, p)
		}
	}
	return out, nil
}
func (f *fakeRepo) Count(ctx context.Context) (int, error) { return len(f.posts), nil }

func newAggregator(t *testing.T, posts []*domain.Post, now time.Time, startDate string) *aggregator.Aggregator {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.Timezone = "UTC"
	cfg.VK.StartDate = startDate

	return aggregator.New(aggregator.Opts{
		PostRepo: &fakeRepo{posts: posts},
		Logger:   logger.New(logger.Opts{}),
		Config:   cfg,
		Clock:    clockwork.NewFakeClockAt(now),
	})
}

func TestEngagementRate(t *testing.T) {
	now := time.Date(2025, 8, 10, 12, 0, 0, 0, time.UTC)
	a := newAggregator(t, nil, now, "")

	assert.Equal(t, 0.0, a.EngagementRate(&domain.Post{PostViews: 0, Likes: 5}))
	assert.Equal(t, 3.0, a.EngagementRate(&domain.Post{PostViews: 100, Likes: 2, Comments: 1, Reposts: 0}))
	assert.Equal(t, 33.33, a.EngagementRate(&domain.Post{PostViews: 3, Likes: 1}))
}

func TestGetTotalStats(t *testing.T) {
	now := time.Date(2025, 8, 10, 12, 0, 0, 0, time.UTC)
	posts := []*domain.Post{
		{PostViews: 100, Likes: 2, Comments: 1, Reposts: 0}, // ER 3.0
		{PostViews: 0, Likes: 50},                           // ER 0.0
		{PostViews: 200, Likes: 10, Comments: 2},            // ER 6.0
	}

	a := newAggregator(t, posts, now, "")
	stats, err := a.GetTotalStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalPosts)
	assert.Equal(t, 300, stats.TotalViews)
	assert.Equal(t, 62, stats.TotalLikes)
	assert.Equal(t, 3, stats.TotalComments)
	assert.Equal(t, 0, stats.TotalReposts)
	// Mean of per-post rates, not aggregate engagement over aggregate views.
	assert.Equal(t, 3.0, stats.AvgER)
}

func TestGetTotalStatsEmptyCorpus(t *testing.T) {
	now := time.Date(2025, 8, 10, 12, 0, 0, 0, time.UTC)
	a := newAggregator(t, nil, now, "")

	stats, err := a.GetTotalStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, aggregator.TotalStats{}, stats)
}

func TestGetRecentStatsFiltersByPublicationTime(t *testing.T) {
	now := time.Date(2025, 8, 10, 12, 0, 0, 0, time.UTC)
	posts := []*domain.Post{
		{DatePublished: now.Add(-2 * time.Hour).Unix(), PostViews: 10, Likes: 1},
		// Published three days ago even though just collected: not recent.
		{DatePublished: now.Add(-72 * time.Hour).Unix(), FirstCollected: now.Unix(), PostViews: 99},
	}

	a := newAggregator(t, posts, now, "")
	stats, err := a.GetRecentStats(context.Background(), 24*time.Hour)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.NewPosts)
	assert.Equal(t, 10, stats.Views)
	assert.Equal(t, 1, stats.Likes)
}

func TestGetTopPosts(t *testing.T) {
	now := time.Date(2025, 8, 10, 12, 0, 0, 0, time.UTC)
	posts := []*domain.Post{
		{PostID: "a", PostViews: 10},
		{PostID: "b", PostViews: 50},
		{PostID: "c", PostViews: 30},
	}

	a := newAggregator(t, posts, now, "")

	top, err := a.GetTopPosts(context.Background(), 2, aggregator.SortByViews)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "b", top[0].PostID)
	assert.Equal(t, "c", top[1].PostID)
}

func TestGetTopPostsUnknownKeyFallsBackToViews(t *testing.T) {
	now := time.Date(2025, 8, 10, 12, 0, 0, 0, time.UTC)
	posts := []*domain.Post{
		{PostID: "a", PostViews: 10},
		{PostID: "b", PostViews: 50},
	}

	a := newAggregator(t, posts, now, "")

	top, err := a.GetTopPosts(context.Background(), 10, "nope")
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "b", top[0].PostID)
}

func TestGetTopPostsStableTieBreak(t *testing.T) {
	now := time.Date(2025, 8, 10, 12, 0, 0, 0, time.UTC)
	posts := []*domain.Post{
		{PostID: "first", PostViews: 10},
		{PostID: "second", PostViews: 10},
	}

	a := newAggregator(t, posts, now, "")

	top, err := a.GetTopPosts(context.Background(), 2, aggregator.SortByViews)
	require.NoError(t, err)
	assert.Equal(t, "first", top[0].PostID)
	assert.Equal(t, "second", top[1].PostID)
}

func TestGetDailyDynamicsGapFilling(t *testing.T) {
	now := time.Date(2025, 8, 5, 15, 0, 0, 0, time.UTC)
	day1 := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	day5 := time.Date(2025, 8, 5, 9, 0, 0, 0, time.UTC)

	posts := []*domain.Post{
		{DatePublished: day5.Unix(), PostViews: 20, Likes: 2},
		{DatePublished: day1.Unix(), PostViews: 10, Likes: 1},
		{DatePublished: day1.Add(time.Hour).Unix(), PostViews: 5},
	}

	a := newAggregator(t, posts, now, "2025-08-01")

	series, err := a.GetDailyDynamics(context.Background())
	require.NoError(t, err)
	require.Len(t, series, 5)

	assert.Equal(t, "2025-08-01", series[0].Date)
	assert.Equal(t, 2, series[0].NewPosts)
	assert.Equal(t, 15, series[0].Views)
	assert.Equal(t, 2, series[0].TotalPosts)

	for i := 1; i <= 3; i++ {
		assert.Equal(t, 0, series[i].NewPosts)
		assert.Equal(t, 2, series[i].TotalPosts)
	}

	assert.Equal(t, "2025-08-05", series[4].Date)
	assert.Equal(t, 1, series[4].NewPosts)
	assert.Equal(t, 3, series[4].TotalPosts)
}

func TestGetDailyDynamicsInvalidStartDateUsesEarliestPost(t *testing.T) {
	now := time.Date(2025, 8, 3, 12, 0, 0, 0, time.UTC)
	posts := []*domain.Post{
		{DatePublished: time.Date(2025, 8, 2, 8, 0, 0, 0, time.UTC).Unix()},
	}

	a := newAggregator(t, posts, now, "02.08.2025")

	series, err := a.GetDailyDynamics(context.Background())
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, "2025-08-02", series[0].Date)
}

func TestGetDailyDynamicsEmptyCorpus(t *testing.T) {
	now := time.Date(2025, 8, 3, 12, 0, 0, 0, time.UTC)
	a := newAggregator(t, nil, now, "2025-08-01")

	series, err := a.GetDailyDynamics(context.Background())
	require.NoError(t, err)
	assert.Nil(t, series)
}

func TestGetBreakdown(t *testing.T) {
	now := time.Date(2025, 8, 10, 12, 0, 0, 0, time.UTC)
	posts := []*domain.Post{
		{OwnerID: -1, SourceType: domain.SourceTypeGroup, HasVideo: true},
		{OwnerID: -1, SourceType: domain.SourceTypeGroup},
		{OwnerID: -2, SourceType: domain.SourceTypeGroup},
		{OwnerID: 5, SourceType: domain.SourceTypeUser},
	}

	a := newAggregator(t, posts, now, "")
	b, err := a.GetBreakdown(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, b.Groups)
	assert.Equal(t, 1, b.Users)
	assert.Equal(t, 1, b.WithVideo)
	assert.Equal(t, 3, b.WithoutVideo)
	assert.Equal(t, 3, b.UniqueAuthors.Total)
	assert.Equal(t, 2, b.UniqueAuthors.Groups)
	assert.Equal(t, 1, b.UniqueAuthors.Users)
}
