package aggregator

import (
	"context"
	"sort"
	"time"

	"github.com/9049480440/vk-hashtag-monitor/internal/domain"
	"github.com/9049480440/vk-hashtag-monitor/pkg/errors"
)

const dayFormat = "2006-01-02"

// GetDailyDynamics builds the per-day series from the configured start date
// (falling back to the earliest publication date) through today. Every
// calendar day appears exactly once; days without posts carry zero metrics,
// so the series is regular enough to chart directly.
func (a *Aggregator) GetDailyDynamics(ctx context.Context) ([]DailyStats, error) {
	a.Logger.Info("Computing daily dynamics")

	posts, err := a.PostRepo.GetAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load posts")
	}
	if len(posts) == 0 {
		a.Logger.Warn("Post store is empty")
		return nil, nil
	}

	startDay := a.seriesStart(posts)
	endDay := dayOf(a.Clock.Now().In(a.loc))

	// Bucket posts by publication day. Days outside [startDay, endDay]
	// stay in the map but are never visited below.
	buckets := make(map[string]*DailyStats)
	for _, p := range posts {
		day := time.Unix(p.DatePublished, 0).In(a.loc).Format(dayFormat)
		b, ok := buckets[day]
		if !ok {
			b = &DailyStats{Date: day}
			buckets[day] = b
		}
		b.NewPosts++
		b.Views += p.PostViews
		b.Likes += p.Likes
		b.Comments += p.Comments
		b.Reposts += p.Reposts
	}

	var series []DailyStats
	running := 0
	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		key := day.Format(dayFormat)
		entry := DailyStats{Date: key}
		if b, ok := buckets[key]; ok {
			entry = *b
		}
		running += entry.NewPosts
		entry.TotalPosts = running
		series = append(series, entry)
	}

	a.Logger.Info("Daily dynamics computed",
		"days", len(series), "from", startDay.Format(dayFormat), "to", endDay.Format(dayFormat))
	return series, nil
}

// seriesStart picks the configured start date when it parses, otherwise the
// day the earliest post was published.
func (a *Aggregator) seriesStart(posts []*domain.Post) time.Time {
	if s := a.Config.VK.StartDate; s != "" {
		start, err := time.ParseInLocation(dayFormat, s, a.loc)
		if err == nil {
			a.Logger.Info("Using configured start date", "start_date", s)
			return start
		}
		a.Logger.Warn("Invalid start date, using earliest post", "start_date", s, "error", err)
	}

	earliest := posts[0].DatePublished
	for _, p := range posts[1:] {
		if p.DatePublished < earliest {
			earliest = p.DatePublished
		}
	}
	return dayOf(time.Unix(earliest, 0).In(a.loc))
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// stableSortDesc orders posts descending by key, keeping store order for
// equal keys.
func stableSortDesc(posts []*domain.Post, key func(p *domain.Post) float64) {
	sort.SliceStable(posts, func(i, j int) bool {
		return key(posts[i]) > key(posts[j])
	})
}
