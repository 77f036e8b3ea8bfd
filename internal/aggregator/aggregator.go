// Package aggregator derives reporting statistics from the stored corpus.
// Everything here is read-only over the post repository.
package aggregator

import (
	"math"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/fx"

	"github.com/9049480440/vk-hashtag-monitor/internal/domain"
	"github.com/9049480440/vk-hashtag-monitor/internal/repositories/post"
	"github.com/9049480440/vk-hashtag-monitor/pkg/config"
	"github.com/9049480440/vk-hashtag-monitor/pkg/logger"
)

// TotalStats sums engagement over the whole corpus. AvgER is the mean of
// per-post engagement rates, not total engagement over total views; the two
// differ materially for skewed view distributions and downstream reports
// depend on the former.
type TotalStats struct {
	TotalPosts    int
	TotalViews    int
	TotalLikes    int
	TotalComments int
	TotalReposts  int
	AvgER         float64
}

// PeriodStats sums engagement over a publication-time window.
type PeriodStats struct {
	NewPosts int
	Views    int
	Likes    int
	Comments int
	Reposts  int
}

// DailyStats is one bucket of the gap-filled daily series. TotalPosts is the
// running sum of NewPosts from the series start through this day.
type DailyStats struct {
	Date       string
	NewPosts   int
	Views      int
	Likes      int
	Comments   int
	Reposts    int
	TotalPosts int
}

// UniqueAuthors counts distinct owner ids, split by source type.
type UniqueAuthors struct {
	Total  int
	Groups int
	Users  int
}

// Breakdown partitions the corpus by source type and video presence.
type Breakdown struct {
	Groups        int
	Users         int
	WithVideo     int
	WithoutVideo  int
	UniqueAuthors UniqueAuthors
}

type Opts struct {
	fx.In

	PostRepo post.Repository
	Logger   logger.Logger
	Config   *config.Config
	Clock    clockwork.Clock
}

type Aggregator struct {
	PostRepo post.Repository
	Logger   logger.Logger
	Config   *config.Config
	Clock    clockwork.Clock

	loc *time.Location
}

func New(opts Opts) *Aggregator {
	log := opts.Logger.WithComponent("Aggregator")

	loc, err := time.LoadLocation(opts.Config.App.Timezone)
	if err != nil {
		loc = time.UTC
		log.Warn("Failed to load configured timezone, using UTC",
			"timezone", opts.Config.App.Timezone, "error", err)
	}

	return &Aggregator{
		PostRepo: opts.PostRepo,
		Logger:   log,
		Config:   opts.Config,
		Clock:    opts.Clock,
		loc:      loc,
	}
}

// EngagementRate returns (likes+comments+reposts)/views as a percentage,
// rounded to two decimals. Posts without views have a rate of 0.
func (a *Aggregator) EngagementRate(p *domain.Post) float64 {
	if p.PostViews == 0 {
		return 0.0
	}

	engagement := p.Likes + p.Comments + p.Reposts
	return round2(float64(engagement) / float64(p.PostViews) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
