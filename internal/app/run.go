package app

import (
	"context"
	"time"

	"go.uber.org/fx"

	"github.com/9049480440/vk-hashtag-monitor/internal/collector"
	"github.com/9049480440/vk-hashtag-monitor/internal/report"
	"github.com/9049480440/vk-hashtag-monitor/internal/repositories/post"
	"github.com/9049480440/vk-hashtag-monitor/pkg/config"
	"github.com/9049480440/vk-hashtag-monitor/pkg/logger"
)

type RunOpts struct {
	fx.In

	LC         fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     logger.Logger
	Config     *config.Config
	Modes      Modes
	Collector  collector.Client
	PostRepo   post.Repository
	Reporters  []report.Client `group:"reporters"`
}

// run executes the selected workflows once the app has started. One-shot
// runs shut the app down with the appropriate exit code; a configured
// collection schedule keeps the process alive.
func run(opts RunOpts) {
	log := opts.Logger.WithComponent("Run")

	opts.LC.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				ctx := context.Background()
				start := time.Now()
				ok := true

				if opts.Modes.Collect {
					ok = runCollect(ctx, log, opts.Config, opts.Collector) && ok
				}
				if opts.Modes.Report {
					ok = runReport(ctx, log, opts.PostRepo, opts.Reporters) && ok
				}

				log.Info("Run finished",
					"elapsed", time.Since(start).Round(100*time.Millisecond).String(),
					"success", ok)

				if opts.Modes.Collect && opts.Config.Collector.Schedule != "" {
					if err := opts.Collector.ScheduleCollection(ctx); err != nil {
						log.Error("Failed to start collection scheduler", "error", err)
						_ = opts.Shutdowner.Shutdown(fx.ExitCode(1))
					}
					// Scheduled mode: stay up until a signal arrives.
					return
				}

				code := 0
				if !ok {
					code = 1
				}
				_ = opts.Shutdowner.Shutdown(fx.ExitCode(code))
			}()
			return nil
		},
	})
}

func runCollect(ctx context.Context, log logger.Logger, cfg *config.Config, col collector.Client) bool {
	log.Info("Collect mode", "hashtag", cfg.VK.Hashtag)

	added, err := col.CollectNewPosts(ctx, cfg.VK.Hashtag)
	if err != nil {
		log.Error("Collection failed", "error", err)
		return false
	}
	log.Info("New posts added", "count", added)

	updated, failed, err := col.UpdateAllPosts(ctx)
	if err != nil {
		log.Error("Metrics refresh failed", "error", err)
		return false
	}
	log.Info("Metrics refreshed", "updated", updated, "failed", failed)

	return true
}

func runReport(ctx context.Context, log logger.Logger, repo post.Repository, reporters []report.Client) bool {
	count, err := repo.Count(ctx)
	if err != nil {
		log.Error("Failed to count stored posts", "error", err)
		return false
	}
	if count == 0 {
		log.Error("Post store is empty, run collection first")
		return false
	}

	log.Info("Report mode", "stored_posts", count)

	ok := true
	for _, r := range reporters {
		location, err := r.GenerateReport(ctx)
		if err != nil {
			log.Error("Report generation failed", "error", err)
			ok = false
			continue
		}
		log.Info("Report generated", "location", location)
	}
	return ok
}
