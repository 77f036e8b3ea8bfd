package collectorimpl

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// collectCycleTimeout bounds one scheduled collect run; a full refresh over a
// large corpus with the per-call delay can take a while.
const collectCycleTimeout = 30 * time.Minute

// ScheduleCollection sets up a cron job running the full collect cycle
// (ingest then refresh). An empty schedule disables scheduling, keeping the
// one-shot CLI behavior.
func (c *CollectorImpl) ScheduleCollection(ctx context.Context) error {
	schedule := c.Config.Collector.Schedule
	if schedule == "" {
		c.Logger.Info("No collection schedule configured, scheduler disabled")
		return nil
	}

	loc, err := time.LoadLocation(c.Config.App.Timezone)
	if err != nil {
		loc = time.Local
		c.Logger.Warn("Failed to load configured timezone, using local",
			"timezone", c.Config.App.Timezone, "error", err)
	}

	scheduler, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return fmt.Errorf("failed to create collection scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.CronJob(schedule, false),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				c.Logger.Info("Context cancelled, skipping scheduled collection")
				return
			}

			c.Logger.Info("Running scheduled collection cycle")

			runCtx, cancel := context.WithTimeout(ctx, collectCycleTimeout)
			defer cancel()

			added, err := c.CollectNewPosts(runCtx, c.Config.VK.Hashtag)
			if err != nil {
				c.Logger.Error("Scheduled collection failed", "error", err)
				return
			}

			updated, failed, err := c.UpdateAllPosts(runCtx)
			if err != nil {
				c.Logger.Error("Scheduled refresh failed", "error", err)
				return
			}

			c.Logger.Info("Scheduled cycle finished",
				"added", added, "updated", updated, "failed", failed)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule collection: %w", err)
	}

	scheduler.Start()
	c.Logger.Info("Collection scheduler started", "schedule", schedule)

	go func() {
		<-ctx.Done()
		c.Logger.Info("Stopping collection scheduler")
		if err := scheduler.Shutdown(); err != nil {
			c.Logger.Error("Failed to shut down collection scheduler", "error", err)
		}
	}()

	return nil
}
