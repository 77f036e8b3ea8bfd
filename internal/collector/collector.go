package collector

import "context"

// Client drives the two collection workflows. Both are best-effort over a
// batch: per-item failures are logged and counted, never propagated.
type Client interface {
	// CollectNewPosts ingests posts matching the hashtag that are not yet
	// stored and returns how many were added.
	CollectNewPosts(ctx context.Context, hashtag string) (int, error)

	// UpdateAllPosts refreshes the metrics of every stored post and returns
	// (updated, failed) counts.
	UpdateAllPosts(ctx context.Context) (int, int, error)

	// ScheduleCollection runs the collect cycle on the configured cron
	// schedule until ctx is cancelled. A missing schedule is a no-op.
	ScheduleCollection(ctx context.Context) error
}
