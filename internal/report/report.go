package report

import "context"

// Client generates one report format. Implementations read the corpus only
// through the aggregator and the post repository's read methods.
type Client interface {
	// GenerateReport builds and delivers the report, returning a
	// human-readable location (file path, chat id).
	GenerateReport(ctx context.Context) (string, error)
}
