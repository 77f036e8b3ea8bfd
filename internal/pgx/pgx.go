package pgx

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"

	"github.com/9049480440/vk-hashtag-monitor/pkg/config"
	"github.com/9049480440/vk-hashtag-monitor/pkg/errors"
	"github.com/9049480440/vk-hashtag-monitor/pkg/logger"
)

type Opts struct {
	fx.In

	LC     fx.Lifecycle
	Logger logger.Logger
	Config *config.Config
}

// New builds the shared connection pool and ties it to the fx lifecycle:
// pinged on start, closed on stop. Pool size comes from POSTGRES_MAX_CONNS.
func New(opts Opts) (*pgxpool.Pool, error) {
	connStr := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		opts.Config.Postgres.User,
		opts.Config.Postgres.Pass,
		opts.Config.Postgres.Host,
		opts.Config.Postgres.Port,
		opts.Config.Postgres.Name,
		opts.Config.Postgres.SslMode,
	)

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, errors.Wrap(err, "invalid postgres connection string")
	}
	if opts.Config.Postgres.MaxConns > 0 {
		poolCfg.MaxConns = opts.Config.Postgres.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create pgx pool")
	}

	opts.LC.Append(
		fx.Hook{
			OnStart: func(ctx context.Context) error {
				if err := pool.Ping(ctx); err != nil {
					return errors.Wrap(err, "failed to ping postgres")
				}
				opts.Logger.Info("Connected to postgres",
					"host", opts.Config.Postgres.Host,
					"database", opts.Config.Postgres.Name,
					"max_conns", poolCfg.MaxConns)
				return nil
			},
			OnStop: func(ctx context.Context) error {
				pool.Close()
				return nil
			},
		},
	)

	return pool, nil
}
