package app

import (
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/jonboulle/clockwork"
	"github.com/pressly/goose/v3"
	"go.uber.org/fx"

	"github.com/9049480440/vk-hashtag-monitor/internal/aggregator"
	"github.com/9049480440/vk-hashtag-monitor/internal/collector"
	"github.com/9049480440/vk-hashtag-monitor/internal/collector/collectorimpl"
	_ "github.com/9049480440/vk-hashtag-monitor/internal/migrations"
	"github.com/9049480440/vk-hashtag-monitor/internal/pgx"
	"github.com/9049480440/vk-hashtag-monitor/internal/report"
	"github.com/9049480440/vk-hashtag-monitor/internal/report/sheetreport"
	"github.com/9049480440/vk-hashtag-monitor/internal/report/telegramreport"
	repositories "github.com/9049480440/vk-hashtag-monitor/internal/repositories/fx"
	"github.com/9049480440/vk-hashtag-monitor/internal/telegram"
	"github.com/9049480440/vk-hashtag-monitor/internal/telegram/telegramimpl"
	"github.com/9049480440/vk-hashtag-monitor/internal/vk"
	"github.com/9049480440/vk-hashtag-monitor/internal/vk/vkimpl"
	"github.com/9049480440/vk-hashtag-monitor/pkg/config"
	"github.com/9049480440/vk-hashtag-monitor/pkg/logger"
)

// Modes selects which workflows a run performs; supplied from the CLI flags.
type Modes struct {
	Collect bool
	Report  bool
}

var Module = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		pgx.New,
		func() clockwork.Clock { return clockwork.NewRealClock() },
	),
	fx.Provide(
		fx.Annotate(
			vkimpl.New,
			fx.As(new(vk.Client)),
		),
		fx.Annotate(
			telegramimpl.New,
			fx.As(new(telegram.Client)),
		),
		fx.Annotate(
			collectorimpl.New,
			fx.As(new(collector.Client)),
		),
		aggregator.New,
		fx.Annotate(
			sheetreport.New,
			fx.As(new(report.Client)),
			fx.ResultTags(`group:"reporters"`),
		),
		fx.Annotate(
			telegramreport.New,
			fx.As(new(report.Client)),
			fx.ResultTags(`group:"reporters"`),
		),
	),
	repositories.Module,
	fx.Invoke(migrate),
	fx.Invoke(run),
)

// migrate brings the posts schema up to date before anything touches the
// pool. Go migrations are registered by the blank migrations import.
func migrate(cfg *config.Config, log logger.Logger) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := goose.Up(db, "."); err != nil {
		return err
	}

	log.Info("Database schema is up to date")
	return nil
}
