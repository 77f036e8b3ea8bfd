package collectorimpl

import (
	"fmt"

	"github.com/jonboulle/clockwork"
	"go.uber.org/fx"

	"github.com/9049480440/vk-hashtag-monitor/internal/collector"
	"github.com/9049480440/vk-hashtag-monitor/internal/repositories/post"
	"github.com/9049480440/vk-hashtag-monitor/internal/vk"
	"github.com/9049480440/vk-hashtag-monitor/pkg/config"
	"github.com/9049480440/vk-hashtag-monitor/pkg/logger"
)

type Opts struct {
	fx.In

	VK       vk.Client
	PostRepo post.Repository
	Logger   logger.Logger
	Config   *config.Config
	Clock    clockwork.Clock
}

type CollectorImpl struct {
	VK       vk.Client
	PostRepo post.Repository
	Logger   logger.Logger
	Config   *config.Config
	Clock    clockwork.Clock
}

func New(opts Opts) *CollectorImpl {
	return &CollectorImpl{
		VK:       opts.VK,
		PostRepo: opts.PostRepo,
		Logger:   opts.Logger.WithComponent("Collector"),
		Config:   opts.Config,
		Clock:    opts.Clock,
	}
}

var _ collector.Client = (*CollectorImpl)(nil)

func groupPlaceholder(groupID int64) string {
	return fmt.Sprintf("Group %d", groupID)
}

func userPlaceholder(userID int64) string {
	return fmt.Sprintf("User %d", userID)
}
