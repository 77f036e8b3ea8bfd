package fx

import (
	"github.com/9049480440/vk-hashtag-monitor/internal/repositories/post"
	"go.uber.org/fx"
)

var Module = fx.Options(
	post.Module,
)
