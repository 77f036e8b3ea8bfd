package telegramreport

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/fx"

	"github.com/9049480440/vk-hashtag-monitor/internal/aggregator"
	"github.com/9049480440/vk-hashtag-monitor/internal/report"
	"github.com/9049480440/vk-hashtag-monitor/internal/telegram"
	"github.com/9049480440/vk-hashtag-monitor/pkg/config"
	"github.com/9049480440/vk-hashtag-monitor/pkg/errors"
	"github.com/9049480440/vk-hashtag-monitor/pkg/formatter"
	"github.com/9049480440/vk-hashtag-monitor/pkg/logger"
)

// topPostsInMessage keeps the summary short enough for one Telegram message.
const topPostsInMessage = 5

type Opts struct {
	fx.In

	Aggregator *aggregator.Aggregator
	Telegram   telegram.Client
	Logger     logger.Logger
	Config     *config.Config
}

type TelegramReport struct {
	Aggregator *aggregator.Aggregator
	Telegram   telegram.Client
	Logger     logger.Logger
	Config     *config.Config
}

func New(opts Opts) *TelegramReport {
	return &TelegramReport{
		Aggregator: opts.Aggregator,
		Telegram:   opts.Telegram,
		Logger:     opts.Logger.WithComponent("TelegramReport"),
		Config:     opts.Config,
	}
}

var _ report.Client = (*TelegramReport)(nil)

// GenerateReport assembles the summary message and sends it to the
// configured chat.
func (r *TelegramReport) GenerateReport(ctx context.Context) (string, error) {
	r.Logger.Info("Building Telegram summary report")

	text, err := r.BuildSummary(ctx)
	if err != nil {
		return "", err
	}

	if err := r.Telegram.SendMessage(text); err != nil {
		return "", errors.Wrap(err, "failed to deliver Telegram report")
	}

	location := fmt.Sprintf("telegram chat %d", r.Config.Telegram.ChatID)
	r.Logger.Info("Telegram report delivered", "chat_id", r.Config.Telegram.ChatID)
	return location, nil
}

// BuildSummary renders the MarkdownV2 report body.
func (r *TelegramReport) BuildSummary(ctx context.Context) (string, error) {
	total, err := r.Aggregator.GetTotalStats(ctx)
	if err != nil {
		return "", err
	}
	recent, err := r.Aggregator.GetRecentStats(ctx, aggregator.DefaultRecentWindow)
	if err != nil {
		return "", err
	}
	top, err := r.Aggregator.GetTopPosts(ctx, topPostsInMessage, aggregator.SortByViews)
	if err != nil {
		return "", err
	}
	breakdown, err := r.Aggregator.GetBreakdown(ctx)
	if err != nil {
		return "", err
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "*Hashtag report: %s*\n\n", formatter.EscapeMarkdownV2(r.Config.VK.Hashtag))

	sb.WriteString("*Totals*\n")
	fmt.Fprintf(&sb, "Posts: %s\n", formatter.EscapeMarkdownV2(formatter.FormatNumber(total.TotalPosts)))
	fmt.Fprintf(&sb, "Views: %s\n", formatter.EscapeMarkdownV2(formatter.FormatNumber(total.TotalViews)))
	fmt.Fprintf(&sb, "Likes: %s\n", formatter.EscapeMarkdownV2(formatter.FormatNumber(total.TotalLikes)))
	fmt.Fprintf(&sb, "Comments: %s\n", formatter.EscapeMarkdownV2(formatter.FormatNumber(total.TotalComments)))
	fmt.Fprintf(&sb, "Reposts: %s\n", formatter.EscapeMarkdownV2(formatter.FormatNumber(total.TotalReposts)))
	fmt.Fprintf(&sb, "Average ER: %s\n\n", formatter.EscapeMarkdownV2(formatter.FormatPercent(total.AvgER)))

	sb.WriteString("*Last 24 hours*\n")
	fmt.Fprintf(&sb, "New posts: %s\n", formatter.EscapeMarkdownV2(formatter.FormatNumber(recent.NewPosts)))
	fmt.Fprintf(&sb, "Views: %s\n\n", formatter.EscapeMarkdownV2(formatter.FormatNumber(recent.Views)))

	if len(top) > 0 {
		sb.WriteString("*Top posts by views*\n")
		for i, p := range top {
			fmt.Fprintf(&sb, "%d\\. [%s](%s): %s views\n",
				i+1,
				formatter.EscapeMarkdownV2(p.OwnerName),
				p.PostURL,
				formatter.EscapeMarkdownV2(formatter.FormatNumber(p.PostViews)),
			)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("*Breakdown*\n")
	fmt.Fprintf(&sb, "Groups: %s, users: %s\n",
		formatter.EscapeMarkdownV2(formatter.FormatNumber(breakdown.Groups)),
		formatter.EscapeMarkdownV2(formatter.FormatNumber(breakdown.Users)))
	fmt.Fprintf(&sb, "With video: %s, without: %s\n",
		formatter.EscapeMarkdownV2(formatter.FormatNumber(breakdown.WithVideo)),
		formatter.EscapeMarkdownV2(formatter.FormatNumber(breakdown.WithoutVideo)))
	fmt.Fprintf(&sb, "Unique authors: %s\n",
		formatter.EscapeMarkdownV2(formatter.FormatNumber(breakdown.UniqueAuthors.Total)))

	return sb.String(), nil
}
