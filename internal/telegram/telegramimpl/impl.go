package telegramimpl

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/fx"

	"github.com/9049480440/vk-hashtag-monitor/internal/telegram"
	"github.com/9049480440/vk-hashtag-monitor/pkg/config"
	"github.com/9049480440/vk-hashtag-monitor/pkg/logger"
)

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

type TelegramImpl struct {
	TgBot  *tgbotapi.BotAPI
	Logger logger.Logger
	Config *config.Config
}

func New(opts Opts) (*TelegramImpl, error) {
	tgBot, err := tgbotapi.NewBotAPI(opts.Config.Telegram.Token)
	if err != nil {
		opts.Logger.Error("Error creating bot", "error", err)
		return nil, err
	}

	return &TelegramImpl{
		TgBot:  tgBot,
		Logger: opts.Logger.WithComponent("Telegram"),
		Config: opts.Config,
	}, nil
}

var _ telegram.Client = (*TelegramImpl)(nil)

// SendMessage delivers a MarkdownV2 message to the configured chat.
func (tg *TelegramImpl) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(tg.Config.Telegram.ChatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.DisableWebPagePreview = true

	if _, err := tg.TgBot.Send(msg); err != nil {
		tg.Logger.Error("Error sending message",
			"chat_id", tg.Config.Telegram.ChatID,
			"error", err)
		return err
	}

	tg.Logger.Info("Message sent", "chat_id", tg.Config.Telegram.ChatID)
	return nil
}
