package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"golang.org/x/time/rate"

	"sugarmill-monitor/internal/config"
	"sugarmill-monitor/internal/logging"
	"sugarmill-monitor/internal/models"
	"sugarmill-monitor/internal/utils"
)

// telegramLimiter is the global rate limiter for Telegram messages
var telegramLimiter *rate.Limiter

func initTelegramLimiter(ratePerSecond int) {
	telegramLimiter = rate.NewLimiter(rate.Limit(float64(ratePerSecond)), ratePerSecond)
}

// SendTelegram forwards an alert to the configured operator chat via the
// go-telegram/bot library.
func SendTelegram(ctx context.Context, alert models.Alert, cfg config.Config, logger *logging.Logger) error {
	if telegramLimiter == nil {
		initTelegramLimiter(cfg.Escalation.TelegramRateLimit)
	}
	if err := telegramLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("telegram rate limit exceeded: %w", err)
	}

	if cfg.Escalation.TelegramBotToken == "" {
		return fmt.Errorf("missing telegram bot token")
	}
	if cfg.Escalation.TelegramChatID == 0 {
		return fmt.Errorf("missing telegram chat id")
	}

	text := fmt.Sprintf(
		"*%s alert*\n%s\n\n*Sensor:* %s\n*Type:* %s\n*Raised:* %s",
		alert.Severity,
		alert.Message,
		alert.SensorID,
		alert.AlertType,
		alert.CreatedAt.Format(time.RFC3339),
	)

	return utils.Retry(logger, 3, time.Second, func() error {
		b, err := bot.New(cfg.Escalation.TelegramBotToken)
		if err != nil {
			return fmt.Errorf("failed to initialize Telegram bot: %w", err)
		}
		params := &bot.SendMessageParams{
			ChatID:    cfg.Escalation.TelegramChatID,
			Text:      text,
			ParseMode: "Markdown",
		}
		if _, err := b.SendMessage(ctx, params); err != nil {
			return fmt.Errorf("failed to send Telegram message to chat_id %d: %w", cfg.Escalation.TelegramChatID, err)
		}
		return nil
	})
}
