package providers

import (
	"context"
	"encoding/json"

	"sugarmill-monitor/internal/bus"
	"sugarmill-monitor/internal/config"
	"sugarmill-monitor/internal/logging"
	"sugarmill-monitor/internal/models"
)

// Escalator forwards inserted alerts to external operator channels. Each
// channel is optional; nothing is sent when neither is configured.
// Delivery failures are logged, never propagated: escalation is best
// effort on top of the persisted alert.
type Escalator struct {
	cfg    config.Config
	logger *logging.Logger
}

func NewEscalator(cfg config.Config, logger *logging.Logger) *Escalator {
	return &Escalator{cfg: cfg, logger: logger}
}

// Enabled reports whether any escalation channel is configured.
func (e *Escalator) Enabled() bool {
	return e.cfg.Escalation.TelegramBotToken != "" || e.cfg.Escalation.SMTPServer != ""
}

// Escalate delivers the alert on every configured channel.
func (e *Escalator) Escalate(ctx context.Context, alert models.Alert) {
	if e.cfg.Escalation.TelegramBotToken != "" {
		if err := SendTelegram(ctx, alert, e.cfg, e.logger); err != nil {
			e.logger.Errorf("Telegram escalation failed for alert %s: %v", alert.ID, err)
		}
	}
	if e.cfg.Escalation.SMTPServer != "" {
		if err := SendEmail(alert, e.cfg); err != nil {
			e.logger.Errorf("Email escalation failed for alert %s: %v", alert.ID, err)
		}
	}
}

// Attach subscribes the escalator to alert-inserted notifications. The
// returned function detaches it.
func (e *Escalator) Attach(ctx context.Context, sub bus.Subscriber) func() {
	return sub.Subscribe(bus.StreamAlertInserted, func(payload []byte) {
		var a models.Alert
		if err := json.Unmarshal(payload, &a); err != nil {
			e.logger.Errorf("Escalator: bad alert payload: %v", err)
			return
		}
		go e.Escalate(ctx, a)
	})
}
