package providers

import (
	"fmt"
	"net/smtp"

	"sugarmill-monitor/internal/config"
	"sugarmill-monitor/internal/models"
)

// SendEmail forwards an alert to the configured operator mailbox over SMTP.
func SendEmail(alert models.Alert, cfg config.Config) error {
	esc := cfg.Escalation
	if esc.SMTPServer == "" || esc.EmailTo == "" {
		return fmt.Errorf("email escalation not configured")
	}

	subject := fmt.Sprintf("[%s] Sensor alert: %s", alert.Severity, alert.AlertType)
	body := fmt.Sprintf("%s\r\n\r\nSensor: %s\r\nRaised: %s\r\n",
		alert.Message, alert.SensorID, alert.CreatedAt)
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		esc.EmailFrom, esc.EmailTo, subject, body))

	addr := fmt.Sprintf("%s:%d", esc.SMTPServer, esc.SMTPPort)
	auth := smtp.PlainAuth("", esc.SMTPUsername, esc.SMTPPassword, esc.SMTPServer)
	if err := smtp.SendMail(addr, auth, esc.EmailFrom, []string{esc.EmailTo}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
