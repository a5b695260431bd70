package utils

import (
	"fmt"
	"net/smtp"

	"suarec/config"
)

// SendEmail delivers a plain-text message through the configured SMTP relay.
// When no relay is configured (local development) the message is logged instead
// of being sent, so workflows that depend on out-of-band delivery stay usable.
func SendEmail(to, subject, body string) error {
	cfg := config.AppConfig
	if cfg.SMTPHost == "" {
		GetLogger().Sugar().Infof("SMTP not configured, would send to %s: %s: %s", to, subject, body)
		return nil
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s\r\n",
		cfg.MailFrom, to, subject, body,
	))

	addr := cfg.SMTPHost + ":" + cfg.SMTPPort
	auth := smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	if err := smtp.SendMail(addr, auth, cfg.MailFrom, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
