package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"yamdb/pkg/utils"

	"go.uber.org/zap"
)

// Mailer sends plain-text email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// New returns an SMTP mailer, or a logging mailer when no SMTP host is configured.
func New(config utils.EmailConfig, log *zap.Logger) Mailer {
	if config.Host == "" {
		log.Warn("SMTP_HOST not set, confirmation emails will only be logged")
		return &logMailer{log: log.With(zap.String("mailer", "log"))}
	}
	return &smtpMailer{config: config, log: log.With(zap.String("mailer", "smtp"))}
}

type smtpMailer struct {
	config utils.EmailConfig
	log    *zap.Logger
}

func (m *smtpMailer) Send(ctx context.Context, to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)

	var auth smtp.Auth
	if m.config.User != "" {
		auth = smtp.PlainAuth("", m.config.User, m.config.Password, m.config.Host)
	}

	msg := buildMessage(m.config.From, to, subject, body)

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, m.config.From, []string{to}, msg)
	}()

	// net/smtp cannot be cancelled, so the context only bounds how long we wait.
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send mail to %s: %w", to, err)
		}
		return nil
	case <-ctx.Done():
		return errors.Join(errors.New("smtp send timed out"), ctx.Err())
	}
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("Date: " + time.Now().UTC().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

type logMailer struct {
	log *zap.Logger
}

func (m *logMailer) Send(_ context.Context, to, subject, body string) error {
	m.log.Info("Email not delivered (no SMTP configured)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}
