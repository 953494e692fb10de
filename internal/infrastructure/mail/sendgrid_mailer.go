package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/grasdvirus/prime-panier/internal/application/notification"
	"github.com/grasdvirus/prime-panier/internal/infrastructure/config"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// ErrMissingAPIKey is returned when SendGrid is selected without an API key
var ErrMissingAPIKey = errors.New("mail: sendgrid api key is required")

type sendFunc func(ctx context.Context, message *sgmail.SGMailV3) (*rest.Response, error)

// SendGridMailer delivers notification emails through the SendGrid v3 API
type SendGridMailer struct {
	from   *sgmail.Email
	send   sendFunc
	logger *zap.Logger
}

// NewSendGridMailer creates a mailer from the mail configuration
func NewSendGridMailer(cfg config.MailConfig, logger *zap.Logger) (*SendGridMailer, error) {
	if cfg.SendGridAPIKey == "" {
		return nil, ErrMissingAPIKey
	}
	client := sendgrid.NewSendClient(cfg.SendGridAPIKey)
	return &SendGridMailer{
		from:   sgmail.NewEmail(cfg.FromName, cfg.FromEmail),
		send:   client.SendWithContext,
		logger: logger,
	}, nil
}

// Send implements notification.Mailer
func (m *SendGridMailer) Send(ctx context.Context, email notification.Email) error {
	to := sgmail.NewEmail("", email.To)
	message := sgmail.NewSingleEmail(m.from, email.Subject, to, email.Text, email.HTML)
	if email.ReplyTo != "" {
		message.SetReplyTo(sgmail.NewEmail("", email.ReplyTo))
	}

	resp, err := m.send(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, resp.Body)
	}

	m.logger.Debug("Email sent via SendGrid",
		zap.String("to", email.To),
		zap.Int("status", resp.StatusCode))
	return nil
}

// LogMailer writes emails to the log instead of sending them. It is used
// when no SendGrid API key is configured.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a new LogMailer
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send implements notification.Mailer
func (m *LogMailer) Send(_ context.Context, email notification.Email) error {
	m.logger.Info("Email not sent (mail delivery disabled)",
		zap.String("to", email.To),
		zap.String("subject", email.Subject),
		zap.String("reply_to", email.ReplyTo))
	return nil
}

// NewMailer returns a SendGridMailer when an API key is configured and a
// LogMailer otherwise.
func NewMailer(cfg config.MailConfig, logger *zap.Logger) notification.Mailer {
	if cfg.SendGridAPIKey == "" {
		logger.Warn("SendGrid API key not configured, admin emails will only be logged")
		return NewLogMailer(logger)
	}
	m, err := NewSendGridMailer(cfg, logger)
	if err != nil {
		return NewLogMailer(logger)
	}
	return m
}
