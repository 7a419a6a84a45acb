// Package mailer renders and delivers notification emails.
package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/pinmark/pinmark-backend/config"
	"github.com/pinmark/pinmark-backend/internal/logging"
	"github.com/pinmark/pinmark-backend/internal/notifications/domain"
)

type Mailer interface {
	Send(ctx context.Context, msg domain.Message) error
}

// New returns an SMTP mailer, or a log-only mailer when no SMTP host is configured.
func New(cfg *config.MailConfig) (Mailer, error) {
	if cfg.SMTPHost == "" {
		return LogMailer{}, nil
	}
	return NewSMTPMailer(cfg)
}

// SMTPMailer sends through an SMTP relay with go-mail.
type SMTPMailer struct {
	client *mail.Client
	from   string
}

func NewSMTPMailer(cfg *config.MailConfig) (*SMTPMailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.SMTPPort),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if cfg.SMTPUsername != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTPUsername),
			mail.WithPassword(cfg.SMTPPassword),
		)
	}

	client, err := mail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPMailer{client: client, from: cfg.From}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, msg domain.Message) error {
	out, err := buildMsg(m.from, msg)
	if err != nil {
		return err
	}
	if err := m.client.DialAndSendWithContext(ctx, out); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	return nil
}

func buildMsg(from string, msg domain.Message) (*mail.Msg, error) {
	out := mail.NewMsg()
	if err := out.From(from); err != nil {
		return nil, fmt.Errorf("from address: %w", err)
	}
	if err := out.To(msg.To); err != nil {
		return nil, fmt.Errorf("to address: %w", err)
	}
	out.Subject(msg.Subject)
	out.SetBodyString(mail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		out.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	}
	return out, nil
}

// LogMailer writes messages to the log instead of sending them.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, msg domain.Message) error {
	logging.FromContext(ctx).Info("mail delivery disabled, message logged",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}
