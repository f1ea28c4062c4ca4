// Package notification delivers email over SMTP and chat messages over Slack webhooks.
package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/config"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// SMTPMailer sends email through an SMTP relay
type SMTPMailer struct {
	cfg    config.EmailConfig
	logger *zap.Logger
	// send is swapped in tests to capture messages instead of dialling
	send func(ctx context.Context, msg *mail.Msg) error
}

// NewSMTPMailer creates a mailer. The SMTP connection is opened per message.
func NewSMTPMailer(cfg config.EmailConfig, logger *zap.Logger) (*SMTPMailer, error) {
	if cfg.Host == "" || cfg.From == "" {
		return nil, fmt.Errorf("smtp: host and from address are required")
	}
	m := &SMTPMailer{cfg: cfg, logger: logger}
	m.send = m.dialAndSend
	return m, nil
}

// Enabled reports true; a disabled mailer is a NoopMailer
func (m *SMTPMailer) Enabled() bool { return true }

// Send delivers one message
func (m *SMTPMailer) Send(ctx context.Context, msg shared.EmailMessage) error {
	built, err := m.buildMessage(msg)
	if err != nil {
		return err
	}

	if err := m.send(ctx, built); err != nil {
		m.logger.Error("Failed to send email",
			zap.Strings("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Error(err))
		return fmt.Errorf("smtp: failed to send email: %w", err)
	}

	m.logger.Info("Email sent",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}

func (m *SMTPMailer) buildMessage(msg shared.EmailMessage) (*mail.Msg, error) {
	if len(msg.To) == 0 {
		return nil, fmt.Errorf("smtp: message has no recipients")
	}
	if strings.TrimSpace(msg.Subject) == "" {
		return nil, fmt.Errorf("smtp: message has no subject")
	}

	out := mail.NewMsg()
	if err := out.FromFormat(m.cfg.FromName, m.cfg.From); err != nil {
		return nil, fmt.Errorf("smtp: invalid from address: %w", err)
	}
	if err := out.To(msg.To...); err != nil {
		return nil, fmt.Errorf("smtp: invalid recipient: %w", err)
	}
	if msg.ReplyTo != "" {
		if err := out.ReplyTo(msg.ReplyTo); err != nil {
			return nil, fmt.Errorf("smtp: invalid reply-to: %w", err)
		}
	}
	out.Subject(msg.Subject)
	out.SetDate()
	out.SetMessageID()
	out.SetBodyString(mail.TypeTextPlain, msg.TextBody)
	if msg.HTMLBody != "" {
		out.AddAlternativeString(mail.TypeTextHTML, msg.HTMLBody)
	}
	return out, nil
}

func (m *SMTPMailer) dialAndSend(ctx context.Context, msg *mail.Msg) error {
	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(tlsPolicy(m.cfg.TLSPolicy)),
	}
	if m.cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(m.cfg.Timeout))
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	// port 465 is implicit TLS; 587 and 25 upgrade with STARTTLS
	if m.cfg.Port == 465 {
		opts = append(opts, mail.WithSSL())
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, msg)
}

func tlsPolicy(name string) mail.TLSPolicy {
	switch strings.ToLower(name) {
	case "none":
		return mail.NoTLS
	case "opportunistic":
		return mail.TLSOpportunistic
	default:
		return mail.TLSMandatory
	}
}

// NoopMailer drops every message. It stands in when email is not configured.
type NoopMailer struct {
	logger *zap.Logger
}

// NewNoopMailer creates a mailer that never delivers
func NewNoopMailer(logger *zap.Logger) *NoopMailer {
	return &NoopMailer{logger: logger}
}

func (m *NoopMailer) Enabled() bool { return false }

func (m *NoopMailer) Send(_ context.Context, msg shared.EmailMessage) error {
	m.logger.Debug("Email disabled, dropping message", zap.String("subject", msg.Subject))
	return shared.ErrChannelDisabled
}

// NewMailer picks the SMTP mailer when email is enabled and a noop otherwise
func NewMailer(cfg config.EmailConfig, logger *zap.Logger) (shared.Mailer, error) {
	if !cfg.Enabled {
		logger.Info("Email notifications disabled")
		return NewNoopMailer(logger), nil
	}
	return NewSMTPMailer(cfg, logger)
}

var (
	_ shared.Mailer = (*SMTPMailer)(nil)
	_ shared.Mailer = (*NoopMailer)(nil)
)
