package mail

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/Chafic123/Attendance-Backend/config"
)

// Message a single outgoing e-mail.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers e-mail.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NewSender returns an SMTP sender, or a no-op one when no relay is configured.
func NewSender(cfg *config.MailConfig, logger *zap.Logger) Sender {
	if !cfg.Enabled() {
		return noopSender{logger: logger}
	}
	return &smtpSender{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: logger,
	}
}

type smtpSender struct {
	dialer *gomail.Dialer
	from   string
	logger *zap.Logger
}

func (s *smtpSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}

	s.logger.Debug("mail sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

type noopSender struct {
	logger *zap.Logger
}

func (n noopSender) Send(_ context.Context, msg Message) error {
	n.logger.Debug("mail disabled, dropping message", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}
