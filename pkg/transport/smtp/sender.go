// Package smtp delivers email by direct SMTP submission with STARTTLS.
package smtp

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/dmitrymomot/mailmerge/pkg/transport"
)

// Config holds SMTP server settings. Credentials usually come from
// environment variables; see cmd/mailmerge.
type Config struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	// From is the default sender line, e.g. `"Team" <team@example.com>`.
	From string `yaml:"from"`
}

// Sender implements transport.Sender over net/smtp.
type Sender struct {
	config Config
}

// New creates an SMTP sender.
func New(cfg Config) *Sender {
	return &Sender{config: cfg}
}

// Send implements transport.Sender. The context is honoured up to the
// point the SMTP dialogue starts; net/smtp does not support mid-session
// cancellation.
func (s *Sender) Send(ctx context.Context, email *transport.Email) error {
	if len(email.To) == 0 {
		return transport.ErrNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := *email
	if msg.From == "" {
		msg.From = s.config.From
	}
	raw, err := transport.BuildMessage(&msg)
	if err != nil {
		return fmt.Errorf("%w: %v", transport.ErrSendFailed, err)
	}

	// Envelope recipients: To + CC + BCC. BCC is envelope-only, never a header.
	recipients := make([]string, 0, len(email.To)+len(email.CC)+len(email.BCC))
	recipients = append(recipients, email.To...)
	recipients = append(recipients, email.CC...)
	recipients = append(recipients, email.BCC...)

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	if err := smtp.SendMail(addr, auth, s.config.Username, recipients, raw); err != nil {
		return fmt.Errorf("%w: %v", transport.ErrSendFailed, err)
	}
	return nil
}
