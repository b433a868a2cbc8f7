// Package smtp provides an email notifier over SMTP with STARTTLS.
package smtp

import (
	"context"
	"fmt"
	"net"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
)

// Ensure Notifier implements the interface.
var _ driven.Notifier = (*Notifier)(nil)

// Default configuration values.
const (
	DefaultHost = "smtp.gmail.com"
	DefaultPort = 587
)

// Config holds configuration for the SMTP notifier.
type Config struct {
	// Host is the SMTP server host (default: smtp.gmail.com).
	Host string

	// Port is the SMTP server port (default: 587).
	Port int

	// Username authenticates against the server and is used as the
	// sender address.
	Username string

	// Password is the account or app password.
	Password string
}

// sendFunc matches smtp.SendMail; swapped out in tests.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Notifier delivers answers by email.
type Notifier struct {
	cfg  Config
	send sendFunc
}

// New creates a new SMTP notifier.
func New(cfg Config) *Notifier {
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	return &Notifier{cfg: cfg, send: smtp.SendMail}
}

// Send delivers the message. smtp.SendMail negotiates STARTTLS when the
// server advertises it.
func (n *Notifier) Send(ctx context.Context, msg driven.Message) error {
	if err := validate(n.cfg, msg); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := net.JoinHostPort(n.cfg.Host, fmt.Sprint(n.cfg.Port))
	auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)

	if err := n.send(addr, auth, n.cfg.Username, []string{msg.Recipient}, format(n.cfg.Username, msg)); err != nil {
		return fmt.Errorf("send email to %s: %w", msg.Recipient, err)
	}
	return nil
}

// validate checks the configuration and message before dialling.
func validate(cfg Config, msg driven.Message) error {
	if cfg.Username == "" || cfg.Password == "" {
		return fmt.Errorf("%w: smtp credentials not configured", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(msg.Recipient); err != nil {
		return fmt.Errorf("%w: recipient address %q", domain.ErrInvalidInput, msg.Recipient)
	}
	if msg.Body == "" {
		return fmt.Errorf("%w: empty message body", domain.ErrInvalidInput)
	}
	return nil
}

// format builds an RFC 5322 message with CRLF line endings.
func format(from string, msg driven.Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.Recipient)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}
