package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jimmbo89/api-sweetspot/pkg/config"
)

// Message is one outbound email
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers email messages. Handlers depend on this interface so
// delivery can be stubbed in tests.
type Sender interface {
	Send(msg Message) error
}

// SMTPSender delivers mail over SMTP with STARTTLS-capable auth
type SMTPSender struct {
	cfg *config.MailConfig
}

// New creates a Sender from mail configuration
func New(cfg *config.MailConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Send delivers the message. The HTML body wins when present,
// otherwise the plain-text body is sent.
func (s *SMTPSender) Send(msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("mailer: missing recipient")
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	body, contentType := msg.Text, "text/plain; charset=\"UTF-8\""
	if msg.HTML != "" {
		body, contentType = msg.HTML, "text/html; charset=\"UTF-8\""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", s.cfg.FromName, s.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&b, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: %s\r\n", contentType)
	fmt.Fprintf(&b, "\r\n%s\r\n", body)

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{msg.To}, []byte(b.String())); err != nil {
		return fmt.Errorf("mailer: send to %s: %w", msg.To, err)
	}
	return nil
}
