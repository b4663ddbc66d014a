package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"hireflow/internal/config"
)

// EmailMessage is one outbound email
type EmailMessage struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	HTMLBody string `json:"html_body"`
}

// Mailer delivers email messages
type Mailer interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// SMTPMailer delivers mail through a plain-auth SMTP relay
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPMailer creates a mailer from the email configuration
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.Email.SMTPHost,
		port:     cfg.Email.SMTPPort,
		username: cfg.Email.Username,
		password: cfg.Email.Password,
		from:     cfg.Email.From,
	}
}

// Send delivers msg as an HTML email
func (m *SMTPMailer) Send(_ context.Context, msg EmailMessage) error {
	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.username, m.password, m.host)

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTMLBody)

	if err := smtp.SendMail(addr, auth, m.from, []string{msg.To}, []byte(b.String())); err != nil {
		return fmt.Errorf("smtp delivery to %s failed: %w", msg.To, err)
	}
	return nil
}
