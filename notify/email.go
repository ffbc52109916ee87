// Package notify delivers watch-loop alerts by email over SMTP.
package notify

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/tti6o/trading-journal-cli/config"
)

// Mailer sends plain-text notifications through an SMTP relay.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	to       []string
}

// NewMailer builds a Mailer from the email configuration. It errors when
// notifications are enabled but the relay is not fully configured.
func NewMailer(cfg *config.Config) (*Mailer, error) {
	e := cfg.Email
	if !e.Enabled {
		return nil, fmt.Errorf("email notifications are disabled")
	}
	if e.Host == "" || e.From == "" || len(e.To) == 0 {
		return nil, fmt.Errorf("email notifications need host, from and to configured")
	}
	return &Mailer{
		host:     e.Host,
		port:     e.Port,
		username: e.Username,
		password: e.Password,
		from:     e.From,
		to:       e.To,
	}, nil
}

// Send delivers one message. The body is sent as UTF-8 plain text.
func (m *Mailer) Send(subject, body string) error {
	headers := []string{
		"From: " + m.from,
		"To: " + strings.Join(m.to, ", "),
		"Subject: " + subject,
		"Date: " + time.Now().UTC().Format(time.RFC1123Z),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
	}
	msg := []byte(strings.Join(headers, "\r\n") + "\r\n\r\n" + body + "\r\n")

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	if err := smtp.SendMail(addr, auth, m.from, m.to, msg); err != nil {
		return fmt.Errorf("send mail via %s: %w", addr, err)
	}
	return nil
}
