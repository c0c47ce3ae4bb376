package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"

	"github.com/google/uuid"
)

type SMTPMailer struct {
	Host   string
	Port   int
	From   string
	User   string
	Pass   string
	UseTLS bool // false for Mailpit on 1025
}

func NewSMTPMailer(host string, port int, from string, user string, pass string, useTLS bool) *SMTPMailer {
	return &SMTPMailer{
		Host:   strings.TrimSpace(host),
		Port:   port,
		From:   strings.TrimSpace(from),
		User:   strings.TrimSpace(user),
		Pass:   strings.TrimSpace(pass),
		UseTLS: useTLS,
	}
}

// buildMessage renders a multipart/alternative message with text and html parts.
func (s *SMTPMailer) buildMessage(toEmail, toName, subject, text, html string) []byte {
	var buf bytes.Buffer
	boundary := "alt-" + uuid.NewString()
	to := toEmail
	if toName != "" {
		to = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", toName), toEmail)
	}
	fmt.Fprintf(&buf, "From: %s\r\n", s.From)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", boundary)

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	fmt.Fprintf(&buf, "Content-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&buf, "%s\r\n\r\n", text)

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	fmt.Fprintf(&buf, "Content-Type: text/html; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&buf, "%s\r\n\r\n", html)

	fmt.Fprintf(&buf, "--%s--\r\n", boundary)
	return buf.Bytes()
}

func (s *SMTPMailer) Send(ctx context.Context, toEmail, toName, subject, text, html string) (string, error) {
	toEmail = strings.TrimSpace(toEmail)
	if toEmail == "" {
		return "", errors.New("empty recipient email")
	}
	msg := s.buildMessage(toEmail, toName, subject, text, html)
	addr := net.JoinHostPort(s.Host, fmt.Sprint(s.Port))

	// net/smtp has no context support; run it aside and honour cancellation.
	done := make(chan error, 1)
	go func() { done <- s.deliver(addr, toEmail, msg) }()
	select {
	case err := <-done:
		return "", err
	case <-ctx.Done():
		return "", fmt.Errorf("smtp send: %w", ctx.Err())
	}
}

func (s *SMTPMailer) deliver(addr, toEmail string, msg []byte) error {
	// Mailpit on 1025: no auth, no TLS
	if !s.UseTLS && s.User == "" {
		return smtp.SendMail(addr, nil, s.From, []string{toEmail}, msg)
	}

	var auth smtp.Auth
	if s.User != "" {
		auth = smtp.PlainAuth("", s.User, s.Pass, s.Host)
	}

	// SendMail upgrades with STARTTLS when advertised
	err := smtp.SendMail(addr, auth, s.From, []string{toEmail}, msg)
	if err == nil || !s.UseTLS {
		return err
	}

	// implicit TLS, e.g. port 465
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.Host})
	if err != nil {
		return err
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, s.Host)
	if err != nil {
		return err
	}
	defer c.Quit()

	if auth != nil {
		if err := c.Auth(auth); err != nil {
			return err
		}
	}
	if err := c.Mail(s.From); err != nil {
		return err
	}
	if err := c.Rcpt(toEmail); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}
