package mailer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mailersend/mailersend-go"
)

// MailerSend delivers through the MailerSend HTTP API.
type MailerSend struct {
	client *mailersend.Mailersend
	from   mailersend.From
}

func NewMailerSend(apiKey, fromName, fromEmail string) (*MailerSend, error) {
	if apiKey == "" || fromEmail == "" {
		return nil, errors.New("mailersend provider requires MAILERSEND_API_KEY and MAILER_FROM")
	}
	return &MailerSend{
		client: mailersend.NewMailersend(apiKey),
		from:   mailersend.From{Name: fromName, Email: fromEmail},
	}, nil
}

func (m *MailerSend) Send(ctx context.Context, toEmail, toName, subject, text, html string) (string, error) {
	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Name: toName, Email: toEmail}})
	msg.SetSubject(subject)
	msg.SetTags([]string{"visitor-management"})
	if text != "" {
		msg.SetText(text)
	}
	if html != "" {
		msg.SetHTML(html)
	}

	res, err := m.client.Email.Send(ctx, msg)
	if err != nil {
		return "", fmt.Errorf("mailersend API error: %w", err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusTooManyRequests:
		return "", fmt.Errorf("email rate limit exceeded (retry after: %s seconds)", res.Header.Get("Retry-After"))
	case res.StatusCode < 200 || res.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return "", fmt.Errorf("mailersend API error: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(body)))
	}
	// 202 responses carry the message id in a header, not the body
	return res.Header.Get("X-Message-Id"), nil
}
