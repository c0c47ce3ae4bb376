package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v2"
)

type Resend struct {
	client *resend.Client
	from   string
}

func NewResend(apiKey, fromName, fromEmail string) *Resend {
	from := fromEmail
	if fromName != "" {
		from = fmt.Sprintf("%s <%s>", fromName, fromEmail)
	}
	return &Resend{client: resend.NewClient(apiKey), from: from}
}

func (r *Resend) Send(ctx context.Context, toEmail, toName, subject, text, html string) (string, error) {
	params := &resend.SendEmailRequest{
		From:    r.from,
		To:      []string{toEmail},
		Subject: subject,
		Html:    html,
		Text:    text,
	}
	sent, err := r.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		var rateLimitErr *resend.RateLimitError
		if errors.As(err, &rateLimitErr) {
			return "", fmt.Errorf("email rate limit exceeded (limit: %s, resets in: %s seconds): %w",
				rateLimitErr.Limit, rateLimitErr.Reset, err)
		}
		return "", fmt.Errorf("resend API error: %w", err)
	}
	return sent.Id, nil
}
