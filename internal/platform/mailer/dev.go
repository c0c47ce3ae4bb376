package mailer

import (
	"context"

	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/pkg/logger"
	"github.com/google/uuid"
)

// DevMailer logs messages instead of sending them.
type DevMailer struct{}

func (DevMailer) Send(ctx context.Context, toEmail, toName, subject, text, _ string) (string, error) {
	id := "dev-" + uuid.NewString()
	logger.InfoContext(ctx, "dev mailer: email not sent",
		"message_id", id,
		"to", toEmail,
		"to_name", toName,
		"subject", subject,
		"text", text,
	)
	return id, nil
}
