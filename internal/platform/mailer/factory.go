package mailer

import (
	"fmt"

	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/pkg/config"
)

// NewSender picks the delivery provider named by cfg.Provider.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	from := cfg.FromEmail
	if cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromEmail)
	}
	switch cfg.Provider {
	case "", "dev":
		return DevMailer{}, nil
	case "smtp":
		return NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, from, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPUseTLS), nil
	case "mailersend":
		m, err := NewMailerSend(cfg.MailerSendKey, cfg.FromName, cfg.FromEmail)
		if err != nil {
			return nil, err
		}
		return m, nil
	case "resend":
		if cfg.ResendAPIKey == "" {
			return nil, fmt.Errorf("resend provider requires RESEND_API_KEY")
		}
		return NewResend(cfg.ResendAPIKey, cfg.FromName, cfg.FromEmail), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}

// New builds the application mail service for cfg.
func New(cfg config.EmailConfig, appName string) (Service, error) {
	s, err := NewSender(cfg)
	if err != nil {
		return nil, err
	}
	return NewTemplated(s, appName), nil
}
