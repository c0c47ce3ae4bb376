package mailer

import (
	"context"
	"fmt"
	"html"
	"strings"
)

// Templated renders the application emails and hands them to a Sender.
type Templated struct {
	sender  Sender
	appName string
}

func NewTemplated(sender Sender, appName string) *Templated {
	if appName == "" {
		appName = "Visitor Management"
	}
	return &Templated{sender: sender, appName: appName}
}

func (m *Templated) send(ctx context.Context, to, name, subject, text, body string) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	_, err := m.sender.Send(ctx, to, name, subject, text, body)
	return err
}

func (m *Templated) SendVerificationEmail(ctx context.Context, toEmail, toName, link string) error {
	subject := fmt.Sprintf("Verify your %s account", m.appName)
	text := fmt.Sprintf("Hi %s,\n\nConfirm your email address to activate your account:\n%s\n\nThe link expires in 24 hours.",
		displayName(toName), link)
	body := fmt.Sprintf(`<p>Hi %s,</p>
<p>Confirm your email address to activate your account.</p>
<p><a href="%s">Verify email</a></p>
<p>The link expires in 24 hours.</p>`,
		html.EscapeString(displayName(toName)), html.EscapeString(link))
	return m.send(ctx, toEmail, toName, subject, text, body)
}

func (m *Templated) SendPreRegistrationInvite(ctx context.Context, inv Invite) error {
	subject := fmt.Sprintf("Your visit to %s", inv.CompanyName)

	when := inv.VisitDate
	if inv.VisitTime != "" {
		when += " at " + inv.VisitTime
	}
	if inv.Recurring != "" {
		when += " (" + inv.Recurring + ")"
	}

	var text strings.Builder
	fmt.Fprintf(&text, "Hi %s,\n\n%s has pre-registered your visit to %s on %s.\n", displayName(inv.VisitorName), inv.HostName, inv.CompanyName, when)
	if inv.Purpose != "" {
		fmt.Fprintf(&text, "Purpose: %s\n", inv.Purpose)
	}
	fmt.Fprintf(&text, "\nShow this code at reception: %s\n", inv.QRCode)
	if inv.QRImageURL != "" {
		fmt.Fprintf(&text, "QR code: %s\n", inv.QRImageURL)
	}

	var body strings.Builder
	fmt.Fprintf(&body, "<p>Hi %s,</p>\n<p>%s has pre-registered your visit to <b>%s</b> on <b>%s</b>.</p>\n",
		html.EscapeString(displayName(inv.VisitorName)), html.EscapeString(inv.HostName),
		html.EscapeString(inv.CompanyName), html.EscapeString(when))
	if inv.Purpose != "" {
		fmt.Fprintf(&body, "<p>Purpose: %s</p>\n", html.EscapeString(inv.Purpose))
	}
	fmt.Fprintf(&body, "<p>Show this code at reception: <b>%s</b></p>\n", html.EscapeString(inv.QRCode))
	if inv.QRImageURL != "" {
		fmt.Fprintf(&body, `<p><img src="%s" alt="QR code" width="240" height="240"></p>`+"\n", html.EscapeString(inv.QRImageURL))
	}
	return m.send(ctx, inv.VisitorEmail, inv.VisitorName, subject, text.String(), body.String())
}

func (m *Templated) SendHostArrival(ctx context.Context, a Arrival) error {
	who := a.VisitorName
	if a.VisitorCompany != "" {
		who += " (" + a.VisitorCompany + ")"
	}
	at := a.CheckInTime.Local().Format("15:04")
	subject := fmt.Sprintf("Your visitor %s has arrived", a.VisitorName)
	text := fmt.Sprintf("Hi %s,\n\n%s checked in at %s.\nPurpose: %s\nEmail: %s\n",
		displayName(a.HostName), who, at, a.Purpose, a.VisitorEmail)
	body := fmt.Sprintf(`<p>Hi %s,</p>
<p><b>%s</b> checked in at %s.</p>
<p>Purpose: %s<br>Email: %s</p>`,
		html.EscapeString(displayName(a.HostName)), html.EscapeString(who), at,
		html.EscapeString(a.Purpose), html.EscapeString(a.VisitorEmail))
	return m.send(ctx, a.HostEmail, a.HostName, subject, text, body)
}

func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "there"
	}
	return name
}
