package mailer

import (
	"context"
	"time"
)

// sendTimeout bounds every provider call.
const sendTimeout = 10 * time.Second

// Sender delivers one rendered message and returns the provider message id when
// the provider reports one.
type Sender interface {
	Send(ctx context.Context, toEmail, toName, subject, text, html string) (string, error)
}

// Service sends the application's transactional emails.
type Service interface {
	SendVerificationEmail(ctx context.Context, toEmail, toName, link string) error
	SendPreRegistrationInvite(ctx context.Context, inv Invite) error
	SendHostArrival(ctx context.Context, a Arrival) error
}

// Invite is the content of a pre-registration invitation.
type Invite struct {
	VisitorEmail string
	VisitorName  string
	HostName     string
	CompanyName  string
	Purpose      string
	VisitDate    string
	VisitTime    string
	QRCode       string
	QRImageURL   string
	Recurring    string // human description, empty for single visits
}

// Arrival tells a host that their visitor has checked in.
type Arrival struct {
	HostEmail      string
	HostName       string
	VisitorName    string
	VisitorEmail   string
	VisitorCompany string
	Purpose        string
	CheckInTime    time.Time
}
