package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/domain"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/platform/links"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/platform/qrcode"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type preRegFixture struct {
	svc     *preRegistrationService
	preRegs *fakePreRegs
	mail    *fakeMailer
	bus     *fakeBus
}

func newPreRegFixture(ps ...*domain.PreRegistration) *preRegFixture {
	f := &preRegFixture{preRegs: newFakePreRegs(ps...), mail: &fakeMailer{}, bus: &fakeBus{}}
	f.svc = NewPreRegistrationService(f.preRegs, companyUsers(), f.mail,
		links.NewBuilder("http://app.local", "http://api.local"), f.bus).(*preRegistrationService)
	f.svc.now = func() time.Time { return time.Date(2026, 5, 4, 10, 0, 0, 0, time.Local) }
	return f
}

func TestCreatePreRegistration(t *testing.T) {
	f := newPreRegFixture()
	p, err := f.svc.Create(context.Background(), hostActor, &domain.CreatePreRegistrationRequest{
		VisitorName:  "Pat",
		VisitorEmail: "PAT@example.com",
		VisitDate:    "2026-05-06",
		VisitTime:    "09:30",
		HostID:       ptr(int64(1)),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2), p.HostID, "hosts cannot assign another host")
	assert.Equal(t, "Hal Host", p.HostName)
	assert.Equal(t, domain.PreRegPending, p.Status)
	assert.True(t, qrcode.LooksValid(p.QRCode))
	assert.Equal(t, time.Date(2026, 5, 6, 0, 0, 0, 0, time.UTC), p.VisitDate)

	require.Len(t, f.mail.invites, 1)
	inv := f.mail.invites[0]
	assert.Equal(t, "pat@example.com", inv.VisitorEmail)
	assert.Equal(t, "Acme", inv.CompanyName)
	assert.Equal(t, p.QRCode, inv.QRCode)
	assert.Equal(t, "http://api.local/api/public/qr/"+p.QRCode, inv.QRImageURL)
	assert.Empty(t, inv.Recurring)

	require.Len(t, f.bus.events, 1)
	assert.Equal(t, events.PreRegistrationCreated, f.bus.events[0].subject)
}

func TestCreateRecurringPreRegistration(t *testing.T) {
	f := newPreRegFixture()
	end := "2026-06-01"
	p, err := f.svc.Create(context.Background(), adminActor, &domain.CreatePreRegistrationRequest{
		VisitorName:      "Pat",
		VisitorEmail:     "pat@example.com",
		VisitDate:        "2026-05-04",
		HostID:           ptr(int64(2)),
		IsRecurring:      true,
		RecurringPattern: "weekly",
		RecurringEndDate: &end,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), p.HostID)
	assert.True(t, p.IsRecurring)
	require.Len(t, f.mail.invites, 1)
	assert.Equal(t, "weekly until 2026-06-01", f.mail.invites[0].Recurring)
}

func TestCreatePreRegistrationRejects(t *testing.T) {
	f := newPreRegFixture()
	_, err := f.svc.Create(context.Background(), hostActor, &domain.CreatePreRegistrationRequest{
		VisitorName: "Pat", VisitorEmail: "pat@example.com", VisitDate: "2026-05-03",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "past date")

	_, err = f.svc.Create(context.Background(), adminActor, &domain.CreatePreRegistrationRequest{
		VisitorName: "Pat", VisitorEmail: "pat@example.com", VisitDate: "2026-05-05", HostID: ptr(int64(3)),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidHost)
	assert.Empty(t, f.preRegs.byID)
}

func TestCreatePreRegistrationSurvivesMailFailure(t *testing.T) {
	f := newPreRegFixture()
	f.mail.err = errBoom
	_, err := f.svc.Create(context.Background(), hostActor, &domain.CreatePreRegistrationRequest{
		VisitorName: "Pat", VisitorEmail: "pat@example.com", VisitDate: "2026-05-05",
	})
	assert.NoError(t, err)
}

func TestListPreRegistrationsExpiresFirst(t *testing.T) {
	f := newPreRegFixture(&domain.PreRegistration{ID: 1, CompanyID: 1, HostID: 2, Status: domain.PreRegPending})
	out, total, err := f.svc.List(context.Background(), adminActor, domain.PreRegFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, f.preRegs.expireCalls)
	assert.Len(t, out, 1)
	assert.Equal(t, int64(1), total)

	_, _, err = f.svc.List(context.Background(), adminActor, domain.PreRegFilter{Status: "bogus"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCancelPreRegistration(t *testing.T) {
	f := newPreRegFixture(
		&domain.PreRegistration{ID: 1, CompanyID: 1, HostID: 2, Status: domain.PreRegPending},
		&domain.PreRegistration{ID: 2, CompanyID: 1, HostID: 2, Status: domain.PreRegCheckedIn},
		&domain.PreRegistration{ID: 3, CompanyID: 1, HostID: 1, Status: domain.PreRegPending},
	)
	ctx := context.Background()

	p, err := f.svc.Cancel(ctx, hostActor, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.PreRegCancelled, p.Status)

	_, err = f.svc.Cancel(ctx, hostActor, 2)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.svc.Cancel(ctx, hostActor, 3)
	assert.ErrorIs(t, err, domain.ErrNotFound, "hosts only see their own entries")

	_, err = f.svc.Cancel(ctx, adminActor, 3)
	assert.NoError(t, err)
}

func TestGetByQRCodeAndImage(t *testing.T) {
	code := qrcode.NewCode()
	f := newPreRegFixture(&domain.PreRegistration{ID: 1, CompanyID: 1, HostID: 2, QRCode: code})
	ctx := context.Background()

	_, err := f.svc.GetByQRCode(ctx, adminActor, "garbage")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	p, err := f.svc.GetByQRCode(ctx, adminActor, code)
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)

	png, err := f.svc.QRImage(ctx, hostActor, 1, 128)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	_, err = f.svc.QRImage(ctx, hostActor, 99, 128)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
