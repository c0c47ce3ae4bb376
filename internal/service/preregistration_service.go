package service

import (
	"context"
	"fmt"
	"time"

	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/domain"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/platform/links"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/platform/mailer"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/platform/qrcode"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/repo/postgres"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/pkg/events"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/pkg/logger"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/pkg/metrics"
)

type PreRegistrationService interface {
	Create(ctx context.Context, actor domain.Actor, req *domain.CreatePreRegistrationRequest) (*domain.PreRegistration, error)
	List(ctx context.Context, actor domain.Actor, f domain.PreRegFilter) ([]domain.PreRegistration, int64, error)
	Get(ctx context.Context, actor domain.Actor, id int64) (*domain.PreRegistration, error)
	GetByQRCode(ctx context.Context, actor domain.Actor, code string) (*domain.PreRegistration, error)
	QRImage(ctx context.Context, actor domain.Actor, id int64, size int) ([]byte, error)
	Cancel(ctx context.Context, actor domain.Actor, id int64) (*domain.PreRegistration, error)
}

type preRegistrationService struct {
	preRegs postgres.PreRegistrationRepo
	users   postgres.UsersRepo
	mailer  mailer.Service
	links   *links.Builder
	bus     events.Publisher
	now     func() time.Time
}

func NewPreRegistrationService(
	preRegs postgres.PreRegistrationRepo,
	users postgres.UsersRepo,
	mailer mailer.Service,
	links *links.Builder,
	bus events.Publisher,
) PreRegistrationService {
	return &preRegistrationService{
		preRegs: preRegs,
		users:   users,
		mailer:  mailer,
		links:   links,
		bus:     bus,
		now:     time.Now,
	}
}

func (s *preRegistrationService) hostFor(ctx context.Context, actor domain.Actor, hostID *int64) (int64, string, error) {
	if !actor.IsAdmin() || hostID == nil || *hostID == actor.UserID {
		return actor.UserID, actor.Name, nil
	}
	u, err := s.users.FindInCompany(ctx, actor.CompanyID, *hostID)
	if err != nil {
		return 0, "", fmt.Errorf("load host: %w", err)
	}
	if u == nil || !u.IsActive {
		return 0, "", domain.ErrInvalidHost
	}
	return u.ID, u.Name, nil
}

func (s *preRegistrationService) Create(ctx context.Context, actor domain.Actor, req *domain.CreatePreRegistrationRequest) (*domain.PreRegistration, error) {
	req.Normalize()
	sched, err := req.Validate(domain.Day(s.now()))
	if err != nil {
		return nil, err
	}
	hostID, hostName, err := s.hostFor(ctx, actor, req.HostID)
	if err != nil {
		return nil, err
	}

	p, err := s.preRegs.Create(ctx, &domain.PreRegistration{
		CompanyID:        actor.CompanyID,
		HostID:           hostID,
		HostName:         hostName,
		VisitorName:      req.VisitorName,
		VisitorEmail:     req.VisitorEmail,
		VisitorPhone:     req.VisitorPhone,
		VisitorCompany:   req.VisitorCompany,
		Purpose:          req.Purpose,
		VisitDate:        sched.VisitDate,
		VisitTime:        req.VisitTime,
		QRCode:           qrcode.NewCode(),
		IsRecurring:      sched.IsRecurring,
		RecurringPattern: sched.Pattern,
		RecurringEndDate: sched.EndDate,
	})
	if err != nil {
		return nil, fmt.Errorf("create pre-registration: %w", err)
	}
	logger.InfoContext(ctx, "pre-registration created", "pre_registration_id", p.ID, "host_id", p.HostID)

	s.sendInvite(ctx, actor, p)

	ev := events.PreRegistrationCreatedEvent{
		PreRegistrationID: p.ID,
		CompanyID:         p.CompanyID,
		HostID:            p.HostID,
		VisitorEmail:      p.VisitorEmail,
		VisitDate:         p.VisitDate.Format(domain.DateLayout),
		IsRecurring:       p.IsRecurring,
	}
	if err := s.bus.Publish(ctx, events.PreRegistrationCreated, ev); err != nil {
		logger.ErrorContext(ctx, "failed to publish event", "subject", events.PreRegistrationCreated, "error", err)
	}
	return p, nil
}

func (s *preRegistrationService) sendInvite(ctx context.Context, actor domain.Actor, p *domain.PreRegistration) {
	qrURL, err := s.links.PublicQRImage(p.QRCode, 0)
	if err != nil {
		logger.ErrorContext(ctx, "failed to build qr link", "error", err)
	}
	inv := mailer.Invite{
		VisitorEmail: p.VisitorEmail,
		VisitorName:  p.VisitorName,
		HostName:     p.HostName,
		CompanyName:  actor.CompanyName,
		Purpose:      p.Purpose,
		VisitDate:    p.VisitDate.Format(domain.DateLayout),
		VisitTime:    p.VisitTime,
		QRCode:       p.QRCode,
		QRImageURL:   qrURL,
	}
	if p.IsRecurring && p.RecurringPattern != nil && p.RecurringEndDate != nil {
		inv.Recurring = fmt.Sprintf("%s until %s", *p.RecurringPattern, p.RecurringEndDate.Format(domain.DateLayout))
	}
	if err := s.mailer.SendPreRegistrationInvite(ctx, inv); err != nil {
		metrics.EmailsSent.WithLabelValues("invite", "error").Inc()
		logger.ErrorContext(ctx, "failed to send pre-registration invite", "error", err, "pre_registration_id", p.ID)
		return
	}
	metrics.EmailsSent.WithLabelValues("invite", "ok").Inc()
}

func (s *preRegistrationService) List(ctx context.Context, actor domain.Actor, f domain.PreRegFilter) ([]domain.PreRegistration, int64, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, f.Status)
	}
	if n, err := s.preRegs.ExpireStale(ctx, actor.CompanyID, domain.Day(s.now())); err != nil {
		logger.ErrorContext(ctx, "failed to expire stale pre-registrations", "error", err)
	} else if n > 0 {
		logger.InfoContext(ctx, "expired stale pre-registrations", "count", n)
	}

	out, total, err := s.preRegs.List(ctx, actor.Scope(), f)
	if err != nil {
		return nil, 0, fmt.Errorf("list pre-registrations: %w", err)
	}
	return out, total, nil
}

func (s *preRegistrationService) Get(ctx context.Context, actor domain.Actor, id int64) (*domain.PreRegistration, error) {
	p, err := s.preRegs.GetByID(ctx, actor.Scope(), id)
	if err != nil {
		return nil, fmt.Errorf("get pre-registration: %w", err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (s *preRegistrationService) GetByQRCode(ctx context.Context, actor domain.Actor, code string) (*domain.PreRegistration, error) {
	if !qrcode.LooksValid(code) {
		return nil, domain.ErrNotFound
	}
	p, err := s.preRegs.GetByQRCode(ctx, actor.CompanyID, code)
	if err != nil {
		return nil, fmt.Errorf("lookup qr code: %w", err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (s *preRegistrationService) QRImage(ctx context.Context, actor domain.Actor, id int64, size int) ([]byte, error) {
	p, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return qrcode.PNG(p.QRCode, size)
}

func (s *preRegistrationService) Cancel(ctx context.Context, actor domain.Actor, id int64) (*domain.PreRegistration, error) {
	p, changed, err := s.preRegs.Cancel(ctx, actor.Scope(), id)
	if err != nil {
		return nil, fmt.Errorf("cancel pre-registration: %w", err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if !changed {
		return nil, fmt.Errorf("%w: only pending pre-registrations can be cancelled (status is %s)", domain.ErrConflict, p.Status)
	}
	logger.InfoContext(ctx, "pre-registration cancelled", "pre_registration_id", p.ID)
	return p, nil
}
