package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/domain"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/repo/postgres"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/pkg/events"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/pkg/logger"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/pkg/metrics"
)

type VisitService interface {
	CheckIn(ctx context.Context, actor domain.Actor, req *domain.CheckInRequest) (*domain.Visit, error)
	QRCheckIn(ctx context.Context, actor domain.Actor, req *domain.QRCheckInRequest) (*domain.Visit, error)
	CheckOut(ctx context.Context, actor domain.Actor, id int64) (*domain.Visit, error)
	List(ctx context.Context, actor domain.Actor, f domain.VisitFilter) ([]domain.Visit, int64, error)
	Get(ctx context.Context, actor domain.Actor, id int64) (*domain.Visit, error)
}

type visitService struct {
	visits  postgres.VisitRepo
	users   postgres.UsersRepo
	preRegs postgres.PreRegistrationRepo
	bus     events.Publisher
	now     func() time.Time
}

func NewVisitService(
	visits postgres.VisitRepo,
	users postgres.UsersRepo,
	preRegs postgres.PreRegistrationRepo,
	bus events.Publisher,
) VisitService {
	return &visitService{
		visits:  visits,
		users:   users,
		preRegs: preRegs,
		bus:     bus,
		now:     time.Now,
	}
}

// resolveHost picks the host of a desk check-in: hosts always host their own
// visitors, admins may name an active member of their company.
func (s *visitService) resolveHost(ctx context.Context, actor domain.Actor, hostID *int64) (int64, error) {
	if !actor.IsAdmin() || hostID == nil || *hostID == actor.UserID {
		return actor.UserID, nil
	}
	u, err := s.users.FindInCompany(ctx, actor.CompanyID, *hostID)
	if err != nil {
		return 0, fmt.Errorf("load host: %w", err)
	}
	if u == nil || !u.IsActive {
		return 0, domain.ErrInvalidHost
	}
	return u.ID, nil
}

func (s *visitService) CheckIn(ctx context.Context, actor domain.Actor, req *domain.CheckInRequest) (*domain.Visit, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	hostID, err := s.resolveHost(ctx, actor, req.HostID)
	if err != nil {
		return nil, err
	}

	source := "desk"
	if req.PreRegistrationID != nil {
		source = "preregistration"
	}
	return s.checkIn(ctx, &domain.NewCheckIn{
		CompanyID: actor.CompanyID,
		HostID:    hostID,
		Visitor: domain.Visitor{
			Name:           req.Name,
			Email:          req.Email,
			Phone:          req.Phone,
			VisitorCompany: req.VisitorCompany,
			Purpose:        req.Purpose,
			IDCardNumber:   req.IDCardNumber,
			PhotoURL:       req.PhotoURL,
		},
		PreRegistrationID: req.PreRegistrationID,
		Notes:             req.Notes,
		Today:             domain.Day(s.now()),
	}, source)
}

func (s *visitService) QRCheckIn(ctx context.Context, actor domain.Actor, req *domain.QRCheckInRequest) (*domain.Visit, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	p, err := s.preRegs.GetByQRCode(ctx, actor.CompanyID, req.QRCode)
	if err != nil {
		return nil, fmt.Errorf("lookup qr code: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: unknown qr code", domain.ErrNotFound)
	}

	hostID := actor.UserID
	if actor.IsAdmin() {
		hostID = p.HostID
	}
	purpose := p.Purpose
	if purpose == "" {
		purpose = "Pre-registered visit"
	}
	return s.checkIn(ctx, &domain.NewCheckIn{
		CompanyID: actor.CompanyID,
		HostID:    hostID,
		Visitor: domain.Visitor{
			Name:           p.VisitorName,
			Email:          p.VisitorEmail,
			Phone:          p.VisitorPhone,
			VisitorCompany: p.VisitorCompany,
			Purpose:        purpose,
			IDCardNumber:   req.IDCardNumber,
			PhotoURL:       req.PhotoURL,
		},
		PreRegistrationID: &p.ID,
		Today:             domain.Day(s.now()),
	}, "qr")
}

func (s *visitService) checkIn(ctx context.Context, in *domain.NewCheckIn, source string) (*domain.Visit, error) {
	v, err := s.visits.CheckIn(ctx, in)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyCheckedIn) {
			metrics.CheckInConflicts.Inc()
			logger.WarnContext(ctx, "duplicate check-in rejected", "visitor_email", in.Visitor.Email)
			return nil, err
		}
		if errors.Is(err, domain.ErrNotCheckable) {
			return nil, err
		}
		return nil, fmt.Errorf("check in: %w", err)
	}
	metrics.VisitsCheckedIn.WithLabelValues(source).Inc()
	logger.InfoContext(ctx, "visitor checked in", "visit_id", v.ID, "host_id", v.HostID, "source", source)

	ev := events.VisitCheckedInEvent{
		VisitID:           v.ID,
		CompanyID:         v.CompanyID,
		HostID:            v.HostID,
		HostName:          v.HostName,
		HostEmail:         v.HostEmail,
		VisitorName:       in.Visitor.Name,
		VisitorEmail:      in.Visitor.Email,
		VisitorCompany:    in.Visitor.VisitorCompany,
		Purpose:           in.Visitor.Purpose,
		PreRegistrationID: v.PreRegistrationID,
		CheckInTime:       v.CheckInTime,
	}
	s.publish(ctx, events.VisitCheckedIn, ev)
	return v, nil
}

func (s *visitService) CheckOut(ctx context.Context, actor domain.Actor, id int64) (*domain.Visit, error) {
	res, err := s.visits.CheckOut(ctx, actor.Scope(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrAlreadyCheckedOut):
			return nil, err
		}
		return nil, fmt.Errorf("check out: %w", err)
	}
	v := res.Visit
	metrics.VisitsCheckedOut.Inc()
	logger.InfoContext(ctx, "visitor checked out", "visit_id", id, "pre_registration_status", res.PreRegStatus)

	ev := events.VisitCheckedOutEvent{
		VisitID:   id,
		CompanyID: actor.CompanyID,
	}
	if v != nil {
		ev.HostID = v.HostID
		if v.Visitor != nil {
			ev.VisitorEmail = v.Visitor.Email
		}
		if v.CheckOutTime != nil {
			ev.CheckOutTime = *v.CheckOutTime
		}
	}
	s.publish(ctx, events.VisitCheckedOut, ev)
	return v, nil
}

func (s *visitService) List(ctx context.Context, actor domain.Actor, f domain.VisitFilter) ([]domain.Visit, int64, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, f.Status)
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return nil, 0, fmt.Errorf("%w: 'to' is before 'from'", domain.ErrInvalidInput)
	}
	visits, total, err := s.visits.List(ctx, actor.Scope(), f)
	if err != nil {
		return nil, 0, fmt.Errorf("list visits: %w", err)
	}
	return visits, total, nil
}

func (s *visitService) Get(ctx context.Context, actor domain.Actor, id int64) (*domain.Visit, error) {
	v, err := s.visits.Get(ctx, actor.Scope(), id)
	if err != nil {
		return nil, fmt.Errorf("get visit: %w", err)
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

func (s *visitService) publish(ctx context.Context, subject string, payload interface{}) {
	if err := s.bus.Publish(ctx, subject, payload); err != nil {
		logger.ErrorContext(ctx, "failed to publish event", "subject", subject, "error", err)
	}
}
