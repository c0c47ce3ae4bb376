package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/domain"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/repo/postgres"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/report"
	"golang.org/x/sync/errgroup"
)

// statsDays is the width of the visits_by_day series.
const statsDays = 7

type ReportService interface {
	VisitReport(ctx context.Context, actor domain.Actor, rng domain.ReportRange) ([]domain.VisitReportRow, error)
	ExportVisits(ctx context.Context, actor domain.Actor, rng domain.ReportRange, w io.Writer) error
	DashboardStats(ctx context.Context, actor domain.Actor) (*domain.DashboardStats, error)
}

type reportService struct {
	reports postgres.ReportRepo
	preRegs postgres.PreRegistrationRepo
	now     func() time.Time
}

func NewReportService(reports postgres.ReportRepo, preRegs postgres.PreRegistrationRepo) ReportService {
	return &reportService{reports: reports, preRegs: preRegs, now: time.Now}
}

func checkRange(rng domain.ReportRange) error {
	if rng.From != nil && rng.To != nil && rng.To.Before(*rng.From) {
		return fmt.Errorf("%w: 'to' is before 'from'", domain.ErrInvalidInput)
	}
	return nil
}

func (s *reportService) VisitReport(ctx context.Context, actor domain.Actor, rng domain.ReportRange) ([]domain.VisitReportRow, error) {
	if err := checkRange(rng); err != nil {
		return nil, err
	}
	rows, err := s.reports.VisitRows(ctx, actor.Scope(), rng)
	if err != nil {
		return nil, fmt.Errorf("load visit report: %w", err)
	}
	if rows == nil {
		rows = []domain.VisitReportRow{}
	}
	return rows, nil
}

func (s *reportService) ExportVisits(ctx context.Context, actor domain.Actor, rng domain.ReportRange, w io.Writer) error {
	rows, err := s.VisitReport(ctx, actor, rng)
	if err != nil {
		return err
	}
	return report.WriteVisits(w, rows)
}

// DashboardStats runs the independent counters concurrently.
func (s *reportService) DashboardStats(ctx context.Context, actor domain.Actor) (*domain.DashboardStats, error) {
	scope := actor.Scope()
	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	firstDay := midnight.AddDate(0, 0, -(statsDays - 1))

	var (
		stats  domain.DashboardStats
		perDay map[string]int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalVisits, err = s.reports.CountVisits(gctx, scope, nil)
		return err
	})
	g.Go(func() (err error) {
		stats.ActiveVisits, err = s.reports.CountActive(gctx, scope)
		return err
	})
	g.Go(func() (err error) {
		stats.TodayVisits, err = s.reports.CountVisits(gctx, scope, &midnight)
		return err
	})
	g.Go(func() (err error) {
		stats.PendingPreRegistrations, err = s.preRegs.CountPending(gctx, scope)
		return err
	})
	g.Go(func() (err error) {
		perDay, err = s.reports.VisitsPerDay(gctx, scope, firstDay)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}

	stats.VisitsByDay = make([]domain.DayCount, 0, statsDays)
	for d := firstDay; !d.After(midnight); d = d.AddDate(0, 0, 1) {
		key := d.Format(domain.DateLayout)
		stats.VisitsByDay = append(stats.VisitsByDay, domain.DayCount{Date: key, Count: perDay[key]})
	}
	return &stats, nil
}
