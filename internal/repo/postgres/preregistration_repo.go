package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/domain"
	"github.com/jackc/pgx/v5"
)

type PreRegistrationRepo interface {
	Create(ctx context.Context, p *domain.PreRegistration) (*domain.PreRegistration, error)
	GetByID(ctx context.Context, scope domain.VisitScope, id int64) (*domain.PreRegistration, error)
	GetByQRCode(ctx context.Context, companyID int64, code string) (*domain.PreRegistration, error)
	List(ctx context.Context, scope domain.VisitScope, f domain.PreRegFilter) ([]domain.PreRegistration, int64, error)
	// Cancel moves a pending entry to cancelled. It returns the current row and
	// whether the transition happened; (nil, false, nil) when not found.
	Cancel(ctx context.Context, scope domain.VisitScope, id int64) (*domain.PreRegistration, bool, error)
	// ExpireStale marks pending entries with no remaining occurrence on or after
	// today as expired.
	ExpireStale(ctx context.Context, companyID int64, today time.Time) (int64, error)
	CountPending(ctx context.Context, scope domain.VisitScope) (int64, error)
}

type PreRegistrationRepoImpl struct{ db DB }

func NewPreRegistrationRepo(db DB) *PreRegistrationRepoImpl {
	return &PreRegistrationRepoImpl{db: db}
}

const preRegCols = `id, company_id, host_id, host_name,
visitor_name, visitor_email, visitor_phone, visitor_company, purpose,
visit_date, visit_time, status, qr_code,
is_recurring, recurring_pattern, recurring_end_date, created_at, updated_at`

func scanPreReg(row pgx.Row, extra ...any) (*domain.PreRegistration, error) {
	var (
		p       domain.PreRegistration
		pattern *string
	)
	dest := []any{
		&p.ID, &p.CompanyID, &p.HostID, &p.HostName,
		&p.VisitorName, &p.VisitorEmail, &p.VisitorPhone, &p.VisitorCompany, &p.Purpose,
		&p.VisitDate, &p.VisitTime, &p.Status, &p.QRCode,
		&p.IsRecurring, &pattern, &p.RecurringEndDate, &p.CreatedAt, &p.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	if pattern != nil {
		rp := domain.RecurringPattern(*pattern)
		p.RecurringPattern = &rp
	}
	return &p, nil
}

func patternArg(p *domain.RecurringPattern) *string {
	if p == nil {
		return nil
	}
	s := string(*p)
	return &s
}

func (r *PreRegistrationRepoImpl) Create(ctx context.Context, p *domain.PreRegistration) (*domain.PreRegistration, error) {
	const q = `
INSERT INTO pre_registrations (
  company_id, host_id, host_name,
  visitor_name, visitor_email, visitor_phone, visitor_company, purpose,
  visit_date, visit_time, status, qr_code,
  is_recurring, recurring_pattern, recurring_end_date
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,'pending',$11,$12,$13,$14)
RETURNING ` + preRegCols
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return scanPreReg(r.db.QueryRow(ctx, q,
		p.CompanyID, p.HostID, p.HostName,
		p.VisitorName, p.VisitorEmail, p.VisitorPhone, p.VisitorCompany, p.Purpose,
		p.VisitDate, p.VisitTime, p.QRCode,
		p.IsRecurring, patternArg(p.RecurringPattern), p.RecurringEndDate,
	))
}

func (r *PreRegistrationRepoImpl) findOne(ctx context.Context, q string, args ...any) (*domain.PreRegistration, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	p, err := scanPreReg(r.db.QueryRow(ctx, q, args...))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (r *PreRegistrationRepoImpl) GetByID(ctx context.Context, scope domain.VisitScope, id int64) (*domain.PreRegistration, error) {
	const q = `SELECT ` + preRegCols + ` FROM pre_registrations
WHERE id=$1 AND company_id=$2 AND ($3::bigint = 0 OR host_id = $3)`
	return r.findOne(ctx, q, id, scope.CompanyID, scope.HostID)
}

func (r *PreRegistrationRepoImpl) GetByQRCode(ctx context.Context, companyID int64, code string) (*domain.PreRegistration, error) {
	const q = `SELECT ` + preRegCols + ` FROM pre_registrations WHERE qr_code=$1 AND company_id=$2`
	return r.findOne(ctx, q, code, companyID)
}

func (r *PreRegistrationRepoImpl) List(ctx context.Context, scope domain.VisitScope, f domain.PreRegFilter) ([]domain.PreRegistration, int64, error) {
	limit, offset := clampPage(f.Limit, f.Offset)

	where := []string{"company_id = $1"}
	args := []any{scope.CompanyID}
	if scope.HostID != 0 {
		args = append(args, scope.HostID)
		where = append(where, fmt.Sprintf("host_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	args = append(args, limit, offset)
	q := `SELECT ` + preRegCols + `, count(*) OVER() FROM pre_registrations
WHERE ` + strings.Join(where, " AND ") + fmt.Sprintf(`
ORDER BY visit_date DESC, id DESC
LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var (
		out   []domain.PreRegistration
		total int64
	)
	for rows.Next() {
		p, err := scanPreReg(rows, &total)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *p)
	}
	return out, total, rows.Err()
}

func (r *PreRegistrationRepoImpl) Cancel(ctx context.Context, scope domain.VisitScope, id int64) (*domain.PreRegistration, bool, error) {
	const upd = `
UPDATE pre_registrations SET status='cancelled', updated_at=now()
WHERE id=$1 AND company_id=$2 AND ($3::bigint = 0 OR host_id = $3) AND status='pending'
RETURNING ` + preRegCols
	p, err := r.findOne(ctx, upd, id, scope.CompanyID, scope.HostID)
	if err != nil || p != nil {
		return p, p != nil, err
	}
	cur, err := r.GetByID(ctx, scope, id)
	return cur, false, err
}

func (r *PreRegistrationRepoImpl) ExpireStale(ctx context.Context, companyID int64, today time.Time) (int64, error) {
	const q = `
UPDATE pre_registrations SET status='expired', updated_at=now()
WHERE company_id=$1 AND status='pending'
  AND (CASE WHEN is_recurring AND recurring_end_date IS NOT NULL
            THEN recurring_end_date ELSE visit_date END) < $2::date`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	tag, err := r.db.Exec(ctx, q, companyID, today)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PreRegistrationRepoImpl) CountPending(ctx context.Context, scope domain.VisitScope) (int64, error) {
	const q = `SELECT count(*) FROM pre_registrations
WHERE company_id=$1 AND ($2::bigint = 0 OR host_id = $2) AND status='pending'`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	var n int64
	err := r.db.QueryRow(ctx, q, scope.CompanyID, scope.HostID).Scan(&n)
	return n, err
}
