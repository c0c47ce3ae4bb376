package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/domain"
	"github.com/jackc/pgx/v5"
)

type VisitRepo interface {
	// CheckIn records a visitor and an open visit in one transaction. It fails
	// with domain.ErrAlreadyCheckedIn when the email already has an open visit in
	// the company and with domain.ErrNotCheckable when a linked pre-registration
	// cannot be used today.
	CheckIn(ctx context.Context, in *domain.NewCheckIn) (*domain.Visit, error)
	// CheckOut closes an open visit and advances its pre-registration.
	CheckOut(ctx context.Context, scope domain.VisitScope, id int64) (*domain.CheckOutResult, error)
	Get(ctx context.Context, scope domain.VisitScope, id int64) (*domain.Visit, error)
	List(ctx context.Context, scope domain.VisitScope, f domain.VisitFilter) ([]domain.Visit, int64, error)
}

type VisitRepoImpl struct{ db DB }

func NewVisitRepo(db DB) *VisitRepoImpl { return &VisitRepoImpl{db: db} }

const openVisitIndex = "visits_one_open_per_email"

const visitJoinCols = `v.id, v.company_id, v.visitor_id, v.host_id, v.pre_registration_id,
v.check_in_time, v.check_out_time, v.status, v.notes, v.created_at, v.updated_at,
vi.id, vi.company_id, vi.name, vi.email, vi.phone, vi.visitor_company, vi.purpose,
vi.id_card_number, vi.photo_url, vi.created_at,
COALESCE(u.name, ''), COALESCE(u.email, '')`

const visitJoinFrom = `FROM visits v
JOIN visitors vi ON vi.id = v.visitor_id
LEFT JOIN users u ON u.id = v.host_id`

func scanVisit(row pgx.Row, extra ...any) (*domain.Visit, error) {
	var (
		v  domain.Visit
		vi domain.Visitor
	)
	dest := []any{
		&v.ID, &v.CompanyID, &v.VisitorID, &v.HostID, &v.PreRegistrationID,
		&v.CheckInTime, &v.CheckOutTime, &v.Status, &v.Notes, &v.CreatedAt, &v.UpdatedAt,
		&vi.ID, &vi.CompanyID, &vi.Name, &vi.Email, &vi.Phone, &vi.VisitorCompany, &vi.Purpose,
		&vi.IDCardNumber, &vi.PhotoURL, &vi.CreatedAt,
		&v.HostName, &v.HostEmail,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	v.Visitor = &vi
	return &v, nil
}

// openVisitLockKey serializes concurrent check-ins of one email within a company.
func openVisitLockKey(companyID int64, email string) string {
	return fmt.Sprintf("visit:%d:%s", companyID, strings.ToLower(email))
}

func (r *VisitRepoImpl) CheckIn(ctx context.Context, in *domain.NewCheckIn) (*domain.Visit, error) {
	const (
		lock     = `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`
		openQ    = `SELECT EXISTS (SELECT 1 FROM visits WHERE company_id=$1 AND lower(visitor_email)=lower($2) AND check_out_time IS NULL)`
		preRegQ  = `SELECT ` + preRegCols + ` FROM pre_registrations WHERE id=$1 AND company_id=$2 FOR UPDATE`
		visitorQ = `
INSERT INTO visitors (company_id, name, email, phone, visitor_company, purpose, id_card_number, photo_url)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
RETURNING id, created_at`
		visitQ = `
INSERT INTO visits (company_id, visitor_id, visitor_email, host_id, pre_registration_id, status, notes)
VALUES ($1,$2,$3,$4,$5,'checked_in',$6)
RETURNING id`
		markPreRegQ = `UPDATE pre_registrations SET status='checked_in', updated_at=now() WHERE id=$1`
	)

	ctx, cancel := context.WithTimeout(ctx, 3*queryTimeout)
	defer cancel()

	vi := in.Visitor
	vi.CompanyID = in.CompanyID

	var visitID int64
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, lock, openVisitLockKey(in.CompanyID, vi.Email)); err != nil {
			return err
		}
		var open bool
		if err := tx.QueryRow(ctx, openQ, in.CompanyID, vi.Email).Scan(&open); err != nil {
			return err
		}
		if open {
			return domain.ErrAlreadyCheckedIn
		}

		if in.PreRegistrationID != nil {
			p, err := scanPreReg(tx.QueryRow(ctx, preRegQ, *in.PreRegistrationID, in.CompanyID))
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("%w: pre-registration not found", domain.ErrNotCheckable)
			}
			if err != nil {
				return err
			}
			if err := p.CheckableOn(in.Today); err != nil {
				return err
			}
		}

		if err := tx.QueryRow(ctx, visitorQ,
			vi.CompanyID, vi.Name, vi.Email, vi.Phone, vi.VisitorCompany, vi.Purpose, vi.IDCardNumber, vi.PhotoURL,
		).Scan(&vi.ID, &vi.CreatedAt); err != nil {
			return err
		}
		if err := tx.QueryRow(ctx, visitQ,
			in.CompanyID, vi.ID, vi.Email, in.HostID, in.PreRegistrationID, in.Notes,
		).Scan(&visitID); err != nil {
			return err
		}
		if in.PreRegistrationID != nil {
			if _, err := tx.Exec(ctx, markPreRegQ, *in.PreRegistrationID); err != nil {
				return err
			}
		}
		return nil
	})
	if IsUniqueViolation(err, openVisitIndex) {
		return nil, domain.ErrAlreadyCheckedIn
	}
	if err != nil {
		return nil, err
	}

	v, err := r.Get(ctx, domain.VisitScope{CompanyID: in.CompanyID}, visitID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("visit %d vanished after check-in", visitID)
	}
	return v, nil
}

func (r *VisitRepoImpl) CheckOut(ctx context.Context, scope domain.VisitScope, id int64) (*domain.CheckOutResult, error) {
	const (
		lockVisit = `
SELECT host_id, pre_registration_id, check_in_time, check_out_time
FROM visits WHERE id=$1 AND company_id=$2 FOR UPDATE`
		closeVisit  = `UPDATE visits SET check_out_time=now(), status='checked_out', updated_at=now() WHERE id=$1`
		lockPreReg  = `SELECT ` + preRegCols + ` FROM pre_registrations WHERE id=$1 FOR UPDATE`
		setPreRegSt = `UPDATE pre_registrations SET status=$2, updated_at=now() WHERE id=$1`
	)

	ctx, cancel := context.WithTimeout(ctx, 3*queryTimeout)
	defer cancel()

	var preRegStatus domain.PreRegStatus
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		var (
			hostID   int64
			preRegID *int64
			checkIn  time.Time
			checkOut *time.Time
		)
		err := tx.QueryRow(ctx, lockVisit, id, scope.CompanyID).Scan(&hostID, &preRegID, &checkIn, &checkOut)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}
		if scope.HostID != 0 && hostID != scope.HostID {
			return domain.ErrForbidden
		}
		if checkOut != nil {
			return domain.ErrAlreadyCheckedOut
		}
		if _, err := tx.Exec(ctx, closeVisit, id); err != nil {
			return err
		}
		if preRegID == nil {
			return nil
		}

		p, err := scanPreReg(tx.QueryRow(ctx, lockPreReg, *preRegID))
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		if p.Status != domain.PreRegCheckedIn {
			preRegStatus = p.Status
			return nil
		}
		preRegStatus = p.StatusAfterCheckout(domain.Day(checkIn.Local()))
		_, err = tx.Exec(ctx, setPreRegSt, p.ID, string(preRegStatus))
		return err
	})
	if err != nil {
		return nil, err
	}

	v, err := r.Get(ctx, domain.VisitScope{CompanyID: scope.CompanyID}, id)
	if err != nil {
		return nil, err
	}
	return &domain.CheckOutResult{Visit: v, PreRegStatus: preRegStatus}, nil
}

func (r *VisitRepoImpl) Get(ctx context.Context, scope domain.VisitScope, id int64) (*domain.Visit, error) {
	const q = `SELECT ` + visitJoinCols + ` ` + visitJoinFrom + `
WHERE v.id=$1 AND v.company_id=$2 AND ($3::bigint = 0 OR v.host_id = $3)`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	v, err := scanVisit(r.db.QueryRow(ctx, q, id, scope.CompanyID, scope.HostID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return v, err
}

// visitWhere builds the shared WHERE clause for visit listings and reports.
func visitWhere(scope domain.VisitScope, status domain.VisitStatus, from, to *time.Time, search string) (string, []any) {
	where := []string{"v.company_id = $1"}
	args := []any{scope.CompanyID}
	add := func(cond string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if scope.HostID != 0 {
		add("v.host_id = $%d", scope.HostID)
	}
	if status != "" {
		add("v.status = $%d", string(status))
	}
	if from != nil {
		add("v.check_in_time >= $%d", *from)
	}
	if to != nil {
		add("v.check_in_time < $%d", *to)
	}
	if s := strings.TrimSpace(search); s != "" {
		args = append(args, "%"+escapeLike(s)+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(vi.name ILIKE $%d OR vi.email ILIKE $%d OR vi.visitor_company ILIKE $%d)", n, n, n))
	}
	return "WHERE " + strings.Join(where, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *VisitRepoImpl) List(ctx context.Context, scope domain.VisitScope, f domain.VisitFilter) ([]domain.Visit, int64, error) {
	limit, offset := clampPage(f.Limit, f.Offset)
	where, args := visitWhere(scope, f.Status, f.From, f.To, f.Search)
	args = append(args, limit, offset)
	q := `SELECT ` + visitJoinCols + `, count(*) OVER() ` + visitJoinFrom + `
` + where + fmt.Sprintf(`
ORDER BY v.check_in_time DESC, v.id DESC
LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var (
		out   []domain.Visit
		total int64
	)
	for rows.Next() {
		v, err := scanVisit(rows, &total)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *v)
	}
	return out, total, rows.Err()
}
