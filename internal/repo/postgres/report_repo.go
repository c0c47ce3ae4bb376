package postgres

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/domain"
)

type ReportRepo interface {
	VisitRows(ctx context.Context, scope domain.VisitScope, rng domain.ReportRange) ([]domain.VisitReportRow, error)
	CountVisits(ctx context.Context, scope domain.VisitScope, since *time.Time) (int64, error)
	CountActive(ctx context.Context, scope domain.VisitScope) (int64, error)
	// VisitsPerDay counts check-ins per local calendar day from since onwards.
	VisitsPerDay(ctx context.Context, scope domain.VisitScope, since time.Time) (map[string]int64, error)
}

type ReportRepoImpl struct{ db DB }

func NewReportRepo(db DB) *ReportRepoImpl { return &ReportRepoImpl{db: db} }

// exports can be large
const reportTimeout = 15 * time.Second

func (r *ReportRepoImpl) VisitRows(ctx context.Context, scope domain.VisitScope, rng domain.ReportRange) ([]domain.VisitReportRow, error) {
	where, args := visitWhere(scope, "", rng.From, rng.To, "")
	q := `SELECT v.id, vi.name, vi.email, vi.phone, vi.visitor_company, vi.purpose, vi.id_card_number,
COALESCE(u.name, ''), COALESCE(u.email, ''),
v.check_in_time, v.check_out_time, v.status, v.pre_registration_id IS NOT NULL
` + visitJoinFrom + `
` + where + `
ORDER BY v.check_in_time DESC, v.id DESC`

	ctx, cancel := context.WithTimeout(ctx, reportTimeout)
	defer cancel()
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.VisitReportRow
	for rows.Next() {
		var row domain.VisitReportRow
		if err := rows.Scan(
			&row.VisitID, &row.VisitorName, &row.VisitorEmail, &row.VisitorPhone, &row.VisitorCompany,
			&row.Purpose, &row.IDCardNumber, &row.HostName, &row.HostEmail,
			&row.CheckInTime, &row.CheckOutTime, &row.Status, &row.PreRegistered,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// zoneName returns an IANA name Postgres understands for loc. The process
// default location is named "Local", which Postgres does not know.
func zoneName(loc *time.Location) string {
	if name := loc.String(); name != "" && name != "Local" {
		return name
	}
	if tz := os.Getenv("TZ"); tz != "" {
		return tz
	}
	return "UTC"
}

func (r *ReportRepoImpl) count(ctx context.Context, q string, args ...any) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	var n int64
	err := r.db.QueryRow(ctx, q, args...).Scan(&n)
	return n, err
}

func (r *ReportRepoImpl) CountVisits(ctx context.Context, scope domain.VisitScope, since *time.Time) (int64, error) {
	where, args := visitWhere(scope, "", since, nil, "")
	return r.count(ctx, `SELECT count(*) FROM visits v `+where, args...)
}

func (r *ReportRepoImpl) CountActive(ctx context.Context, scope domain.VisitScope) (int64, error) {
	const q = `SELECT count(*) FROM visits v
WHERE v.company_id=$1 AND ($2::bigint = 0 OR v.host_id = $2) AND v.check_out_time IS NULL`
	return r.count(ctx, q, scope.CompanyID, scope.HostID)
}

func (r *ReportRepoImpl) VisitsPerDay(ctx context.Context, scope domain.VisitScope, since time.Time) (map[string]int64, error) {
	where, args := visitWhere(scope, "", &since, nil, "")
	// days are cut in the zone of since, with each row's own DST offset
	args = append(args, zoneName(since.Location()))
	q := fmt.Sprintf(`SELECT to_char(v.check_in_time AT TIME ZONE $%d, 'YYYY-MM-DD') AS day, count(*)
FROM visits v
%s
GROUP BY day`, len(args), where)

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var (
			day string
			n   int64
		)
		if err := rows.Scan(&day, &n); err != nil {
			return nil, err
		}
		out[day] = n
	}
	return out, rows.Err()
}
