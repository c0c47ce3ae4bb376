package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCheckIn() *domain.NewCheckIn {
	return &domain.NewCheckIn{
		CompanyID: 1,
		HostID:    2,
		Visitor: domain.Visitor{
			Name:    "Ada Lovelace",
			Email:   "ada@example.com",
			Phone:   "5551234567",
			Purpose: "Meeting",
		},
		Today: domain.Today(),
	}
}

func visitRow(now time.Time) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "company_id", "visitor_id", "host_id", "pre_registration_id",
		"check_in_time", "check_out_time", "status", "notes", "created_at", "updated_at",
		"vid", "vcompany", "name", "email", "phone", "visitor_company", "purpose",
		"id_card_number", "photo_url", "vcreated",
		"host_name", "host_email",
	}).AddRow(
		int64(10), int64(1), int64(5), int64(2), nil,
		now, nil, domain.VisitStatusCheckedIn, "", now, now,
		int64(5), int64(1), "Ada Lovelace", "ada@example.com", "5551234567", "", "Meeting",
		"", "", now,
		"Host", "host@example.com",
	)
}

func TestCheckInCommitsVisit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectExec("pg_advisory_xact_lock").
		WithArgs("visit:1:ada@example.com").
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(1), "ada@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery("INSERT INTO visitors").
		WithArgs(int64(1), "Ada Lovelace", "ada@example.com", "5551234567", "", "Meeting", "", "").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(5), now))
	mock.ExpectQuery("INSERT INTO visits").
		WithArgs(int64(1), int64(5), "ada@example.com", int64(2), pgxmock.AnyArg(), "").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(10)))
	mock.ExpectCommit()
	mock.ExpectQuery("FROM visits v").
		WithArgs(int64(10), int64(1), int64(0)).
		WillReturnRows(visitRow(now))

	repo := NewVisitRepo(mock)
	v, err := repo.CheckIn(context.Background(), newCheckIn())
	require.NoError(t, err)
	assert.Equal(t, int64(10), v.ID)
	assert.Equal(t, "Host", v.HostName)
	require.NotNil(t, v.Visitor)
	assert.Equal(t, "ada@example.com", v.Visitor.Email)
	assert.True(t, v.IsOpen())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckInRejectsOpenVisit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("pg_advisory_xact_lock").
		WithArgs(pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(1), "ada@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err = NewVisitRepo(mock).CheckIn(context.Background(), newCheckIn())
	assert.ErrorIs(t, err, domain.ErrAlreadyCheckedIn)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckInMapsOpenVisitIndexViolation(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("pg_advisory_xact_lock").
		WithArgs(pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(1), "ada@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery("INSERT INTO visitors").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(5), time.Now()))
	mock.ExpectQuery("INSERT INTO visits").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: openVisitIndex})
	mock.ExpectRollback()

	_, err = NewVisitRepo(mock).CheckIn(context.Background(), newCheckIn())
	assert.ErrorIs(t, err, domain.ErrAlreadyCheckedIn)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckInRollsBackOnInsertFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	boom := errors.New("disk full")
	mock.ExpectBegin()
	mock.ExpectExec("pg_advisory_xact_lock").
		WithArgs(pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(1), "ada@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery("INSERT INTO visitors").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(boom)
	mock.ExpectRollback()

	_, err = NewVisitRepo(mock).CheckIn(context.Background(), newCheckIn())
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckOutAlreadyClosed(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(10), int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"host_id", "pre_registration_id", "check_in_time", "check_out_time"}).
			AddRow(int64(2), nil, now.Add(-time.Hour), &now))
	mock.ExpectRollback()

	_, err = NewVisitRepo(mock).CheckOut(context.Background(), domain.VisitScope{CompanyID: 1}, 10)
	assert.ErrorIs(t, err, domain.ErrAlreadyCheckedOut)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckOutOtherHostsVisit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(10), int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"host_id", "pre_registration_id", "check_in_time", "check_out_time"}).
			AddRow(int64(3), nil, time.Now(), nil))
	mock.ExpectRollback()

	_, err = NewVisitRepo(mock).CheckOut(context.Background(), domain.VisitScope{CompanyID: 1, HostID: 2}, 10)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

var preRegColumns = []string{
	"id", "company_id", "host_id", "host_name",
	"visitor_name", "visitor_email", "visitor_phone", "visitor_company", "purpose",
	"visit_date", "visit_time", "status", "qr_code",
	"is_recurring", "recurring_pattern", "recurring_end_date", "created_at", "updated_at",
}

const preRegID = int64(7)

// preRegRow is a single-visit pre-registration, or a recurring one when
// pattern is set.
func preRegRow(status domain.PreRegStatus, visitDate time.Time, pattern string, end time.Time) *pgxmock.Rows {
	var patternVal, endVal any
	if pattern != "" {
		patternVal, endVal = &pattern, &end
	}
	now := time.Now()
	return pgxmock.NewRows(preRegColumns).AddRow(
		preRegID, int64(1), int64(2), "Host",
		"Ada Lovelace", "ada@example.com", "5551234567", "", "Meeting",
		visitDate, "09:30", status, "VMS-6f1c3c2e-8a8f-4f44-9bde-2d1c9f0b7a10",
		pattern != "", patternVal, endVal, now, now,
	)
}

func linkedCheckIn() *domain.NewCheckIn {
	in := newCheckIn()
	id := preRegID
	in.PreRegistrationID = &id
	return in
}

// expectNoOpenVisit queues the lock and open-visit lookup that start every check-in.
func expectNoOpenVisit(mock pgxmock.PgxPoolIface) {
	mock.ExpectBegin()
	mock.ExpectExec("pg_advisory_xact_lock").
		WithArgs("visit:1:ada@example.com").
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(1), "ada@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
}

func TestCheckInMarksPreRegistration(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	today := domain.Today()
	expectNoOpenVisit(mock)
	mock.ExpectQuery("FROM pre_registrations WHERE id").
		WithArgs(preRegID, int64(1)).
		WillReturnRows(preRegRow(domain.PreRegPending, today, "", time.Time{}))
	mock.ExpectQuery("INSERT INTO visitors").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(5), now))
	mock.ExpectQuery("INSERT INTO visits").
		WithArgs(int64(1), int64(5), "ada@example.com", int64(2), pgxmock.AnyArg(), "").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(10)))
	mock.ExpectExec("UPDATE pre_registrations SET status='checked_in'").
		WithArgs(preRegID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()
	mock.ExpectQuery("FROM visits v").
		WithArgs(int64(10), int64(1), int64(0)).
		WillReturnRows(visitRow(now))

	v, err := NewVisitRepo(mock).CheckIn(context.Background(), linkedCheckIn())
	require.NoError(t, err)
	assert.Equal(t, int64(10), v.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckInRejectsUncheckablePreRegistration(t *testing.T) {
	today := domain.Today()
	tests := []struct {
		name string
		rows *pgxmock.Rows
	}{
		{"cancelled", preRegRow(domain.PreRegCancelled, today, "", time.Time{})},
		{"scheduled tomorrow", preRegRow(domain.PreRegPending, today.AddDate(0, 0, 1), "", time.Time{})},
		{"already checked in", preRegRow(domain.PreRegCheckedIn, today, "", time.Time{})},
		{"weekly on another weekday", preRegRow(domain.PreRegPending, today.AddDate(0, 0, -1), "weekly", today.AddDate(0, 1, 0))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			expectNoOpenVisit(mock)
			mock.ExpectQuery("FROM pre_registrations WHERE id").
				WithArgs(preRegID, int64(1)).
				WillReturnRows(tt.rows)
			mock.ExpectRollback()

			_, err = NewVisitRepo(mock).CheckIn(context.Background(), linkedCheckIn())
			assert.ErrorIs(t, err, domain.ErrNotCheckable)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCheckInUnknownPreRegistration(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	expectNoOpenVisit(mock)
	mock.ExpectQuery("FROM pre_registrations WHERE id").
		WithArgs(preRegID, int64(1)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err = NewVisitRepo(mock).CheckIn(context.Background(), linkedCheckIn())
	assert.ErrorIs(t, err, domain.ErrNotCheckable)
	assert.ErrorContains(t, err, "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckOutAdvancesPreRegistration(t *testing.T) {
	today := domain.Today()
	tests := []struct {
		name string
		rows *pgxmock.Rows
		want domain.PreRegStatus
	}{
		{
			name: "recurring with days left returns to pending",
			rows: preRegRow(domain.PreRegCheckedIn, today.AddDate(0, 0, -1), "daily", today.AddDate(0, 0, 5)),
			want: domain.PreRegPending,
		},
		{
			name: "single visit is done",
			rows: preRegRow(domain.PreRegCheckedIn, today, "", time.Time{}),
			want: domain.PreRegCheckedOut,
		},
		{
			name: "recurring on its last day is done",
			rows: preRegRow(domain.PreRegCheckedIn, today.AddDate(0, 0, -3), "daily", today),
			want: domain.PreRegCheckedOut,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			now := time.Now()
			id := preRegID
			mock.ExpectBegin()
			mock.ExpectQuery("FOR UPDATE").
				WithArgs(int64(10), int64(1)).
				WillReturnRows(pgxmock.NewRows([]string{"host_id", "pre_registration_id", "check_in_time", "check_out_time"}).
					AddRow(int64(2), &id, now, nil))
			mock.ExpectExec("UPDATE visits SET check_out_time").
				WithArgs(int64(10)).
				WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			mock.ExpectQuery("FROM pre_registrations WHERE id").
				WithArgs(preRegID).
				WillReturnRows(tt.rows)
			mock.ExpectExec("UPDATE pre_registrations SET status").
				WithArgs(preRegID, string(tt.want)).
				WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			mock.ExpectCommit()
			mock.ExpectQuery("FROM visits v").
				WithArgs(int64(10), int64(1), int64(0)).
				WillReturnRows(visitRow(now))

			res, err := NewVisitRepo(mock).CheckOut(context.Background(), domain.VisitScope{CompanyID: 1, HostID: 2}, 10)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.PreRegStatus)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	err := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	assert.True(t, IsUniqueViolation(err, ""))
	assert.True(t, IsUniqueViolation(err, "users_email_key"))
	assert.False(t, IsUniqueViolation(err, "companies_name_key"))
	assert.False(t, IsUniqueViolation(errors.New("x"), ""))
}

func TestVisitWhereBuildsPositionalArgs(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	where, args := visitWhere(domain.VisitScope{CompanyID: 1, HostID: 2}, domain.VisitStatusCheckedIn, &from, nil, "50%_off")
	assert.Equal(t,
		"WHERE v.company_id = $1 AND v.host_id = $2 AND v.status = $3 AND v.check_in_time >= $4 AND (vi.name ILIKE $5 OR vi.email ILIKE $5 OR vi.visitor_company ILIKE $5)",
		where)
	require.Len(t, args, 5)
	assert.Equal(t, `%50\%\_off%`, args[4])
}
