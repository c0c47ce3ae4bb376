package postgres

import (
	"context"

	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/domain"
	"github.com/jackc/pgx/v5"
)

type UsersRepo interface {
	CreateHost(ctx context.Context, companyID int64, companyName string, in *domain.CreateHostRequest, hash string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindInCompany(ctx context.Context, companyID, id int64) (*domain.User, error)
	ListByCompany(ctx context.Context, companyID int64, limit, offset int) ([]domain.User, int64, error)
	ListHosts(ctx context.Context, companyID int64) ([]domain.User, error)
	Update(ctx context.Context, companyID, id int64, in *domain.UpdateUserRequest) (*domain.User, error)
	SetActive(ctx context.Context, companyID, id int64, active bool) (bool, error)
}

type UsersRepoImpl struct{ db DB }

func NewUsersRepo(db DB) *UsersRepoImpl { return &UsersRepoImpl{db: db} }

const userCols = `id, name, email, password_hash, role, company_id, company_name,
department, designation, phone, is_verified, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CompanyID, &u.CompanyName,
		&u.Department, &u.Designation, &u.Phone, &u.IsVerified, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UsersRepoImpl) findOne(ctx context.Context, q string, args ...any) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	u, err := scanUser(r.db.QueryRow(ctx, q, args...))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return u, err
}

func (r *UsersRepoImpl) CreateHost(ctx context.Context, companyID int64, companyName string, in *domain.CreateHostRequest, hash string) (*domain.User, error) {
	const q = `
INSERT INTO users (name, email, password_hash, role, company_id, company_name, department, designation, phone, is_verified)
VALUES ($1,$2,$3,'host',$4,$5,$6,$7,$8,true)
RETURNING ` + userCols
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	u, err := scanUser(r.db.QueryRow(ctx, q,
		in.Name, in.Email, hash, companyID, companyName, in.Department, in.Designation, in.Phone,
	))
	if IsUniqueViolation(err, "users_email_key") {
		return nil, domain.ErrEmailExists
	}
	return u, err
}

func (r *UsersRepoImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userCols+` FROM users WHERE lower(email)=lower($1)`, email)
}

func (r *UsersRepoImpl) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userCols+` FROM users WHERE id=$1`, id)
}

func (r *UsersRepoImpl) FindInCompany(ctx context.Context, companyID, id int64) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userCols+` FROM users WHERE id=$1 AND company_id=$2`, id, companyID)
}

func (r *UsersRepoImpl) ListByCompany(ctx context.Context, companyID int64, limit, offset int) ([]domain.User, int64, error) {
	limit, offset = clampPage(limit, offset)
	const q = `SELECT ` + userCols + `, count(*) OVER()
FROM users WHERE company_id=$1
ORDER BY role, name, id
LIMIT $2 OFFSET $3`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, q, companyID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var (
		out   []domain.User
		total int64
	)
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(
			&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CompanyID, &u.CompanyName,
			&u.Department, &u.Designation, &u.Phone, &u.IsVerified, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

func (r *UsersRepoImpl) ListHosts(ctx context.Context, companyID int64) ([]domain.User, error) {
	const q = `SELECT ` + userCols + ` FROM users
WHERE company_id=$1 AND is_active
ORDER BY name, id`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, q, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (r *UsersRepoImpl) Update(ctx context.Context, companyID, id int64, in *domain.UpdateUserRequest) (*domain.User, error) {
	const q = `
UPDATE users SET
  name        = COALESCE($3, name),
  department  = COALESCE($4, department),
  designation = COALESCE($5, designation),
  phone       = COALESCE($6, phone),
  is_active   = COALESCE($7, is_active),
  updated_at  = now()
WHERE id=$1 AND company_id=$2
RETURNING ` + userCols
	return r.findOne(ctx, q, id, companyID, in.Name, in.Department, in.Designation, in.Phone, in.IsActive)
}

func (r *UsersRepoImpl) SetActive(ctx context.Context, companyID, id int64, active bool) (bool, error) {
	const q = `UPDATE users SET is_active=$3, updated_at=now() WHERE id=$1 AND company_id=$2`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	tag, err := r.db.Exec(ctx, q, id, companyID, active)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
