package postgres

import (
	"context"

	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/domain"
	"github.com/jackc/pgx/v5"
)

type CompanyRepo interface {
	// RegisterWithAdmin creates a company and its first (unverified) admin atomically.
	RegisterWithAdmin(ctx context.Context, in *domain.RegisterRequest, hash string) (*domain.Company, *domain.User, error)
	Get(ctx context.Context, id int64) (*domain.Company, error)
	Update(ctx context.Context, id int64, in *domain.UpdateCompanyRequest) (*domain.Company, error)
}

type CompanyRepoImpl struct{ db DB }

func NewCompanyRepo(db DB) *CompanyRepoImpl { return &CompanyRepoImpl{db: db} }

const companyCols = `id, name, address, phone, email, logo_url, created_at, updated_at`

func scanCompany(row pgx.Row) (*domain.Company, error) {
	var c domain.Company
	if err := row.Scan(&c.ID, &c.Name, &c.Address, &c.Phone, &c.Email, &c.LogoURL, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CompanyRepoImpl) RegisterWithAdmin(ctx context.Context, in *domain.RegisterRequest, hash string) (*domain.Company, *domain.User, error) {
	const insCompany = `
INSERT INTO companies (name, phone, email)
VALUES ($1,$2,$3)
RETURNING ` + companyCols
	const insAdmin = `
INSERT INTO users (name, email, password_hash, role, company_id, company_name, phone)
VALUES ($1,$2,$3,'admin',$4,$5,$6)
RETURNING ` + userCols

	ctx, cancel := context.WithTimeout(ctx, 2*queryTimeout)
	defer cancel()

	var (
		company *domain.Company
		admin   *domain.User
	)
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		company, err = scanCompany(tx.QueryRow(ctx, insCompany, in.CompanyName, in.Phone, in.Email))
		if err != nil {
			return err
		}
		admin, err = scanUser(tx.QueryRow(ctx, insAdmin, in.Name, in.Email, hash, company.ID, company.Name, in.Phone))
		return err
	})
	switch {
	case IsUniqueViolation(err, "companies_name_key"):
		return nil, nil, domain.ErrCompanyExists
	case IsUniqueViolation(err, "users_email_key"):
		return nil, nil, domain.ErrEmailExists
	case err != nil:
		return nil, nil, err
	}
	return company, admin, nil
}

func (r *CompanyRepoImpl) Get(ctx context.Context, id int64) (*domain.Company, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	c, err := scanCompany(r.db.QueryRow(ctx, `SELECT `+companyCols+` FROM companies WHERE id=$1`, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return c, err
}

// Update patches the company and keeps users.company_name in step with a rename.
func (r *CompanyRepoImpl) Update(ctx context.Context, id int64, in *domain.UpdateCompanyRequest) (*domain.Company, error) {
	const q = `
UPDATE companies SET
  name       = COALESCE($2, name),
  address    = COALESCE($3, address),
  phone      = COALESCE($4, phone),
  email      = COALESCE($5, email),
  logo_url   = COALESCE($6, logo_url),
  updated_at = now()
WHERE id=$1
RETURNING ` + companyCols
	const syncUsers = `UPDATE users SET company_name=$2, updated_at=now() WHERE company_id=$1 AND company_name<>$2`

	ctx, cancel := context.WithTimeout(ctx, 2*queryTimeout)
	defer cancel()

	var c *domain.Company
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		c, err = scanCompany(tx.QueryRow(ctx, q, id, in.Name, in.Address, in.Phone, in.Email, in.LogoURL))
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, syncUsers, c.ID, c.Name)
		return err
	})
	switch {
	case err == pgx.ErrNoRows:
		return nil, nil
	case IsUniqueViolation(err, "companies_name_key"):
		return nil, domain.ErrCompanyExists
	case err != nil:
		return nil, err
	}
	return c, nil
}
