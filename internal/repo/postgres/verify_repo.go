package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

// VerifyRepo manages email verification tokens and the users.is_verified flag.
type VerifyRepo interface {
	// CreateEmailVerification inserts a one-time verification token for a user.
	CreateEmailVerification(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	// ConsumeEmailVerification marks the token used and the user verified in one
	// transaction. Returns 0 when the token is unknown, used or expired.
	ConsumeEmailVerification(ctx context.Context, token string) (userID int64, err error)
	// DeleteExpiredTokens removes tokens that were used or expired over 30 days ago.
	DeleteExpiredTokens(ctx context.Context) (int64, error)
}

type VerifyRepoImpl struct{ db DB }

func NewVerifyRepo(db DB) *VerifyRepoImpl { return &VerifyRepoImpl{db: db} }

func (r *VerifyRepoImpl) CreateEmailVerification(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.Exec(ctx,
		`INSERT INTO email_verification_tokens (user_id, token, expires_at)
         VALUES ($1, $2, $3)`,
		userID, token, expiresAt,
	)
	return err
}

func (r *VerifyRepoImpl) ConsumeEmailVerification(ctx context.Context, token string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*queryTimeout)
	defer cancel()

	var userID int64
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `
UPDATE email_verification_tokens
SET used_at = now()
WHERE token = $1
  AND used_at IS NULL
  AND expires_at > now()
RETURNING user_id
`, token).Scan(&userID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
UPDATE users
SET is_verified = true, updated_at = now()
WHERE id = $1
`, userID)
		return err
	})
	if err == pgx.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return userID, nil
}

func (r *VerifyRepoImpl) DeleteExpiredTokens(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
DELETE FROM email_verification_tokens
WHERE (used_at IS NOT NULL AND used_at < now() - interval '30 days')
   OR (used_at IS NULL AND expires_at < now() - interval '30 days')
`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
