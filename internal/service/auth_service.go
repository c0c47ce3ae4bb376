package service

import (
	"context"
	"fmt"
	"time"

	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/domain"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/platform/links"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/platform/mailer"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/repo/postgres"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/pkg/auth"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/pkg/config"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/pkg/logger"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/pkg/metrics"
	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"
)

type AuthService interface {
	// Register creates a company with its admin and returns the admin plus the
	// verification link that was emailed.
	Register(ctx context.Context, req *domain.RegisterRequest) (*domain.User, *domain.Company, string, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error)
	VerifyEmail(ctx context.Context, token string) (*domain.User, error)
	ResendVerification(ctx context.Context, email string) (string, error)
	Me(ctx context.Context, actor domain.Actor) (*domain.User, error)
}

type authService struct {
	users     postgres.UsersRepo
	companies postgres.CompanyRepo
	verify    postgres.VerifyRepo
	mailer    mailer.Service
	links     *links.Builder
	config    *config.Config
}

func NewAuthService(
	users postgres.UsersRepo,
	companies postgres.CompanyRepo,
	verify postgres.VerifyRepo,
	mailer mailer.Service,
	links *links.Builder,
	config *config.Config,
) AuthService {
	return &authService{
		users:     users,
		companies: companies,
		verify:    verify,
		mailer:    mailer,
		links:     links,
		config:    config,
	}
}

func (s *authService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.User, *domain.Company, string, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, nil, "", err
	}

	hash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		return nil, nil, "", fmt.Errorf("hash password: %w", err)
	}

	company, admin, err := s.companies.RegisterWithAdmin(ctx, req, hash)
	if err != nil {
		return nil, nil, "", fmt.Errorf("register company: %w", err)
	}
	logger.InfoContext(ctx, "company registered", "company_id", company.ID, "user_id", admin.ID)

	verifyURL, err := s.issueVerification(ctx, admin)
	if err != nil {
		return nil, nil, "", err
	}
	return admin, company, verifyURL, nil
}

// issueVerification stores a fresh token and emails the link. Email failures
// are logged and do not fail the caller.
func (s *authService) issueVerification(ctx context.Context, u *domain.User) (string, error) {
	token := uuid.NewString()
	expiresAt := time.Now().Add(s.config.Auth.EmailVerificationTTL)
	if err := s.verify.CreateEmailVerification(ctx, u.ID, token, expiresAt); err != nil {
		return "", fmt.Errorf("create verification token: %w", err)
	}

	verifyURL, err := s.links.VerifyEmail(token)
	if err != nil {
		return "", err
	}
	if err := s.mailer.SendVerificationEmail(ctx, u.Email, u.Name, verifyURL); err != nil {
		metrics.EmailsSent.WithLabelValues("verification", "error").Inc()
		logger.ErrorContext(ctx, "failed to send verification email", "error", err, "user_id", u.ID)
	} else {
		metrics.EmailsSent.WithLabelValues("verification", "ok").Inc()
	}
	return verifyURL, nil
}

func (s *authService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}

	valid, err := argon2id.ComparePasswordAndHash(req.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsVerified {
		return nil, domain.ErrEmailNotVerified
	}
	if !user.IsActive {
		return nil, domain.ErrAccountInactive
	}

	token, err := auth.NewAccessToken(user.Identity(), s.config.Auth.JWTSecret, s.config.Auth.Issuer, s.config.Auth.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}
	return &domain.LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.config.Auth.AccessTokenTTL.Seconds()),
		User:      user.ToUserInfo(),
	}, nil
}

func (s *authService) VerifyEmail(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrInvalidToken
	}
	userID, err := s.verify.ConsumeEmailVerification(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("consume verification token: %w", err)
	}
	if userID == 0 {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load verified user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

// ResendVerification returns the new link, or "" when the email is unknown so
// callers cannot enumerate accounts.
func (s *authService) ResendVerification(ctx context.Context, email string) (string, error) {
	req := domain.ResendVerificationRequest{Email: email}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return "", err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return "", fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return "", nil
	}
	if user.IsVerified {
		return "", fmt.Errorf("%w: account is already verified", domain.ErrInvalidInput)
	}
	return s.issueVerification(ctx, user)
}

func (s *authService) Me(ctx context.Context, actor domain.Actor) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil || user.CompanyID != actor.CompanyID {
		return nil, domain.ErrNotFound
	}
	return user, nil
}
