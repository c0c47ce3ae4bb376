package service

import (
	"context"
	"fmt"

	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/domain"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/repo/postgres"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/pkg/logger"
	"github.com/alexedwards/argon2id"
)

type UserService interface {
	ListHosts(ctx context.Context, actor domain.Actor) ([]domain.UserInfo, error)
	CreateHost(ctx context.Context, actor domain.Actor, req *domain.CreateHostRequest) (*domain.User, error)
	ListUsers(ctx context.Context, actor domain.Actor, limit, offset int) ([]domain.UserInfo, int64, error)
	UpdateUser(ctx context.Context, actor domain.Actor, id int64, req *domain.UpdateUserRequest) (*domain.User, error)
	DeactivateUser(ctx context.Context, actor domain.Actor, id int64) error
	GetCompany(ctx context.Context, actor domain.Actor) (*domain.Company, error)
	UpdateCompany(ctx context.Context, actor domain.Actor, req *domain.UpdateCompanyRequest) (*domain.Company, error)
}

type userService struct {
	users     postgres.UsersRepo
	companies postgres.CompanyRepo
}

func NewUserService(users postgres.UsersRepo, companies postgres.CompanyRepo) UserService {
	return &userService{users: users, companies: companies}
}

func requireAdmin(actor domain.Actor) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: admin role required", domain.ErrForbidden)
	}
	return nil
}

func toInfos(users []domain.User) []domain.UserInfo {
	out := make([]domain.UserInfo, 0, len(users))
	for i := range users {
		out = append(out, *users[i].ToUserInfo())
	}
	return out
}

func (s *userService) ListHosts(ctx context.Context, actor domain.Actor) ([]domain.UserInfo, error) {
	users, err := s.users.ListHosts(ctx, actor.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("list hosts: %w", err)
	}
	return toInfos(users), nil
}

func (s *userService) CreateHost(ctx context.Context, actor domain.Actor, req *domain.CreateHostRequest) (*domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u, err := s.users.CreateHost(ctx, actor.CompanyID, actor.CompanyName, req, hash)
	if err != nil {
		return nil, fmt.Errorf("create host: %w", err)
	}
	logger.InfoContext(ctx, "host created", "host_id", u.ID, "company_id", u.CompanyID)
	return u, nil
}

func (s *userService) ListUsers(ctx context.Context, actor domain.Actor, limit, offset int) ([]domain.UserInfo, int64, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, 0, err
	}
	users, total, err := s.users.ListByCompany(ctx, actor.CompanyID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return toInfos(users), total, nil
}

func (s *userService) UpdateUser(ctx context.Context, actor domain.Actor, id int64, req *domain.UpdateUserRequest) (*domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if id == actor.UserID && req.IsActive != nil && !*req.IsActive {
		return nil, fmt.Errorf("%w: you cannot deactivate your own account", domain.ErrInvalidInput)
	}
	u, err := s.users.Update(ctx, actor.CompanyID, id, req)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (s *userService) DeactivateUser(ctx context.Context, actor domain.Actor, id int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if id == actor.UserID {
		return fmt.Errorf("%w: you cannot delete your own account", domain.ErrInvalidInput)
	}
	ok, err := s.users.SetActive(ctx, actor.CompanyID, id, false)
	if err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	if !ok {
		return domain.ErrNotFound
	}
	logger.InfoContext(ctx, "user deactivated", "target_user_id", id)
	return nil
}

func (s *userService) GetCompany(ctx context.Context, actor domain.Actor) (*domain.Company, error) {
	c, err := s.companies.Get(ctx, actor.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("get company: %w", err)
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (s *userService) UpdateCompany(ctx context.Context, actor domain.Actor, req *domain.UpdateCompanyRequest) (*domain.Company, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	c, err := s.companies.Update(ctx, actor.CompanyID, req)
	if err != nil {
		return nil, fmt.Errorf("update company: %w", err)
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}
