package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/utils"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/pkg/auth"
)

const (
	RoleAdmin = auth.RoleAdmin
	RoleHost  = auth.RoleHost
)

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CompanyID    int64     `json:"company_id"`
	CompanyName  string    `json:"company_name"`
	Department   string    `json:"department"`
	Designation  string    `json:"designation"`
	Phone        string    `json:"phone"`
	IsVerified   bool      `json:"is_verified"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserInfo is the public projection of a user.
type UserInfo struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	CompanyID   int64  `json:"company_id"`
	CompanyName string `json:"company_name"`
	Department  string `json:"department,omitempty"`
	Designation string `json:"designation,omitempty"`
	Phone       string `json:"phone,omitempty"`
	IsVerified  bool   `json:"is_verified"`
	IsActive    bool   `json:"is_active"`
}

func (u *User) ToUserInfo() *UserInfo {
	return &UserInfo{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		CompanyID:   u.CompanyID,
		CompanyName: u.CompanyName,
		Department:  u.Department,
		Designation: u.Designation,
		Phone:       u.Phone,
		IsVerified:  u.IsVerified,
		IsActive:    u.IsActive,
	}
}

func (u *User) Identity() auth.Identity {
	return auth.Identity{
		UserID:      u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		CompanyID:   u.CompanyID,
		CompanyName: u.CompanyName,
	}
}

// RegisterRequest registers a company together with its admin user.
type RegisterRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=128"`
	CompanyName string `json:"company_name" validate:"required,max=160"`
	Phone       string `json:"phone" validate:"omitempty,max=32"`
}

func (r *RegisterRequest) Normalize() {
	r.Name = utils.NormalizeString(r.Name)
	r.Email = utils.NormalizeEmail(r.Email)
	r.CompanyName = utils.NormalizeString(r.CompanyName)
	r.Phone = utils.NormalizePhone(r.Phone)
}

func (r *RegisterRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	if r.Phone != "" && !utils.IsValidPhone(r.Phone) {
		return fmt.Errorf("%w: invalid phone format", ErrInvalidInput)
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = utils.NormalizeEmail(r.Email)
}

func (r *LoginRequest) Validate() error { return validateStruct(r) }

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresIn int64     `json:"expires_in"`
	User      *UserInfo `json:"user"`
}

// CreateHostRequest is used by an admin to add a host to their company.
type CreateHostRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=128"`
	Department  string `json:"department" validate:"max=120"`
	Designation string `json:"designation" validate:"max=120"`
	Phone       string `json:"phone" validate:"omitempty,max=32"`
}

func (r *CreateHostRequest) Normalize() {
	r.Name = utils.NormalizeString(r.Name)
	r.Email = utils.NormalizeEmail(r.Email)
	r.Department = utils.NormalizeString(r.Department)
	r.Designation = utils.NormalizeString(r.Designation)
	r.Phone = utils.NormalizePhone(r.Phone)
}

func (r *CreateHostRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	if r.Phone != "" && !utils.IsValidPhone(r.Phone) {
		return fmt.Errorf("%w: invalid phone format", ErrInvalidInput)
	}
	return nil
}

type UpdateUserRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=120"`
	Department  *string `json:"department,omitempty" validate:"omitempty,max=120"`
	Designation *string `json:"designation,omitempty" validate:"omitempty,max=120"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

func (r *UpdateUserRequest) Validate() error {
	if r.Name != nil {
		n := strings.TrimSpace(*r.Name)
		if n == "" {
			return fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		r.Name = &n
	}
	if r.Phone != nil && *r.Phone != "" {
		p := utils.NormalizePhone(*r.Phone)
		if !utils.IsValidPhone(p) {
			return fmt.Errorf("%w: invalid phone format", ErrInvalidInput)
		}
		r.Phone = &p
	}
	return validateStruct(r)
}

type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *ResendVerificationRequest) Normalize() {
	r.Email = utils.NormalizeEmail(r.Email)
}

func (r *ResendVerificationRequest) Validate() error { return validateStruct(r) }
