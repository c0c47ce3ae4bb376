package domain

import (
	"fmt"
	"strings"
	"time"
)

type Company struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	LogoURL   string    `json:"logo_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UpdateCompanyRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,max=160"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=500"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	LogoURL *string `json:"logo_url,omitempty" validate:"omitempty,url"`
}

func (r *UpdateCompanyRequest) Validate() error {
	if r.Name != nil {
		n := strings.TrimSpace(*r.Name)
		if n == "" {
			return fmt.Errorf("%w: company name cannot be empty", ErrInvalidInput)
		}
		r.Name = &n
	}
	return validateStruct(r)
}
