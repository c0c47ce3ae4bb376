package domain

import (
	"fmt"
	"time"

	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/utils"
)

type VisitStatus string

const (
	VisitStatusCheckedIn  VisitStatus = "checked_in"
	VisitStatusCheckedOut VisitStatus = "checked_out"
)

func (s VisitStatus) Valid() bool {
	return s == VisitStatusCheckedIn || s == VisitStatusCheckedOut
}

// Visitor is the person record captured at each check-in. Rows are never
// deduplicated across visits.
type Visitor struct {
	ID             int64     `json:"id"`
	CompanyID      int64     `json:"company_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	VisitorCompany string    `json:"visitor_company"`
	Purpose        string    `json:"purpose"`
	IDCardNumber   string    `json:"id_card_number"`
	PhotoURL       string    `json:"photo_url"`
	CreatedAt      time.Time `json:"created_at"`
}

type Visit struct {
	ID                int64       `json:"id"`
	CompanyID         int64       `json:"company_id"`
	VisitorID         int64       `json:"visitor_id"`
	HostID            int64       `json:"host_id"`
	PreRegistrationID *int64      `json:"pre_registration_id"`
	CheckInTime       time.Time   `json:"check_in_time"`
	CheckOutTime      *time.Time  `json:"check_out_time"`
	Status            VisitStatus `json:"status"`
	Notes             string      `json:"notes"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`

	// populated by joined reads
	Visitor   *Visitor `json:"visitor,omitempty"`
	HostName  string   `json:"host_name,omitempty"`
	HostEmail string   `json:"host_email,omitempty"`
}

func (v *Visit) IsOpen() bool { return v.CheckOutTime == nil }

// CheckInRequest is the body of a front-desk check-in.
type CheckInRequest struct {
	Name              string `json:"name" validate:"required,max=120"`
	Email             string `json:"email" validate:"required,email"`
	Phone             string `json:"phone" validate:"required,max=32"`
	VisitorCompany    string `json:"visitor_company" validate:"max=160"`
	Purpose           string `json:"purpose" validate:"required,max=500"`
	IDCardNumber      string `json:"id_card_number" validate:"max=64"`
	PhotoURL          string `json:"photo_url" validate:"max=2048"`
	HostID            *int64 `json:"host_id,omitempty"`
	PreRegistrationID *int64 `json:"pre_registration_id,omitempty"`
	Notes             string `json:"notes" validate:"max=1000"`
}

func (r *CheckInRequest) Normalize() {
	r.Name = utils.NormalizeString(r.Name)
	r.Email = utils.NormalizeEmail(r.Email)
	r.Phone = utils.NormalizePhone(r.Phone)
	r.VisitorCompany = utils.NormalizeString(r.VisitorCompany)
	r.Purpose = utils.NormalizeString(r.Purpose)
	r.IDCardNumber = utils.NormalizeString(r.IDCardNumber)
	r.PhotoURL = utils.NormalizeString(r.PhotoURL)
	r.Notes = utils.NormalizeString(r.Notes)
}

func (r *CheckInRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	if !utils.IsValidPhone(r.Phone) {
		return fmt.Errorf("%w: invalid phone format", ErrInvalidInput)
	}
	return nil
}

// QRCheckInRequest checks in a pre-registered visitor by scanned code.
type QRCheckInRequest struct {
	QRCode       string `json:"qr_code" validate:"required,max=64"`
	PhotoURL     string `json:"photo_url" validate:"max=2048"`
	IDCardNumber string `json:"id_card_number" validate:"max=64"`
}

func (r *QRCheckInRequest) Normalize() {
	r.QRCode = utils.NormalizeString(r.QRCode)
	r.PhotoURL = utils.NormalizeString(r.PhotoURL)
	r.IDCardNumber = utils.NormalizeString(r.IDCardNumber)
}

func (r *QRCheckInRequest) Validate() error { return validateStruct(r) }

// NewCheckIn carries everything the check-in transaction writes.
type NewCheckIn struct {
	CompanyID         int64
	HostID            int64
	Visitor           Visitor
	PreRegistrationID *int64
	Notes             string
	// Today is the calendar day used to evaluate a linked pre-registration.
	Today time.Time
}

// VisitScope restricts visit reads to a company and optionally to one host.
type VisitScope struct {
	CompanyID int64
	HostID    int64 // zero means company-wide
}

type VisitFilter struct {
	Status VisitStatus
	From   *time.Time
	To     *time.Time // exclusive upper bound
	Search string
	Limit  int
	Offset int
}

// CheckOutResult reports the visit after checkout and the new state of its
// linked pre-registration, if any.
type CheckOutResult struct {
	Visit        *Visit
	PreRegStatus PreRegStatus
}
