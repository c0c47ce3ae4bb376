package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/utils"
)

const DateLayout = "2006-01-02"

type PreRegStatus string

const (
	PreRegPending    PreRegStatus = "pending"
	PreRegCheckedIn  PreRegStatus = "checked_in"
	PreRegCheckedOut PreRegStatus = "checked_out"
	PreRegCancelled  PreRegStatus = "cancelled"
	PreRegExpired    PreRegStatus = "expired"
)

func (s PreRegStatus) Valid() bool {
	switch s {
	case PreRegPending, PreRegCheckedIn, PreRegCheckedOut, PreRegCancelled, PreRegExpired:
		return true
	}
	return false
}

type RecurringPattern string

const (
	RecurDaily   RecurringPattern = "daily"
	RecurWeekly  RecurringPattern = "weekly"
	RecurMonthly RecurringPattern = "monthly"
)

// Day truncates t to its calendar day, expressed as midnight UTC so values read
// from DATE columns compare equal to values derived from the local clock.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today is the current calendar day in the server's local timezone.
func Today() time.Time { return Day(time.Now()) }

func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}

type PreRegistration struct {
	ID               int64             `json:"id"`
	CompanyID        int64             `json:"company_id"`
	HostID           int64             `json:"host_id"`
	HostName         string            `json:"host_name"`
	VisitorName      string            `json:"visitor_name"`
	VisitorEmail     string            `json:"visitor_email"`
	VisitorPhone     string            `json:"visitor_phone"`
	VisitorCompany   string            `json:"visitor_company"`
	Purpose          string            `json:"purpose"`
	VisitDate        time.Time         `json:"visit_date"`
	VisitTime        string            `json:"visit_time"`
	Status           PreRegStatus      `json:"status"`
	QRCode           string            `json:"qr_code"`
	IsRecurring      bool              `json:"is_recurring"`
	RecurringPattern *RecurringPattern `json:"recurring_pattern"`
	RecurringEndDate *time.Time        `json:"recurring_end_date"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// MarshalJSON renders calendar dates as YYYY-MM-DD.
func (p PreRegistration) MarshalJSON() ([]byte, error) {
	type alias PreRegistration
	var end *string
	if p.RecurringEndDate != nil {
		s := p.RecurringEndDate.Format(DateLayout)
		end = &s
	}
	return json.Marshal(struct {
		alias
		VisitDate        string  `json:"visit_date"`
		RecurringEndDate *string `json:"recurring_end_date"`
	}{
		alias:            alias(p),
		VisitDate:        p.VisitDate.Format(DateLayout),
		RecurringEndDate: end,
	})
}

func (p *PreRegistration) pattern() RecurringPattern {
	if p.RecurringPattern == nil {
		return ""
	}
	return *p.RecurringPattern
}

// occursOn reports whether the schedule includes day. Non-recurring entries
// occur only on their visit date.
func (p *PreRegistration) occursOn(day time.Time) bool {
	start := Day(p.VisitDate)
	day = Day(day)
	if !p.IsRecurring || p.RecurringEndDate == nil {
		return day.Equal(start)
	}
	end := Day(*p.RecurringEndDate)
	if day.Before(start) || day.After(end) {
		return false
	}
	switch p.pattern() {
	case RecurDaily:
		return true
	case RecurWeekly:
		return day.Weekday() == start.Weekday()
	case RecurMonthly:
		return day.Day() == start.Day()
	}
	return false
}

// hasOccurrenceAfter reports whether any scheduled day falls strictly after day.
func (p *PreRegistration) hasOccurrenceAfter(day time.Time) bool {
	if !p.IsRecurring || p.RecurringEndDate == nil {
		return false
	}
	end := Day(*p.RecurringEndDate)
	for d := Day(day).AddDate(0, 0, 1); !d.After(end); d = d.AddDate(0, 0, 1) {
		if p.occursOn(d) {
			return true
		}
	}
	return false
}

// CheckableOn validates that the pre-registration may be used for a check-in on
// day. The returned error wraps ErrNotCheckable with the reason.
func (p *PreRegistration) CheckableOn(day time.Time) error {
	switch p.Status {
	case PreRegPending:
	case PreRegCancelled:
		return fmt.Errorf("%w: pre-registration is cancelled", ErrNotCheckable)
	case PreRegExpired:
		return fmt.Errorf("%w: pre-registration has expired", ErrNotCheckable)
	case PreRegCheckedIn:
		return fmt.Errorf("%w: visitor already checked in", ErrNotCheckable)
	default:
		return fmt.Errorf("%w: pre-registration is %s", ErrNotCheckable, p.Status)
	}
	if p.occursOn(day) {
		return nil
	}
	if p.IsExpiredOn(day) {
		return fmt.Errorf("%w: pre-registration has expired", ErrNotCheckable)
	}
	if Day(day).Before(Day(p.VisitDate)) {
		return fmt.Errorf("%w: visit is scheduled for %s", ErrNotCheckable, p.VisitDate.Format(DateLayout))
	}
	return fmt.Errorf("%w: no visit scheduled for today", ErrNotCheckable)
}

// IsExpiredOn reports whether a pending entry has no remaining occurrence on or
// after day.
func (p *PreRegistration) IsExpiredOn(day time.Time) bool {
	if p.Status != PreRegPending {
		return false
	}
	last := Day(p.VisitDate)
	if p.IsRecurring && p.RecurringEndDate != nil {
		last = Day(*p.RecurringEndDate)
	}
	return Day(day).After(last)
}

// StatusAfterCheckout is the status a linked pre-registration takes once the
// visit made on day is checked out. A recurring pass with later occurrences
// goes back to pending, so it stays usable for the rest of day as well: a
// visitor who steps out can be checked in again on the same code.
func (p *PreRegistration) StatusAfterCheckout(day time.Time) PreRegStatus {
	if p.hasOccurrenceAfter(day) {
		return PreRegPending
	}
	return PreRegCheckedOut
}

type CreatePreRegistrationRequest struct {
	VisitorName      string  `json:"visitor_name" validate:"required,max=120"`
	VisitorEmail     string  `json:"visitor_email" validate:"required,email"`
	VisitorPhone     string  `json:"visitor_phone" validate:"omitempty,max=32"`
	VisitorCompany   string  `json:"visitor_company" validate:"max=160"`
	Purpose          string  `json:"purpose" validate:"max=500"`
	VisitDate        string  `json:"visit_date" validate:"required,datetime=2006-01-02"`
	VisitTime        string  `json:"visit_time" validate:"omitempty,datetime=15:04"`
	HostID           *int64  `json:"host_id,omitempty"`
	IsRecurring      bool    `json:"is_recurring"`
	RecurringPattern string  `json:"recurring_pattern" validate:"omitempty,oneof=daily weekly monthly"`
	RecurringEndDate *string `json:"recurring_end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func (r *CreatePreRegistrationRequest) Normalize() {
	r.VisitorName = utils.NormalizeString(r.VisitorName)
	r.VisitorEmail = utils.NormalizeEmail(r.VisitorEmail)
	r.VisitorPhone = utils.NormalizePhone(r.VisitorPhone)
	r.VisitorCompany = utils.NormalizeString(r.VisitorCompany)
	r.Purpose = utils.NormalizeString(r.Purpose)
	r.VisitDate = utils.NormalizeString(r.VisitDate)
	r.VisitTime = utils.NormalizeString(r.VisitTime)
	r.RecurringPattern = utils.NormalizeString(r.RecurringPattern)
	if r.RecurringEndDate != nil {
		s := utils.NormalizeString(*r.RecurringEndDate)
		if s == "" {
			r.RecurringEndDate = nil
		} else {
			r.RecurringEndDate = &s
		}
	}
}

// Validate checks the request against today and returns the parsed schedule.
func (r *CreatePreRegistrationRequest) Validate(today time.Time) (*Schedule, error) {
	if err := validateStruct(r); err != nil {
		return nil, err
	}
	if r.VisitorPhone != "" && !utils.IsValidPhone(r.VisitorPhone) {
		return nil, fmt.Errorf("%w: invalid phone format", ErrInvalidInput)
	}
	visitDate, err := ParseDay(r.VisitDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid visit_date", ErrInvalidInput)
	}
	if visitDate.Before(Day(today)) {
		return nil, fmt.Errorf("%w: visit_date cannot be in the past", ErrInvalidInput)
	}
	s := &Schedule{VisitDate: visitDate}
	if !r.IsRecurring {
		return s, nil
	}
	if r.RecurringPattern == "" {
		return nil, fmt.Errorf("%w: recurring_pattern is required for recurring visits", ErrInvalidInput)
	}
	if r.RecurringEndDate == nil {
		return nil, fmt.Errorf("%w: recurring_end_date is required for recurring visits", ErrInvalidInput)
	}
	end, err := ParseDay(*r.RecurringEndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid recurring_end_date", ErrInvalidInput)
	}
	if end.Before(visitDate) {
		return nil, fmt.Errorf("%w: recurring_end_date must not be before visit_date", ErrInvalidInput)
	}
	pattern := RecurringPattern(r.RecurringPattern)
	s.IsRecurring = true
	s.Pattern = &pattern
	s.EndDate = &end
	return s, nil
}

// Schedule is the validated date portion of a pre-registration request.
type Schedule struct {
	VisitDate   time.Time
	IsRecurring bool
	Pattern     *RecurringPattern
	EndDate     *time.Time
}

type PreRegFilter struct {
	Status PreRegStatus
	Limit  int
	Offset int
}
