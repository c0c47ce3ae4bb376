package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/domain"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/pkg/logger"
)

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

const (
	CodeInvalidInput       = "INVALID_INPUT"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeForbidden          = "FORBIDDEN"
	CodeEmailNotVerified   = "EMAIL_NOT_VERIFIED"
	CodeAccountInactive    = "ACCOUNT_INACTIVE"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeEmailExists        = "EMAIL_EXISTS"
	CodeCompanyExists      = "COMPANY_EXISTS"
	CodeAlreadyCheckedIn   = "ALREADY_CHECKED_IN"
	CodeAlreadyCheckedOut  = "ALREADY_CHECKED_OUT"
	CodeInvalidHost        = "INVALID_HOST"
	CodeNotCheckable       = "PRE_REGISTRATION_NOT_CHECKABLE"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeRateLimit          = "RATE_LIMIT_EXCEEDED"
	CodeInternalError      = "INTERNAL_ERROR"
)

type mapping struct {
	target error
	status int
	code   string
}

// Order matters: specific sentinels come before the generic ones they may wrap.
var mappings = []mapping{
	{domain.ErrInvalidHost, http.StatusBadRequest, CodeInvalidHost},
	{domain.ErrNotCheckable, http.StatusBadRequest, CodeNotCheckable},
	{domain.ErrInvalidToken, http.StatusBadRequest, CodeInvalidToken},
	{domain.ErrInvalidInput, http.StatusBadRequest, CodeInvalidInput},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials},
	{domain.ErrUnauthorized, http.StatusUnauthorized, CodeUnauthorized},
	{domain.ErrEmailNotVerified, http.StatusForbidden, CodeEmailNotVerified},
	{domain.ErrAccountInactive, http.StatusForbidden, CodeAccountInactive},
	{domain.ErrForbidden, http.StatusForbidden, CodeForbidden},
	{domain.ErrNotFound, http.StatusNotFound, CodeNotFound},
	{domain.ErrEmailExists, http.StatusConflict, CodeEmailExists},
	{domain.ErrCompanyExists, http.StatusConflict, CodeCompanyExists},
	{domain.ErrAlreadyCheckedIn, http.StatusConflict, CodeAlreadyCheckedIn},
	{domain.ErrAlreadyCheckedOut, http.StatusConflict, CodeAlreadyCheckedOut},
	{domain.ErrConflict, http.StatusConflict, CodeConflict},
}

// WriteError writes a structured JSON error response.
func WriteError(w http.ResponseWriter, statusCode int, message string, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Message: message, Code: code})
}

// FromError maps a service error onto a status code. Unknown errors are logged
// and reported as 500 without leaking their text.
func FromError(w http.ResponseWriter, r *http.Request, err error) {
	for _, m := range mappings {
		if errors.Is(err, m.target) {
			WriteError(w, m.status, publicMessage(err, m.target), m.code)
			return
		}
	}
	logger.ErrorContext(r.Context(), "request failed", "error", err, "path", r.URL.Path)
	InternalError(w, "internal server error")
}

// publicMessage drops operation prefixes added while the error travelled up,
// keeping the sentinel text and any detail attached to it.
func publicMessage(err, target error) string {
	prefix := target.Error()
	for e := err; e != nil; e = errors.Unwrap(e) {
		if strings.HasPrefix(e.Error(), prefix) {
			return e.Error()
		}
	}
	return prefix
}

func BadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message, CodeInvalidInput)
}

func Unauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message, CodeUnauthorized)
}

func Forbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, message, CodeForbidden)
}

func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message, CodeNotFound)
}

func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message, CodeInternalError)
}

func RateLimit(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusTooManyRequests, message, CodeRateLimit)
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
