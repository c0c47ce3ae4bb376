package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/domain"
	mw "github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/http/middleware"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/http/response"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/service"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/pkg/config"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

type Handlers struct {
	auth    service.AuthService
	users   service.UserService
	visits  service.VisitService
	preRegs service.PreRegistrationService
	reports service.ReportService
	config  *config.Config
	now     func() time.Time
}

func New(
	auth service.AuthService,
	users service.UserService,
	visits service.VisitService,
	preRegs service.PreRegistrationService,
	reports service.ReportService,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		auth:    auth,
		users:   users,
		visits:  visits,
		preRegs: preRegs,
		reports: reports,
		config:  cfg,
		now:     time.Now,
	}
}

type listResponse struct {
	Items  interface{} `json:"items"`
	Total  int64       `json:"total"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}

type messageResponse struct {
	Message      string `json:"message"`
	DevVerifyURL string `json:"dev_verify_url,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	response.JSON(w, statusCode, data)
}

// decodeJSON reads a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if err == io.EOF {
			response.BadRequest(w, "request body is required")
			return false
		}
		response.BadRequest(w, "invalid JSON body")
		return false
	}
	return true
}

func actor(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	a, ok := mw.ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
	}
	return a, ok
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "invalid id")
		return 0, false
	}
	return id, true
}

// parsePagination mirrors the repository clamp so responses echo what was applied.
func parsePagination(r *http.Request) (limit, offset int) {
	limit = 20
	offset = 0

	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > 100 {
		limit = 100
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

// parseRange reads from/to calendar dates in the server's timezone. To is
// inclusive in the query and returned as the exclusive next midnight.
func parseRange(r *http.Request) (from, to *time.Time, err error) {
	q := r.URL.Query()
	if v := q.Get("from"); v != "" {
		t, perr := time.ParseInLocation(domain.DateLayout, v, time.Local)
		if perr != nil {
			return nil, nil, fmt.Errorf("%w: 'from' must be YYYY-MM-DD", domain.ErrInvalidInput)
		}
		from = &t
	}
	if v := q.Get("to"); v != "" {
		t, perr := time.ParseInLocation(domain.DateLayout, v, time.Local)
		if perr != nil {
			return nil, nil, fmt.Errorf("%w: 'to' must be YYYY-MM-DD", domain.ErrInvalidInput)
		}
		next := t.AddDate(0, 0, 1)
		to = &next
	}
	return from, to, nil
}
