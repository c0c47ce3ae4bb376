package handlers

import (
	"net/http"
	"strings"

	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/domain"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/http/response"
)

// CheckIn records a walk-in or pre-registered visitor at the front desk.
func (h *Handlers) CheckIn(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var in domain.CheckInRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	v, err := h.visits.CheckIn(r.Context(), a, &in)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *Handlers) QRCheckIn(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var in domain.QRCheckInRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	v, err := h.visits.QRCheckIn(r.Context(), a, &in)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *Handlers) CheckOut(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	v, err := h.visits.CheckOut(r.Context(), a, id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *Handlers) ListVisits(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	from, to, err := parseRange(r)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	limit, offset := parsePagination(r)
	f := domain.VisitFilter{
		Status: domain.VisitStatus(r.URL.Query().Get("status")),
		From:   from,
		To:     to,
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
		Limit:  limit,
		Offset: offset,
	}
	visits, total, err := h.visits.List(r.Context(), a, f)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	if visits == nil {
		visits = []domain.Visit{}
	}
	writeJSON(w, http.StatusOK, listResponse{Items: visits, Total: total, Limit: limit, Offset: offset})
}

func (h *Handlers) GetVisit(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	v, err := h.visits.Get(r.Context(), a, id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
