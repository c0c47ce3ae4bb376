package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/domain"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/http/response"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/report"
)

func (h *Handlers) VisitReport(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	from, to, err := parseRange(r)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	rows, err := h.reports.VisitReport(r.Context(), a, domain.ReportRange{From: from, To: to})
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// ExportVisits renders into memory first so a failure can still be reported as JSON.
func (h *Handlers) ExportVisits(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	from, to, err := parseRange(r)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	rng := domain.ReportRange{From: from, To: to}

	var buf bytes.Buffer
	if err := h.reports.ExportVisits(r.Context(), a, rng, &buf); err != nil {
		response.FromError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, report.FileName(rng, h.now())))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *Handlers) DashboardStats(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	stats, err := h.reports.DashboardStats(r.Context(), a)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
