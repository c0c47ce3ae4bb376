package handlers

import (
	"net/http"
	"strconv"

	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/domain"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/http/response"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/platform/qrcode"
	"github.com/go-chi/chi/v5"
)

func (h *Handlers) CreatePreRegistration(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var in domain.CreatePreRegistrationRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	p, err := h.preRegs.Create(r.Context(), a, &in)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handlers) ListPreRegistrations(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	limit, offset := parsePagination(r)
	f := domain.PreRegFilter{
		Status: domain.PreRegStatus(r.URL.Query().Get("status")),
		Limit:  limit,
		Offset: offset,
	}
	out, total, err := h.preRegs.List(r.Context(), a, f)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	if out == nil {
		out = []domain.PreRegistration{}
	}
	writeJSON(w, http.StatusOK, listResponse{Items: out, Total: total, Limit: limit, Offset: offset})
}

func (h *Handlers) GetPreRegistration(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	p, err := h.preRegs.Get(r.Context(), a, id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handlers) GetPreRegistrationByQR(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	p, err := h.preRegs.GetByQRCode(r.Context(), a, chi.URLParam(r, "code"))
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handlers) CancelPreRegistration(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	p, err := h.preRegs.Cancel(r.Context(), a, id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// PreRegistrationQR renders the QR image of a pre-registration the caller can see.
func (h *Handlers) PreRegistrationQR(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	png, err := h.preRegs.QRImage(r.Context(), a, id, qrSize(r))
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	writePNG(w, png)
}

// PublicQR renders a well-formed code without touching the database, so the
// link in an invitation email works for the visitor.
func (h *Handlers) PublicQR(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if !qrcode.LooksValid(code) {
		response.NotFound(w, "unknown qr code")
		return
	}
	png, err := qrcode.PNG(code, qrSize(r))
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	writePNG(w, png)
}

func qrSize(r *http.Request) int {
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	return size
}

func writePNG(w http.ResponseWriter, png []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=86400")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
