package handlers

import (
	"net/http"

	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/domain"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/http/response"
)

// ListHosts returns the active users a visitor can be checked in to.
func (h *Handlers) ListHosts(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	hosts, err := h.users.ListHosts(r.Context(), a)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hosts)
}

func (h *Handlers) CreateHost(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var in domain.CreateHostRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	u, err := h.users.CreateHost(r.Context(), a, &in)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u.ToUserInfo())
}

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	limit, offset := parsePagination(r)
	users, total, err := h.users.ListUsers(r.Context(), a, limit, offset)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: users, Total: total, Limit: limit, Offset: offset})
}

func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var in domain.UpdateUserRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	u, err := h.users.UpdateUser(r.Context(), a, id, &in)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u.ToUserInfo())
}

// DeactivateUser is the soft delete behind DELETE /admin/users/{id}.
func (h *Handlers) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.users.DeactivateUser(r.Context(), a, id); err != nil {
		response.FromError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "User deactivated"})
}

func (h *Handlers) GetCompany(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	c, err := h.users.GetCompany(r.Context(), a)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handlers) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var in domain.UpdateCompanyRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	c, err := h.users.UpdateCompany(r.Context(), a, &in)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
