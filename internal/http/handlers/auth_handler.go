package handlers

import (
	"net/http"

	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/domain"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/http/response"
)

type registerResponse struct {
	Message      string           `json:"message"`
	User         *domain.UserInfo `json:"user"`
	Company      *domain.Company  `json:"company"`
	DevVerifyURL string           `json:"dev_verify_url,omitempty"`
}

// Register creates a company with its admin. The account stays unverified
// until the emailed link is used.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var in domain.RegisterRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	admin, company, verifyURL, err := h.auth.Register(r.Context(), &in)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	out := registerResponse{
		Message: "Registration successful. Please check your email to verify your account.",
		User:    admin.ToUserInfo(),
		Company: company,
	}
	if h.config.App.DevMode {
		out.DevVerifyURL = verifyURL
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var in domain.LoginRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	out, err := h.auth.Login(r.Context(), &in)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// VerifyEmail accepts the token as a query parameter on GET or POST.
func (h *Handlers) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	u, err := h.auth.VerifyEmail(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Email verified successfully. You can now log in.",
		"user":    u.ToUserInfo(),
	})
}

func (h *Handlers) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var in domain.ResendVerificationRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	link, err := h.auth.ResendVerification(r.Context(), in.Email)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	out := messageResponse{Message: "If the account exists, a verification email has been sent."}
	if h.config.App.DevMode {
		out.DevVerifyURL = link
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	u, err := h.auth.Me(r.Context(), a)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u.ToUserInfo())
}
