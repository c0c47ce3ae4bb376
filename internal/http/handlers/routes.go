package handlers

import (
	"net/http"

	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/domain"
	authmw "github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/http/middleware"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/http/response"
	mw "github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/pkg/middleware"
	"github.com/go-chi/chi/v5"
)

// RouterOptions carries the optional infrastructure behind the router. Nil
// fields disable the feature they back.
type RouterOptions struct {
	DB          mw.Pinger
	Limiter     authmw.Limiter
	Idempotency mw.IdempotencyStore
}

func (h *Handlers) Router(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("visitor-api"))
	r.Use(mw.Logging)
	r.Use(mw.Recoverer)
	r.Use(mw.CORS(h.config.App.AllowedOrigins))
	r.Use(mw.Health(opts.DB))
	r.Use(mw.Metrics)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.WriteError(w, http.StatusMethodNotAllowed, "method not allowed", "METHOD_NOT_ALLOWED")
	})

	var limiter *authmw.RateLimiter
	if opts.Limiter != nil {
		limiter = authmw.NewRateLimiter(opts.Limiter, authmw.RateLimitConfig{
			Name:     "auth",
			Requests: h.config.RateLimit.AuthRequests,
			Window:   h.config.RateLimit.AuthWindow,
		})
	}
	requireJWT := authmw.RequireJWT(h.config.Auth.JWTSecret)
	adminOnly := authmw.RequireRole(domain.RoleAdmin)
	anyRole := authmw.RequireRole(domain.RoleAdmin, domain.RoleHost)

	r.Route("/api", func(r chi.Router) {
		// Public
		r.Group(func(r chi.Router) {
			r.Use(limiter.Middleware())
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.Post("/resend-verification", h.ResendVerification)
		})
		r.Get("/verify-email", h.VerifyEmail)
		r.Post("/verify-email", h.VerifyEmail)
		r.Get("/public/qr/{code}", h.PublicQR)

		// Authenticated
		r.Group(func(r chi.Router) {
			r.Use(requireJWT, anyRole)

			r.Get("/me", h.Me)
			r.Get("/hosts", h.ListHosts)
			r.Get("/company", h.GetCompany)
			r.With(adminOnly).Put("/company", h.UpdateCompany)

			r.Route("/admin/users", func(r chi.Router) {
				r.Use(adminOnly)
				r.Post("/", h.CreateHost)
				r.Get("/", h.ListUsers)
				r.Patch("/{id}", h.UpdateUser)
				r.Delete("/{id}", h.DeactivateUser)
			})

			r.Route("/visits", func(r chi.Router) {
				r.With(mw.IdempotencyMiddleware(opts.Idempotency)).Post("/", h.CheckIn)
				r.With(mw.IdempotencyMiddleware(opts.Idempotency)).Post("/qr-checkin", h.QRCheckIn)
				r.Get("/", h.ListVisits)
				r.Get("/{id}", h.GetVisit)
				r.Put("/{id}/checkout", h.CheckOut)
			})

			r.Route("/pre-registrations", func(r chi.Router) {
				r.Post("/", h.CreatePreRegistration)
				r.Get("/", h.ListPreRegistrations)
				r.Get("/qr/{code}", h.GetPreRegistrationByQR)
				r.Get("/{id}", h.GetPreRegistration)
				r.Get("/{id}/qr.png", h.PreRegistrationQR)
				r.Patch("/{id}/cancel", h.CancelPreRegistration)
			})

			r.Get("/reports/visits", h.VisitReport)
			r.Get("/reports/visits/export", h.ExportVisits)
			r.Get("/dashboard/stats", h.DashboardStats)
		})
	})
	return r
}
