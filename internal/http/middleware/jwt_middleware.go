package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/domain"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/http/response"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/pkg/auth"
	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/pkg/logger"
)

type ctxKey string

const CtxActor ctxKey = "actor"

// RequireJWT authenticates the bearer token and stores the caller on the
// request context. The user and company ids are also attached for logging.
func RequireJWT(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				response.Unauthorized(w, "missing or invalid authorization header")
				return
			}
			claims, err := auth.Parse(strings.TrimPrefix(authz, "Bearer "), secret)
			if err != nil {
				response.Unauthorized(w, "invalid or expired token")
				return
			}
			actor := domain.ActorFromClaims(claims)
			ctx := context.WithValue(r.Context(), CtxActor, actor)
			ctx = context.WithValue(ctx, logger.UserIDKey, actor.UserID)
			ctx = context.WithValue(ctx, logger.CompanyIDKey, actor.CompanyID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects callers whose role is not listed. It must run after RequireJWT.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFrom(r.Context())
			if !ok {
				response.Unauthorized(w, "authentication required")
				return
			}
			for _, role := range roles {
				if actor.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.Forbidden(w, "insufficient permissions")
		})
	}
}

func ActorFrom(ctx context.Context) (domain.Actor, bool) {
	a, ok := ctx.Value(CtxActor).(domain.Actor)
	return a, ok
}
