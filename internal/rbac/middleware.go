package rbac

import (
	"log/slog"
	"net/http"

	"github.com/caddie-pos/caddie-pos/internal/platform/httpx"
	"github.com/caddie-pos/caddie-pos/internal/shared"
)

// Middleware wires role authorization helpers for HTTP handlers.
type Middleware struct {
	Logger *slog.Logger
}

// RequireAuthenticated ensures a logged-in principal, any role.
func (m Middleware) RequireAuthenticated() func(http.Handler) http.Handler {
	return m.Require()
}

// Require ensures the current user carries one of the listed roles.
// With no roles listed, any authenticated user passes.
func (m Middleware) Require(roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := shared.SessionFromContext(r.Context())
			if sess == nil || sess.User() == 0 {
				httpx.Problem(w, http.StatusUnauthorized, "Non authentifié", "Connexion requise.")
				return
			}
			role, ok := ParseRole(sess.Role())
			if !ok {
				if m.Logger != nil {
					m.Logger.Warn("session carries unknown role", slog.String("role", sess.Role()), slog.Int64("user_id", sess.User()))
				}
				httpx.Problem(w, http.StatusForbidden, "Accès refusé", "Rôle inconnu.")
				return
			}
			if len(roles) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}
			httpx.Problem(w, http.StatusForbidden, "Accès refusé", "Vous n'avez pas les droits nécessaires.")
		})
	}
}
