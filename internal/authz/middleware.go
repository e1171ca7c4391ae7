package authz

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/meridian-crm/meridian/internal/platform/httpx"
)

// Middleware wires the access gate into HTTP handlers.
type Middleware struct {
	Gate   *Gate
	Logger *slog.Logger

	// Denied, when set, is called for every gate rejection with the module
	// and a short reason label.
	Denied func(module, reason string)
}

// Require terminates the request before any resource logic runs unless the
// current principal may invoke the action on the module. The rejection is
// terminal per check: 401 when unauthenticated, 403 naming the module and
// action when the role lacks a grant, and 500 with a distinct title when
// the permission store itself is broken.
func (m Middleware) Require(module, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, _ := PrincipalFromContext(r.Context())
			err := m.Gate.Check(r.Context(), p, module, action)
			if err == nil {
				next.ServeHTTP(w, r)
				return
			}
			var forbidden *ForbiddenError
			switch {
			case errors.Is(err, ErrUnauthenticated):
				m.denied(module, "unauthenticated")
				httpx.Problem(w, http.StatusUnauthorized, "Authentication Required", "")
			case errors.As(err, &forbidden):
				m.denied(module, forbidden.Reason)
				httpx.Problem(w, http.StatusForbidden, "Forbidden", forbidden.Error())
			case errors.Is(err, ErrPolicyUnavailable):
				m.denied(module, "policy unavailable")
				if m.Logger != nil {
					m.Logger.Error("authz policy unavailable", slog.Any("error", err))
				}
				httpx.Problem(w, http.StatusInternalServerError, "Authorization Unavailable", "permission store unreachable or not provisioned")
			default:
				if m.Logger != nil {
					m.Logger.Error("authz gate", slog.Any("error", err))
				}
				httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
			}
		})
	}
}

func (m Middleware) denied(module, reason string) {
	if m.Denied != nil {
		m.Denied(module, reason)
	}
}
