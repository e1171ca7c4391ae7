package customers

import (
	"github.com/go-chi/chi/v5"

	"github.com/meridian-crm/meridian/internal/authz"
)

// MountRoutes registers customer routes behind the access gate.
func (h *Handler) MountRoutes(r chi.Router, gate authz.Middleware) {
	r.With(gate.Require(authz.ModuleCustomers, authz.ActionRead)).Get("/", h.List)
	r.With(gate.Require(authz.ModuleCustomers, authz.ActionRead)).Get("/{id}", h.Show)
	r.With(gate.Require(authz.ModuleCustomers, authz.ActionCreate)).Post("/", h.Create)
	r.With(gate.Require(authz.ModuleCustomers, authz.ActionUpdate)).Put("/{id}", h.Update)
	r.With(gate.Require(authz.ModuleCustomers, authz.ActionDelete)).Delete("/{id}", h.Delete)
}
