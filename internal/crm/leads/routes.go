package leads

import (
	"github.com/go-chi/chi/v5"

	"github.com/meridian-crm/meridian/internal/authz"
)

// MountRoutes registers lead routes behind the access gate.
func (h *Handler) MountRoutes(r chi.Router, gate authz.Middleware) {
	r.With(gate.Require(authz.ModuleLeads, authz.ActionRead)).Get("/", h.List)
	r.With(gate.Require(authz.ModuleLeads, authz.ActionRead)).Get("/{id}", h.Show)
	r.With(gate.Require(authz.ModuleLeads, authz.ActionCreate)).Post("/", h.Create)
	r.With(gate.Require(authz.ModuleLeads, authz.ActionUpdate)).Put("/{id}", h.Update)
	r.With(gate.Require(authz.ModuleLeads, authz.ActionUpdate)).Post("/{id}/assign", h.Assign)
	r.With(gate.Require(authz.ModuleLeads, authz.ActionDelete)).Delete("/{id}", h.Delete)
}
