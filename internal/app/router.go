package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	adminroles "github.com/meridian-crm/meridian/internal/admin/roles"
	adminusers "github.com/meridian-crm/meridian/internal/admin/users"
	"github.com/meridian-crm/meridian/internal/auth"
	"github.com/meridian-crm/meridian/internal/authz"
	"github.com/meridian-crm/meridian/internal/crm/customers"
	"github.com/meridian-crm/meridian/internal/crm/leads"
	"github.com/meridian-crm/meridian/internal/crm/payments"
	"github.com/meridian-crm/meridian/internal/crm/properties"
	"github.com/meridian-crm/meridian/internal/crm/reservations"
	"github.com/meridian-crm/meridian/internal/crm/tickets"
	"github.com/meridian-crm/meridian/internal/crm/trips"
	"github.com/meridian-crm/meridian/internal/observability"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger   *slog.Logger
	Config   *Config
	Verifier *auth.TokenVerifier
	Gate     authz.Middleware

	AuthHandler         *auth.Handler
	CustomersHandler    *customers.Handler
	LeadsHandler        *leads.Handler
	ReservationsHandler *reservations.Handler
	PaymentsHandler     *payments.Handler
	TicketsHandler      *tickets.Handler
	PropertiesHandler   *properties.Handler
	TripsHandler        *trips.Handler
	RolesHandler        *adminroles.Handler
	UsersHandler        *adminusers.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with Meridian defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:   params.Logger,
		Config:   params.Config,
		Verifier: params.Verifier,
		Metrics:  params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)
	r.Route("/customers", func(r chi.Router) {
		params.CustomersHandler.MountRoutes(r, params.Gate)
	})
	r.Route("/leads", func(r chi.Router) {
		params.LeadsHandler.MountRoutes(r, params.Gate)
	})
	r.Route("/reservations", func(r chi.Router) {
		params.ReservationsHandler.MountRoutes(r, params.Gate)
	})
	r.Route("/payments", func(r chi.Router) {
		params.PaymentsHandler.MountRoutes(r, params.Gate)
	})
	r.Route("/tickets", func(r chi.Router) {
		params.TicketsHandler.MountRoutes(r, params.Gate)
	})
	r.Route("/properties", func(r chi.Router) {
		params.PropertiesHandler.MountRoutes(r, params.Gate)
	})
	r.Route("/trips", func(r chi.Router) {
		params.TripsHandler.MountRoutes(r, params.Gate)
	})
	r.Route("/admin/roles", func(r chi.Router) {
		params.RolesHandler.MountRoutes(r, params.Gate)
	})
	r.Route("/admin/users", func(r chi.Router) {
		params.UsersHandler.MountRoutes(r, params.Gate)
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
