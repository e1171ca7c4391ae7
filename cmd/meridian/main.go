package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adminroles "github.com/meridian-crm/meridian/internal/admin/roles"
	adminusers "github.com/meridian-crm/meridian/internal/admin/users"
	"github.com/meridian-crm/meridian/internal/app"
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
	"github.com/meridian-crm/meridian/internal/platform/cache"
	"github.com/meridian-crm/meridian/internal/platform/db"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	usersRepo := adminusers.NewRepository(dbpool)

	denylist := auth.NewDenylist(redisClient)
	verifier := auth.NewTokenVerifier(cfg.AuthTokenSecret, cfg.AuthTokenIssuer, cfg.AuthTokenTTL, denylist)
	checker := auth.NewGatewayChecker(cfg.AuthGatewaySecret, adminusers.NewDirectory(usersRepo))
	authHandler := auth.NewHandler(logger, verifier, checker)

	metrics := observability.NewMetrics()

	matrixStore := authz.NewPGStore(dbpool)
	resolver := authz.NewResolver(matrixStore)
	gate := authz.NewGate(resolver)
	gateMiddleware := authz.Middleware{Gate: gate, Logger: logger, Denied: metrics.AuthzDenied}
	scopes := authz.DefaultScopePolicy()

	customersHandler := customers.NewHandler(logger, customers.NewService(customers.NewRepository(dbpool), scopes))
	leadsHandler := leads.NewHandler(logger, leads.NewService(leads.NewRepository(dbpool), scopes))
	reservationsHandler := reservations.NewHandler(logger, reservations.NewService(reservations.NewRepository(dbpool), scopes))
	paymentsHandler := payments.NewHandler(logger, payments.NewService(payments.NewRepository(dbpool), scopes))
	ticketsHandler := tickets.NewHandler(logger, tickets.NewService(tickets.NewRepository(dbpool), scopes))
	propertiesHandler := properties.NewHandler(logger, properties.NewService(properties.NewRepository(dbpool)))
	tripsHandler := trips.NewHandler(logger, trips.NewService(trips.NewRepository(dbpool), scopes))

	rolesRepo := adminroles.NewRepository(dbpool)
	rolesHandler := adminroles.NewHandler(logger, adminroles.NewService(rolesRepo, resolver))
	usersHandler := adminusers.NewHandler(logger, adminusers.NewService(usersRepo, rolesRepo))

	router := app.NewRouter(app.RouterParams{
		Logger:              logger,
		Config:              cfg,
		Verifier:            verifier,
		Gate:                gateMiddleware,
		AuthHandler:         authHandler,
		CustomersHandler:    customersHandler,
		LeadsHandler:        leadsHandler,
		ReservationsHandler: reservationsHandler,
		PaymentsHandler:     paymentsHandler,
		TicketsHandler:      ticketsHandler,
		PropertiesHandler:   propertiesHandler,
		TripsHandler:        tripsHandler,
		RolesHandler:        rolesHandler,
		UsersHandler:        usersHandler,
		Metrics:             metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
