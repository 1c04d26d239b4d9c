package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/Harshitk-cp/orgdesk/internal/api/handlers"
	mw "github.com/Harshitk-cp/orgdesk/internal/api/middleware"
	"github.com/Harshitk-cp/orgdesk/internal/auth"
	"github.com/Harshitk-cp/orgdesk/internal/buildconfig"
	"github.com/Harshitk-cp/orgdesk/internal/config"
	"github.com/Harshitk-cp/orgdesk/internal/domain"
	"github.com/Harshitk-cp/orgdesk/internal/service"
	"github.com/Harshitk-cp/orgdesk/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// App holds the router plus request metrics.
type App struct {
	Router       *chi.Mux
	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

func NewApp(db *pgxpool.Pool, logger *zap.Logger) *App {
	// Stores
	tenantStore := store.NewTenantStore(db)
	teamStore := store.NewTeamStore(db)
	userStore := store.NewUserStore(db)
	tx := store.NewPgTransactor(db)

	tokens := auth.NewTokenIssuer(config.JWTSecret(), config.TokenTTL())

	// Services
	tenantSvc := service.NewTenantService(tenantStore, logger)
	teamSvc := service.NewTeamService(teamStore, tenantStore, logger)
	userSvc := service.NewUserService(userStore, tenantStore, teamStore, tx, tokens, logger)

	// Handlers
	tenantHandler := handlers.NewTenantHandler(tenantSvc, logger)
	teamHandler := handlers.NewTeamHandler(teamSvc, logger)
	userHandler := handlers.NewUserHandler(userSvc, logger)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		startTime: time.Now(),
	}

	// Metrics collector for middleware
	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)                                                 // Generate/extract request ID first
	r.Use(middleware.RealIP)                                            // Extract real IP
	r.Use(metricsCollector.Middleware)                                  // Collect metrics
	r.Use(mw.Logging(logger))                                           // Log all requests
	r.Use(middleware.Recoverer)                                         // Recover from panics
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst())) // Rate limiting

	// Health (no auth)
	r.Get("/health", healthHandler(db))

	// Metrics (no auth)
	r.Get("/metrics", app.metricsHandler())

	// Public onboarding endpoints
	r.Post("/users/register", userHandler.Register)
	r.Post("/users/login", userHandler.Login)
	r.Post("/tenants/verify-otp", tenantHandler.VerifyOTP)

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(mw.BearerAuth(tokens))

		// Users
		r.Get("/users/me", userHandler.Me)
		r.Get("/users", userHandler.List)
		r.Put("/users/{id}", userHandler.Update)
		r.With(mw.AdminOnly).Delete("/users/{id}", userHandler.Delete)
		r.With(mw.AdminOnly).Delete("/users", userHandler.DeleteAll)

		// Tenants
		r.Post("/tenants/create", tenantHandler.Create)
		r.Get("/tenants", tenantHandler.List)
		r.Get("/tenants/{id}", tenantHandler.GetByID)
		r.Put("/tenants/{id}", tenantHandler.Update)
		r.With(mw.AdminOnly).Post("/tenants/{id}/regenerate-otp", tenantHandler.RegenerateOTP)
		r.With(mw.AdminOnly).Delete("/tenants/{id}", tenantHandler.Delete)
		r.With(mw.AdminOnly).Delete("/tenants", tenantHandler.DeleteAll)

		// Teams
		r.Post("/teams/create", teamHandler.Create)
		r.Get("/teams", teamHandler.List)
		r.Get("/teams/tenant/{tenant_id}", teamHandler.ListByTenant)
		r.Put("/teams/{id}", teamHandler.Update)
		r.With(mw.AdminOnly).Delete("/teams/{id}", teamHandler.Delete)
		r.With(mw.AdminOnly).Delete("/teams", teamHandler.DeleteAll)
	})

	return app
}

// NewRouter returns just the chi.Mux.
func NewRouter(db *pgxpool.Pool, logger *zap.Logger) *chi.Mux {
	return NewApp(db, logger).Router
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
			"build":      buildconfig.VersionInfo(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores satisfy the domain interfaces at compile time.
var (
	_ domain.TenantStore = (*store.TenantStore)(nil)
	_ domain.TeamStore   = (*store.TeamStore)(nil)
	_ domain.UserStore   = (*store.UserStore)(nil)
	_ domain.Transactor  = (*store.PgTransactor)(nil)
)
