package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-console/internal/infra/http/middleware"
)

type RouterConfig struct {
	Leads          *LeadHandler
	Opportunities  *OpportunityHandler
	Health         *HealthHandler
	Notifications  *NotificationHandler
	ImportLimiter  *middleware.RateLimiter
	AllowedOrigins []string
	Logger         *zap.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", cfg.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/notifications", cfg.Notifications.Handle)

	r.Route("/leads", func(r chi.Router) {
		r.Get("/", cfg.Leads.List)
		r.Delete("/", cfg.Leads.Clear)
		r.With(cfg.ImportLimiter.Middleware).Post("/import", cfg.Leads.Import)
		r.Get("/export", cfg.Leads.Export)
		r.Put("/filters", cfg.Leads.UpdateFilters)
		r.Post("/filters/reset", cfg.Leads.ResetFilters)
		r.Post("/page/{direction}", cfg.Leads.Page)
		r.Get("/{id}", cfg.Leads.Get)
		r.Patch("/{id}", cfg.Leads.Update)
		r.Post("/{id}/convert", cfg.Leads.ConvertLead)
	})

	r.Route("/opportunities", func(r chi.Router) {
		r.Get("/", cfg.Opportunities.List)
		r.Delete("/", cfg.Opportunities.Clear)
		r.Get("/summary", cfg.Opportunities.Summary)
		r.Get("/{id}", cfg.Opportunities.Get)
		r.Patch("/{id}", cfg.Opportunities.Update)
		r.Delete("/{id}", cfg.Opportunities.Delete)
	})

	return r
}
