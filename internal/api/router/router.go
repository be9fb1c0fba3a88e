package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/leadflow/internal/campaigns"
	httpmiddleware "github.com/wolfman30/leadflow/internal/http/middleware"
	"github.com/wolfman30/leadflow/internal/importer"
	"github.com/wolfman30/leadflow/internal/leads"
	"github.com/wolfman30/leadflow/internal/team"
	"github.com/wolfman30/leadflow/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	CampaignsHandler   *campaigns.Handler
	LeadsHandler       *leads.Handler
	ImportHandler      *importer.Handler
	TeamHandler        *team.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	AdminAuthSecret    string

	// ImportRateLimit caps bulk-import requests per second per IP.
	// Zero disables the limiter.
	ImportRateLimit float64
	ImportRateBurst int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Admin routes (protected by HMAC JWT)
	if cfg.AdminAuthSecret != "" && cfg.TeamHandler != nil {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Group(func(scoped chi.Router) {
				scoped.Use(requireOrgID)
				scoped.Put("/team/members", cfg.TeamHandler.Upsert)
				scoped.Delete("/team/members/{memberID}", cfg.TeamHandler.Delete)
			})
		})
	}

	// Tenant-scoped API routes
	r.Group(func(tenant chi.Router) {
		tenant.Use(requireOrgID)

		if cfg.CampaignsHandler != nil {
			tenant.Route("/campaigns", func(r chi.Router) {
				r.Get("/", cfg.CampaignsHandler.List)
				r.Post("/", cfg.CampaignsHandler.Create)
				r.Get("/overview", cfg.CampaignsHandler.GetOverview)

				r.Route("/{campaignID}", func(r chi.Router) {
					r.Get("/", cfg.CampaignsHandler.Get)
					r.Patch("/", cfg.CampaignsHandler.Update)
					r.Delete("/", cfg.CampaignsHandler.Delete)
					r.Post("/status", cfg.CampaignsHandler.SetStatus)
					r.Post("/duplicate", cfg.CampaignsHandler.Duplicate)
					r.Put("/assignees", cfg.CampaignsHandler.SetAssignees)
					r.Patch("/assignees/{userRef}", cfg.CampaignsHandler.SetAssigneePercentage)

					if cfg.LeadsHandler != nil {
						r.Get("/leads", cfg.LeadsHandler.List)
					}
					if cfg.ImportHandler != nil {
						r.Post("/leads", cfg.ImportHandler.AddLead)
						r.Group(func(bulk chi.Router) {
							if cfg.ImportRateLimit > 0 {
								bulk.Use(httpmiddleware.RateLimit(cfg.ImportRateLimit, cfg.ImportRateBurst))
							}
							bulk.Post("/import", cfg.ImportHandler.ImportTabular)
							bulk.Get("/import/ws", cfg.ImportHandler.StreamImport)
						})
					}
				})
			})
		}

		if cfg.ImportHandler != nil {
			tenant.Post("/import/preview", cfg.ImportHandler.Preview)
		}
		if cfg.TeamHandler != nil {
			tenant.Get("/team/members", cfg.TeamHandler.List)
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
