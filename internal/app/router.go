package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/caddie-pos/caddie-pos/internal/alerts"
	"github.com/caddie-pos/caddie-pos/internal/auth"
	"github.com/caddie-pos/caddie-pos/internal/catalog"
	"github.com/caddie-pos/caddie-pos/internal/finance"
	"github.com/caddie-pos/caddie-pos/internal/hr"
	"github.com/caddie-pos/caddie-pos/internal/inventory"
	"github.com/caddie-pos/caddie-pos/internal/loyalty"
	"github.com/caddie-pos/caddie-pos/internal/observability"
	"github.com/caddie-pos/caddie-pos/internal/reporting"
	"github.com/caddie-pos/caddie-pos/internal/sales"
	"github.com/caddie-pos/caddie-pos/internal/shared"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager

	AuthHandler      *auth.Handler
	CatalogHandler   *catalog.Handler
	InventoryHandler *inventory.Handler
	AlertsHandler    *alerts.Handler
	LoyaltyHandler   *loyalty.Handler
	SalesHandler     *sales.Handler
	FinanceHandler   *finance.Handler
	HRHandler        *hr.Handler
	ReportingHandler *reporting.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with Caddie defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", params.AuthHandler.MountRoutes)
		if params.CatalogHandler != nil {
			// registers /products and /suppliers
			params.CatalogHandler.MountRoutes(r)
		}
		if params.InventoryHandler != nil {
			r.Route("/lots", params.InventoryHandler.MountRoutes)
		}
		if params.AlertsHandler != nil {
			r.Route("/alerts", params.AlertsHandler.MountRoutes)
		}
		if params.LoyaltyHandler != nil {
			r.Route("/clients", params.LoyaltyHandler.MountRoutes)
		}
		if params.SalesHandler != nil {
			r.Route("/sales", params.SalesHandler.MountRoutes)
		}
		if params.FinanceHandler != nil {
			r.Route("/finance", params.FinanceHandler.MountRoutes)
		}
		if params.HRHandler != nil {
			r.Route("/hr", params.HRHandler.MountRoutes)
		}
		if params.ReportingHandler != nil {
			r.Route("/supervisor", params.ReportingHandler.MountRoutes)
		}
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
