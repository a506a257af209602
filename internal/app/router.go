package app

import (
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/branchdesk/branchdesk/internal/auth"
	"github.com/branchdesk/branchdesk/internal/dashboard"
	"github.com/branchdesk/branchdesk/internal/invoices"
	"github.com/branchdesk/branchdesk/internal/masterdata"
	"github.com/branchdesk/branchdesk/internal/observability"
	"github.com/branchdesk/branchdesk/internal/platform/httpx"
	"github.com/branchdesk/branchdesk/internal/shared"
	"github.com/branchdesk/branchdesk/report"
	"github.com/branchdesk/branchdesk/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	SessionManager    *shared.SessionManager
	CSRFManager       *shared.CSRFManager
	AuthHandler       *auth.Handler
	DashboardHandler  *dashboard.Handler
	MasterDataHandler *masterdata.Handler
	InvoiceHandler    *invoices.Handler
	ReportHandler     *report.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router with dashboard defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/", auth.Landing)

	loginLimit := 10
	if params.Config != nil && params.Config.LoginRateLimit > 0 {
		loginLimit = params.Config.LoginRateLimit
	}
	r.Group(func(r chi.Router) {
		r.Use(limitPosts(loginLimit, time.Minute))
		params.AuthHandler.MountRoutes(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireIdentity)
		r.Route("/dashboard", params.DashboardHandler.MountRoutes)
		r.Route("/masterdata", params.MasterDataHandler.MountRoutes)
		r.Route("/invoices", params.InvoiceHandler.MountRoutes)
	})

	if params.ReportHandler != nil {
		r.Route("/report", params.ReportHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	return r
}

// staticCacheHandler lets browsers keep static assets for an hour.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
