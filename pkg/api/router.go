package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/marmos91/dsomm/internal/logger"
	"github.com/marmos91/dsomm/pkg/api/auth"
	"github.com/marmos91/dsomm/pkg/api/handlers"
	apiMiddleware "github.com/marmos91/dsomm/pkg/api/middleware"
	"github.com/marmos91/dsomm/pkg/metrics"
	"github.com/marmos91/dsomm/pkg/tracker"
)

// RouterOptions wires optional collaborators into the router.
type RouterOptions struct {
	// JWT protects the mutating routes when set.
	JWT *auth.JWTService

	// Metrics records request metrics when set.
	Metrics metrics.HTTPMetrics

	// RequestTimeout bounds handler time. Default: 30s
	RequestTimeout time.Duration
}

// NewRouter creates and configures the chi router with all middleware and routes.
//
// The router is configured with:
//   - Request ID middleware for request tracking
//   - Real IP extraction for proper client identification
//   - Custom request logging using the internal logger
//   - Panic recovery to prevent server crashes
//   - Request timeout to prevent hung requests
//
// Read routes are public. Routes that change progress, teams or settings
// require a token with the write scope once a JWT service is configured.
func NewRouter(svc *tracker.Service, opts RouterOptions) http.Handler {
	if opts.RequestTimeout == 0 {
		opts.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()

	// Middleware stack - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(apiMiddleware.Metrics(opts.Metrics))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(opts.RequestTimeout))

	healthHandler := handlers.NewHealthHandler(svc)
	r.Route("/health", func(r chi.Router) {
		r.Get("/", healthHandler.Liveness)
		r.Get("/ready", healthHandler.Readiness)
	})

	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/health", http.StatusTemporaryRedirect)
	})

	data := handlers.NewDataHandler(svc)
	matrix := handlers.NewMatrixHandler(svc)
	teams := handlers.NewTeamsHandler(svc)
	progress := handlers.NewProgressHandler(svc)
	mapping := handlers.NewMappingHandler(svc)
	heatmap := handlers.NewHeatmapHandler(svc)
	report := handlers.NewReportHandler(svc)
	settings := handlers.NewSettingsHandler(svc)

	requireWrite := apiMiddleware.JWTAuth(opts.JWT, auth.ScopeWrite)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/meta", data.Meta)
		r.Get("/activities", data.Activities)
		r.Get("/activities/{uuid}", data.Activity)

		r.Get("/matrix", matrix.Get)
		r.Get("/matrix/filters", matrix.GetFilters)

		r.Get("/teams", teams.List)
		r.Get("/teams/export", teams.Export)
		r.Get("/teams/{name}/summary", teams.TeamSummary)
		r.Get("/groups/{name}/summary", teams.GroupSummary)

		r.Get("/progress", progress.List)
		r.Get("/progress/export", progress.Export)

		r.Get("/mapping", mapping.Get)
		r.Get("/heatmap", heatmap.Get)

		r.Get("/report", report.Get)
		r.Get("/report/config", report.GetConfig)

		r.Get("/preferences", settings.Preferences)
		r.Get("/settings", settings.List)
		r.Get("/settings/{key}", settings.Get)

		// Mutating routes
		r.Group(func(r chi.Router) {
			r.Use(requireWrite)

			r.Put("/matrix/filters", matrix.SetFilters)

			r.Put("/teams", teams.Update)
			r.Delete("/teams", teams.Reset)

			r.Put("/progress/{uuid}/{team}", progress.Set)
			r.Delete("/progress", progress.Delete)

			r.Put("/report/config", report.SetConfig)

			r.Put("/preferences", settings.SetPreferences)
			r.Put("/settings/{key}", settings.Set)
			r.Delete("/settings/{key}", settings.Delete)

			r.Post("/reload", data.Reload)
		})
	})

	return r
}

// requestLogger logs requests using the internal logger. Health probes and
// metric scrapes are logged at DEBUG.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetReqID(r.Context())

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		args := []any{
			logger.KeyRequestID, requestID,
			logger.KeyMethod, r.Method,
			logger.KeyPath, r.URL.Path,
			logger.KeyStatus, ww.Status(),
			logger.KeyBytes, ww.BytesWritten(),
			logger.KeyClientIP, r.RemoteAddr,
			logger.DurationMs(start),
		}
		if strings.HasPrefix(r.URL.Path, "/health") || r.URL.Path == "/metrics" {
			logger.Debug("API request completed", args...)
			return
		}
		logger.Info("API request completed", args...)
	})
}
