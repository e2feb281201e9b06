package api

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/UnknownOlympus/pinpoint/internal/metrics"
	"github.com/UnknownOlympus/pinpoint/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig holds the dependencies of the review API.
type RouterConfig struct {
	Log         *slog.Logger
	Store       repository.ReviewStore
	Metrics     *metrics.Metrics    // optional
	Gatherer    prometheus.Gatherer // optional, enables /metrics
	StaticDir   string
	CORSOrigins []string
}

// NewRouter builds the HTTP handler serving the review API, the reviewer UI and the
// monitoring endpoints.
func NewRouter(cfg RouterConfig) http.Handler {
	h := NewHandler(cfg.Log, cfg.Store, cfg.Metrics)

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(cfg.Log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))

	r.Get("/estados", h.States)
	r.Get("/hospital", h.NextFacility)
	r.Get("/hospitales/{id}", h.Facility)
	r.Post("/guardar", h.Save)

	r.Get("/healthz", h.Health)
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	if cfg.StaticDir != "" {
		index := filepath.Join(cfg.StaticDir, "index.html")
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			http.ServeFile(w, req, index)
		})
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))
	}

	return r
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			log.DebugContext(r.Context(), "Request served",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
