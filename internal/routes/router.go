package routes

import (
	"net/http"
	"time"

	"maverick/dispatch/internal/api"
	"maverick/dispatch/internal/logging"
	"maverick/dispatch/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// RouterOptions carries the knobs the router needs beyond the dependency graph
type RouterOptions struct {
	UpSince     time.Time
	IngestRate  float64
	IngestBurst int
}

func RegisterRoutes(deps *api.Dependencies, opts RouterOptions) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(deps.Metrics))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:8081"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	logging.Info("Router initialized with metrics and logging middleware")
	// health check
	r.Get("/healthCheck", api.HealthCheckHandler(deps, opts.UpSince))

	handlers := api.NewHandlers(deps)
	ingestLimiter := middleware.NewRateLimiter(opts.IngestRate, opts.IngestBurst)

	RegisterAPIRoutes(r, deps, handlers, ingestLimiter)

	return r
}
