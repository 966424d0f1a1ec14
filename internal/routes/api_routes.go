package routes

import (
	"maverick/dispatch/internal/api"
	"maverick/dispatch/internal/auth"
	"maverick/dispatch/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
func RegisterAPIRoutes(r chi.Router, deps *api.Dependencies, handlers *api.Handlers, ingestLimiter *middleware.RateLimiter) {
	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(middleware.AuthMiddleware(deps.Tokens)) // every v1 route is authenticated

		v1.Route("/sorties", func(s chi.Router) {
			s.With(middleware.RequireAnyCapability(auth.CapScheduleSortie)).
				Post("/", handlers.ScheduleSortie())
			s.Get("/", handlers.ListSorties())

			s.Route("/{sortie_id}", func(one chi.Router) {
				one.Get("/", handlers.GetSortie())
				one.With(middleware.RequireAnyCapability(auth.CapTransitionAnySortie, auth.CapTransitionAssignedSortie)).
					Post("/transition", handlers.TransitionSortie())
				one.With(middleware.RequireAnyCapability(auth.CapAnnotateAnySortie, auth.CapAnnotateAssignedSortie)).
					Post("/dispatch-annotation", handlers.AnnotateSortie())
				one.Post("/messages", handlers.LinkSortieMessage())
			})
		})

		v1.Route("/environment/snapshots", func(env chi.Router) {
			env.With(
				middleware.RequireAnyCapability(auth.CapIngestTenantCapture, auth.CapIngestGlobalCapture),
				ingestLimiter.Middleware,
			).Post("/", handlers.IngestSnapshot())
			env.Get("/latest", handlers.LatestSnapshot())
			env.Get("/{snapshot_id}", handlers.GetSnapshot())
		})
	})
}
