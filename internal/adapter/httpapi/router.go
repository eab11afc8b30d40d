// Package httpapi is the service boundary: a chi REST surface over the
// in-memory planning session, covering the auth-provider, file-exchange and
// presentation-feed contracts. Presentation components consume the report
// endpoint as-is and never re-sort or re-merge.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// NewRouter assembles the API with its middleware chain.
func NewRouter(h *Handler, auth *AuthService, corsOrigins []string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", auth.Login)
		r.Post("/auth/logout", auth.Logout)
		r.Get("/session", auth.Session)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/state", h.GetState)
			r.Post("/state/reset", h.ResetState)

			r.Put("/investments", h.PutInvestments)
			r.Get("/investments/csv", h.ExportInvestmentsCSV)
			r.Put("/investments/csv", h.ImportInvestmentsCSV)

			r.Put("/inflation", h.PutInflation)
			r.Get("/inflation/csv", h.ExportInflationCSV)
			r.Put("/inflation/csv", h.ImportInflationCSV)

			r.Post("/plan", h.RecomputePlan)
			r.Get("/report", h.GetReport)

			r.Get("/snapshot", h.ExportSnapshot)
			r.Put("/snapshot", h.ImportSnapshot)
		})
	})

	return r
}
