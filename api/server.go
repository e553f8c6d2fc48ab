/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/locations/*      Locations and everything scoped under one
  /api/scenarios/*      Demo scenarios
  /api/reset            Database reset (dev only)

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Location routes; everything the engine touches is scoped to one
		r.Route("/locations", func(r chi.Router) {
			r.Get("/", h.ListLocations)
			r.Post("/", h.CreateLocation)

			r.Route("/{id}", func(r chi.Router) {
				// Shifts
				r.Route("/shifts", func(r chi.Router) {
					r.Get("/", h.ListShifts)
					r.Post("/", h.CreateShift)
					r.Post("/publish", h.PublishShifts)
					r.Patch("/{shiftID}", h.UpdateShift)
					r.Delete("/{shiftID}", h.DeleteShift)
				})
				r.Post("/duplicate-day", h.DuplicateDay)

				// Templates
				r.Route("/templates", func(r chi.Router) {
					r.Get("/", h.ListTemplates)
					r.Post("/", h.CreateTemplate)
					r.Post("/{templateID}/apply", h.ApplyTemplate)
				})

				// Store hours
				r.Get("/hours", h.GetHours)
				r.Put("/hours", h.SaveHours)
				r.Route("/exceptions", func(r chi.Router) {
					r.Get("/", h.ListExceptions)
					r.Post("/", h.SaveException)
					r.Delete("/{date}", h.DeleteException)
				})
				r.Get("/open", h.GetOpen)

				// Directories
				r.Get("/employees", h.ListEmployees)
				r.Post("/employees", h.CreateEmployee)
				r.Get("/vacations", h.ListVacations)
				r.Post("/vacations", h.CreateVacation)
			})
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	return r
}
