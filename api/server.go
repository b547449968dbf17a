/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     Structured request logging (zap)
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/calendar                 Days and workable days of an interval
  /api/holidays/*               Holiday management and import
  /api/project-roles/*          Project roles
  /api/users/*                  Users, activities, summaries, vacations
  /api/vacations/{vid}/review   Vacation approval
  /api/scenarios/*              Demo scenarios

SECURITY NOTE:
  No authentication middleware. The caller of vacation changes is the
  user in the path.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/worktime/main.go: Server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger(h.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/calendar", h.GetCalendar)

		// Holiday routes
		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", h.ListHolidays)
			r.Post("/", h.CreateHoliday)
			r.Post("/import", h.ImportHolidays)
			r.Delete("/{id}", h.DeleteHoliday)
		})

		// Project role routes
		r.Route("/project-roles", func(r chi.Router) {
			r.Post("/", h.CreateProjectRole)
			r.Get("/{id}", h.GetProjectRole)
		})

		// User routes
		r.Route("/users", func(r chi.Router) {
			r.Post("/", h.CreateUser)
			r.Get("/{id}", h.GetUser)

			r.Post("/{id}/activities", h.RecordActivity)
			r.Get("/{id}/activities", h.ListActivities)
			r.Get("/{id}/working-time", h.GetWorkingTime)
			r.Get("/{id}/project-roles/{roleId}/remaining", h.GetRemainingForRole)
			r.Get("/{id}/time-summary", h.GetTimeSummary)

			r.Get("/{id}/vacations", h.ListVacations)
			r.Post("/{id}/vacations", h.CreateVacation)
			r.Get("/{id}/vacations/summary", h.GetVacationSummary)
			r.Put("/{id}/vacations/{vid}", h.UpdateVacation)
			r.Delete("/{id}/vacations/{vid}", h.DeleteVacation)
		})

		// Vacation approval
		r.Post("/vacations/{vid}/review", h.ReviewVacation)

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

// requestLogger logs one line per request with its status and latency.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				logger.Info("HTTP request",
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("latency", time.Since(start)))
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
