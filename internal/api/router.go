package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"disputewise/internal/logger"
)

// NewRouter creates and returns a configured chi router.
func NewRouter(h *Handler, log *logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ok(w, map[string]string{"status": "ok", "service": "disputewise"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/customers", func(r chi.Router) {
			r.Post("/", h.CreateCustomer)
			r.Get("/", h.ListCustomers)
			r.Get("/{id}", h.GetCustomer)
			r.Put("/{id}", h.UpdateCustomer)
			r.Delete("/{id}", h.DeleteCustomer)
		})

		r.Route("/disputes", func(r chi.Router) {
			r.Post("/", h.CreateDispute)
			r.Get("/", h.ListDisputes)
			r.Get("/{id}", h.GetDispute)
			r.Put("/{id}", h.UpdateDispute)
			r.Delete("/{id}", h.DeleteDispute)

			r.Post("/{id}/analyze", h.AnalyzeDispute)
			r.Get("/{id}/recommendations", h.GetRecommendations)
			r.Get("/{id}/priority", h.GetPriorityAssessment)

			r.Get("/{id}/insights", h.GetInsight)
			r.Post("/{id}/insights", h.CreateInsight)
			r.Put("/{id}/insights", h.UpdateInsight)

			r.Post("/{id}/notes", h.AddNote)
			r.Get("/{id}/notes", h.ListNotes)
		})

		r.Get("/metrics/dashboard", h.DashboardMetrics)
	})

	return r
}

// requestLogger emits one structured record per request.
func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.WithRequest(r).WithFields(map[string]any{
				"status":      ww.Status(),
				"bytes":       ww.BytesWritten(),
				"duration_ms": time.Since(start).Milliseconds(),
			}).Info("http")
		})
	}
}
