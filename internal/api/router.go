package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the chi router with the simulation and rates endpoints.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/simulation", func(r chi.Router) {
			r.Post("/", h.handleCreateSimulation)
			r.Get("/", h.handleListSimulations)
			r.Get("/{id}", h.handleGetSimulation)
			r.Post("/{id}/investment", h.handleAddInvestment)
			r.Get("/{id}/investment", h.handleListInvestments)
			r.Post("/{id}/calculate", h.handleCalculate)
		})
		r.Route("/rates", func(r chi.Router) {
			r.Get("/", h.handleListRates)
			r.Get("/{year}", h.handleGetRates)
		})
	})

	return r
}

func yearParam(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "year"))
}
