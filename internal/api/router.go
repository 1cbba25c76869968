/**
 * @description
 * Router for the OAuth login helper, built on go-chi/chi.
 */
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates a chi router with the OAuth helper routes.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Monzo auth helper is healthy"))
	})

	r.Route("/oauth", func(r chi.Router) {
		r.Get("/login", h.handleLogin)
		r.Get("/callback", h.handleCallback)
		r.Post("/refresh", h.handleRefresh)
	})

	return r
}
