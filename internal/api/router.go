package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Entries.
	r.Get("/entries", h.ListEntries)
	r.Post("/entries", h.CreateEntry)
	r.Get("/entries/due", h.DueEntries)
	r.Get("/entries/*", h.GetEntry)

	// Review pass.
	r.Post("/review/start", h.StartReview)
	r.Get("/review/current", h.CurrentReview)
	r.Post("/review/rate", h.Rate)
	r.Post("/review/archive", h.Archive)
	r.Post("/review/stop", h.StopReview)

	// Search and stats.
	r.Get("/search", h.Search)
	r.Get("/stats", h.Stats)

	// SSE endpoint (protected by the same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
