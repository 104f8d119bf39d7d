package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/vdjbridge/vdjbridge/internal/library"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
func NewRouter(svc *library.Service, authEnabled bool, token string) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Library.
	r.Get("/library/tracks", h.ImportLibrary)
	r.Get("/library/metadata", h.LookupTrack)

	// History.
	r.Get("/history/latest", h.LatestHistory)

	return r
}
