package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/vdjbridge/vdjbridge/internal/apperr"
	"github.com/vdjbridge/vdjbridge/internal/library"
)

// Handler holds API route handlers.
type Handler struct {
	svc *library.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *library.Service) *Handler {
	return &Handler{svc: svc}
}

// ImportLibrary handles GET /api/library/tracks.
// An optional ?path= query pins the database file for this request.
func (h *Handler) ImportLibrary(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")

	tracks, err := h.svc.ImportLibrary(r.Context(), path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("database not found"))
			return
		}
		slog.Error("import library failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("import failed"))
		return
	}
	writeJSON(w, http.StatusOK, TrackListResponse{Tracks: tracks, Total: len(tracks)})
}

// LookupTrack handles GET /api/library/metadata?path=<file path>.
func (h *Handler) LookupTrack(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'path' is required"))
		return
	}

	md, err := h.svc.LookupTrack(r.Context(), path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("lookup track failed", slog.String("path", path), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("lookup failed"))
		return
	}
	writeJSON(w, http.StatusOK, md)
}

// LatestHistory handles GET /api/history/latest.
// An optional ?dir= query pins the history directory for this request.
// A missing or unparseable trailing entry yields a null entry, not an error.
func (h *Handler) LatestHistory(w http.ResponseWriter, r *http.Request) {
	dir := r.URL.Query().Get("dir")

	entry, err := h.svc.LatestHistory(r.Context(), dir)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("no history logs found"))
			return
		}
		slog.Error("latest history failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("history read failed"))
		return
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Entry: entry})
}
