package api

import "github.com/vdjbridge/vdjbridge/internal/models"

// TrackListResponse wraps a full library import.
type TrackListResponse struct {
	Tracks []models.Track `json:"tracks"`
	Total  int            `json:"total"`
}

// HistoryResponse wraps the latest history entry. Entry is null when the
// newest log has no parseable trailing entry.
type HistoryResponse struct {
	Entry *models.HistoryEntry `json:"entry"`
}
