package models

// Track is the normalized projection of a Song for display: tempo converted
// to beats per minute (one decimal place) and duration resolved to whole
// seconds. Nil fields mean "not derivable", never zero.
type Track struct {
	FilePath string   `json:"file_path"`
	Artist   *string  `json:"artist,omitempty"`
	Title    *string  `json:"title,omitempty"`
	BPM      *float64 `json:"bpm,omitempty"`
	Key      *string  `json:"key,omitempty"`
	Duration *int     `json:"duration,omitempty"`
}

// TrackMetadata is the point-lookup answer for a single song.
type TrackMetadata struct {
	BPM    *float64 `json:"bpm,omitempty"`
	Key    *string  `json:"key,omitempty"`
	Volume *float64 `json:"volume,omitempty"`
}

// HistoryEntry is the last played track extracted from the newest history log.
type HistoryEntry struct {
	Artist    string `json:"artist"`
	Title     string `json:"title"`
	FilePath  string `json:"file_path"`
	Timestamp int64  `json:"timestamp"`
}
