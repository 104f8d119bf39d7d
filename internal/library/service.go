// Package library implements the request surface over the cached VirtualDJ
// database: full imports, per-track metadata lookups, and the latest history
// entry.
package library

import (
	"context"
	"fmt"
	"runtime"

	"github.com/vdjbridge/vdjbridge/internal/apperr"
	"github.com/vdjbridge/vdjbridge/internal/cache"
	"github.com/vdjbridge/vdjbridge/internal/history"
	"github.com/vdjbridge/vdjbridge/internal/locate"
	"github.com/vdjbridge/vdjbridge/internal/meta"
	"github.com/vdjbridge/vdjbridge/internal/models"
)

// Service answers library and history queries. It owns no mutable state of
// its own; all caching lives in the Library cache it holds.
type Service struct {
	cache      *cache.Library
	dbPath     string // configured database override; empty means auto-locate
	historyDir string // configured history-dir override; empty means auto-locate
	foldCase   bool
}

// Option configures a Service.
type Option func(*Service)

// WithDatabasePath pins the database file instead of searching install
// locations.
func WithDatabasePath(path string) Option {
	return func(s *Service) { s.dbPath = path }
}

// WithHistoryDir pins the history-log directory.
func WithHistoryDir(dir string) Option {
	return func(s *Service) { s.historyDir = dir }
}

// WithCaseFold overrides the platform default for case-insensitive lookup
// fallback.
func WithCaseFold(fold bool) Option {
	return func(s *Service) { s.foldCase = fold }
}

// NewService creates a Service over the given cache. Lookup falls back to
// case-insensitive matching by default on platforms whose filesystems are
// usually case-preserving but not case-sensitive.
func NewService(c *cache.Library, opts ...Option) *Service {
	s := &Service{
		cache:    c,
		foldCase: runtime.GOOS == "darwin" || runtime.GOOS == "windows",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ImportLibrary parses (or reuses) the database and projects every song to a
// Track, in file order. pathOverride, when non-empty, beats both the
// configured path and the candidate search.
func (s *Service) ImportLibrary(_ context.Context, pathOverride string) ([]models.Track, error) {
	snap, err := s.snapshot(pathOverride)
	if err != nil {
		return nil, err
	}
	tracks := make([]models.Track, 0, len(snap.Order))
	for _, key := range snap.Order {
		tracks = append(tracks, deriveTrack(snap.Songs[key]))
	}
	return tracks, nil
}

// LookupTrack returns tempo, key, and volume for the song stored under
// filePath, or apperr.ErrNotFound.
func (s *Service) LookupTrack(_ context.Context, filePath string) (*models.TrackMetadata, error) {
	snap, err := s.snapshot("")
	if err != nil {
		return nil, err
	}
	song, ok := snap.Find(filePath, s.foldCase)
	if !ok {
		return nil, fmt.Errorf("library: track %s: %w", filePath, apperr.ErrNotFound)
	}
	return &models.TrackMetadata{
		BPM:    meta.Tempo(song),
		Key:    meta.Key(song),
		Volume: meta.Volume(song),
	}, nil
}

// LatestHistory reports the last played track from the newest history log.
// A nil entry with nil error means the log had no parseable trailing entry.
func (s *Service) LatestHistory(_ context.Context, dirOverride string) (*models.HistoryEntry, error) {
	override := dirOverride
	if override == "" {
		override = s.historyDir
	}
	dir, err := locate.HistoryDir(override)
	if err != nil {
		return nil, err
	}
	return history.Latest(dir)
}

func (s *Service) snapshot(pathOverride string) (*cache.Snapshot, error) {
	override := pathOverride
	if override == "" {
		override = s.dbPath
	}
	path, err := locate.Database(override)
	if err != nil {
		return nil, err
	}
	return s.cache.Snapshot(path)
}

func deriveTrack(song models.Song) models.Track {
	t := models.Track{FilePath: song.FilePath}
	if song.Tags != nil {
		t.Artist = song.Tags.Author
		t.Title = song.Tags.Title
	}
	t.BPM = meta.Tempo(song)
	t.Key = meta.Key(song)
	t.Duration = meta.DurationSeconds(song)
	return t
}
