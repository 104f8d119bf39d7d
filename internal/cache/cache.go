// Package cache owns the authoritative in-memory index of the VirtualDJ
// database, keyed by song file path and invalidated by the source file's
// modification time.
package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/vdjbridge/vdjbridge/internal/apperr"
	"github.com/vdjbridge/vdjbridge/internal/models"
	"github.com/vdjbridge/vdjbridge/internal/parser"
)

// Snapshot is one immutable load of the database. It is replaced wholesale on
// reload and never mutated in place, so callers may hold it without locking.
type Snapshot struct {
	Path    string
	ModTime time.Time
	Version string
	// Songs maps file path to record. Duplicate paths in the source collapse
	// to the last occurrence.
	Songs map[string]models.Song
	// Order preserves file order of the keys (first occurrence position).
	Order []string
}

// Find returns the song stored under path. When foldCase is true, an
// exact-case miss falls back to a case-insensitive scan over all entries,
// matching lookup behavior on case-preserving filesystems.
func (s *Snapshot) Find(path string, foldCase bool) (models.Song, bool) {
	if song, ok := s.Songs[path]; ok {
		return song, true
	}
	if !foldCase {
		return models.Song{}, false
	}
	for key, song := range s.Songs {
		if strings.EqualFold(key, path) {
			return song, true
		}
	}
	return models.Song{}, false
}

// Library serializes reads and reloads of the database snapshot. Many readers
// may hold the lock concurrently; the exclusive window exists only to prevent
// redundant concurrent reloads.
//
// A Library is constructed once and lives for the process lifetime; there is
// nothing to tear down.
type Library struct {
	mu   sync.RWMutex
	snap *Snapshot

	// load reads and parses the database file. Overridable in tests.
	load func(path string) (*parser.Result, error)
}

// New creates an empty library cache.
func New() *Library {
	return &Library{load: loadFile}
}

// Snapshot returns a coherent snapshot of the database at path. The cached
// snapshot is reused as long as the file's current modification time matches
// the one recorded at load; otherwise the file is re-read and re-parsed under
// the write lock with a second staleness check, so concurrent requests
// against a stale cache trigger exactly one reload. Any reload failure
// propagates to the caller and leaves the previous snapshot untouched.
func (l *Library) Snapshot(path string) (*Snapshot, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("cache: database %s: %w", path, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("cache: stat database: %w", err)
	}
	mod := info.ModTime()

	l.mu.RLock()
	if s := l.snap; fresh(s, path, mod) {
		l.mu.RUnlock()
		return s, nil
	}
	l.mu.RUnlock()

	l.mu.Lock()
	defer l.mu.Unlock()

	// Another request may have refreshed while we waited for the write lock.
	if s := l.snap; fresh(s, path, mod) {
		return s, nil
	}

	res, err := l.load(path)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Path:    path,
		ModTime: mod,
		Version: res.Version,
		Songs:   make(map[string]models.Song, len(res.Songs)),
		Order:   make([]string, 0, len(res.Songs)),
	}
	for _, song := range res.Songs {
		if _, seen := snap.Songs[song.FilePath]; !seen {
			snap.Order = append(snap.Order, song.FilePath)
		}
		snap.Songs[song.FilePath] = song
	}
	l.snap = snap

	slog.Info("cache: database loaded",
		slog.String("path", path),
		slog.Int("songs", len(snap.Songs)),
		slog.Time("mod_time", mod))
	return snap, nil
}

func fresh(s *Snapshot, path string, mod time.Time) bool {
	return s != nil && s.Path == path && s.ModTime.Equal(mod)
}

func loadFile(path string) (*parser.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cache: read database: %w", err)
	}
	return parser.Parse(data)
}
