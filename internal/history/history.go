// Package history resolves the most recent play from VirtualDJ history logs.
//
// History logs are extended .m3u playlists: each play appends a marker line
// ("#EXTVDJ:" followed by bracketed artist/title/lastplaytime fields) and a
// line with the played file's absolute path. Only the trailing pair of the
// newest log is consulted.
package history

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vdjbridge/vdjbridge/internal/apperr"
	"github.com/vdjbridge/vdjbridge/internal/models"
)

const (
	logExt       = ".m3u"
	markerPrefix = "#EXTVDJ:"
	unknownField = "Unknown"
)

// Latest returns the last played track recorded under dir. A log whose
// trailing lines do not form a valid marker+path pair, or a log that cannot
// be read, resolves to (nil, nil): "no entry" is not an error. Only a missing
// or unreadable directory is.
func Latest(dir string) (*models.HistoryEntry, error) {
	newest, err := newestLog(dir)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(newest)
	if err != nil {
		slog.Warn("history: read failed",
			slog.String("path", newest),
			slog.String("error", err.Error()))
		return nil, nil
	}
	return parseTrailing(string(data)), nil
}

// newestLog picks the history log with the most recent modification time.
// When several logs share the maximal time, any one of them is returned.
func newestLog(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("history: read dir %s: %w", dir, err)
	}

	var (
		newest  string
		modTime time.Time
		found   bool
	)
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), logExt) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if !found || info.ModTime().After(modTime) {
			newest = filepath.Join(dir, e.Name())
			modTime = info.ModTime()
			found = true
		}
	}
	if !found {
		return "", fmt.Errorf("history: no %s logs in %s: %w", logExt, dir, apperr.ErrNotFound)
	}
	return newest, nil
}

// parseTrailing extracts the entry from the last two lines: a marker line and
// the played file's path. Missing sub-fields default to "Unknown" (text) or
// zero (timestamp).
func parseTrailing(content string) *models.HistoryEntry {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	if len(lines) < 2 {
		return nil
	}
	filePath := strings.TrimRight(lines[len(lines)-1], "\r")
	marker := strings.TrimRight(lines[len(lines)-2], "\r")
	if !strings.HasPrefix(marker, markerPrefix) {
		return nil
	}

	entry := &models.HistoryEntry{
		Artist:   tagValue(marker, "artist"),
		Title:    tagValue(marker, "title"),
		FilePath: filePath,
	}
	if raw, ok := tag(marker, "lastplaytime"); ok {
		if ts, err := strconv.ParseInt(raw, 10, 64); err == nil {
			entry.Timestamp = ts
		}
	}
	return entry
}

func tagValue(s, name string) string {
	if v, ok := tag(s, name); ok {
		return v
	}
	return unknownField
}

// tag extracts the text between <name> and </name> delimiters.
func tag(s, name string) (string, bool) {
	open, end := "<"+name+">", "</"+name+">"
	i := strings.Index(s, open)
	if i < 0 {
		return "", false
	}
	rest := s[i+len(open):]
	j := strings.Index(rest, end)
	if j < 0 {
		return "", false
	}
	return rest[:j], true
}
