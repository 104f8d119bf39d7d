// Package locate finds VirtualDJ data files across platform install locations.
package locate

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/vdjbridge/vdjbridge/internal/apperr"
)

const databaseFile = "database.xml"

// Database returns the path to the VirtualDJ database file. An explicit
// override bypasses the candidate search entirely; otherwise the first
// existing candidate wins.
func Database(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	return firstExisting(databaseCandidates())
}

// HistoryDir returns the VirtualDJ history-log directory, with the same
// override and search semantics as Database.
func HistoryDir(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	return firstExisting(historyCandidates())
}

// vdjRoots lists candidate VirtualDJ install directories in priority order
// for the current platform. Paths that cannot be resolved (no home dir) are
// simply omitted.
func vdjRoots() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	switch runtime.GOOS {
	case "darwin":
		return []string{
			filepath.Join(home, "Library", "Application Support", "VirtualDJ"),
			filepath.Join(home, "Documents", "VirtualDJ"),
		}
	case "windows":
		roots := []string{
			filepath.Join(home, "Documents", "VirtualDJ"),
		}
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			roots = append(roots, filepath.Join(local, "VirtualDJ"))
		}
		return roots
	default:
		return []string{
			filepath.Join(home, "Documents", "VirtualDJ"),
			filepath.Join(home, ".virtualdj"),
		}
	}
}

func databaseCandidates() []string {
	var out []string
	for _, root := range vdjRoots() {
		out = append(out, filepath.Join(root, databaseFile))
	}
	return out
}

func historyCandidates() []string {
	var out []string
	for _, root := range vdjRoots() {
		out = append(out, filepath.Join(root, "History"))
	}
	return out
}

func firstExisting(candidates []string) (string, error) {
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("locate: no VirtualDJ installation in %d candidate locations: %w", len(candidates), apperr.ErrNotFound)
}
