// Package meta derives display metadata from raw Song records.
package meta

import (
	"log/slog"
	"math"
	"strings"

	"github.com/vdjbridge/vdjbridge/internal/models"
)

// endMarkerName is the POI label (matched case-insensitively) that VirtualDJ
// uses for the audible end of a track.
const endMarkerName = "end"

// minDuration is the smallest duration (seconds) accepted as real. Values at
// or below it usually come from aborted scans.
const minDuration = 0.1

// TempoBPM converts a stored beat period (seconds per beat) to beats per
// minute, rounded to one decimal place. ok is false when the period is not
// positive: the inversion 60/period is only defined there.
func TempoBPM(beatPeriod float64) (float64, bool) {
	if beatPeriod <= 0 {
		return 0, false
	}
	return math.Round(600/beatPeriod) / 10, true
}

// Tempo returns the song's tempo in BPM, or nil when no positive beat period
// is stored.
func Tempo(s models.Song) *float64 {
	if s.Scan == nil || s.Scan.BeatPeriod == nil {
		return nil
	}
	bpm, ok := TempoBPM(*s.Scan.BeatPeriod)
	if !ok {
		return nil
	}
	return &bpm
}

// Key returns the song's musical key, or nil.
func Key(s models.Song) *string {
	if s.Scan == nil {
		return nil
	}
	return s.Scan.Key
}

// Volume returns the song's scanned volume, or nil.
func Volume(s models.Song) *float64 {
	if s.Scan == nil {
		return nil
	}
	return s.Scan.Volume
}

// Duration resolves the song's duration in seconds through an ordered
// fallback chain, each step consulted only when the previous yields no
// positive value:
//
//  1. the stored song length
//  2. the position of the end-marker POI
//  3. the position of the last POI
//
// The winning value must still exceed minDuration or the duration is absent.
// A miss is a diagnostic, not an error.
func Duration(s models.Song) (float64, bool) {
	d, found := rawDuration(s)
	if !found || d <= minDuration {
		slog.Debug("meta: duration not derivable", slog.String("path", s.FilePath))
		return 0, false
	}
	return d, true
}

// DurationSeconds is Duration rounded to whole seconds, as a nilable field.
func DurationSeconds(s models.Song) *int {
	d, ok := Duration(s)
	if !ok {
		return nil
	}
	secs := int(math.Round(d))
	return &secs
}

func rawDuration(s models.Song) (float64, bool) {
	if s.Infos != nil && s.Infos.SongLength != nil && *s.Infos.SongLength > 0 {
		return *s.Infos.SongLength, true
	}
	if pos := endMarkerPos(s.Pois); pos > 0 {
		return pos, true
	}
	if pos := lastPoiPos(s.Pois); pos > 0 {
		return pos, true
	}
	return 0, false
}

func endMarkerPos(pois []models.Poi) float64 {
	for _, p := range pois {
		if p.Name != nil && strings.EqualFold(*p.Name, endMarkerName) && p.Pos != nil {
			return *p.Pos
		}
	}
	return 0
}

func lastPoiPos(pois []models.Poi) float64 {
	if len(pois) == 0 {
		return 0
	}
	if pos := pois[len(pois)-1].Pos; pos != nil {
		return *pos
	}
	return 0
}
