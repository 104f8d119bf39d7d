// Package models defines the domain types for vdjbridge.
package models

// Song is one record from the VirtualDJ database, keyed by its file path.
// Every field except FilePath is optional: nil means the attribute was absent
// from the XML. A zero value is never used to signal absence.
type Song struct {
	FilePath string
	FileSize *int64
	Tags     *Tags
	Scan     *Scan
	Infos    *Infos
	Pois     []Poi
}

// Tags holds the user-editable tag attributes of a song.
type Tags struct {
	Author      *string
	Title       *string
	Genre       *string
	Album       *string
	TrackNumber *string
	Year        *string
	Flag        *string
}

// Scan holds the analysis attributes VirtualDJ writes after scanning a file.
// BeatPeriod is the native tempo encoding: seconds per beat, not BPM.
type Scan struct {
	BeatPeriod    *float64
	AltBeatPeriod *float64
	Volume        *float64
	Key           *string
	AudioSig      *string
	Flag          *string
}

// Infos holds bookkeeping attributes maintained by VirtualDJ.
type Infos struct {
	SongLength *float64 // seconds
	FirstSeen  *int64   // unix timestamp
	PlayCount  *int64
}

// Poi is a point-of-interest marker within a track (cue point, track end...).
type Poi struct {
	Name *string
	Pos  *float64 // seconds
	Type *string
}
