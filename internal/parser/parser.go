// Package parser deserializes the VirtualDJ database XML into Song records.
//
// The external format evolves independently of this project, so parsing is
// best-effort by design: unknown elements and attributes are ignored, and
// individual attributes that fail to parse are treated as absent. Only
// structurally invalid XML fails the whole import.
package parser

import (
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/vdjbridge/vdjbridge/internal/models"
)

// Result holds the output of parsing a database file.
type Result struct {
	Version string
	Songs   []models.Song
}

type xmlDatabase struct {
	XMLName xml.Name  `xml:"VirtualDJ_Database"`
	Version string    `xml:"Version,attr"`
	Songs   []xmlSong `xml:"Song"`
}

type xmlSong struct {
	FilePath string    `xml:"FilePath,attr"`
	FileSize *string   `xml:"FileSize,attr"`
	Tags     *xmlTags  `xml:"Tags"`
	Scan     *xmlScan  `xml:"Scan"`
	Infos    *xmlInfos `xml:"Infos"`
	Pois     []xmlPoi  `xml:"Poi"`
}

type xmlTags struct {
	Author      *string `xml:"Author,attr"`
	Title       *string `xml:"Title,attr"`
	Genre       *string `xml:"Genre,attr"`
	Album       *string `xml:"Album,attr"`
	TrackNumber *string `xml:"TrackNumber,attr"`
	Year        *string `xml:"Year,attr"`
	Flag        *string `xml:"Flag,attr"`
}

type xmlScan struct {
	Bpm      *string `xml:"Bpm,attr"`
	AltBpm   *string `xml:"AltBpm,attr"`
	Volume   *string `xml:"Volume,attr"`
	Key      *string `xml:"Key,attr"`
	AudioSig *string `xml:"AudioSig,attr"`
	Flag     *string `xml:"Flag,attr"`
}

type xmlInfos struct {
	SongLength *string `xml:"SongLength,attr"`
	FirstSeen  *string `xml:"FirstSeen,attr"`
	PlayCount  *string `xml:"PlayCount,attr"`
}

type xmlPoi struct {
	Name *string `xml:"Name,attr"`
	Pos  *string `xml:"Pos,attr"`
	Type *string `xml:"Type,attr"`
}

// Parse deserializes raw database XML. Songs without a FilePath attribute are
// skipped; the path is the index key and a record without one is unusable.
func Parse(data []byte) (*Result, error) {
	var db xmlDatabase
	if err := xml.Unmarshal(data, &db); err != nil {
		return nil, fmt.Errorf("parser: parse database: %w", err)
	}

	res := &Result{Version: db.Version, Songs: make([]models.Song, 0, len(db.Songs))}
	for _, s := range db.Songs {
		if s.FilePath == "" {
			continue
		}
		res.Songs = append(res.Songs, convertSong(s))
	}
	return res, nil
}

func convertSong(s xmlSong) models.Song {
	out := models.Song{
		FilePath: s.FilePath,
		FileSize: intAttr(s.FileSize),
	}
	if s.Tags != nil {
		out.Tags = &models.Tags{
			Author:      s.Tags.Author,
			Title:       s.Tags.Title,
			Genre:       s.Tags.Genre,
			Album:       s.Tags.Album,
			TrackNumber: s.Tags.TrackNumber,
			Year:        s.Tags.Year,
			Flag:        s.Tags.Flag,
		}
	}
	if s.Scan != nil {
		out.Scan = &models.Scan{
			BeatPeriod:    floatAttr(s.Scan.Bpm),
			AltBeatPeriod: floatAttr(s.Scan.AltBpm),
			Volume:        floatAttr(s.Scan.Volume),
			Key:           s.Scan.Key,
			AudioSig:      s.Scan.AudioSig,
			Flag:          s.Scan.Flag,
		}
	}
	if s.Infos != nil {
		out.Infos = &models.Infos{
			SongLength: floatAttr(s.Infos.SongLength),
			FirstSeen:  intAttr(s.Infos.FirstSeen),
			PlayCount:  intAttr(s.Infos.PlayCount),
		}
	}
	for _, p := range s.Pois {
		out.Pois = append(out.Pois, models.Poi{
			Name: p.Name,
			Pos:  floatAttr(p.Pos),
			Type: p.Type,
		})
	}
	return out
}

// floatAttr parses an optional numeric attribute. Absent or malformed values
// both map to nil.
func floatAttr(s *string) *float64 {
	if s == nil {
		return nil
	}
	v, err := strconv.ParseFloat(*s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func intAttr(s *string) *int64 {
	if s == nil {
		return nil
	}
	v, err := strconv.ParseInt(*s, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}
