// Package testutil provides shared test helpers for building VirtualDJ
// database and history fixtures.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// Ptr returns a pointer to v. Handy for building optional-field fixtures.
func Ptr[T any](v T) *T { return &v }

// SampleDatabase is a small but representative database file: one fully
// tagged and scanned song, one bare song, and an unrecognized element.
const SampleDatabase = `<?xml version="1.0" encoding="UTF-8"?>
<VirtualDJ_Database Version="2024">
 <Song FilePath="/Music/one.mp3" FileSize="8123456">
  <Tags Author="Daft Punk" Title="One More Time" Genre="House" Album="Discovery" TrackNumber="1" Year="2000" Flag="1"/>
  <Scan Version="801" Bpm="0.487805" AltBpm="0.975610" Volume="0.95" Key="F#m" AudioSig="c2ln"/>
  <Infos SongLength="320.1" FirstSeen="1610000000" PlayCount="42"/>
  <Poi Name="cue 1" Pos="31.2" Type="cue"/>
  <Poi Name="end" Pos="318.5" Type="remix"/>
  <Comment>ignored free text</Comment>
 </Song>
 <Song FilePath="/Music/two.mp3">
  <Scan Bpm="0.5" Key="Am"/>
 </Song>
</VirtualDJ_Database>
`

// WriteDatabase writes content as database.xml under dir and returns its path.
func WriteDatabase(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "database.xml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// WriteHistoryLog writes an .m3u history log under dir and pins its
// modification time, which drives newest-log selection.
func WriteHistoryLog(t *testing.T, dir, name, content string, mod time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatal(err)
	}
	return path
}
