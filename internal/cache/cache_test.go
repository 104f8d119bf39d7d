package cache

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/vdjbridge/vdjbridge/internal/apperr"
	"github.com/vdjbridge/vdjbridge/internal/parser"
	"github.com/vdjbridge/vdjbridge/internal/testutil"
)

// countingLibrary wraps a Library with a load counter. The counter is only
// incremented under the cache's write lock, so no extra synchronization is
// needed for concurrent Snapshot calls.
func countingLibrary() (*Library, *int) {
	l := New()
	loads := 0
	inner := l.load
	l.load = func(path string) (*parser.Result, error) {
		loads++
		return inner(path)
	}
	return l, &loads
}

func touch(t *testing.T, path string, mod time.Time) {
	t.Helper()
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatal(err)
	}
}

func TestSnapshot_ParsesSourceOnce(t *testing.T) {
	path := testutil.WriteDatabase(t, t.TempDir(), testutil.SampleDatabase)
	l, loads := countingLibrary()

	s1, err := l.Snapshot(path)
	if err != nil {
		t.Fatalf("first snapshot: %v", err)
	}
	s2, err := l.Snapshot(path)
	if err != nil {
		t.Fatalf("second snapshot: %v", err)
	}
	if *loads != 1 {
		t.Errorf("loads = %d, want 1", *loads)
	}
	if s1 != s2 {
		t.Error("unmodified file should return the same snapshot")
	}
	if len(s1.Songs) != 2 || len(s1.Order) != 2 {
		t.Errorf("songs = %d, order = %d, want 2/2", len(s1.Songs), len(s1.Order))
	}
}

func TestSnapshot_ReloadsWhenModTimeChanges(t *testing.T) {
	path := testutil.WriteDatabase(t, t.TempDir(), testutil.SampleDatabase)
	l, loads := countingLibrary()

	s1, err := l.Snapshot(path)
	if err != nil {
		t.Fatal(err)
	}

	touch(t, path, s1.ModTime.Add(2*time.Second))

	s2, err := l.Snapshot(path)
	if err != nil {
		t.Fatal(err)
	}
	if *loads != 2 {
		t.Errorf("loads = %d, want exactly one re-parse", *loads)
	}
	if s1 == s2 {
		t.Error("stale snapshot must be replaced, not reused")
	}

	// And the refreshed snapshot is again stable.
	if _, err := l.Snapshot(path); err != nil {
		t.Fatal(err)
	}
	if *loads != 2 {
		t.Errorf("loads = %d after fresh hit, want 2", *loads)
	}
}

func TestSnapshot_DuplicatePathLastWins(t *testing.T) {
	const db = `<VirtualDJ_Database>
	 <Song FilePath="/dup.mp3"><Scan Bpm="0.5"/></Song>
	 <Song FilePath="/other.mp3"/>
	 <Song FilePath="/dup.mp3"><Scan Bpm="1.0"/></Song>
	</VirtualDJ_Database>`
	path := testutil.WriteDatabase(t, t.TempDir(), db)

	s, err := New().Snapshot(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Songs) != 2 {
		t.Fatalf("songs = %d, want duplicates collapsed to 2", len(s.Songs))
	}
	song := s.Songs["/dup.mp3"]
	if song.Scan == nil || song.Scan.BeatPeriod == nil || *song.Scan.BeatPeriod != 1.0 {
		t.Errorf("beat period = %v, want last entry's 1.0", song.Scan)
	}
	if len(s.Order) != 2 || s.Order[0] != "/dup.mp3" || s.Order[1] != "/other.mp3" {
		t.Errorf("order = %v", s.Order)
	}
}

func TestSnapshot_FailedReloadKeepsPrevious(t *testing.T) {
	path := testutil.WriteDatabase(t, t.TempDir(), testutil.SampleDatabase)
	l := New()

	s1, err := l.Snapshot(path)
	if err != nil {
		t.Fatal(err)
	}
	mod0 := s1.ModTime

	l.load = func(string) (*parser.Result, error) {
		return nil, fmt.Errorf("cache: read database: boom")
	}
	touch(t, path, mod0.Add(2*time.Second))

	if _, err := l.Snapshot(path); err == nil {
		t.Fatal("expected reload failure to propagate")
	}

	// Restoring the original modification time must hit the untouched
	// previous snapshot without calling the (still broken) loader.
	touch(t, path, mod0)
	s2, err := l.Snapshot(path)
	if err != nil {
		t.Fatalf("previous snapshot should survive a failed reload: %v", err)
	}
	if s2 != s1 {
		t.Error("previous snapshot was replaced despite the failed reload")
	}
}

func TestSnapshot_MissingFile(t *testing.T) {
	_, err := New().Snapshot("/nonexistent/database.xml")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSnapshot_ConcurrentRequestsLoadOnce(t *testing.T) {
	path := testutil.WriteDatabase(t, t.TempDir(), testutil.SampleDatabase)
	l, loads := countingLibrary()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.Snapshot(path); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	if *loads != 1 {
		t.Errorf("loads = %d, want 1 (double-checked reload)", *loads)
	}
}

func TestFind_CaseFold(t *testing.T) {
	path := testutil.WriteDatabase(t, t.TempDir(), testutil.SampleDatabase)
	s, err := New().Snapshot(path)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := s.Find("/Music/one.mp3", false); !ok {
		t.Error("exact-case lookup missed")
	}
	if _, ok := s.Find("/music/ONE.mp3", false); ok {
		t.Error("strict lookup must not fold case")
	}
	song, ok := s.Find("/music/ONE.mp3", true)
	if !ok {
		t.Fatal("relaxed lookup should fold case")
	}
	if song.FilePath != "/Music/one.mp3" {
		t.Errorf("resolved path = %q", song.FilePath)
	}
	if _, ok := s.Find("/Music/none.mp3", true); ok {
		t.Error("relaxed lookup still misses absent entries")
	}
}
