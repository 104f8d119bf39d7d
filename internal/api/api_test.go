package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vdjbridge/vdjbridge/internal/cache"
	"github.com/vdjbridge/vdjbridge/internal/library"
	"github.com/vdjbridge/vdjbridge/internal/models"
	"github.com/vdjbridge/vdjbridge/internal/testutil"
)

// testEnv builds a service over temp fixtures and a router.
// authToken == "" means auth disabled.
func testEnv(t *testing.T, authToken string) (http.Handler, string) {
	t.Helper()

	dbPath := testutil.WriteDatabase(t, t.TempDir(), testutil.SampleDatabase)
	historyDir := t.TempDir()

	svc := library.NewService(cache.New(),
		library.WithDatabasePath(dbPath),
		library.WithHistoryDir(historyDir),
		library.WithCaseFold(false),
	)
	router := NewRouter(svc, authToken != "", authToken)
	return router, historyDir
}

func get(t *testing.T, router http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestImportTracks(t *testing.T) {
	router, _ := testEnv(t, "")

	w := get(t, router, "/library/tracks")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp TrackListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 2 || len(resp.Tracks) != 2 {
		t.Fatalf("total = %d, tracks = %d", resp.Total, len(resp.Tracks))
	}
	if resp.Tracks[0].BPM == nil || *resp.Tracks[0].BPM != 123.0 {
		t.Errorf("bpm = %v", resp.Tracks[0].BPM)
	}
}

func TestImportTracks_DatabaseMissing(t *testing.T) {
	svc := library.NewService(cache.New(), library.WithDatabasePath("/nonexistent/database.xml"))
	router := NewRouter(svc, false, "")

	w := get(t, router, "/library/tracks")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestLookupMetadata(t *testing.T) {
	router, _ := testEnv(t, "")

	w := get(t, router, "/library/metadata?path=%2FMusic%2Fone.mp3")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var md models.TrackMetadata
	if err := json.Unmarshal(w.Body.Bytes(), &md); err != nil {
		t.Fatal(err)
	}
	if md.Key == nil || *md.Key != "F#m" {
		t.Errorf("key = %v", md.Key)
	}
	if md.Volume == nil || *md.Volume != 0.95 {
		t.Errorf("volume = %v", md.Volume)
	}
}

func TestLookupMetadata_NotFound(t *testing.T) {
	router, _ := testEnv(t, "")

	w := get(t, router, "/library/metadata?path=%2FMusic%2Fmissing.mp3")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestLookupMetadata_PathRequired(t *testing.T) {
	router, _ := testEnv(t, "")

	w := get(t, router, "/library/metadata")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHistoryLatest(t *testing.T) {
	router, historyDir := testEnv(t, "")
	log := "#EXTVDJ:<artist>Justice</artist><title>Genesis</title><lastplaytime>1700000300</lastplaytime>\n/Music/genesis.mp3\n"
	testutil.WriteHistoryLog(t, historyDir, "today.m3u", log, time.Now())

	w := get(t, router, "/history/latest")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp HistoryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Entry == nil || resp.Entry.Artist != "Justice" || resp.Entry.Timestamp != 1700000300 {
		t.Errorf("entry = %+v", resp.Entry)
	}
}

func TestHistoryLatest_NoEntryIsNull(t *testing.T) {
	router, historyDir := testEnv(t, "")
	testutil.WriteHistoryLog(t, historyDir, "odd.m3u", "#EXTINF:not-vdj\n/x.mp3\n", time.Now())

	w := get(t, router, "/history/latest")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp HistoryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Entry != nil {
		t.Errorf("entry = %+v, want null", resp.Entry)
	}
}

func TestHistoryLatest_NoLogs(t *testing.T) {
	router, _ := testEnv(t, "")

	w := get(t, router, "/history/latest")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestAuth(t *testing.T) {
	router, _ := testEnv(t, "sekret")

	w := get(t, router, "/library/tracks")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status without token = %d, want 401", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/library/tracks", nil)
	req.Header.Set("Authorization", "Bearer sekret")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status with token = %d, want 200", rec.Code)
	}
}
