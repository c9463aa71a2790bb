package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hyperjump/movierec/internal/catalog"
	"github.com/hyperjump/movierec/internal/config"
	"github.com/hyperjump/movierec/internal/models"
	"github.com/hyperjump/movierec/internal/recommend"
	"go.uber.org/zap"
)

func testMovies() []models.Movie {
	return []models.Movie{
		{Title: "Heat", Overview: "A detective hunts bank robbers.", Genres: `[{"id": 28, "name": "Action"}, {"id": 18, "name": "Drama"}]`, Keywords: "heist detective", PosterURL: "https://img/heat.jpg", VoteAverage: 8.3},
		{Title: "Airplane!", Overview: "A pilot panics on a chaotic flight.", Genres: `[{"id": 35, "name": "Comedy"}]`, Keywords: "spoof pilot", VoteAverage: 7.7},
		{Title: "Die Hard", Overview: "A cop fights robbers in a skyscraper.", Genres: `[{"id": 28, "name": "Action"}]`, Keywords: "skyscraper robbers", VoteAverage: 8.2},
		{Title: "Gravity", Overview: "Astronauts drift in orbit.", Genres: `[{"id": 878, "name": "Science Fiction"}]`, Keywords: "space orbit", VoteAverage: 7.2},
	}
}

func newTestServer(t *testing.T, withEngine bool) *Server {
	t.Helper()
	var engine *recommend.Engine
	if withEngine {
		var err error
		engine, err = recommend.Build(context.Background(), catalog.New(testMovies()), recommend.BuildOptions{}, recommend.WithSeed(7))
		if err != nil {
			t.Fatal(err)
		}
	}
	srvCfg := &config.ServerConfig{Port: 8080, FrontendURL: "*", RequestTimeout: 5 * time.Second}
	recCfg := &config.RecommendConfig{DefaultCount: 12, MaxCount: 3, CandidateMultiplier: 5, SearchLimit: 20}
	return NewServer(engine, srvCfg, recCfg, zap.NewNop())
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decodeResults(t *testing.T, w *httptest.ResponseRecorder) []models.MovieResult {
	t.Helper()
	var out []models.MovieResult
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	return out
}

func TestHandleRoot(t *testing.T) {
	srv := newTestServer(t, true)
	w := do(t, srv.Router(), http.MethodGet, "/", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var out map[string]string
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out["status"] != "healthy" || out["message"] != "Movie Recommendation API is running" {
		t.Errorf("body: got %v", out)
	}
}

func TestHandleHealth(t *testing.T) {
	for _, ready := range []bool{true, false} {
		srv := newTestServer(t, ready)
		w := do(t, srv.Router(), http.MethodGet, "/health", "")
		if w.Code != http.StatusOK {
			t.Fatalf("status: got %d", w.Code)
		}
		var out struct {
			Status      string `json:"status"`
			EngineReady bool   `json:"engine_ready"`
		}
		if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
			t.Fatal(err)
		}
		if out.Status != "ok" || out.EngineReady != ready {
			t.Errorf("ready=%v: got %+v", ready, out)
		}
	}
}

func TestHandleGenres(t *testing.T) {
	srv := newTestServer(t, true)
	w := do(t, srv.Router(), http.MethodGet, "/genres", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var out models.GenresResponse
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	want := []string{"Action", "Comedy", "Drama", "Science Fiction"}
	if strings.Join(out.Genres, "|") != strings.Join(want, "|") {
		t.Errorf("genres: got %v, want %v", out.Genres, want)
	}
}

func TestDataRoutes_EngineUnavailable(t *testing.T) {
	srv := newTestServer(t, false)
	h := srv.Router()
	cases := []struct {
		method, target, body string
	}{
		{http.MethodGet, "/genres", ""},
		{http.MethodGet, "/movies/random", ""},
		{http.MethodGet, "/movies/search?q=heat", ""},
		{http.MethodPost, "/recommend/genre", `{"genres":["Action"]}`},
		{http.MethodPost, "/recommend/feedback", `{"liked":["Heat"]}`},
	}
	for _, tc := range cases {
		t.Run(tc.target, func(t *testing.T) {
			w := do(t, h, tc.method, tc.target, tc.body)
			if w.Code != http.StatusServiceUnavailable {
				t.Errorf("status: got %d, want 503", w.Code)
			}
			var out map[string]string
			if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
				t.Fatal(err)
			}
			if out["error"] == "" {
				t.Error("expected error message")
			}
		})
	}
}

func TestHandleRandom(t *testing.T) {
	srv := newTestServer(t, true)
	h := srv.Router()

	w := do(t, h, http.MethodGet, "/movies/random?count=2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	if got := decodeResults(t, w); len(got) != 2 {
		t.Errorf("count=2: got %d results", len(got))
	}

	// Default count 12 is capped by max_count 3.
	w = do(t, h, http.MethodGet, "/movies/random", "")
	if got := decodeResults(t, w); len(got) != 3 {
		t.Errorf("default: got %d results, want 3", len(got))
	}

	for _, bad := range []string{"abc", "-1"} {
		w = do(t, h, http.MethodGet, "/movies/random?count="+bad, "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("count=%s: got %d, want 400", bad, w.Code)
		}
	}
}

func TestHandleSearch(t *testing.T) {
	srv := newTestServer(t, true)
	h := srv.Router()

	w := do(t, h, http.MethodGet, "/movies/search?q=HARD", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	got := decodeResults(t, w)
	if len(got) != 1 || got[0].Title != "Die Hard" {
		t.Errorf("results: got %+v", got)
	}
	if got[0].Genres != "Action" {
		t.Errorf("genres should be cleaned, got %q", got[0].Genres)
	}

	w = do(t, h, http.MethodGet, "/movies/search?q=zzz", "")
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("no match should encode as [], got %s", w.Body.String())
	}

	w = do(t, h, http.MethodGet, "/movies/search", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing q: got %d, want 400", w.Code)
	}

	w = do(t, h, http.MethodGet, "/movies/search?q=%20", "")
	if w.Code != http.StatusOK {
		t.Fatalf("blank q: got %d, want 200", w.Code)
	}
	if got := decodeResults(t, w); len(got) != 1 || got[0].Title != "Die Hard" {
		t.Errorf("blank q should match titles containing a space, got %+v", got)
	}

	w = do(t, h, http.MethodGet, "/movies/search?q=a&limit=1", "")
	if got := decodeResults(t, w); len(got) != 1 {
		t.Errorf("limit=1: got %d results", len(got))
	}
}

func TestHandleRecommendGenre(t *testing.T) {
	srv := newTestServer(t, true)
	h := srv.Router()

	w := do(t, h, http.MethodPost, "/recommend/genre", `{"genres":["Action"],"count":3}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d body %s", w.Code, w.Body.String())
	}
	got := decodeResults(t, w)
	if len(got) == 0 || len(got) > 3 {
		t.Fatalf("results: got %d", len(got))
	}
	for _, m := range got {
		if !strings.Contains(m.Genres, "Action") {
			t.Errorf("%s lacks Action: %q", m.Title, m.Genres)
		}
	}
}

func TestHandleRecommendGenre_BadRequests(t *testing.T) {
	srv := newTestServer(t, true)
	h := srv.Router()
	for name, body := range map[string]string{
		"invalid json":   `{"genres":`,
		"empty body":     ``,
		"empty genres":   `{"genres":[]}`,
		"missing genres": `{"count":3}`,
		"negative count": `{"genres":["Action"],"count":-2}`,
	} {
		t.Run(name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/recommend/genre", strings.NewReader(body))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want 400", w.Code)
			}
		})
	}
}

func TestHandleRecommendFeedback(t *testing.T) {
	srv := newTestServer(t, true)
	h := srv.Router()

	w := do(t, h, http.MethodPost, "/recommend/feedback", `{"liked":["Die Hard"],"disliked":["Airplane!"],"count":2}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d body %s", w.Code, w.Body.String())
	}
	first := decodeResults(t, w)
	if len(first) != 2 {
		t.Fatalf("results: got %d", len(first))
	}
	w = do(t, h, http.MethodPost, "/recommend/feedback", `{"liked":["Die Hard"],"disliked":["Airplane!"],"count":2}`)
	second := decodeResults(t, w)
	for i := range first {
		if first[i].Title != second[i].Title {
			t.Errorf("feedback not deterministic: %v vs %v", first, second)
		}
	}

	w = do(t, h, http.MethodPost, "/recommend/feedback", `{"liked":[],"disliked":[]}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty feedback: got %d, want 400", w.Code)
	}

	w = do(t, h, http.MethodPost, "/recommend/feedback", `{"liked":["Unknown"],"count":2}`)
	if w.Code != http.StatusOK {
		t.Fatalf("unknown liked: got %d", w.Code)
	}
	if got := decodeResults(t, w); len(got) != 2 {
		t.Errorf("fallback sample: got %d, want 2", len(got))
	}
}

func TestHandleStatus(t *testing.T) {
	srv := newTestServer(t, true)
	w := do(t, srv.Router(), http.MethodGet, "/api/v1/status", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var out models.StatusResponse
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if !out.Ready || out.Movies != 4 || out.Genres != 4 || out.VocabularySize == 0 {
		t.Errorf("status: got %+v", out)
	}

	srv = newTestServer(t, false)
	w = do(t, srv.Router(), http.MethodGet, "/api/v1/status", "")
	out = models.StatusResponse{}
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Ready {
		t.Error("status should report not ready without an engine")
	}
}

func TestSetEngine(t *testing.T) {
	srv := newTestServer(t, false)
	h := srv.Router()
	if w := do(t, h, http.MethodGet, "/genres", ""); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("before: got %d", w.Code)
	}
	engine, err := recommend.Build(context.Background(), catalog.New(testMovies()), recommend.BuildOptions{})
	if err != nil {
		t.Fatal(err)
	}
	srv.SetEngine(engine)
	if w := do(t, h, http.MethodGet, "/genres", ""); w.Code != http.StatusOK {
		t.Errorf("after: got %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, true)
	h := srv.Router()
	do(t, h, http.MethodGet, "/movies/random?count=1", "")
	w := do(t, h, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "movierec_recommendations_total") {
		t.Error("expected movierec_recommendations_total in exposition")
	}
}
