// Package integration runs the HTTP API against a real catalog file.
package integration

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/hyperjump/cinematch/internal/catalog"
	"github.com/hyperjump/cinematch/internal/config"
	"github.com/hyperjump/cinematch/internal/models"
	"github.com/hyperjump/cinematch/internal/recommend"
	"github.com/hyperjump/cinematch/internal/server"
	"go.uber.org/zap"
)

const moviesCSV = `movieId,title,genres
1,Toy Story (1995),Adventure|Animation|Children|Comedy|Fantasy
2,Jumanji (1995),Adventure|Children|Fantasy
3,Grumpier Old Men (1995),Comedy|Romance
4,Waiting to Exhale (1995),Comedy|Drama|Romance
5,Father of the Bride Part II (1995),Comedy
6,Heat (1995),Action|Crime|Thriller
7,Sabrina (1995),Comedy|Romance
8,Tom and Huck (1995),Adventure|Children
9,Sudden Death (1995),Action
10,GoldenEye (1995),Action|Adventure|Thriller
11,"American President, The (1995)",Comedy|Drama|Romance
12,Toy Story 2 (1999),Adventure|Animation|Children|Comedy|Fantasy
13,Untitled,
`

func startServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "movies.csv")
	if err := os.WriteFile(path, []byte(moviesCSV), 0600); err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{Catalog: config.CatalogConfig{MoviesPath: path}}
	config.ApplyDefaults(cfg)
	cfg.HTTP.RateLimitDisabled = true

	src, err := catalog.NewSource(&cfg.Catalog)
	if err != nil {
		t.Fatal(err)
	}
	idx, err := recommend.Load(context.Background(), src, recommend.WithLogger(zap.NewNop()))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = idx.Close() })

	handler, err := server.NewServer(idx, cfg, zap.NewNop()).Router()
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, target string, v interface{}) int {
	t.Helper()
	resp, err := http.Get(target)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		t.Fatalf("invalid JSON from %s: %v\n%s", target, err, body)
	}
	return resp.StatusCode
}

func TestIntegration_MoviesAndRecommend(t *testing.T) {
	ts := startServer(t)

	var movies struct {
		Movies []string `json:"movies"`
	}
	if code := getJSON(t, ts.URL+"/movies", &movies); code != http.StatusOK {
		t.Fatalf("GET /movies status = %d", code)
	}
	if len(movies.Movies) != 13 || movies.Movies[10] != "American President, The (1995)" {
		t.Errorf("movies = %v", movies.Movies)
	}

	var rec models.RecommendResponse
	target := ts.URL + "/recommend?" + url.Values{"title": {"toy story (1995)"}, "n": {"3"}}.Encode()
	if code := getJSON(t, target, &rec); code != http.StatusOK {
		t.Fatalf("GET /recommend status = %d", code)
	}
	if len(rec.Recommendations) != 3 {
		t.Fatalf("recommendations = %+v", rec.Recommendations)
	}
	if rec.Recommendations[0].Title != "Toy Story 2 (1999)" {
		t.Errorf("top recommendation = %q, want Toy Story 2 (1999)", rec.Recommendations[0].Title)
	}
	for i := 1; i < len(rec.Recommendations); i++ {
		if rec.Recommendations[i].Score > rec.Recommendations[i-1].Score {
			t.Errorf("scores not descending: %+v", rec.Recommendations)
		}
	}

	var all models.RecommendResponse
	getJSON(t, ts.URL+"/recommend?title=Heat+(1995)&n=100", &all)
	if len(all.Recommendations) != 12 {
		t.Errorf("n above catalog size returned %d, want 12", len(all.Recommendations))
	}
	for _, r := range all.Recommendations {
		if r.Title == "Untitled" && r.Score != 0 {
			t.Errorf("movie without genres scored %f against Heat", r.Score)
		}
	}
}

func TestIntegration_NotFound(t *testing.T) {
	ts := startServer(t)
	var nf models.NotFoundResponse
	code := getJSON(t, ts.URL+"/recommend?title=Toy+Storie+(1995)", &nf)
	if code != http.StatusNotFound {
		t.Fatalf("status = %d", code)
	}
	if nf.Error != "Movie not found" {
		t.Errorf("error = %q", nf.Error)
	}
	joined := strings.Join(nf.Suggestions, "|")
	if !strings.Contains(joined, "Toy Story (1995)") {
		t.Errorf("suggestions = %v", nf.Suggestions)
	}
}

func TestIntegration_UI(t *testing.T) {
	ts := startServer(t)
	resp, err := http.PostForm(ts.URL+"/ui/recommend", url.Values{"title": {"Jumanji (1995)"}, "n": {"3"}})
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := strings.Count(string(body), "<li>"); got != 3 {
		t.Errorf("rendered %d results, want 3", got)
	}
}
