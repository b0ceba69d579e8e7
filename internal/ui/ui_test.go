package ui

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/hyperjump/cinematch/internal/models"
	"github.com/hyperjump/cinematch/internal/recommend"
)

type stubRecommender struct {
	titles []string
	gotN   int
}

func (s *stubRecommender) ListTitles() []string { return s.titles }

func (s *stubRecommender) Recommend(title string, topN int) ([]*models.Recommendation, error) {
	s.gotN = topN
	if title != "A (1990)" {
		return nil, fmt.Errorf("%w: %q", recommend.ErrNotFound, title)
	}
	return []*models.Recommendation{
		{Rank: 1, ID: 1, Title: "B (1991)", Genres: "Comedy"},
		{Rank: 2, ID: 2, Title: "C & D (1992)", Genres: "Drama"},
	}, nil
}

func newTestHandler(t *testing.T) (*Handler, *stubRecommender) {
	t.Helper()
	rec := &stubRecommender{titles: []string{"A (1990)", "B (1991)", "C & D (1992)"}}
	h, err := NewHandler(rec, nil)
	if err != nil {
		t.Fatal(err)
	}
	return h, rec
}

func post(h *Handler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/ui/recommend", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.Recommend(w, req)
	return w
}

func TestHandler_Index(t *testing.T) {
	h, _ := newTestHandler(t)
	w := httptest.NewRecorder()
	h.Index(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"<option selected>A (1990)</option>", "C &amp; D (1992)", `<option value="5" selected>5</option>`, `<option value="15">15</option>`} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(body, `value="2"`) {
		t.Error("count selector should start at 3")
	}
}

func TestHandler_Recommend(t *testing.T) {
	h, rec := newTestHandler(t)
	w := post(h, url.Values{"title": {"A (1990)"}, "n": {"7"}})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if rec.gotN != 7 {
		t.Errorf("n = %d, want 7", rec.gotN)
	}
	body := w.Body.String()
	if !strings.Contains(body, "<li>B (1991)") || !strings.Contains(body, "<li>C &amp; D (1992)") {
		t.Errorf("results missing from page:\n%s", body)
	}
}

func TestHandler_RecommendNotFound(t *testing.T) {
	h, _ := newTestHandler(t)
	w := post(h, url.Values{"title": {"Z (2000)"}, "n": {"5"}})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `class="error"`) {
		t.Error("expected error banner")
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"5", 5},
		{"3", 3},
		{"15", 15},
		{"1", 3},
		{"99", 15},
		{"", 5},
		{"abc", 5},
	}
	for _, tt := range tests {
		if got := parseCount(tt.in); got != tt.want {
			t.Errorf("parseCount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
