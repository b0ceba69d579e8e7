package keyword

import (
	"context"
	"testing"

	"github.com/hyperjump/cinematch/internal/models"
)

func testMovies() []*models.Movie {
	return []*models.Movie{
		{ID: 0, Title: "Toy Story (1995)", Genres: "Adventure|Animation|Children|Comedy|Fantasy"},
		{ID: 1, Title: "Jumanji (1995)", Genres: "Adventure|Children|Fantasy"},
		{ID: 2, Title: "Toy Story 2 (1999)", Genres: "Adventure|Animation|Children|Comedy|Fantasy"},
		{ID: 3, Title: "Heat (1995)", Genres: "Action|Crime|Thriller"},
	}
}

func TestBleveIndex_Search(t *testing.T) {
	idx, err := NewBleveIndex(testMovies())
	if err != nil {
		t.Fatalf("NewBleveIndex: %v", err)
	}
	defer func() {
		_ = idx.Close()
	}()

	n, err := idx.Size()
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Errorf("Size = %d, want 4", n)
	}

	results, err := idx.Search(context.Background(), "toy story", 10, nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results for \"toy story\", got %d", len(results))
	}
	for _, r := range results {
		if r.ID != 0 && r.ID != 2 {
			t.Errorf("unexpected result %d %q", r.ID, r.Title)
		}
	}
}

func TestBleveIndex_SearchFuzzy(t *testing.T) {
	idx, err := NewBleveIndex(testMovies())
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()
	ctx := context.Background()

	exact, err := idx.Search(ctx, "jumanjo", 5, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(exact) != 0 {
		t.Errorf("expected no exact results for typo, got %d", len(exact))
	}

	fuzzy, err := idx.Search(ctx, "jumanjo", 5, &SearchOptions{FuzzyEnabled: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(fuzzy) == 0 {
		t.Fatal("expected fuzzy match for \"jumanjo\"")
	}
	if fuzzy[0].Title != "Jumanji (1995)" {
		t.Errorf("first fuzzy result = %q, want Jumanji (1995)", fuzzy[0].Title)
	}
}

func TestBleveIndex_SearchLimitAndEmpty(t *testing.T) {
	idx, err := NewBleveIndex(testMovies())
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()
	ctx := context.Background()

	results, err := idx.Search(ctx, "toy", 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("limit 1: got %d results", len(results))
	}

	results, err = idx.Search(ctx, "   ", 5, nil)
	if err != nil {
		t.Fatal(err)
	}
	if results != nil {
		t.Errorf("blank query should return nil, got %v", results)
	}
}

func TestBleveIndex_SearchTieBreaksByEditDistance(t *testing.T) {
	idx, err := NewBleveIndex([]*models.Movie{
		{ID: 0, Title: "Heat (1995)"},
		{ID: 1, Title: "Heat (95)"},
	})
	if err != nil {
		t.Fatalf("NewBleveIndex: %v", err)
	}
	defer func() {
		_ = idx.Close()
	}()

	results, err := idx.Search(context.Background(), "heat", 10, nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Score != results[1].Score {
		t.Fatalf("expected equal scores, got %f and %f", results[0].Score, results[1].Score)
	}
	if results[0].Title != "Heat (95)" {
		t.Errorf("first = %q, want the title closer to the query", results[0].Title)
	}
}
