package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/hyperjump/cinematch/internal/models"
)

func testResponse() *models.RecommendResponse {
	return &models.RecommendResponse{
		BaseMovie: "A (1990)",
		QueryTime: 1,
		Recommendations: []*models.Recommendation{
			{Rank: 1, ID: 1, Title: "B (1991)", Genres: "Comedy", Score: 0.42},
			{Rank: 2, ID: 2, Title: "C (1992)", Genres: "", Score: 0},
		},
	}
}

func TestWriteRecommendations_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRecommendations(&buf, testResponse(), OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded models.RecommendResponse
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if decoded.BaseMovie != "A (1990)" || len(decoded.Recommendations) != 2 {
		t.Errorf("decoded = %+v", decoded)
	}
	if !strings.Contains(buf.String(), `"base_movie"`) {
		t.Errorf("expected base_movie key:\n%s", buf.String())
	}
}

func TestWriteRecommendations_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRecommendations(&buf, testResponse(), OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Movies similar to A (1990)", " 1. B (1991)  [Comedy]  (0.4200)", " 2. C (1992)  (0.0000)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteNotFound(t *testing.T) {
	var buf bytes.Buffer
	resp := &models.NotFoundResponse{Error: "Movie not found", Title: "Jumanjo", Suggestions: []string{"Jumanji (1995)"}}
	if err := WriteNotFound(&buf, resp, OutputText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Movie not found") || !strings.Contains(buf.String(), "- Jumanji (1995)") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}

	buf.Reset()
	resp.Suggestions = nil
	_ = WriteNotFound(&buf, resp, OutputText)
	if strings.Contains(buf.String(), "Did you mean") {
		t.Error("no suggestions should omit the hint")
	}
}

func TestWriteTitles(t *testing.T) {
	titles := []string{"a", "b", "c"}
	var buf bytes.Buffer
	_ = WriteTitles(&buf, titles, 2, OutputText)
	if buf.String() != "a\nb\n" {
		t.Errorf("limited output = %q", buf.String())
	}
	buf.Reset()
	_ = WriteTitles(&buf, titles, 0, OutputText)
	if buf.String() != "a\nb\nc\n" {
		t.Errorf("unlimited output = %q", buf.String())
	}
}

func TestPromptTitle(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"trims", "  Toy Story (1995)  \nignored\n", "Toy Story (1995)", nil},
		{"no newline", "Heat (1995)", "Heat (1995)", nil},
		{"blank", "   \n", "", ErrNoInput},
		{"eof", "", "", ErrNoInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := PromptTitle(strings.NewReader(tt.input), &out, "Title: ")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("title = %q, want %q", got, tt.want)
			}
			if out.String() != "Title: " {
				t.Errorf("prompt = %q", out.String())
			}
		})
	}
}

func TestParseOutputFormat(t *testing.T) {
	for _, in := range []string{"text", "JSON"} {
		if _, err := ParseOutputFormat(in); err != nil {
			t.Errorf("ParseOutputFormat(%q): %v", in, err)
		}
	}
	if _, err := ParseOutputFormat("compact"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestJoinArgs(t *testing.T) {
	if got := JoinArgs([]string{"Toy", "Story", "(1995)"}); got != "Toy Story (1995)" {
		t.Errorf("JoinArgs = %q", got)
	}
	if got := JoinArgs(nil); got != "" {
		t.Errorf("JoinArgs(nil) = %q", got)
	}
}
