// Package cli provides CLI utilities for cinematch.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/hyperjump/cinematch/internal/models"
	"github.com/hyperjump/cinematch/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat maps a flag value to an OutputFormat.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(s)) {
	case OutputText:
		return OutputText, nil
	case OutputJSON:
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", s)
	}
}

const (
	// SampleTitleCount is how many titles are shown before the prompt.
	SampleTitleCount = 10
	maxGenresWidth   = 60
)

// WriteRecommendations writes a recommend response to w in the given format.
func WriteRecommendations(w io.Writer, response *models.RecommendResponse, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, response)
	}
	fmt.Fprintf(w, "\nMovies similar to %s (%dms):\n", response.BaseMovie, response.QueryTime)
	for _, rec := range response.Recommendations {
		fmt.Fprintf(w, "%2d. %s", rec.Rank, rec.Title)
		if rec.Genres != "" {
			fmt.Fprintf(w, "  [%s]", utils.Truncate(rec.Genres, maxGenresWidth))
		}
		fmt.Fprintf(w, "  (%.4f)\n", rec.Score)
	}
	return nil
}

// WriteNotFound reports a title that is not in the catalog, with suggestions if any.
func WriteNotFound(w io.Writer, response *models.NotFoundResponse, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, response)
	}
	fmt.Fprintf(w, "Movie not found: %q\n", response.Title)
	if len(response.Suggestions) > 0 {
		fmt.Fprintln(w, "Did you mean:")
		for _, s := range response.Suggestions {
			fmt.Fprintf(w, "  - %s\n", s)
		}
	}
	return nil
}

// WriteTitles writes titles one per line. limit <= 0 writes all of them.
func WriteTitles(w io.Writer, titles []string, limit int, format OutputFormat) error {
	if limit > 0 && len(titles) > limit {
		titles = titles[:limit]
	}
	if format == OutputJSON {
		return writeJSON(w, map[string][]string{"movies": titles})
	}
	for _, t := range titles {
		fmt.Fprintln(w, t)
	}
	return nil
}

// ErrNoInput means the prompt reached end of input without a title.
var ErrNoInput = errors.New("no title entered")

// PromptTitle writes prompt to w and reads one line from r. Surrounding whitespace is trimmed.
func PromptTitle(r io.Reader, w io.Writer, prompt string) (string, error) {
	fmt.Fprint(w, prompt)
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", ErrNoInput
	}
	title := strings.TrimSpace(scanner.Text())
	if title == "" {
		return "", ErrNoInput
	}
	return title, nil
}

// JoinArgs joins positional args with spaces so multi-word titles work with or without
// shell quoting.
func JoinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
