package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hyperjump/cinematch/internal/models"
)

// CSVSource reads a movies CSV with a header row containing title and genres.
// Other columns (movieId, ...) are ignored.
type CSVSource struct {
	path string
}

// NewCSVSource creates a CSV source for path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Describe returns a human-readable description of the source.
func (s *CSVSource) Describe() string {
	return "csv:" + s.path
}

// Load reads the whole file.
func (s *CSVSource) Load(ctx context.Context) (*Catalog, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, &LoadError{Source: s.path, Err: err}
	}
	defer f.Close()

	cat, err := readCSV(ctx, f)
	if err != nil {
		return nil, &LoadError{Source: s.path, Err: err}
	}
	return cat, nil
}

func readCSV(ctx context.Context, r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = false

	first, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	h, err := parseHeader(first)
	if err != nil {
		return nil, err
	}

	var movies []*models.Movie
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(movies)+1, err)
		}
		if len(movies)%4096 == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		movies = append(movies, h.movie(len(movies), row))
	}
	if len(movies) == 0 {
		return nil, ErrEmptyCatalog
	}
	return &Catalog{Movies: movies, Columns: h.columns}, nil
}
