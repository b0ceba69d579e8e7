// Package catalog loads the movie catalog from CSV, XLSX, or SQLite sources.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hyperjump/cinematch/internal/config"
	"github.com/hyperjump/cinematch/internal/models"
)

var (
	// ErrMissingColumn means the catalog has no title or genres column.
	ErrMissingColumn = errors.New("missing required column")
	// ErrEmptyCatalog means the catalog has a header but no rows.
	ErrEmptyCatalog = errors.New("catalog has no rows")
	// ErrUnknownFormat means the catalog format could not be determined.
	ErrUnknownFormat = errors.New("unknown catalog format")
)

// LoadError reports that a catalog could not be read into the title/genres shape.
// It is fatal at startup.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load catalog %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Catalog is a loaded snapshot of the movie table.
type Catalog struct {
	Movies  []*models.Movie
	Columns []string
}

// Shape returns rows x columns of the source table.
func (c *Catalog) Shape() models.Shape {
	return models.Shape{Rows: len(c.Movies), Columns: len(c.Columns)}
}

// Source loads a catalog. Movie IDs are assigned in load order starting at 0 and
// missing genres are "".
type Source interface {
	Load(ctx context.Context) (*Catalog, error)
	Describe() string
}

const (
	FormatCSV    = "csv"
	FormatXLSX   = "xlsx"
	FormatSQLite = "sqlite"
)

// NewSource returns the Source for cfg. When cfg.Format is empty the format is
// taken from the file extension.
func NewSource(cfg *config.CatalogConfig) (Source, error) {
	format := strings.ToLower(cfg.Format)
	if format == "" {
		format = FormatFromPath(cfg.MoviesPath)
	}
	switch format {
	case FormatCSV:
		return NewCSVSource(cfg.MoviesPath), nil
	case FormatXLSX:
		return NewXLSXSource(cfg.MoviesPath, cfg.Sheet), nil
	case FormatSQLite:
		src, err := NewSQLiteSource(cfg.MoviesPath, cfg.Table)
		if err != nil {
			return nil, err
		}
		return src, nil
	default:
		return nil, &LoadError{Source: cfg.MoviesPath, Err: fmt.Errorf("%w: %q", ErrUnknownFormat, cfg.Format)}
	}
}

// FormatFromPath maps a file extension to a catalog format, or "" when unknown.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".xlsx", ".xlsm":
		return FormatXLSX
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	default:
		return ""
	}
}

// header locates the title and genres columns, case-insensitively.
type header struct {
	title, genres int
	columns       []string
}

func parseHeader(row []string) (*header, error) {
	h := &header{title: -1, genres: -1, columns: make([]string, len(row))}
	for i, col := range row {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
		h.columns[i] = name
		switch name {
		case "title":
			if h.title < 0 {
				h.title = i
			}
		case "genres":
			if h.genres < 0 {
				h.genres = i
			}
		}
	}
	if h.title < 0 {
		return nil, fmt.Errorf("%w: title", ErrMissingColumn)
	}
	if h.genres < 0 {
		return nil, fmt.Errorf("%w: genres", ErrMissingColumn)
	}
	return h, nil
}

// movie builds a Movie from a data row. Short rows yield "" for absent cells.
func (h *header) movie(id int, row []string) *models.Movie {
	return &models.Movie{
		ID:     id,
		Title:  cell(row, h.title),
		Genres: cell(row, h.genres),
	}
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
