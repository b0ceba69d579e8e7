package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"regexp"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/cinematch/internal/models"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteSource reads the catalog from a table with title and genres columns.
// The database is opened read-only; rows are returned in rowid order.
type SQLiteSource struct {
	path  string
	table string
}

// NewSQLiteSource creates a SQLite source. table defaults to "movies".
func NewSQLiteSource(path, table string) (*SQLiteSource, error) {
	if table == "" {
		table = "movies"
	}
	if !identPattern.MatchString(table) {
		return nil, &LoadError{Source: path, Err: fmt.Errorf("invalid table name %q", table)}
	}
	return &SQLiteSource{path: path, table: table}, nil
}

// Describe returns a human-readable description of the source.
func (s *SQLiteSource) Describe() string {
	return fmt.Sprintf("sqlite:%s#%s", s.path, s.table)
}

// Load queries every row of the table.
func (s *SQLiteSource) Load(ctx context.Context) (*Catalog, error) {
	if _, err := os.Stat(s.path); err != nil {
		return nil, &LoadError{Source: s.path, Err: err}
	}
	db, err := sql.Open("sqlite3", "file:"+s.path+"?mode=ro")
	if err != nil {
		return nil, &LoadError{Source: s.path, Err: fmt.Errorf("failed to open database: %w", err)}
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx,
		fmt.Sprintf(`SELECT title, genres FROM %s ORDER BY rowid`, s.table))
	if err != nil {
		return nil, &LoadError{Source: s.path, Err: fmt.Errorf("%w: %v", ErrMissingColumn, err)}
	}
	defer rows.Close()

	var movies []*models.Movie
	for rows.Next() {
		var title, genres sql.NullString
		if err := rows.Scan(&title, &genres); err != nil {
			return nil, &LoadError{Source: s.path, Err: fmt.Errorf("failed to scan row %d: %w", len(movies)+1, err)}
		}
		movies = append(movies, &models.Movie{
			ID:     len(movies),
			Title:  title.String,
			Genres: genres.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, &LoadError{Source: s.path, Err: err}
	}
	if len(movies) == 0 {
		return nil, &LoadError{Source: s.path, Err: ErrEmptyCatalog}
	}

	columns, err := s.columns(ctx, db)
	if err != nil {
		return nil, &LoadError{Source: s.path, Err: err}
	}
	return &Catalog{Movies: movies, Columns: columns}, nil
}

func (s *SQLiteSource) columns(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM %s LIMIT 0`, s.table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return rows.Columns()
}
