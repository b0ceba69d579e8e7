// Package recommend answers "movies like this one" queries over a precomputed
// similarity index.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hyperjump/cinematch/internal/catalog"
	"github.com/hyperjump/cinematch/internal/indexer"
	"github.com/hyperjump/cinematch/internal/keyword"
	"github.com/hyperjump/cinematch/internal/models"
	"github.com/hyperjump/cinematch/internal/vector"
	"github.com/hyperjump/cinematch/internal/vectorize"
	"go.uber.org/zap"
)

var (
	// ErrNotFound means the query title has no case-insensitive exact match in the catalog.
	ErrNotFound = errors.New("movie not found")
	// ErrInvalidTopN means fewer than one recommendation was requested.
	ErrInvalidTopN = errors.New("top_n must be at least 1")
)

// Index is a ready, read-only recommendation index. It is safe for concurrent use
// and should be shared by pointer.
type Index struct {
	movies  []*models.Movie
	byTitle map[string]int
	model   *vectorize.Model
	matrix  *vector.Matrix
	titles  keyword.TitleIndex
	shape   models.Shape
	buildID string
	builtAt time.Time
	elapsed time.Duration
	logger  *zap.Logger
}

// Option configures Build and Load.
type Option func(*options)

type options struct {
	logger    *zap.Logger
	workers   int
	tokenizer vectorize.Tokenizer
}

// WithLogger sets a logger for build progress.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithWorkers sets the number of goroutines computing the similarity matrix.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithTokenizer replaces the default tokenizer.
func WithTokenizer(t vectorize.Tokenizer) Option {
	return func(o *options) { o.tokenizer = t }
}

// Build creates an Index over movies. Movie IDs must equal their slice positions.
func Build(ctx context.Context, movies []*models.Movie, opts ...Option) (*Index, error) {
	o := &options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}

	idxr := indexer.NewIndexer(
		indexer.WithLogger(o.logger),
		indexer.WithWorkers(o.workers),
		indexer.WithTokenizer(o.tokenizer),
	)
	art, err := idxr.Index(ctx, movies)
	if err != nil {
		return nil, err
	}

	byTitle := make(map[string]int, len(movies))
	for _, m := range movies {
		key := strings.ToLower(m.Title)
		if _, ok := byTitle[key]; !ok {
			byTitle[key] = m.ID
		}
	}

	return &Index{
		movies:  movies,
		byTitle: byTitle,
		model:   art.Model,
		matrix:  art.Matrix,
		titles:  art.Titles,
		shape:   models.Shape{Rows: len(movies), Columns: 2},
		buildID: uuid.New().String(),
		builtAt: time.Now(),
		elapsed: art.Elapsed,
		logger:  o.logger,
	}, nil
}

// Load reads the catalog from src and builds an Index over it. Catalog failures are
// returned as *catalog.LoadError.
func Load(ctx context.Context, src catalog.Source, opts ...Option) (*Index, error) {
	cat, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	idx, err := Build(ctx, cat.Movies, opts...)
	if err != nil {
		return nil, err
	}
	idx.shape = cat.Shape()
	idx.logger.Info("catalog loaded",
		zap.String("source", src.Describe()),
		zap.Int("rows", idx.shape.Rows),
		zap.Int("columns", idx.shape.Columns))
	return idx, nil
}

// Lookup returns the id of the first movie whose title equals title, ignoring case.
func (x *Index) Lookup(title string) (int, bool) {
	id, ok := x.byTitle[strings.ToLower(title)]
	return id, ok
}

// Recommend returns the topN movies most similar to title, best first. Ties are broken
// by catalog order and the query movie is never included. When topN exceeds the number
// of other movies, all of them are returned.
func (x *Index) Recommend(title string, topN int) ([]*models.Recommendation, error) {
	if topN < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTopN, topN)
	}
	id, ok := x.Lookup(title)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, title)
	}

	row := x.matrix.Row(id)
	candidates := make([]int, 0, len(row)-1)
	for j := range row {
		if j != id {
			candidates = append(candidates, j)
		}
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		ca, cb := candidates[a], candidates[b]
		if row[ca] != row[cb] {
			return row[ca] > row[cb]
		}
		return ca < cb
	})
	if len(candidates) > topN {
		candidates = candidates[:topN]
	}

	out := make([]*models.Recommendation, len(candidates))
	for rank, j := range candidates {
		m := x.movies[j]
		out[rank] = &models.Recommendation{
			Rank:   rank + 1,
			ID:     m.ID,
			Title:  m.Title,
			Genres: m.Genres,
			Score:  row[j],
		}
	}
	return out, nil
}

// Query validates q and runs Recommend, timing the call.
func (x *Index) Query(q *models.RecommendQuery, defaultN, maxN int) (*models.RecommendResponse, error) {
	start := time.Now()
	if err := q.Validate(defaultN, maxN); err != nil {
		return nil, err
	}
	recs, err := x.Recommend(q.Title, q.N)
	if err != nil {
		return nil, err
	}
	return &models.RecommendResponse{
		BaseMovie:       x.movies[x.byTitle[strings.ToLower(q.Title)]].Title,
		Recommendations: recs,
		QueryTime:       time.Since(start).Milliseconds(),
	}, nil
}

// ListTitles returns every title in catalog order.
func (x *Index) ListTitles() []string {
	titles := make([]string, len(x.movies))
	for i, m := range x.movies {
		titles[i] = m.Title
	}
	return titles
}

// Movie returns the movie with the given id.
func (x *Index) Movie(id int) (*models.Movie, bool) {
	if id < 0 || id >= len(x.movies) {
		return nil, false
	}
	return x.movies[id], true
}

// Similarity returns the cosine similarity of movies i and j.
func (x *Index) Similarity(i, j int) float64 {
	return x.matrix.At(i, j)
}

// SearchTitles returns up to limit titles matching query, best first.
func (x *Index) SearchTitles(ctx context.Context, query string, limit int) ([]string, error) {
	hits, err := x.titles.Search(ctx, query, limit, nil)
	if err != nil {
		return nil, err
	}
	return hitTitles(hits), nil
}

// Suggest returns titles close to a title that was not found, for "did you mean"
// prompts. Errors are logged and yield no suggestions.
func (x *Index) Suggest(ctx context.Context, title string, limit int) []string {
	hits, err := x.titles.Search(ctx, title, limit, &keyword.SearchOptions{FuzzyEnabled: true, Fuzziness: 2})
	if err != nil {
		x.logger.Warn("title suggestion failed", zap.String("title", title), zap.Error(err))
		return nil
	}
	return hitTitles(hits)
}

func hitTitles(hits []*keyword.TitleResult) []string {
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.Title
	}
	return out
}

// Stats describes a built index.
type Stats struct {
	Movies        int           `json:"movies"`
	Columns       int           `json:"columns"`
	Vocabulary    int           `json:"vocabulary"`
	EmptyContent  int           `json:"empty_content"`
	TitlesIndexed uint64        `json:"titles_indexed"`
	BuildID       string        `json:"build_id"`
	BuiltAt       time.Time     `json:"built_at"`
	BuildTime     time.Duration `json:"build_time_ns"`
}

// Stats returns summary information about the index.
func (x *Index) Stats() Stats {
	indexed, err := x.titles.Size()
	if err != nil {
		x.logger.Warn("title index size unavailable", zap.Error(err))
	}
	return Stats{
		Movies:        x.matrix.Size(),
		Columns:       x.shape.Columns,
		Vocabulary:    x.model.Dimensions(),
		EmptyContent:  x.model.Empty(),
		TitlesIndexed: indexed,
		BuildID:       x.buildID,
		BuiltAt:       x.builtAt,
		BuildTime:     x.elapsed,
	}
}

// Close releases the title search index.
func (x *Index) Close() error {
	return x.titles.Close()
}
