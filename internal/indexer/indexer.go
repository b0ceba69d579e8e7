package indexer

import (
	"context"
	"fmt"
	"time"

	"github.com/hyperjump/cinematch/internal/keyword"
	"github.com/hyperjump/cinematch/internal/models"
	"github.com/hyperjump/cinematch/internal/vector"
	"github.com/hyperjump/cinematch/internal/vectorize"
	"go.uber.org/zap"
)

// Indexer runs the build pipeline: normalize content, fit TF-IDF vectors, compute the
// similarity matrix and index titles for search.
type Indexer struct {
	tokenizer vectorize.Tokenizer
	workers   int
	logger    *zap.Logger
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithLogger sets a logger for build progress.
func WithLogger(l *zap.Logger) IndexerOption {
	return func(idx *Indexer) { idx.logger = l }
}

// WithWorkers sets the number of goroutines used for the similarity matrix.
func WithWorkers(n int) IndexerOption {
	return func(idx *Indexer) { idx.workers = n }
}

// WithTokenizer replaces the default analysis chain.
func WithTokenizer(t vectorize.Tokenizer) IndexerOption {
	return func(idx *Indexer) { idx.tokenizer = t }
}

// NewIndexer creates an indexer. Options (e.g. WithLogger) can be passed for debug logging.
func NewIndexer(opts ...IndexerOption) *Indexer {
	idx := &Indexer{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// Artifacts is everything derived from a catalog snapshot.
type Artifacts struct {
	Model   *vectorize.Model
	Matrix  *vector.Matrix
	Titles  keyword.TitleIndex
	Elapsed time.Duration
}

// Index builds the artifacts for movies. Movie IDs must equal their slice positions.
// The caller owns Titles and must close it.
func (idx *Indexer) Index(ctx context.Context, movies []*models.Movie) (*Artifacts, error) {
	start := time.Now()
	for i, m := range movies {
		if m.ID != i {
			return nil, fmt.Errorf("movie %q has id %d at position %d", m.Title, m.ID, i)
		}
	}

	contents := Normalize(movies)
	idx.logger.Debug("indexer content normalized", zap.Int("movies", len(contents)))

	vz, err := vectorize.NewVectorizer(idx.tokenizer)
	if err != nil {
		return nil, fmt.Errorf("failed to create vectorizer: %w", err)
	}
	model, err := vz.Fit(ctx, contents)
	if err != nil {
		return nil, fmt.Errorf("failed to vectorize catalog: %w", err)
	}
	idx.logger.Debug("indexer vectors fitted",
		zap.Int("movies", len(contents)),
		zap.Int("vocabulary", model.Dimensions()))
	if empty := model.Empty(); empty > 0 {
		idx.logger.Warn("movies without indexable content",
			zap.Int("count", empty))
	}

	matrix, err := vector.NewMatrix(ctx, model.Vectors(),
		vector.WithWorkers(idx.workers), vector.WithLogger(idx.logger))
	if err != nil {
		return nil, fmt.Errorf("failed to build similarity matrix: %w", err)
	}

	titles, err := keyword.NewBleveIndex(movies)
	if err != nil {
		return nil, fmt.Errorf("failed to index titles: %w", err)
	}

	elapsed := time.Since(start)
	idx.logger.Info("index built",
		zap.Int("movies", len(movies)),
		zap.Int("vocabulary", model.Dimensions()),
		zap.Duration("elapsed", elapsed))
	return &Artifacts{Model: model, Matrix: matrix, Titles: titles, Elapsed: elapsed}, nil
}
