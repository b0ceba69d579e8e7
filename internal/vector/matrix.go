package vector

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Matrix is the dense symmetric N x N cosine similarity matrix of a set of vectors.
// Only the upper triangle (diagonal included) is stored, as float32.
// A Matrix is read-only once built and safe for concurrent use.
type Matrix struct {
	n    int
	data []float32
}

// MatrixOption configures matrix construction.
type MatrixOption func(*matrixBuild)

type matrixBuild struct {
	workers int
	logger  *zap.Logger
}

// WithWorkers sets the number of goroutines computing rows. Values <= 0 use GOMAXPROCS.
func WithWorkers(n int) MatrixOption {
	return func(b *matrixBuild) { b.workers = n }
}

// WithLogger sets a logger for build progress.
func WithLogger(l *zap.Logger) MatrixOption {
	return func(b *matrixBuild) { b.logger = l }
}

// NewMatrix computes the similarity of every pair of vectors. Cost is O(N^2) sparse dot
// products and O(N^2/2) float32 of memory. Zero vectors have similarity 0 with everything,
// themselves included.
func NewMatrix(ctx context.Context, vectors []SparseVector, opts ...MatrixOption) (*Matrix, error) {
	b := &matrixBuild{}
	for _, opt := range opts {
		opt(b)
	}
	if b.workers <= 0 {
		b.workers = runtime.GOMAXPROCS(0)
	}
	if b.logger == nil {
		b.logger = zap.NewNop()
	}

	n := len(vectors)
	m := &Matrix{n: n, data: make([]float32, n*(n+1)/2)}
	if n == 0 {
		return m, nil
	}

	norms := make([]float64, n)
	for i, v := range vectors {
		norms[i] = L2Norm(v)
	}

	start := time.Now()
	rows := make(chan int, b.workers)
	var done atomic.Int64
	var wg sync.WaitGroup
	step := int64(n/10) + 1

	for w := 0; w < b.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range rows {
				m.fillRow(i, vectors, norms)
				if c := done.Add(1); c%step == 0 {
					b.logger.Debug("similarity rows computed",
						zap.Int64("rows", c), zap.Int("total", n))
				}
			}
		}()
	}

	var err error
	for i := 0; i < n; i++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("similarity build cancelled: %w", ctxErr)
			break
		}
		rows <- i
	}
	close(rows)
	wg.Wait()
	if err != nil {
		return nil, err
	}

	b.logger.Debug("similarity matrix built",
		zap.Int("items", n),
		zap.Duration("elapsed", time.Since(start)))
	return m, nil
}

// fillRow computes entries (i, j) for j >= i.
func (m *Matrix) fillRow(i int, vectors []SparseVector, norms []float64) {
	base := m.offset(i, i)
	for j := i; j < m.n; j++ {
		m.data[base+j-i] = float32(cosine(vectors[i], vectors[j], norms[i], norms[j]))
	}
}

// offset returns the position of (i, j), i <= j, in the packed upper triangle.
func (m *Matrix) offset(i, j int) int {
	return i*m.n - i*(i-1)/2 + (j - i)
}

// At returns the similarity of items i and j. At(i, j) == At(j, i).
// It panics if either index is outside [0, Size()).
func (m *Matrix) At(i, j int) float64 {
	if i < 0 || j < 0 || i >= m.n || j >= m.n {
		panic(fmt.Sprintf("vector: index (%d, %d) out of range for matrix of size %d", i, j, m.n))
	}
	if i > j {
		i, j = j, i
	}
	return float64(m.data[m.offset(i, j)])
}

// Row returns a copy of row i.
func (m *Matrix) Row(i int) []float64 {
	row := make([]float64, m.n)
	for j := 0; j < m.n; j++ {
		row[j] = m.At(i, j)
	}
	return row
}

// Size returns N.
func (m *Matrix) Size() int {
	return m.n
}
