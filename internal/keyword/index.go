// Package keyword provides a title search index used for picker filtering and
// "did you mean" suggestions.
package keyword

import "context"

// SearchOptions optional parameters for title search. Nil means use defaults.
type SearchOptions struct {
	// FuzzyEnabled matches terms within Fuzziness edits for typo tolerance.
	FuzzyEnabled bool
	// Fuzziness is the maximum Levenshtein edit distance per term (1 or 2). Default 1.
	Fuzziness int
}

// TitleIndex defines title search operations.
type TitleIndex interface {
	Search(ctx context.Context, query string, limit int, opts *SearchOptions) ([]*TitleResult, error)
	Size() (uint64, error)
	Close() error
}

// TitleResult is a single title search hit. ID is the catalog position of the movie.
type TitleResult struct {
	ID    int
	Title string
	Score float64
}
