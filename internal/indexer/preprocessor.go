// Package indexer prepares catalog movies for vectorization.
package indexer

import "github.com/hyperjump/cinematch/internal/models"

// BuildContent returns the text used to vectorize a movie: title and genres joined by a
// single space. Case and punctuation are preserved.
func BuildContent(title, genres string) string {
	return title + " " + genres
}

// Normalize sets Content on every movie. Loaders already map missing genres to "".
func Normalize(movies []*models.Movie) []string {
	contents := make([]string, len(movies))
	for i, m := range movies {
		m.Content = BuildContent(m.Title, m.Genres)
		contents[i] = m.Content
	}
	return contents
}
