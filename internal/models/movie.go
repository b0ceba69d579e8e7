// Package models defines core data structures for catalog movies, queries, and recommendations.
package models

// Movie is one catalog entry. ID is the 0-based position in the catalog and is the only
// identity used by the similarity index.
type Movie struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Genres  string `json:"genres"`
	Content string `json:"-"`
}

// Shape reports the dimensions of a tabular input, as rows x columns.
type Shape struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}
