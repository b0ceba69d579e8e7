package models

import (
	"errors"
	"strings"
)

// ErrEmptyTitle is returned when a query has no title.
var ErrEmptyTitle = errors.New("title cannot be empty")

// RecommendQuery represents a recommend request.
type RecommendQuery struct {
	Title string `json:"title"`
	N     int    `json:"n,omitempty"`
}

// Validate ensures the query has a title and a usable count.
// N <= 0 becomes defaultN; when maxN > 0, N is capped at maxN.
func (q *RecommendQuery) Validate(defaultN, maxN int) error {
	if strings.TrimSpace(q.Title) == "" {
		return ErrEmptyTitle
	}
	if q.N <= 0 {
		q.N = defaultN
	}
	if maxN > 0 && q.N > maxN {
		q.N = maxN
	}
	return nil
}
