package models

// Recommendation is a single ranked neighbour of the query movie.
type Recommendation struct {
	Rank   int     `json:"rank"`
	ID     int     `json:"id"`
	Title  string  `json:"title"`
	Genres string  `json:"genres"`
	Score  float64 `json:"score"`
}

// RecommendResponse is the response for a recommend request.
type RecommendResponse struct {
	BaseMovie       string            `json:"base_movie"`
	Recommendations []*Recommendation `json:"recommendations"`
	QueryTime       int64             `json:"query_time_ms"`
}

// NotFoundResponse is returned when the query title is not in the catalog.
// Suggestions holds close title matches, if any.
type NotFoundResponse struct {
	Error       string   `json:"error"`
	Title       string   `json:"title"`
	Suggestions []string `json:"suggestions,omitempty"`
}
