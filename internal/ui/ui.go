// Package ui serves the browser front-end: a title picker, a count selector and the
// resulting recommendation list.
package ui

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/hyperjump/cinematch/internal/models"
	"github.com/hyperjump/cinematch/internal/recommend"
	"go.uber.org/zap"
)

const (
	MinCount     = 3
	MaxCount     = 15
	DefaultCount = 5
)

//go:embed templates/index.html.tmpl
var templateFS embed.FS

// Recommender is the part of the index the UI needs.
type Recommender interface {
	ListTitles() []string
	Recommend(title string, topN int) ([]*models.Recommendation, error)
}

// Handler renders the UI page.
type Handler struct {
	rec    Recommender
	tmpl   *template.Template
	logger *zap.Logger
}

type page struct {
	Titles          []string
	Counts          []int
	Selected        string
	N               int
	Error           string
	Recommendations []*models.Recommendation
}

// NewHandler parses the page template.
func NewHandler(rec Recommender, logger *zap.Logger) (*Handler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/index.html.tmpl")
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{rec: rec, tmpl: tmpl, logger: logger}, nil
}

// Index renders the empty form.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	p := h.newPage()
	if len(p.Titles) > 0 {
		p.Selected = p.Titles[0]
	}
	h.render(w, http.StatusOK, p)
}

// Recommend handles the form post and renders the results or an error banner.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		p := h.newPage()
		p.Error = "Invalid form submission."
		h.render(w, http.StatusBadRequest, p)
		return
	}
	p := h.newPage()
	p.Selected = r.PostForm.Get("title")
	p.N = parseCount(r.PostForm.Get("n"))

	recs, err := h.rec.Recommend(p.Selected, p.N)
	switch {
	case errors.Is(err, recommend.ErrNotFound):
		p.Error = "Movie not found. Please choose a title from the list."
		h.render(w, http.StatusNotFound, p)
		return
	case err != nil:
		h.logger.Error("ui recommend failed", zap.String("title", p.Selected), zap.Error(err))
		p.Error = "Something went wrong. Please try again."
		h.render(w, http.StatusInternalServerError, p)
		return
	}
	p.Recommendations = recs
	h.render(w, http.StatusOK, p)
}

func (h *Handler) newPage() *page {
	counts := make([]int, 0, MaxCount-MinCount+1)
	for n := MinCount; n <= MaxCount; n++ {
		counts = append(counts, n)
	}
	return &page{Titles: h.rec.ListTitles(), Counts: counts, N: DefaultCount}
}

func (h *Handler) render(w http.ResponseWriter, status int, p *page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.tmpl.Execute(w, p); err != nil {
		h.logger.Error("ui render failed", zap.Error(err))
	}
}

// parseCount clamps the requested count to [MinCount, MaxCount]; bad input yields DefaultCount.
func parseCount(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return DefaultCount
	}
	if n < MinCount {
		return MinCount
	}
	if n > MaxCount {
		return MaxCount
	}
	return n
}
