package keyword

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	blevequery "github.com/blevesearch/bleve/v2/search/query"
	"github.com/hyperjump/cinematch/internal/models"
)

const batchSize = 1000

type titleDoc struct {
	Title  string `json:"title"`
	Genres string `json:"genres"`
}

// BleveIndex implements TitleIndex with an in-memory Bleve index.
type BleveIndex struct {
	index  bleve.Index
	titles []string
}

// NewBleveIndex builds an in-memory index over the titles and genres of movies.
// Nothing is written to disk; the index lives as long as the process.
func NewBleveIndex(movies []*models.Movie) (*BleveIndex, error) {
	im := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// Standard analyzer: lowercase + stop words, no stemming, so "toy" matches "Toy" exactly.
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("title", textFieldMapping)
	docMapping.AddFieldMappingsAt("genres", textFieldMapping)
	im.DefaultMapping = docMapping

	index, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}

	titles := make([]string, len(movies))
	batch := index.NewBatch()
	for _, m := range movies {
		titles[m.ID] = m.Title
		if err := batch.Index(strconv.Itoa(m.ID), titleDoc{Title: m.Title, Genres: m.Genres}); err != nil {
			_ = index.Close()
			return nil, fmt.Errorf("failed to index title %q: %w", m.Title, err)
		}
		if batch.Size() >= batchSize {
			if err := index.Batch(batch); err != nil {
				_ = index.Close()
				return nil, fmt.Errorf("failed to index batch: %w", err)
			}
			batch = index.NewBatch()
		}
	}
	if batch.Size() > 0 {
		if err := index.Batch(batch); err != nil {
			_ = index.Close()
			return nil, fmt.Errorf("failed to index batch: %w", err)
		}
	}
	return &BleveIndex{index: index, titles: titles}, nil
}

// Search returns up to limit titles matching query, best first. Ties are broken by
// edit distance to the query, then by catalog order.
func (b *BleveIndex) Search(ctx context.Context, query string, limit int, opts *SearchOptions) ([]*TitleResult, error) {
	query = strings.TrimSpace(query)
	if query == "" || limit <= 0 {
		return nil, nil
	}
	fuzziness := 1
	fuzzy := false
	if opts != nil {
		fuzzy = opts.FuzzyEnabled
		if opts.Fuzziness > 0 {
			fuzziness = opts.Fuzziness
		}
	}

	var q blevequery.Query
	if fuzzy {
		q = buildFuzzyQuery(query, fuzziness)
	} else {
		mq := bleve.NewMatchQuery(query)
		mq.SetField("title")
		q = mq
	}
	req := bleve.NewSearchRequest(q)
	req.Size = limit * 2
	results, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}

	lowered := strings.ToLower(query)
	out := make([]*TitleResult, 0, len(results.Hits))
	dist := make(map[int]int, len(results.Hits))
	for _, hit := range results.Hits {
		id, err := strconv.Atoi(hit.ID)
		if err != nil || id < 0 || id >= len(b.titles) {
			continue
		}
		out = append(out, &TitleResult{ID: id, Title: b.titles[id], Score: hit.Score})
		dist[id] = LevenshteinDistance(lowered, strings.ToLower(b.titles[id]))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if dist[out[i].ID] != dist[out[j].ID] {
			return dist[out[i].ID] < dist[out[j].ID]
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// buildFuzzyQuery ORs one FuzzyQuery per lowercase term against the title field.
func buildFuzzyQuery(query string, fuzziness int) blevequery.Query {
	terms := strings.Fields(strings.ToLower(query))
	queries := make([]blevequery.Query, 0, len(terms))
	for _, term := range terms {
		term = strings.Trim(term, "()[]{}.,:;!?\"'")
		if term == "" {
			continue
		}
		fq := bleve.NewFuzzyQuery(term)
		fq.SetFuzziness(fuzziness)
		fq.SetField("title")
		queries = append(queries, fq)
	}
	if len(queries) == 0 {
		mq := bleve.NewMatchQuery(query)
		mq.SetField("title")
		return mq
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewDisjunctionQuery(queries...)
}

// Size returns the number of indexed titles.
func (b *BleveIndex) Size() (uint64, error) {
	return b.index.DocCount()
}

// Close releases the index.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}
