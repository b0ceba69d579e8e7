package vectorize

import (
	"fmt"
	"regexp"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/token/stop"
	regexpTokenizer "github.com/blevesearch/bleve/v2/analysis/tokenizer/regexp"
)

// wordPattern matches runs of letters and digits; everything else separates tokens.
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

// Tokenizer splits text into lowercase word tokens with English stop words removed.
type Tokenizer interface {
	Tokenize(text string) []string
}

// AnalyzerTokenizer runs text through a bleve analysis chain:
// regexp tokenizer, lowercase filter, English stop-token filter.
type AnalyzerTokenizer struct {
	analyzer *analysis.DefaultAnalyzer
	stops    analysis.TokenMap
}

// NewTokenizer builds the default tokenizer using bleve's English stop word list.
func NewTokenizer() (*AnalyzerTokenizer, error) {
	stops := analysis.NewTokenMap()
	if err := stops.LoadBytes(en.EnglishStopWords); err != nil {
		return nil, fmt.Errorf("failed to load stop words: %w", err)
	}
	return &AnalyzerTokenizer{
		analyzer: &analysis.DefaultAnalyzer{
			Tokenizer: regexpTokenizer.NewRegexpTokenizer(wordPattern),
			TokenFilters: []analysis.TokenFilter{
				lowercase.NewLowerCaseFilter(),
				stop.NewStopTokensFilter(stops),
			},
		},
		stops: stops,
	}, nil
}

// Tokenize returns the surviving tokens of text in order of appearance.
func (t *AnalyzerTokenizer) Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	stream := t.analyzer.Analyze([]byte(text))
	if len(stream) == 0 {
		return nil
	}
	tokens := make([]string, 0, len(stream))
	for _, tok := range stream {
		tokens = append(tokens, string(tok.Term))
	}
	return tokens
}

// isStopWord reports whether term (already lowercase) is in the stop list.
func (t *AnalyzerTokenizer) isStopWord(term string) bool {
	_, ok := t.stops[term]
	return ok
}
