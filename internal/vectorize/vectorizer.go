// Package vectorize turns catalog text into TF-IDF weighted sparse vectors.
package vectorize

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/hyperjump/cinematch/internal/vector"
)

// Model is a fitted TF-IDF vector space: a vocabulary, per-term idf weights, and one
// L2-normalized sparse vector per input document, index-aligned with the input.
type Model struct {
	vocabulary map[string]int
	terms      []string
	idf        []float64
	vectors    []vector.SparseVector
}

// Vectorizer fits a TF-IDF model over a corpus.
type Vectorizer struct {
	tokenizer Tokenizer
}

// NewVectorizer creates a vectorizer. A nil tokenizer uses NewTokenizer.
func NewVectorizer(tokenizer Tokenizer) (*Vectorizer, error) {
	if tokenizer == nil {
		t, err := NewTokenizer()
		if err != nil {
			return nil, err
		}
		tokenizer = t
	}
	return &Vectorizer{tokenizer: tokenizer}, nil
}

// Fit builds the vocabulary and the weighted vectors for docs.
//
// Terms are assigned columns in alphabetical order. The idf of a term is
// ln((1+N)/(1+df)) + 1, so terms present in every document keep a non-zero weight.
// Documents without any surviving token get a zero vector.
func (v *Vectorizer) Fit(ctx context.Context, docs []string) (*Model, error) {
	tokenized := make([][]string, len(docs))
	df := make(map[string]int)
	for i, doc := range docs {
		if i%1024 == 0 && ctx.Err() != nil {
			return nil, fmt.Errorf("vectorize cancelled: %w", ctx.Err())
		}
		tokens := v.tokenizer.Tokenize(doc)
		tokenized[i] = tokens
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	vocabulary := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	n := float64(len(docs))
	for col, term := range terms {
		vocabulary[term] = col
		idf[col] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	vectors := make([]vector.SparseVector, len(docs))
	for i, tokens := range tokenized {
		vectors[i] = weigh(tokens, vocabulary, idf)
	}

	return &Model{
		vocabulary: vocabulary,
		terms:      terms,
		idf:        idf,
		vectors:    vectors,
	}, nil
}

// weigh computes tf*idf for each distinct term of tokens and normalizes to unit length.
func weigh(tokens []string, vocabulary map[string]int, idf []float64) vector.SparseVector {
	if len(tokens) == 0 {
		return vector.SparseVector{}
	}
	tf := make(map[int]float64, len(tokens))
	for _, tok := range tokens {
		if col, ok := vocabulary[tok]; ok {
			tf[col]++
		}
	}
	indices := make([]int, 0, len(tf))
	for col := range tf {
		indices = append(indices, col)
	}
	sort.Ints(indices)
	values := make([]float64, len(indices))
	for i, col := range indices {
		values[i] = tf[col] * idf[col]
	}
	sv := vector.SparseVector{Indices: indices, Values: values}
	sv.Normalize()
	return sv
}

// Vectors returns the document vectors, index-aligned with the fitted corpus.
func (m *Model) Vectors() []vector.SparseVector {
	return m.vectors
}

// Dimensions returns the vocabulary size, which is the length of every vector.
func (m *Model) Dimensions() int {
	return len(m.terms)
}

// Empty returns the number of documents whose vector is zero, that is documents
// without any token left after stop word removal.
func (m *Model) Empty() int {
	n := 0
	for _, v := range m.vectors {
		if v.IsZero() {
			n++
		}
	}
	return n
}

func (m *Model) idfOf(term string) float64 {
	col, ok := m.vocabulary[term]
	if !ok {
		return 0
	}
	return m.idf[col]
}
