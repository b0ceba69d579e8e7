// Package vector provides sparse vectors, cosine similarity, and the all-pairs similarity matrix.
package vector

import "math"

// SparseVector holds the non-zero entries of a vector. Indices are strictly increasing
// and Values[i] is the weight at column Indices[i]; absent columns are 0.
type SparseVector struct {
	Indices []int
	Values  []float64
}

// IsZero reports whether the vector has no non-zero entry.
func (v SparseVector) IsZero() bool {
	for _, x := range v.Values {
		if x != 0 {
			return false
		}
	}
	return true
}

// Normalize scales the vector in place to unit L2 norm.
// If the norm is zero, the vector is unchanged.
func (v SparseVector) Normalize() {
	norm := L2Norm(v)
	if norm == 0 {
		return
	}
	for i := range v.Values {
		v.Values[i] /= norm
	}
}

// Dot returns the inner product of a and b (for normalized vectors equals cosine similarity).
func Dot(a, b SparseVector) float64 {
	var dot float64
	i, j := 0, 0
	for i < len(a.Indices) && j < len(b.Indices) {
		switch {
		case a.Indices[i] == b.Indices[j]:
			dot += a.Values[i] * b.Values[j]
			i++
			j++
		case a.Indices[i] < b.Indices[j]:
			i++
		default:
			j++
		}
	}
	return dot
}

// L2Norm returns the L2 norm of a vector.
func L2Norm(v SparseVector) float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// CosineSimilarity returns dot(a,b)/(|a||b|) clamped to [0,1]. A zero vector on either
// side yields 0.
func CosineSimilarity(a, b SparseVector) float64 {
	return cosine(a, b, L2Norm(a), L2Norm(b))
}

// cosine is CosineSimilarity with precomputed norms na and nb.
func cosine(a, b SparseVector, na, nb float64) float64 {
	if na == 0 || nb == 0 {
		return 0
	}
	return clamp(Dot(a, b) / (na * nb))
}

func clamp(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
