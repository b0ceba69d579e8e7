package vector

import (
	"context"
	"math"
	"testing"
)

func testVectors() []SparseVector {
	vs := []SparseVector{
		{Indices: []int{0, 1}, Values: []float64{1, 1}},
		{Indices: []int{0, 2}, Values: []float64{1, 1}},
		{Indices: []int{3}, Values: []float64{2}},
		{},
		{Indices: []int{0, 1, 2}, Values: []float64{0.5, 0.25, 3}},
	}
	for _, v := range vs {
		v.Normalize()
	}
	return vs
}

func TestNewMatrix_Properties(t *testing.T) {
	vs := testVectors()
	m, err := NewMatrix(context.Background(), vs, WithWorkers(3))
	if err != nil {
		t.Fatal(err)
	}
	if m.Size() != len(vs) {
		t.Fatalf("Size = %d, want %d", m.Size(), len(vs))
	}
	for i := range vs {
		for j := range vs {
			s := m.At(i, j)
			if s != m.At(j, i) {
				t.Errorf("not symmetric at (%d,%d): %f vs %f", i, j, s, m.At(j, i))
			}
			if s < 0 || s > 1 {
				t.Errorf("out of range at (%d,%d): %f", i, j, s)
			}
			want := CosineSimilarity(vs[i], vs[j])
			if math.Abs(s-want) > 1e-6 {
				t.Errorf("At(%d,%d) = %f, want %f", i, j, s, want)
			}
		}
		if vs[i].IsZero() {
			if m.At(i, i) != 0 {
				t.Errorf("zero vector self-similarity = %f, want 0", m.At(i, i))
			}
		} else if math.Abs(m.At(i, i)-1) > 1e-6 {
			t.Errorf("self-similarity of %d = %f, want 1", i, m.At(i, i))
		}
	}
	if m.At(0, 2) != 0 {
		t.Errorf("disjoint vectors should have 0 similarity, got %f", m.At(0, 2))
	}
	if math.Abs(m.At(0, 1)-0.5) > 1e-6 {
		t.Errorf("At(0,1) = %f, want 0.5", m.At(0, 1))
	}
}

func TestNewMatrix_Empty(t *testing.T) {
	m, err := NewMatrix(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if m.Size() != 0 {
		t.Errorf("Size = %d, want 0", m.Size())
	}
}

func TestNewMatrix_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewMatrix(ctx, testVectors()); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestMatrix_Row(t *testing.T) {
	m, err := NewMatrix(context.Background(), testVectors())
	if err != nil {
		t.Fatal(err)
	}
	row := m.Row(1)
	if len(row) != m.Size() {
		t.Fatalf("row length = %d", len(row))
	}
	for j, s := range row {
		if s != m.At(1, j) {
			t.Errorf("Row(1)[%d] = %f, want %f", j, s, m.At(1, j))
		}
	}
}

func TestMatrix_AtOutOfRange(t *testing.T) {
	m, _ := NewMatrix(context.Background(), testVectors())
	defer func() {
		if recover() == nil {
			t.Error("expected panic for out-of-range index")
		}
	}()
	_ = m.At(0, 99)
}
