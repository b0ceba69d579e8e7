package keyword

import "testing"

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected int
	}{
		{"identical empty", "", "", 0},
		{"identical word", "heat", "heat", 0},
		{"empty a", "", "heat", 4},
		{"empty b", "heat", "", 4},
		{"one substitution", "toy story", "toy stery", 1},
		{"one insertion", "jumanji", "jumannji", 1},
		{"one deletion", "sabrina", "sabina", 1},
		{"kitten to sitting", "kitten", "sitting", 3},
		{"unicode", "amélie", "amelie", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LevenshteinDistance(tt.a, tt.b); got != tt.expected {
				t.Errorf("LevenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.expected)
			}
			if got := LevenshteinDistance(tt.b, tt.a); got != tt.expected {
				t.Errorf("LevenshteinDistance(%q, %q) = %d, want %d (symmetry)", tt.b, tt.a, got, tt.expected)
			}
		})
	}
}
