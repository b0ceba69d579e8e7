// Package e2e provides end-to-end tests over a generated movie catalog written in every
// supported catalog format.
package e2e

import (
	"fmt"

	"github.com/hyperjump/cinematch/internal/models"
)

// SequelsPerFranchise is the number of movies generated for each franchise.
const SequelsPerFranchise = 5

var franchises = []string{
	"Galaxy Raiders", "Haunted Harbor", "Laughing Llamas", "Iron Samurai", "Midnight Tango",
	"Frozen Frontier", "Jungle Detectives", "Velvet Heist", "Robot Orchestra", "Desert Pirates",
	"Crimson Knights", "Paper Dragons", "Silent Canyon", "Neon Cowboys", "Whispering Willows",
	"Atomic Grandma", "Sapphire Spies", "Thunder Bakery", "Lunar Lullaby", "Copper Kingdom",
}

var genreSets = []string{
	"Action|Sci-Fi",
	"Horror|Mystery",
	"Comedy|Children",
	"Action|War",
	"Drama|Romance|Musical",
	"Adventure|Documentary",
	"Crime|Mystery|Children",
	"Crime|Thriller",
	"Animation|Comedy|Musical",
	"Adventure|Western",
}

// QueryTestCase is a title whose top neighbours must be exactly Expected, in any order.
type QueryTestCase struct {
	Title    string
	Expected []string
}

// Corpus holds the generated movies and query test cases.
type Corpus struct {
	Movies    []*models.Movie
	TestCases []QueryTestCase
}

// BuildCorpus returns len(franchises) * SequelsPerFranchise movies. Sequels of one
// franchise share the franchise name, the release year and the genres, so each movie's
// nearest neighbours are the rest of its franchise.
func BuildCorpus() *Corpus {
	return BuildCorpusN(len(franchises) * SequelsPerFranchise)
}

// BuildCorpusN returns n movies. Franchise names repeat with a numeric suffix beyond the
// base list, which keeps titles unique for benchmark-sized catalogs.
func BuildCorpusN(n int) *Corpus {
	c := &Corpus{Movies: make([]*models.Movie, 0, n)}
	var group []string
	for i := 0; i < n; i++ {
		f := i / SequelsPerFranchise
		sequel := i%SequelsPerFranchise + 1
		name := franchises[f%len(franchises)]
		if round := f / len(franchises); round > 0 {
			name = fmt.Sprintf("%s Saga%d", name, round)
		}
		title := fmt.Sprintf("%s %d (%d)", name, sequel, 1960+f%60)
		c.Movies = append(c.Movies, &models.Movie{
			ID:     i,
			Title:  title,
			Genres: genreSets[f%len(genreSets)],
		})
		group = append(group, title)
		if sequel == SequelsPerFranchise {
			c.TestCases = append(c.TestCases, QueryTestCase{
				Title:    group[0],
				Expected: append([]string(nil), group[1:]...),
			})
			group = group[:0]
		}
	}
	return c
}
