// Package catalog loads the movie catalog and answers the lookups the recommenders need:
// title resolution, title search, and the genre list.
package catalog

import (
	"sort"
	"strings"

	"github.com/hyperjump/movierec/internal/models"
)

// DefaultSearchLimit is the number of title matches returned when no limit is given.
const DefaultSearchLimit = 20

// Catalog is an immutable, ordered list of movies. Safe for concurrent readers.
type Catalog struct {
	movies  []models.Movie
	byTitle map[string][]int
	path    string
}

// New builds a catalog over movies, which must not be modified afterwards.
func New(movies []models.Movie) *Catalog {
	byTitle := make(map[string][]int, len(movies))
	for i, m := range movies {
		byTitle[m.Title] = append(byTitle[m.Title], i)
	}
	return &Catalog{movies: movies, byTitle: byTitle}
}

// Len returns the number of movies.
func (c *Catalog) Len() int {
	return len(c.movies)
}

// Movie returns the movie at row i.
func (c *Catalog) Movie(i int) models.Movie {
	return c.movies[i]
}

// Movies returns the movies at the given rows, in the given order.
func (c *Catalog) Movies(rows []int) []models.Movie {
	out := make([]models.Movie, 0, len(rows))
	for _, i := range rows {
		out = append(out, c.movies[i])
	}
	return out
}

// Path returns the source the catalog was loaded from ("" when built in memory).
func (c *Catalog) Path() string {
	return c.path
}

// CombinedText is the text a movie contributes to the feature space:
// overview, the raw genre cell (JSON markup and ids included), and keywords.
func (c *Catalog) CombinedText(i int) string {
	m := c.movies[i]
	return m.Overview + " " + m.Genres + " " + m.Keywords
}

// CombinedTextNamesOnly is CombinedText with the raw genre cell replaced by its names.
func (c *Catalog) CombinedTextNamesOnly(i int) string {
	m := c.movies[i]
	return m.Overview + " " + strings.Join(models.GenreNames(m.Genres), " ") + " " + m.Keywords
}

// IndicesOf resolves titles by exact match. Every row carrying a matching title is returned,
// once, in catalog order. Unknown titles are ignored.
func (c *Catalog) IndicesOf(titles []string) []int {
	seen := make(map[int]struct{})
	var rows []int
	for _, t := range titles {
		for _, i := range c.byTitle[t] {
			if _, ok := seen[i]; ok {
				continue
			}
			seen[i] = struct{}{}
			rows = append(rows, i)
		}
	}
	sort.Ints(rows)
	return rows
}

// GenreNames returns every genre name in the catalog, deduplicated and sorted.
// Malformed genre cells are skipped.
func (c *Catalog) GenreNames() []string {
	set := make(map[string]struct{})
	for _, m := range c.movies {
		for _, name := range models.GenreNames(m.Genres) {
			set[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasAnyGenre reports whether movie i lists at least one of wanted.
func (c *Catalog) HasAnyGenre(i int, wanted map[string]struct{}) bool {
	for _, name := range models.GenreNames(c.movies[i].Genres) {
		if _, ok := wanted[name]; ok {
			return true
		}
	}
	return false
}

// SearchByTitle returns movies whose title contains query, ignoring case, in catalog order.
// Movies without a title never match. limit <= 0 means DefaultSearchLimit.
func (c *Catalog) SearchByTitle(query string, limit int) []models.Movie {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	needle := strings.ToLower(query)
	out := make([]models.Movie, 0)
	for _, m := range c.movies {
		if len(out) >= limit {
			break
		}
		if m.Title == "" {
			continue
		}
		if strings.Contains(strings.ToLower(m.Title), needle) {
			out = append(out, m)
		}
	}
	return out
}
