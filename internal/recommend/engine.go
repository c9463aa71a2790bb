// Package recommend implements the genre, feedback, random, and title-search recommenders
// over a frozen catalog and feature index.
package recommend

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/hyperjump/movierec/internal/catalog"
	"github.com/hyperjump/movierec/internal/features"
	"github.com/hyperjump/movierec/internal/models"
	"go.uber.org/zap"
)

// DefaultCandidateMultiplier is how many candidates per requested result the genre
// recommender scores before filtering and sampling.
const DefaultCandidateMultiplier = 5

// Engine answers recommendation queries. It never mutates its catalog or index, so one
// Engine is safe for any number of concurrent callers.
type Engine struct {
	catalog             *catalog.Catalog
	index               *features.Index
	candidateMultiplier int
	newRand             func() *rand.Rand
	logger              *zap.Logger
	loadedAt            time.Time
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets a logger for debug output (candidate counts, resolved titles).
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// WithCandidateMultiplier overrides DefaultCandidateMultiplier. Values < 1 are ignored.
func WithCandidateMultiplier(m int) EngineOption {
	return func(e *Engine) {
		if m >= 1 {
			e.candidateMultiplier = m
		}
	}
}

// WithSeed makes every random draw reproducible: each call starts from the same seed.
func WithSeed(seed uint64) EngineOption {
	return func(e *Engine) {
		e.newRand = func() *rand.Rand { return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
	}
}

// NewEngine wraps a catalog and the feature index built from it (row i of the index is
// movie i of the catalog).
func NewEngine(cat *catalog.Catalog, idx *features.Index, opts ...EngineOption) *Engine {
	e := &Engine{
		catalog:             cat,
		index:               idx,
		candidateMultiplier: DefaultCandidateMultiplier,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
		logger:   zap.NewNop(),
		loadedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// BuildOptions configures Build.
type BuildOptions struct {
	Features features.Options
	// GenreNamesOnly feeds genre names instead of the raw genre cell into the feature text.
	GenreNamesOnly bool
}

// Build constructs the feature index over cat and returns a ready Engine.
func Build(ctx context.Context, cat *catalog.Catalog, opts BuildOptions, engineOpts ...EngineOption) (*Engine, error) {
	docs := make([]string, cat.Len())
	for i := range docs {
		if opts.GenreNamesOnly {
			docs[i] = cat.CombinedTextNamesOnly(i)
		} else {
			docs[i] = cat.CombinedText(i)
		}
	}
	idx, err := features.Build(ctx, docs, opts.Features)
	if err != nil {
		return nil, fmt.Errorf("build feature index: %w", err)
	}
	return NewEngine(cat, idx, engineOpts...), nil
}

// Catalog returns the engine's catalog.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Size returns the number of movies.
func (e *Engine) Size() int {
	return e.catalog.Len()
}

// VocabularySize returns the number of terms in the feature space.
func (e *Engine) VocabularySize() int {
	return e.index.VocabularySize()
}

// LoadedAt returns when the engine was constructed.
func (e *Engine) LoadedAt() time.Time {
	return e.loadedAt
}

// Genres returns every genre name in the catalog, sorted.
func (e *Engine) Genres() []string {
	return e.catalog.GenreNames()
}

// ByGenre recommends up to topN movies listing at least one of genres. The top
// topN*multiplier movies by similarity to the genre names are filtered by genre
// membership; when more than topN survive, topN are drawn at random without replacement.
// Short or empty results are normal.
func (e *Engine) ByGenre(genres []string, topN int) []models.Movie {
	if topN <= 0 || len(genres) == 0 || e.catalog.Len() == 0 {
		return []models.Movie{}
	}
	query := e.index.Project(strings.Join(genres, " "))
	ranked := rankAll(e.index, query)

	limit := len(ranked)
	if topN <= limit/e.candidateMultiplier {
		limit = topN * e.candidateMultiplier
	}
	wanted := make(map[string]struct{}, len(genres))
	for _, g := range genres {
		wanted[g] = struct{}{}
	}
	matching := make([]int, 0, limit)
	for _, c := range ranked[:limit] {
		if e.catalog.HasAnyGenre(c.Index, wanted) {
			matching = append(matching, c.Index)
		}
	}
	e.logger.Debug("genre recommendation",
		zap.Strings("genres", genres),
		zap.Int("candidates", limit),
		zap.Int("matching", len(matching)),
	)
	if len(matching) > topN {
		matching = sampleWithoutReplacement(e.newRand(), matching, topN)
	}
	return e.catalog.Movies(matching)
}

// ByFeedback recommends the topN movies most similar to the liked movies and least
// similar to the disliked ones. Titles are matched exactly; unknown titles are ignored.
// With no resolvable liked title it falls back to Random(topN).
func (e *Engine) ByFeedback(liked, disliked []string, topN int) []models.Movie {
	if topN <= 0 {
		return []models.Movie{}
	}
	likedRows := e.catalog.IndicesOf(liked)
	dislikedRows := e.catalog.IndicesOf(disliked)
	e.logger.Debug("feedback recommendation",
		zap.Int("liked_requested", len(liked)),
		zap.Int("liked_resolved", len(likedRows)),
		zap.Int("disliked_requested", len(disliked)),
		zap.Int("disliked_resolved", len(dislikedRows)),
	)
	if len(likedRows) == 0 {
		return e.Random(topN)
	}

	query := features.Mean(e.index.Rows(likedRows))
	if len(dislikedRows) > 0 {
		query = query.Sub(features.Mean(e.index.Rows(dislikedRows)))
	}
	ranked := rankAll(e.index, query.Normalized())
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	rows := make([]int, len(ranked))
	for i, c := range ranked {
		rows[i] = c.Index
	}
	return e.catalog.Movies(rows)
}

// Random returns min(count, catalog size) distinct movies in random order.
func (e *Engine) Random(count int) []models.Movie {
	n := e.catalog.Len()
	if count <= 0 || n == 0 {
		return []models.Movie{}
	}
	all := make([]int, n)
	for i := range all {
		all[i] = i
	}
	return e.catalog.Movies(sampleWithoutReplacement(e.newRand(), all, count))
}

// SearchByTitle returns movies whose title contains query, ignoring case, in catalog order.
func (e *Engine) SearchByTitle(query string, limit int) []models.Movie {
	return e.catalog.SearchByTitle(query, limit)
}
