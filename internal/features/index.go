package features

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Options configures Build. Zero values use defaults.
type Options struct {
	MaxFeatures   int
	MinTermLength int
	Workers       int
}

// Index is the frozen feature space: the fitted vectorizer plus one L2-normalized
// row vector per document. Safe for concurrent readers.
type Index struct {
	analyzer   *Analyzer
	vectorizer *Vectorizer
	rows       []SparseVector
}

// Build tokenizes docs in parallel, fits the vectorizer, and computes every row vector.
func Build(ctx context.Context, docs []string, opts Options) (*Index, error) {
	analyzer, err := NewAnalyzer(opts.MinTermLength)
	if err != nil {
		return nil, err
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	tokenized := make([][]string, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tokenized[i] = analyzer.Terms(docs[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("tokenize documents: %w", err)
	}

	vectorizer, err := FitVectorizer(tokenized, opts.MaxFeatures)
	if err != nil {
		return nil, err
	}
	rows := make([]SparseVector, len(tokenized))
	for i, terms := range tokenized {
		rows[i] = vectorizer.Transform(terms)
	}
	return &Index{analyzer: analyzer, vectorizer: vectorizer, rows: rows}, nil
}

// Project maps arbitrary text into the feature space (L2-normalized; out-of-vocabulary
// terms contribute nothing).
func (x *Index) Project(text string) SparseVector {
	return x.vectorizer.Transform(x.analyzer.Terms(text))
}

// Row returns the vector of document i.
func (x *Index) Row(i int) SparseVector {
	return x.rows[i]
}

// Rows returns the vectors of the given documents.
func (x *Index) Rows(ids []int) []SparseVector {
	out := make([]SparseVector, len(ids))
	for k, i := range ids {
		out[k] = x.rows[i]
	}
	return out
}

// Len returns the number of documents.
func (x *Index) Len() int {
	return len(x.rows)
}

// VocabularySize returns the number of terms in the feature space.
func (x *Index) VocabularySize() int {
	return x.vectorizer.Size()
}
