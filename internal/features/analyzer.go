// Package features builds the TF-IDF feature space the recommenders score in.
package features

import (
	"fmt"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/analysis/token/length"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/registry"
)

const (
	analyzerName   = "movierec_terms"
	minLengthName  = "movierec_min_length"
	defaultMinTerm = 2
)

type tokenStreamer interface {
	Analyze(input []byte) analysis.TokenStream
}

// Analyzer splits text into index terms: unicode word segmentation, lowercasing,
// a minimum term length, and English stop-word removal. Safe for concurrent use.
type Analyzer struct {
	inner tokenStreamer
}

// NewAnalyzer builds an analyzer dropping terms shorter than minLength runes.
// minLength <= 0 uses the default of 2.
func NewAnalyzer(minLength int) (*Analyzer, error) {
	if minLength <= 0 {
		minLength = defaultMinTerm
	}
	cache := registry.NewCache()
	if _, err := cache.DefineTokenFilter(minLengthName, map[string]interface{}{
		"type": length.Name,
		"min":  float64(minLength),
	}); err != nil {
		return nil, fmt.Errorf("define length filter: %w", err)
	}
	a, err := cache.DefineAnalyzer(analyzerName, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     unicode.Name,
		"token_filters": []string{lowercase.Name, minLengthName, en.StopName},
	})
	if err != nil {
		return nil, fmt.Errorf("define analyzer: %w", err)
	}
	return &Analyzer{inner: a}, nil
}

// Terms returns the terms of text in order, repeats included.
func (a *Analyzer) Terms(text string) []string {
	if text == "" {
		return nil
	}
	stream := a.inner.Analyze([]byte(text))
	terms := make([]string, 0, len(stream))
	for _, tok := range stream {
		terms = append(terms, string(tok.Term))
	}
	return terms
}
