package features

import (
	"errors"
	"math"
	"sort"
)

// DefaultMaxFeatures caps the vocabulary when no cap is configured.
const DefaultMaxFeatures = 5000

// ErrEmptyVocabulary is returned when a non-empty corpus yields no terms at all.
var ErrEmptyVocabulary = errors.New("empty vocabulary: documents contain only stop words or no terms")

// Vectorizer maps term lists to TF-IDF vectors over a frozen vocabulary.
type Vectorizer struct {
	vocab map[string]int
	terms []string
	idf   []float64
}

// FitVectorizer learns the vocabulary and IDF weights from tokenized documents.
// The vocabulary keeps the maxFeatures terms with the highest corpus-wide frequency
// (ties alphabetical); columns are assigned in alphabetical term order.
// IDF is smoothed: ln((1+n)/(1+df)) + 1.
func FitVectorizer(docs [][]string, maxFeatures int) (*Vectorizer, error) {
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}
	counts := make(map[string]int)
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{}, len(doc))
		for _, term := range doc {
			counts[term]++
			if _, ok := seen[term]; !ok {
				seen[term] = struct{}{}
				df[term]++
			}
		}
	}
	if len(counts) == 0 {
		if len(docs) == 0 {
			return &Vectorizer{vocab: map[string]int{}}, nil
		}
		return nil, ErrEmptyVocabulary
	}

	terms := make([]string, 0, len(counts))
	for term := range counts {
		terms = append(terms, term)
	}
	if len(terms) > maxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			ci, cj := counts[terms[i]], counts[terms[j]]
			if ci != cj {
				return ci > cj
			}
			return terms[i] < terms[j]
		})
		terms = terms[:maxFeatures]
	}
	sort.Strings(terms)

	n := float64(len(docs))
	v := &Vectorizer{
		vocab: make(map[string]int, len(terms)),
		terms: terms,
		idf:   make([]float64, len(terms)),
	}
	for i, term := range terms {
		v.vocab[term] = i
		v.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	return v, nil
}

// Transform weights term counts by IDF and L2-normalizes. Unknown terms are ignored.
func (v *Vectorizer) Transform(terms []string) SparseVector {
	tf := make(map[int]float64)
	for _, term := range terms {
		if col, ok := v.vocab[term]; ok {
			tf[col]++
		}
	}
	for col := range tf {
		tf[col] *= v.idf[col]
	}
	return NewSparseVector(tf).Normalized()
}

// Size returns the vocabulary size.
func (v *Vectorizer) Size() int {
	return len(v.terms)
}
