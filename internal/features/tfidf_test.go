package features

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestFitVectorizer_IDF(t *testing.T) {
	docs := [][]string{
		{"space", "alien"},
		{"space", "war"},
		{"romance"},
	}
	v, err := FitVectorizer(docs, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := v.terms, []string{"alien", "romance", "space", "war"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("terms = %v, want %v", got, want)
	}
	col, ok := v.vocab["space"]
	if !ok {
		t.Fatal("space should be in the vocabulary")
	}
	if want := math.Log(4.0/3.0) + 1; !approx(v.idf[col], want) {
		t.Errorf("idf(space) = %v, want %v", v.idf[col], want)
	}
	col = v.vocab["alien"]
	if want := math.Log(4.0/2.0) + 1; !approx(v.idf[col], want) {
		t.Errorf("idf(alien) = %v, want %v", v.idf[col], want)
	}
}

func TestFitVectorizer_MaxFeatures(t *testing.T) {
	docs := [][]string{
		{"zeta", "zeta", "zeta", "alpha", "alpha", "beta", "gamma"},
		{"beta", "delta"},
	}
	v, err := FitVectorizer(docs, 3)
	if err != nil {
		t.Fatal(err)
	}
	// zeta:3, alpha:2, beta:2 survive; delta and gamma (1 each) are cut.
	if got, want := v.terms, []string{"alpha", "beta", "zeta"}; !reflect.DeepEqual(got, want) {
		t.Errorf("terms = %v, want %v", got, want)
	}
}

func TestFitVectorizer_Empty(t *testing.T) {
	if _, err := FitVectorizer([][]string{{}, {}}, 0); !errors.Is(err, ErrEmptyVocabulary) {
		t.Errorf("expected ErrEmptyVocabulary, got %v", err)
	}
	v, err := FitVectorizer(nil, 0)
	if err != nil {
		t.Fatalf("empty corpus: %v", err)
	}
	if v.Size() != 0 || !isZero(v.Transform([]string{"x"})) {
		t.Error("empty corpus should give an empty feature space")
	}
}

func TestVectorizer_Transform(t *testing.T) {
	v, err := FitVectorizer([][]string{{"space", "alien"}, {"space", "war"}}, 0)
	if err != nil {
		t.Fatal(err)
	}
	vec := v.Transform([]string{"alien", "alien", "unknown"})
	if len(vec.Indices) != 1 {
		t.Fatalf("expected one non-zero entry, got %+v", vec)
	}
	if !approx(vec.Norm(), 1) {
		t.Errorf("vector should be L2-normalized, norm=%v", vec.Norm())
	}
	if !isZero(v.Transform([]string{"unknown"})) {
		t.Error("out-of-vocabulary terms should give the zero vector")
	}
}
