package recommend

import (
	"sort"

	"github.com/hyperjump/movierec/internal/features"
)

// ScoredCandidate is a catalog row and its similarity to the current query.
type ScoredCandidate struct {
	Index int
	Score float64
}

// rankAll scores every row against query (expected L2-normalized, as rows are, so the
// inner product is the cosine similarity) and sorts by descending score. Ties keep
// catalog order.
func rankAll(idx *features.Index, query features.SparseVector) []ScoredCandidate {
	dense := query.Dense(idx.VocabularySize())
	out := make([]ScoredCandidate, idx.Len())
	for i := range out {
		out[i] = ScoredCandidate{Index: i, Score: idx.Row(i).DotDense(dense)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
