package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRecommendation(t *testing.T) {
	before := testutil.ToFloat64(RecommendationsTotal.WithLabelValues(StrategyGenre, OutcomeSuccess))
	beforeEmpty := testutil.ToFloat64(RecommendationsTotal.WithLabelValues(StrategyGenre, OutcomeEmpty))

	ObserveRecommendation(StrategyGenre, time.Now(), 3)
	ObserveRecommendation(StrategyGenre, time.Now(), 0)

	if got := testutil.ToFloat64(RecommendationsTotal.WithLabelValues(StrategyGenre, OutcomeSuccess)); got != before+1 {
		t.Errorf("success count: got %v, want %v", got, before+1)
	}
	if got := testutil.ToFloat64(RecommendationsTotal.WithLabelValues(StrategyGenre, OutcomeEmpty)); got != beforeEmpty+1 {
		t.Errorf("empty count: got %v, want %v", got, beforeEmpty+1)
	}
}

func TestRecordRejected(t *testing.T) {
	before := testutil.ToFloat64(RecommendationsTotal.WithLabelValues(StrategyFeedback, OutcomeInvalid))
	RecordRejected(StrategyFeedback, OutcomeInvalid)
	if got := testutil.ToFloat64(RecommendationsTotal.WithLabelValues(StrategyFeedback, OutcomeInvalid)); got != before+1 {
		t.Errorf("got %v, want %v", got, before+1)
	}
}

func TestSetEngineSize(t *testing.T) {
	SetEngineSize(42, 7)
	if got := testutil.ToFloat64(CatalogMovies); got != 42 {
		t.Errorf("movies gauge: got %v", got)
	}
	if got := testutil.ToFloat64(VocabularyTerms); got != 7 {
		t.Errorf("vocabulary gauge: got %v", got)
	}
}
