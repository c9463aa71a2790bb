// Package metrics defines the Prometheus collectors for movierec.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Strategies label values.
const (
	StrategyGenre    = "genre"
	StrategyFeedback = "feedback"
	StrategyRandom   = "random"
	StrategySearch   = "search"
)

// Outcome label values.
const (
	OutcomeSuccess     = "success"
	OutcomeEmpty       = "empty"
	OutcomeInvalid     = "invalid"
	OutcomeUnavailable = "unavailable"
	OutcomeFailure     = "failure"
)

var (
	// RecommendationsTotal counts recommendation requests.
	// Labels:
	//   - strategy: genre, feedback, random, search
	//   - outcome: success, empty, invalid, unavailable
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierec_recommendations_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"strategy", "outcome"},
	)

	// RecommendationDuration measures time spent inside the engine.
	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movierec_recommendation_duration_seconds",
			Help:    "Duration of recommendation queries in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"strategy"},
	)

	// RecommendationResults observes how many movies each query returned.
	RecommendationResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movierec_recommendation_results",
			Help:    "Number of movies returned per recommendation query",
			Buckets: []float64{0, 1, 5, 10, 12, 20, 50, 100},
		},
		[]string{"strategy"},
	)

	// CatalogMovies is the size of the serving catalog.
	CatalogMovies = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "movierec_catalog_movies",
		Help: "Number of movies in the serving catalog",
	})

	// VocabularyTerms is the size of the serving feature vocabulary.
	VocabularyTerms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "movierec_vocabulary_terms",
		Help: "Number of terms in the TF-IDF vocabulary",
	})

	// CatalogReloads counts catalog rebuilds triggered by file changes.
	// Labels:
	//   - outcome: success, failure
	CatalogReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierec_catalog_reloads_total",
			Help: "Total number of catalog reload attempts",
		},
		[]string{"outcome"},
	)
)

// ObserveRecommendation records one completed query.
func ObserveRecommendation(strategy string, started time.Time, results int) {
	outcome := OutcomeSuccess
	if results == 0 {
		outcome = OutcomeEmpty
	}
	RecommendationsTotal.WithLabelValues(strategy, outcome).Inc()
	RecommendationDuration.WithLabelValues(strategy).Observe(time.Since(started).Seconds())
	RecommendationResults.WithLabelValues(strategy).Observe(float64(results))
}

// RecordRejected records a query that never reached the engine.
func RecordRejected(strategy, outcome string) {
	RecommendationsTotal.WithLabelValues(strategy, outcome).Inc()
}

// SetEngineSize updates the catalog and vocabulary gauges.
func SetEngineSize(movies, terms int) {
	CatalogMovies.Set(float64(movies))
	VocabularyTerms.Set(float64(terms))
}
