package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/hyperjump/movierec/internal/metrics"
	"github.com/hyperjump/movierec/internal/models"
	"github.com/hyperjump/movierec/internal/recommend"
	"go.uber.org/zap"
)

const errEngineUnavailable = "recommendation engine is not available"

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "Movie Recommendation API is running",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "ok",
		"engine_ready": s.Engine() != nil,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	e := s.Engine()
	if e == nil {
		s.respondJSON(w, http.StatusOK, models.StatusResponse{Ready: false})
		return
	}
	s.respondJSON(w, http.StatusOK, models.StatusResponse{
		Ready:          true,
		Movies:         e.Size(),
		VocabularySize: e.VocabularySize(),
		Genres:         len(e.Genres()),
		CatalogPath:    e.Catalog().Path(),
		LoadedAt:       e.LoadedAt(),
	})
}

func (s *Server) handleGenres(w http.ResponseWriter, r *http.Request) {
	e, ok := s.requireEngine(w)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, models.GenresResponse{Genres: e.Genres()})
}

func (s *Server) handleRandom(w http.ResponseWriter, r *http.Request) {
	e, ok := s.requireEngine(w)
	if !ok {
		metrics.RecordRejected(metrics.StrategyRandom, metrics.OutcomeUnavailable)
		return
	}
	count, err := queryInt(r, "count")
	if err != nil {
		metrics.RecordRejected(metrics.StrategyRandom, metrics.OutcomeInvalid)
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	count = s.capCount(count, s.recommend.DefaultCount)
	start := time.Now()
	movies := e.Random(count)
	metrics.ObserveRecommendation(metrics.StrategyRandom, start, len(movies))
	s.respondJSON(w, http.StatusOK, models.ToResults(movies))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	e, ok := s.requireEngine(w)
	if !ok {
		metrics.RecordRejected(metrics.StrategySearch, metrics.OutcomeUnavailable)
		return
	}
	q := r.URL.Query().Get("q")
	if q == "" {
		metrics.RecordRejected(metrics.StrategySearch, metrics.OutcomeInvalid)
		s.respondError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		metrics.RecordRejected(metrics.StrategySearch, metrics.OutcomeInvalid)
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if limit <= 0 {
		limit = s.recommend.SearchLimit
	}
	s.logger.Debug("search request", zap.String("query", q), zap.Int("limit", limit))
	start := time.Now()
	movies := e.SearchByTitle(q, limit)
	metrics.ObserveRecommendation(metrics.StrategySearch, start, len(movies))
	s.respondJSON(w, http.StatusOK, models.ToResults(movies))
}

func (s *Server) handleRecommendGenre(w http.ResponseWriter, r *http.Request) {
	e, ok := s.requireEngine(w)
	if !ok {
		metrics.RecordRejected(metrics.StrategyGenre, metrics.OutcomeUnavailable)
		return
	}
	var req models.GenreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.RecordRejected(metrics.StrategyGenre, metrics.OutcomeInvalid)
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(s.recommend.DefaultCount, s.recommend.MaxCount); err != nil {
		metrics.RecordRejected(metrics.StrategyGenre, metrics.OutcomeInvalid)
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Debug("genre recommendation request", zap.Strings("genres", req.Genres), zap.Int("count", req.Count))
	start := time.Now()
	movies := e.ByGenre(req.Genres, req.Count)
	metrics.ObserveRecommendation(metrics.StrategyGenre, start, len(movies))
	s.respondJSON(w, http.StatusOK, models.ToResults(movies))
}

func (s *Server) handleRecommendFeedback(w http.ResponseWriter, r *http.Request) {
	e, ok := s.requireEngine(w)
	if !ok {
		metrics.RecordRejected(metrics.StrategyFeedback, metrics.OutcomeUnavailable)
		return
	}
	var req models.FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.RecordRejected(metrics.StrategyFeedback, metrics.OutcomeInvalid)
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(s.recommend.DefaultCount, s.recommend.MaxCount); err != nil {
		metrics.RecordRejected(metrics.StrategyFeedback, metrics.OutcomeInvalid)
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Debug("feedback recommendation request",
		zap.Int("liked", len(req.Liked)),
		zap.Int("disliked", len(req.Disliked)),
		zap.Int("count", req.Count),
	)
	start := time.Now()
	movies := e.ByFeedback(req.Liked, req.Disliked, req.Count)
	metrics.ObserveRecommendation(metrics.StrategyFeedback, start, len(movies))
	s.respondJSON(w, http.StatusOK, models.ToResults(movies))
}

// requireEngine returns the serving engine or answers 503.
func (s *Server) requireEngine(w http.ResponseWriter) (*recommend.Engine, bool) {
	e := s.Engine()
	if e == nil {
		s.respondError(w, http.StatusServiceUnavailable, errEngineUnavailable)
		return nil, false
	}
	return e, true
}

// capCount applies the default for count <= 0 and the configured maximum.
func (s *Server) capCount(count, def int) int {
	if count <= 0 {
		count = def
	}
	if s.recommend.MaxCount > 0 && count > s.recommend.MaxCount {
		count = s.recommend.MaxCount
	}
	return count
}

// queryInt parses an optional non-negative integer query parameter; absent is 0.
func queryInt(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New(name + " must be an integer")
	}
	if n < 0 {
		return 0, errors.New(name + " must not be negative")
	}
	return n, nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
