package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hyperjump/movierec/internal/config"
	"github.com/hyperjump/movierec/internal/models"
	"github.com/hyperjump/movierec/internal/recommend"
)

// Source answers the CLI's queries, either from a running server or in process.
type Source interface {
	Genres(ctx context.Context) ([]string, error)
	Random(ctx context.Context, count int) ([]models.MovieResult, error)
	Search(ctx context.Context, query string, limit int) ([]models.MovieResult, error)
	ByGenre(ctx context.Context, req models.GenreRequest) ([]models.MovieResult, error)
	ByFeedback(ctx context.Context, req models.FeedbackRequest) ([]models.MovieResult, error)
	Status(ctx context.Context) (models.StatusResponse, error)
}

// Client talks to the movierec HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Genres fetches GET /genres.
func (c *Client) Genres(ctx context.Context) ([]string, error) {
	var out models.GenresResponse
	if err := c.do(ctx, http.MethodGet, "/genres", nil, &out); err != nil {
		return nil, err
	}
	return out.Genres, nil
}

// Random fetches GET /movies/random.
func (c *Client) Random(ctx context.Context, count int) ([]models.MovieResult, error) {
	q := url.Values{}
	if count > 0 {
		q.Set("count", strconv.Itoa(count))
	}
	var out []models.MovieResult
	err := c.do(ctx, http.MethodGet, "/movies/random?"+q.Encode(), nil, &out)
	return out, err
}

// Search fetches GET /movies/search.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]models.MovieResult, error) {
	q := url.Values{"q": {query}}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out []models.MovieResult
	err := c.do(ctx, http.MethodGet, "/movies/search?"+q.Encode(), nil, &out)
	return out, err
}

// ByGenre posts to /recommend/genre.
func (c *Client) ByGenre(ctx context.Context, req models.GenreRequest) ([]models.MovieResult, error) {
	var out []models.MovieResult
	err := c.do(ctx, http.MethodPost, "/recommend/genre", req, &out)
	return out, err
}

// ByFeedback posts to /recommend/feedback.
func (c *Client) ByFeedback(ctx context.Context, req models.FeedbackRequest) ([]models.MovieResult, error) {
	var out []models.MovieResult
	err := c.do(ctx, http.MethodPost, "/recommend/feedback", req, &out)
	return out, err
}

// Status fetches GET /api/v1/status.
func (c *Client) Status(ctx context.Context) (models.StatusResponse, error) {
	var out models.StatusResponse
	err := c.do(ctx, http.MethodGet, "/api/v1/status", nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(b, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Local answers queries from an in-process engine, applying the same request rules as
// the server.
type Local struct {
	engine *recommend.Engine
	cfg    config.RecommendConfig
}

// NewLocal wraps an engine built from the configured catalog.
func NewLocal(engine *recommend.Engine, cfg config.RecommendConfig) *Local {
	return &Local{engine: engine, cfg: cfg}
}

// Genres lists catalog genres.
func (l *Local) Genres(context.Context) ([]string, error) {
	return l.engine.Genres(), nil
}

// Random samples movies.
func (l *Local) Random(_ context.Context, count int) ([]models.MovieResult, error) {
	if count <= 0 {
		count = l.cfg.DefaultCount
	}
	if l.cfg.MaxCount > 0 && count > l.cfg.MaxCount {
		count = l.cfg.MaxCount
	}
	return models.ToResults(l.engine.Random(count)), nil
}

// Search matches titles.
func (l *Local) Search(_ context.Context, query string, limit int) ([]models.MovieResult, error) {
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}
	if limit <= 0 {
		limit = l.cfg.SearchLimit
	}
	return models.ToResults(l.engine.SearchByTitle(query, limit)), nil
}

// ByGenre recommends by genre.
func (l *Local) ByGenre(_ context.Context, req models.GenreRequest) ([]models.MovieResult, error) {
	if err := req.Validate(l.cfg.DefaultCount, l.cfg.MaxCount); err != nil {
		return nil, err
	}
	return models.ToResults(l.engine.ByGenre(req.Genres, req.Count)), nil
}

// ByFeedback recommends from liked and disliked titles.
func (l *Local) ByFeedback(_ context.Context, req models.FeedbackRequest) ([]models.MovieResult, error) {
	if err := req.Validate(l.cfg.DefaultCount, l.cfg.MaxCount); err != nil {
		return nil, err
	}
	return models.ToResults(l.engine.ByFeedback(req.Liked, req.Disliked, req.Count)), nil
}

// Status describes the engine.
func (l *Local) Status(context.Context) (models.StatusResponse, error) {
	e := l.engine
	return models.StatusResponse{
		Ready:          true,
		Movies:         e.Size(),
		VocabularySize: e.VocabularySize(),
		Genres:         len(e.Genres()),
		CatalogPath:    e.Catalog().Path(),
		LoadedAt:       e.LoadedAt(),
	}, nil
}
