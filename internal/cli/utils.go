// Package cli provides CLI utilities for movierec: output formatting and the HTTP and
// in-process recommendation sources used by the subcommands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/movierec/internal/models"
	"github.com/hyperjump/movierec/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
	// OutputCompact is one movie per line.
	OutputCompact OutputFormat = "compact"
)

// ParseOutputFormat validates a --output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case OutputText, OutputJSON, OutputCompact:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text, compact, or json", s)
	}
}

// WriteMovies writes movie results to w in the given format.
func WriteMovies(w io.Writer, movies []models.MovieResult, format OutputFormat) error {
	switch format {
	case OutputJSON:
		if movies == nil {
			movies = []models.MovieResult{}
		}
		return writeJSON(w, movies)
	case OutputCompact:
		for _, m := range movies {
			fmt.Fprintf(w, "%s\t%.1f\t%s\n", m.Title, m.VoteAverage, m.Genres)
		}
		return nil
	default:
		writeMoviesText(w, movies)
		return nil
	}
}

func writeMoviesText(w io.Writer, movies []models.MovieResult) {
	fmt.Fprintf(w, "\nFound %d movies\n\n", len(movies))
	for i, m := range movies {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "%d. %s (%.1f)\n", i+1, m.Title, m.VoteAverage)
		if m.Genres != "" {
			fmt.Fprintf(w, "Genres: %s\n", m.Genres)
		}
		if m.PosterURL != "" {
			fmt.Fprintf(w, "Poster: %s\n", m.PosterURL)
		}
		if m.Overview != "" {
			fmt.Fprintf(w, "\n%s\n", utils.Truncate(TruncateWords(m.Overview, 40), 240))
		}
		fmt.Fprintln(w)
	}
}

// WriteGenres writes the genre list.
func WriteGenres(w io.Writer, genres []string, format OutputFormat) error {
	if format == OutputJSON {
		if genres == nil {
			genres = []string{}
		}
		return writeJSON(w, models.GenresResponse{Genres: genres})
	}
	for _, g := range genres {
		fmt.Fprintln(w, g)
	}
	return nil
}

// WriteStatus writes engine status.
func WriteStatus(w io.Writer, status models.StatusResponse, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, status)
	}
	fmt.Fprintf(w, "ready:            %t\n", status.Ready)
	if !status.Ready {
		return nil
	}
	fmt.Fprintf(w, "movies:           %d   # records in the catalog\n", status.Movies)
	fmt.Fprintf(w, "vocabulary_size:  %d   # TF-IDF terms\n", status.VocabularySize)
	fmt.Fprintf(w, "genres:           %d\n", status.Genres)
	if status.CatalogPath != "" {
		fmt.Fprintf(w, "catalog_path:     %s\n", status.CatalogPath)
	}
	if !status.LoadedAt.IsZero() {
		fmt.Fprintf(w, "loaded_at:        %s\n", status.LoadedAt.Format("2006-01-02 15:04:05 MST"))
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// TruncateWords returns up to maxWords from the space-separated string.
func TruncateWords(s string, maxWords int) string {
	words := strings.Fields(s)
	if len(words) <= maxWords {
		return s
	}
	return strings.Join(words[:maxWords], " ") + "..."
}

// SplitList splits a comma-separated flag value, trimming blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
