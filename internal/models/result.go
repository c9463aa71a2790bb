package models

import "time"

// MovieResult is the client-facing shape of a movie: genres are cleaned to a name list.
type MovieResult struct {
	Title       string  `json:"title"`
	PosterURL   string  `json:"poster_url"`
	Overview    string  `json:"overview"`
	Genres      string  `json:"genres"`
	VoteAverage float64 `json:"vote_average"`
}

// ToResult converts a catalog movie to its client-facing shape.
func ToResult(m Movie) MovieResult {
	return MovieResult{
		Title:       m.Title,
		PosterURL:   m.PosterURL,
		Overview:    m.Overview,
		Genres:      CleanGenres(m.Genres),
		VoteAverage: m.VoteAverage,
	}
}

// ToResults converts movies in order. The result is never nil so it encodes as [].
func ToResults(movies []Movie) []MovieResult {
	out := make([]MovieResult, 0, len(movies))
	for _, m := range movies {
		out = append(out, ToResult(m))
	}
	return out
}

// GenresResponse is the response for the genre listing.
type GenresResponse struct {
	Genres []string `json:"genres"`
}

// StatusResponse describes the loaded engine.
type StatusResponse struct {
	Ready          bool      `json:"ready"`
	Movies         int       `json:"movies"`
	VocabularySize int       `json:"vocabulary_size"`
	Genres         int       `json:"genres"`
	CatalogPath    string    `json:"catalog_path,omitempty"`
	LoadedAt       time.Time `json:"loaded_at"`
}
