// Package models defines core data structures for movies, recommendation requests, and results.
package models

// Movie is a single catalog record. Text fields are never missing: absent source values
// normalize to "" and an absent vote average to 0.
type Movie struct {
	Title       string  `json:"title" db:"title"`
	Overview    string  `json:"overview" db:"overview"`
	Genres      string  `json:"genres" db:"genres"` // raw JSON array of {id, name}, as stored in the source
	Keywords    string  `json:"keywords" db:"keywords"`
	PosterURL   string  `json:"poster_url" db:"poster_url"`
	VoteAverage float64 `json:"vote_average" db:"vote_average"`
}

// Genre is one element of a movie's structured genre list.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
