package models

import (
	"reflect"
	"testing"
)

func TestGenreNames(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"blank", "   ", nil},
		{"two genres", `[{"id": 28, "name": "Action"}, {"id": 18, "name": "Drama"}]`, []string{"Action", "Drama"}},
		{"element without name", `[{"id": 28}, {"id": 35, "name": "Comedy"}]`, []string{"Comedy"}},
		{"non-object element", `["Action", {"id": 35, "name": "Comedy"}]`, []string{"Comedy"}},
		{"non-string name", `[{"id": 1, "name": 7}, {"id": 35, "name": "Comedy"}]`, []string{"Comedy"}},
		{"malformed", `[{"id": 28, "name": "Action"`, nil},
		{"object not array", `{"id": 28, "name": "Action"}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenreNames(tt.raw)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("GenreNames(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCleanGenres(t *testing.T) {
	if got := CleanGenres(`[{"id": 28, "name": "Action"}, {"id": 18, "name": "Drama"}]`); got != "Action, Drama" {
		t.Errorf("got %q", got)
	}
	if got := CleanGenres("not json"); got != "" {
		t.Errorf("malformed should clean to empty, got %q", got)
	}
	if got := CleanGenres(""); got != "" {
		t.Errorf("empty should clean to empty, got %q", got)
	}
}

func TestParseGenres(t *testing.T) {
	genres, err := ParseGenres(`[{"id": 878, "name": "Science Fiction"}]`)
	if err != nil {
		t.Fatal(err)
	}
	if len(genres) != 1 || genres[0].ID != 878 || genres[0].Name != "Science Fiction" {
		t.Errorf("got %+v", genres)
	}
	if _, err := ParseGenres("[oops"); err == nil {
		t.Error("expected error for malformed genres")
	}
	genres, err = ParseGenres("")
	if err != nil || genres != nil {
		t.Errorf("empty cell: got %v, %v", genres, err)
	}
}

func TestToResults(t *testing.T) {
	movies := []Movie{{
		Title:       "Heat",
		Overview:    "A heist.",
		Genres:      `[{"id": 28, "name": "Action"}, {"id": 80, "name": "Crime"}]`,
		PosterURL:   "https://example.com/heat.jpg",
		VoteAverage: 7.9,
	}}
	got := ToResults(movies)
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
	if got[0].Genres != "Action, Crime" || got[0].Title != "Heat" || got[0].VoteAverage != 7.9 {
		t.Errorf("got %+v", got[0])
	}
	if empty := ToResults(nil); empty == nil || len(empty) != 0 {
		t.Errorf("ToResults(nil) should be a non-nil empty slice, got %#v", empty)
	}
}
