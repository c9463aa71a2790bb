package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseGenres decodes a raw genre cell. An empty cell yields no genres and no error.
func ParseGenres(raw string) ([]Genre, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var genres []Genre
	if err := json.Unmarshal([]byte(raw), &genres); err != nil {
		return nil, fmt.Errorf("parse genres: %w", err)
	}
	return genres, nil
}

// GenreNames returns the genre names of a raw genre cell in source order.
// Elements without a string "name" are skipped; a malformed cell yields nil.
func GenreNames(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		return nil
	}
	names := make([]string, 0, len(elems))
	for _, elem := range elems {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(elem, &obj); err != nil {
			continue
		}
		rawName, ok := obj["name"]
		if !ok {
			continue
		}
		var name string
		if err := json.Unmarshal(rawName, &name); err != nil {
			continue
		}
		names = append(names, name)
	}
	return names
}

// CleanGenres converts a raw genre cell to a comma-separated list of names ("Action, Drama").
// Malformed or empty cells clean to "".
func CleanGenres(raw string) string {
	return strings.Join(GenreNames(raw), ", ")
}
