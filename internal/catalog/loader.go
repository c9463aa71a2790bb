package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hyperjump/movierec/internal/models"
)

// RequiredColumns are the source columns a catalog must provide. Other columns are ignored.
var RequiredColumns = []string{"title", "overview", "genres", "keywords", "poster_url", "vote_average"}

// DefaultTable is the SQLite table read when LoadOptions.Table is empty.
const DefaultTable = "movies"

// LoadOptions tunes how a source is read. A nil *LoadOptions uses defaults.
type LoadOptions struct {
	// Table is the SQLite table holding the catalog (default "movies").
	Table string
	// Sheet is the spreadsheet sheet holding the catalog (default: first sheet).
	Sheet string
}

// table is a header plus string rows, the common shape every source reader produces.
type table struct {
	header []string
	rows   [][]string
}

// Load reads the catalog at path. The format is chosen by extension:
// .csv, .xlsx, or a SQLite database (.db, .sqlite, .sqlite3).
// Every failure is a *DataLoadError.
func Load(path string, opts *LoadOptions) (*Catalog, error) {
	if opts == nil {
		opts = &LoadOptions{}
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &DataLoadError{Path: path, Reason: "source not found", Err: err}
		}
		return nil, &DataLoadError{Path: path, Reason: "source unreadable", Err: err}
	}
	if info.IsDir() {
		return nil, &DataLoadError{Path: path, Reason: "source is a directory"}
	}

	var t *table
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		t, err = readCSV(path)
	case ".xlsx":
		t, err = readExcel(path, opts.Sheet)
	case ".db", ".sqlite", ".sqlite3":
		tableName := opts.Table
		if tableName == "" {
			tableName = DefaultTable
		}
		t, err = readSQLite(path, tableName)
	default:
		return nil, &DataLoadError{Path: path, Reason: "unsupported source format " + strconv.Quote(ext)}
	}
	if err != nil {
		return nil, &DataLoadError{Path: path, Reason: "source unreadable", Err: err}
	}

	movies, err := t.movies()
	if err != nil {
		return nil, &DataLoadError{Path: path, Reason: err.Error()}
	}
	c := New(movies)
	c.path = path
	return c, nil
}

// movies maps rows to movies by header name. Short rows pad with "".
func (t *table) movies() ([]models.Movie, error) {
	cols := make(map[string]int, len(t.header))
	for i, h := range t.header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	var missing []string
	for _, want := range RequiredColumns {
		if _, ok := cols[want]; !ok {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return nil, errors.New("missing required columns: " + strings.Join(missing, ", "))
	}

	cell := func(row []string, name string) string {
		i := cols[name]
		if i >= len(row) {
			return ""
		}
		return row[i]
	}
	movies := make([]models.Movie, 0, len(t.rows))
	for _, row := range t.rows {
		movies = append(movies, models.Movie{
			Title:       cell(row, "title"),
			Overview:    cell(row, "overview"),
			Genres:      cell(row, "genres"),
			Keywords:    cell(row, "keywords"),
			PosterURL:   cell(row, "poster_url"),
			VoteAverage: parseVote(cell(row, "vote_average")),
		})
	}
	return movies, nil
}

// parseVote reads a vote average; empty or unparseable values are 0.
func parseVote(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
