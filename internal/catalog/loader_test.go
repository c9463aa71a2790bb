package catalog

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

const sampleCSV = `title,overview,genres,keywords,poster_url,vote_average,popularity
Heat,A thief and a cop.,"[{""id"": 28, ""name"": ""Action""}, {""id"": 80, ""name"": ""Crime""}]",heist los angeles,https://example.com/heat.jpg,7.9,40
Airplane!,A comedy in the sky.,"[{""id"": 35, ""name"": ""Comedy""}]",,https://example.com/airplane.jpg,,12
Untitled,,,,,not-a-number,1
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_CSV(t *testing.T) {
	path := writeFile(t, "movies.csv", sampleCSV)
	c, err := Load(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", c.Len())
	}
	if c.Path() != path {
		t.Errorf("Path() = %q", c.Path())
	}
	heat := c.Movie(0)
	if heat.Title != "Heat" || heat.VoteAverage != 7.9 || heat.Keywords != "heist los angeles" {
		t.Errorf("unexpected first movie: %+v", heat)
	}
	if !strings.Contains(heat.Genres, `"name": "Crime"`) {
		t.Errorf("genres should keep the raw JSON, got %q", heat.Genres)
	}
	air := c.Movie(1)
	if air.Keywords != "" || air.VoteAverage != 0 {
		t.Errorf("missing values should normalize to empty/zero: %+v", air)
	}
	if c.Movie(2).VoteAverage != 0 {
		t.Error("unparseable vote average should be 0")
	}
}

func TestLoad_CSVHeaderWithBOMAndCase(t *testing.T) {
	content := "\ufeffTitle,Overview,Genres,Keywords,Poster_URL,Vote_Average\nHeat,x,,,,5\n"
	c, err := Load(writeFile(t, "movies.csv", content), nil)
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 1 || c.Movie(0).Title != "Heat" || c.Movie(0).VoteAverage != 5 {
		t.Errorf("got %+v", c.Movie(0))
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), nil)
	var loadErr *DataLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *DataLoadError, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped ErrNotExist, got %v", err)
	}
}

func TestLoad_MissingColumns(t *testing.T) {
	path := writeFile(t, "movies.csv", "title,overview,genres\nHeat,x,\n")
	_, err := Load(path, nil)
	var loadErr *DataLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *DataLoadError, got %v", err)
	}
	for _, col := range []string{"keywords", "poster_url", "vote_average"} {
		if !strings.Contains(loadErr.Reason, col) {
			t.Errorf("reason %q should mention %s", loadErr.Reason, col)
		}
	}
}

func TestLoad_EmptyCSV(t *testing.T) {
	_, err := Load(writeFile(t, "movies.csv", ""), nil)
	var loadErr *DataLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *DataLoadError, got %v", err)
	}
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	_, err := Load(writeFile(t, "movies.parquet", "x"), nil)
	var loadErr *DataLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *DataLoadError, got %v", err)
	}
}

func TestLoad_Directory(t *testing.T) {
	_, err := Load(t.TempDir(), nil)
	var loadErr *DataLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *DataLoadError, got %v", err)
	}
}

func TestLoad_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	_, err = db.Exec(`
		CREATE TABLE films (
			id INTEGER PRIMARY KEY,
			title TEXT, overview TEXT, genres TEXT, keywords TEXT, poster_url TEXT, vote_average REAL
		);
		INSERT INTO films (title, overview, genres, keywords, poster_url, vote_average)
		VALUES ('Heat', 'A thief.', '[{"id": 28, "name": "Action"}]', 'heist', 'https://example.com/heat.jpg', 7.9),
		       ('Airplane!', NULL, NULL, NULL, NULL, NULL);
	`)
	if err != nil {
		t.Fatal(err)
	}
	_ = db.Close()

	c, err := Load(path, &LoadOptions{Table: "films"})
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if m := c.Movie(0); m.Title != "Heat" || m.VoteAverage != 7.9 || m.Keywords != "heist" {
		t.Errorf("unexpected first movie: %+v", m)
	}
	if m := c.Movie(1); m.Overview != "" || m.Genres != "" || m.VoteAverage != 0 {
		t.Errorf("NULLs should normalize to empty/zero: %+v", m)
	}

	_, err = Load(path, nil)
	var loadErr *DataLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("missing default table: expected *DataLoadError, got %v", err)
	}
}

func TestLoad_Excel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.xlsx")
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"title", "overview", "genres", "keywords", "poster_url", "vote_average"},
		{"Heat", "A thief.", `[{"id": 28, "name": "Action"}]`, "heist", "https://example.com/heat.jpg", 7.9},
		{"Airplane!"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		r := row
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()

	c, err := Load(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if m := c.Movie(0); m.Title != "Heat" || m.VoteAverage != 7.9 {
		t.Errorf("unexpected first movie: %+v", m)
	}
	if m := c.Movie(1); m.Title != "Airplane!" || m.PosterURL != "" {
		t.Errorf("short row should pad with empty cells: %+v", m)
	}
}
