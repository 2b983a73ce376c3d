package film

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// fileRecord is the on-disk JSON layout. Field order here is the key order in
// the written file. Poster is not persisted.
type fileRecord struct {
	Title    string `json:"Title"`
	Year     string `json:"Year"`
	Genre    string `json:"Genre"`
	Rating   string `json:"IMDB Rating"`
	Director string `json:"Director"`
	Actors   string `json:"Actors"`
	Plot     string `json:"Plot"`
	IMDbLink string `json:"IMDB Link"`
}

var filenameReplacer = strings.NewReplacer(" ", "_", "/", "_", `\`, "_")

// Filename returns the JSON file name for a title: spaces become underscores
// and ".json" is appended. Path separators are replaced too so the file always
// lands in the target directory.
func Filename(title string) string {
	return filenameReplacer.Replace(title) + ".json"
}

// Marshal encodes the record's human-facing fields as a 4-space indented JSON
// object.
func Marshal(f Film) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")

	if err := enc.Encode(fileRecord{
		Title:    f.Title,
		Year:     f.Year,
		Genre:    f.Genre,
		Rating:   f.Rating,
		Director: f.Director,
		Actors:   f.Actors,
		Plot:     f.Plot,
		IMDbLink: f.IMDbLink,
	}); err != nil {
		return nil, fmt.Errorf("failed to encode %q: %w", f.Title, err)
	}

	return buf.Bytes(), nil
}

// Save writes the record to Filename(f.Title) inside dir, replacing any
// existing file of that name. It returns the path written.
func Save(f Film, dir string) (string, error) {
	data, err := Marshal(f)
	if err != nil {
		return "", err
	}

	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, Filename(f.Title))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	return path, nil
}
