// Package catalog reads, merges and writes the track catalog CSV.
package catalog

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	apperrors "nmcatalog/internal/errors"
	"nmcatalog/pkg/models"
)

// Columns is the fixed catalog schema, in output order.
var Columns = []string{
	"ID",
	"Title",
	"Music_Prompt",
	"Video_Title",
	"Video_Caption_KR",
	"Video_Caption_EN",
	"Theme",
	"ColorPreset",
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Load reads a whole catalog file. Rows are returned in file order with their
// values untouched; columns outside the schema are ignored.
func Load(path string) ([]models.Track, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.SourceUnavailable(path, err)
	}
	return Read(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
}

// Read parses catalog rows from r. The first row must be a header containing
// every schema column.
func Read(r io.Reader) ([]models.Track, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, apperrors.SchemaMismatch("catalog is empty, header row required")
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrSchemaMismatch, err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	positions := make([]int, len(Columns))
	for i, column := range Columns {
		pos, ok := index[column]
		if !ok {
			return nil, apperrors.SchemaMismatch("missing column %q", column)
		}
		positions[i] = pos
	}

	var tracks []models.Track
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrSchemaMismatch, err)
		}

		get := func(col int) string { return row[positions[col]] }
		tracks = append(tracks, models.Track{
			ID:          get(0),
			Title:       get(1),
			MusicPrompt: get(2),
			VideoTitle:  get(3),
			CaptionKR:   get(4),
			CaptionEN:   get(5),
			Theme:       get(6),
			ColorPreset: get(7),
		})
	}
	return tracks, nil
}

// Encode writes the header and one row per track to w.
func Encode(w io.Writer, tracks []models.Track) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Columns); err != nil {
		return err
	}
	for _, t := range tracks {
		row := []string{t.ID, t.Title, t.MusicPrompt, t.VideoTitle, t.CaptionKR, t.CaptionEN, t.Theme, t.ColorPreset}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row %s: %w", t.ID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// Write stores the catalog at path. The file is assembled next to the target
// and renamed into place, so path holds either the old content or the full new
// catalog.
func Write(path string, tracks []models.Track) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary catalog file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := Encode(tmp, tracks); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary catalog file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("failed to set catalog permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move catalog into place: %w", err)
	}
	return nil
}
