// Package snapshot writes the local files a run leaves behind: the CSV
// snapshot of assembled article records and spreadsheet exports.
package snapshot

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"news-etl/internal/domain/entity"
)

// DefaultArticlesPath is the snapshot file written in the working directory.
const DefaultArticlesPath = "articles.csv"

// WriteArticles replaces path with a header row followed by one row per record.
// Absent values are written as empty cells.
func WriteArticles(path string, records []entity.ArticleRecord) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}

	// A failed write leaves the previous snapshot in place.
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if err := EncodeArticles(tmp, records); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// EncodeArticles writes records as CSV to w.
func EncodeArticles(w io.Writer, records []entity.ArticleRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(entity.RecordColumns); err != nil {
		return fmt.Errorf("write snapshot header: %w", err)
	}

	row := make([]string, len(entity.RecordColumns))
	for i, rec := range records {
		for j, v := range rec.Values() {
			if v == nil {
				row[j] = ""
			} else {
				row[j] = *v
			}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write snapshot row %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush snapshot: %w", err)
	}
	return nil
}

// ReadArticles loads a snapshot written by WriteArticles.
// Empty optional cells come back as absent values.
func ReadArticles(path string) ([]entity.ArticleRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	return DecodeArticles(f)
}

// DecodeArticles parses CSV produced by EncodeArticles.
func DecodeArticles(r io.Reader) ([]entity.ArticleRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(entity.RecordColumns)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("snapshot is empty")
		}
		return nil, fmt.Errorf("read snapshot header: %w", err)
	}
	for i, name := range entity.RecordColumns {
		if header[i] != name {
			return nil, fmt.Errorf("unexpected snapshot column %d: %q, want %q", i, header[i], name)
		}
	}

	var records []entity.ArticleRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read snapshot row: %w", err)
		}

		values := make([]*string, len(row))
		for i, cell := range row {
			if cell != "" {
				values[i] = entity.StringPtr(cell)
			}
		}
		rec, err := entity.RecordFromValues(values)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
