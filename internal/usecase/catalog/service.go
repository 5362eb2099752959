// Package catalog exports the news API source catalog to a spreadsheet and
// lists the distinct source names.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"

	"news-etl/internal/domain/entity"
	"news-etl/internal/report"
)

// SourceLister returns the raw source objects of the catalog endpoint.
type SourceLister interface {
	Sources(ctx context.Context) ([]map[string]any, error)
}

// SpreadsheetWriter replaces path with a sheet of columns and rows.
type SpreadsheetWriter func(path string, columns []string, rows [][]string) error

// leadingColumns are placed first, in this order, when present.
var leadingColumns = []string{"id", "name", "description", "url", "category", "language", "country"}

// Service runs the catalog export.
type Service struct {
	Lister SourceLister
	Write  SpreadsheetWriter
	Out    io.Writer
	Path   string
}

// ExportResult describes a completed export.
type ExportResult struct {
	Path    string
	Columns []string
	Entries int
	Names   []string
}

// Export fetches the catalog, writes it to s.Path and prints the distinct
// source names. Any failure is returned unchanged in kind.
func (s *Service) Export(ctx context.Context) (*ExportResult, error) {
	raw, err := s.Lister.Sources(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}

	entries := make([]entity.SourceCatalogEntry, len(raw))
	for i, src := range raw {
		entries[i] = Flatten(src)
	}

	columns := Columns(entries)
	if err := s.Write(s.Path, columns, Rows(entries, columns)); err != nil {
		return nil, fmt.Errorf("write catalog %s: %w", s.Path, err)
	}
	slog.Info("source catalog written",
		slog.String("path", s.Path),
		slog.Int("sources", len(entries)),
		slog.Int("columns", len(columns)))

	names := DistinctNames(entries)
	if s.Out != nil {
		if err := report.PrintSourceNames(s.Out, names); err != nil {
			return nil, fmt.Errorf("print source names: %w", err)
		}
	}

	return &ExportResult{
		Path:    s.Path,
		Columns: columns,
		Entries: len(entries),
		Names:   names,
	}, nil
}

// Flatten converts one source object into an entry. Nested objects become
// dotted keys, arrays are JSON encoded and null becomes an empty cell.
func Flatten(src map[string]any) entity.SourceCatalogEntry {
	entry := entity.SourceCatalogEntry{}
	flattenInto(entry, "", src)
	return entry
}

func flattenInto(entry entity.SourceCatalogEntry, prefix string, obj map[string]any) {
	for k, v := range obj {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok {
			flattenInto(entry, key, nested)
			continue
		}
		entry[key] = cellValue(v)
	}
}

func cellValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}

// Columns returns the union of entry keys: known catalog fields first, then
// the remaining keys sorted.
func Columns(entries []entity.SourceCatalogEntry) []string {
	seen := map[string]bool{}
	for _, e := range entries {
		for k := range e {
			seen[k] = true
		}
	}

	columns := make([]string, 0, len(seen))
	for _, c := range leadingColumns {
		if seen[c] {
			columns = append(columns, c)
			delete(seen, c)
		}
	}
	rest := make([]string, 0, len(seen))
	for k := range seen {
		rest = append(rest, k)
	}
	sort.Strings(rest)
	return append(columns, rest...)
}

// Rows aligns every entry with columns. Missing keys are empty cells.
func Rows(entries []entity.SourceCatalogEntry, columns []string) [][]string {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		row := make([]string, len(columns))
		for j, c := range columns {
			row[j] = e[c]
		}
		rows[i] = row
	}
	return rows
}

// DistinctNames returns each non-empty source name once, in first-seen order.
func DistinctNames(entries []entity.SourceCatalogEntry) []string {
	seen := map[string]bool{}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
