// Package report renders run summaries for the console.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"news-etl/internal/domain/entity"
)

const (
	// DefaultPreviewRows is the number of records shown after a snapshot is written.
	DefaultPreviewRows = 5

	maxCellWidth = 48
	absentCell   = "-"
)

var previewColumns = []string{"title", "url", "content_scraped"}

// PrintPreview writes the first n records as an aligned text table.
// Cells are measured by display width so wide characters stay aligned.
func PrintPreview(w io.Writer, records []entity.ArticleRecord, n int) error {
	if n > len(records) {
		n = len(records)
	}

	table := make([][]string, 0, n+1)
	table = append(table, previewColumns)
	for _, rec := range records[:n] {
		table = append(table, []string{
			cell(rec.Title),
			cell(&rec.URL),
			cell(rec.ContentScraped),
		})
	}

	widths := make([]int, len(previewColumns))
	for _, row := range table {
		for i, c := range row {
			if cw := runewidth.StringWidth(c); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	for _, row := range table {
		var sb strings.Builder
		for i, c := range row {
			if i > 0 {
				sb.WriteString("  ")
			}
			if i == len(row)-1 {
				sb.WriteString(c)
				continue
			}
			sb.WriteString(runewidth.FillRight(c, widths[i]))
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(sb.String(), " ")); err != nil {
			return err
		}
	}
	return nil
}

// PrintLoadResult writes the one-line outcome of a warehouse load.
func PrintLoadResult(w io.Writer, table string, result entity.LoadResult) error {
	_, err := fmt.Fprintf(w, "Inserted %d rows into %s. Success: %t\n", result.Rows, table, result.Success)
	return err
}

// PrintSourceNames writes one distinct source name per line.
func PrintSourceNames(w io.Writer, names []string) error {
	for _, name := range names {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return err
		}
	}
	return nil
}

func cell(s *string) string {
	if s == nil {
		return absentCell
	}
	v := strings.Join(strings.Fields(*s), " ")
	return runewidth.Truncate(v, maxCellWidth, "...")
}
