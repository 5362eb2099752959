package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-etl/internal/domain/entity"
)

func TestPrintPreview(t *testing.T) {
	records := []entity.ArticleRecord{
		{Title: entity.StringPtr("Markets rally"), URL: "https://example.com/a", ContentScraped: entity.StringPtr("full text A")},
		{Title: nil, URL: "https://example.com/b", ContentScraped: nil},
	}

	var buf bytes.Buffer
	require.NoError(t, PrintPreview(&buf, records, DefaultPreviewRows))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "title"))
	assert.Contains(t, lines[1], "Markets rally")
	assert.Contains(t, lines[1], "full text A")
	assert.True(t, strings.HasPrefix(lines[2], "-"))
	assert.True(t, strings.HasSuffix(lines[2], "-"))

	// url column starts at the same display offset on every row
	offset := strings.Index(lines[1], "https://")
	assert.Equal(t, offset, strings.Index(lines[2], "https://"))
	assert.Equal(t, offset, strings.Index(lines[0], "url"))
}

func TestPrintPreview_LimitsRows(t *testing.T) {
	records := make([]entity.ArticleRecord, 8)
	for i := range records {
		records[i] = entity.ArticleRecord{URL: "https://example.com"}
	}

	var buf bytes.Buffer
	require.NoError(t, PrintPreview(&buf, records, 5))
	assert.Equal(t, 6, strings.Count(buf.String(), "\n"))
}

func TestPrintPreview_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintPreview(&buf, nil, 5))
	assert.Equal(t, "title  url  content_scraped\n", buf.String())
}

func TestCell(t *testing.T) {
	assert.Equal(t, absentCell, cell(nil))
	assert.Equal(t, "a b", cell(entity.StringPtr("a\n\n b")))

	long := strings.Repeat("記事", 40)
	got := cell(&long)
	assert.LessOrEqual(t, runewidth.StringWidth(got), maxCellWidth)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestPrintLoadResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintLoadResult(&buf, `"PUBLIC"."NEWS"`, entity.LoadResult{Success: true, Rows: 12, Chunks: 1}))
	assert.Equal(t, "Inserted 12 rows into \"PUBLIC\".\"NEWS\". Success: true\n", buf.String())
}

func TestPrintSourceNames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintSourceNames(&buf, []string{"Bloomberg", "Fortune"}))
	assert.Equal(t, "Bloomberg\nFortune\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestPrint_WriteError(t *testing.T) {
	assert.Error(t, PrintPreview(failingWriter{}, nil, 5))
	assert.Error(t, PrintLoadResult(failingWriter{}, "t", entity.LoadResult{}))
	assert.Error(t, PrintSourceNames(failingWriter{}, []string{"x"}))
}
