package catalog_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-etl/internal/domain/entity"
	"news-etl/internal/infra/snapshot"
	"news-etl/internal/usecase/catalog"
)

type stubLister struct {
	sources []map[string]any
	err     error
}

func (s stubLister) Sources(context.Context) ([]map[string]any, error) {
	return s.sources, s.err
}

func sampleSources() []map[string]any {
	return []map[string]any{
		{"id": "bloomberg", "name": "Bloomberg", "description": "Business news", "url": "https://www.bloomberg.com", "category": "business", "language": "en", "country": "us"},
		{"id": nil, "name": "Fortune", "category": "business", "language": "en", "country": "us", "meta": map[string]any{"rank": float64(3), "tags": []any{"a", "b"}}},
		{"id": "bloomberg-2", "name": "Bloomberg", "language": "en"},
	}
}

func TestFlatten(t *testing.T) {
	got := catalog.Flatten(sampleSources()[1])
	want := entity.SourceCatalogEntry{
		"id":        "",
		"name":      "Fortune",
		"category":  "business",
		"language":  "en",
		"country":   "us",
		"meta.rank": "3",
		"meta.tags": `["a","b"]`,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Flatten() mismatch (-want +got):\n%s", diff)
	}
}

func TestColumns_KnownFieldsFirst(t *testing.T) {
	entries := []entity.SourceCatalogEntry{
		{"zeta": "1", "name": "A", "id": "a", "alpha": "2"},
		{"country": "us", "url": "u"},
	}
	assert.Equal(t, []string{"id", "name", "url", "country", "alpha", "zeta"}, catalog.Columns(entries))
	assert.Empty(t, catalog.Columns(nil))
}

func TestRows_MissingKeysAreEmpty(t *testing.T) {
	entries := []entity.SourceCatalogEntry{{"id": "a"}, {"name": "B"}}
	rows := catalog.Rows(entries, []string{"id", "name"})
	assert.Equal(t, [][]string{{"a", ""}, {"", "B"}}, rows)
}

func TestDistinctNames(t *testing.T) {
	entries := []entity.SourceCatalogEntry{
		{"name": "Bloomberg"}, {"name": "Fortune"}, {"name": ""}, {"name": "Bloomberg"}, {},
	}
	assert.Equal(t, []string{"Bloomberg", "Fortune"}, catalog.DistinctNames(entries))
}

func TestExport_WritesSpreadsheetAndPrintsNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.xlsx")
	var out bytes.Buffer
	svc := &catalog.Service{
		Lister: stubLister{sources: sampleSources()},
		Write:  snapshot.WriteSpreadsheet,
		Out:    &out,
		Path:   path,
	}

	res, err := svc.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Entries)
	assert.Equal(t, []string{"Bloomberg", "Fortune"}, res.Names)
	assert.Equal(t, "Bloomberg\nFortune\n", out.String())

	rows, err := snapshot.ReadSpreadsheet(path)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, res.Columns, rows[0])
	assert.Equal(t, []string{"bloomberg", "Bloomberg", "Business news", "https://www.bloomberg.com", "business", "en", "us"}, rows[1][:7])
}

func TestExport_Errors(t *testing.T) {
	listErr := errors.New("401 apiKeyInvalid")
	svc := &catalog.Service{
		Lister: stubLister{err: listErr},
		Write:  func(string, []string, [][]string) error { t.Fatal("write must not be called"); return nil },
	}
	_, err := svc.Export(context.Background())
	assert.ErrorIs(t, err, listErr)

	writeErr := errors.New("read-only file system")
	svc = &catalog.Service{
		Lister: stubLister{sources: sampleSources()},
		Write:  func(string, []string, [][]string) error { return writeErr },
		Path:   "sources.xlsx",
	}
	_, err = svc.Export(context.Background())
	assert.ErrorIs(t, err, writeErr)
}
