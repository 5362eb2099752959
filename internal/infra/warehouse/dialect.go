package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"news-etl/internal/domain/entity"
)

// dialect captures what differs between warehouse backends.
type dialect interface {
	// sessionStatements run on the pinned connection before any DDL.
	sessionStatements(cfg Config) []string
	// columnType is the text type used for every column.
	columnType() string
	// bulkInsert writes records in chunks and returns rows written and chunks sent.
	bulkInsert(ctx context.Context, conn *sql.Conn, cfg Config, records []entity.ArticleRecord) (int64, int, error)
}

func dialectFor(driver Driver) (dialect, error) {
	switch driver {
	case DriverSnowflake:
		return snowflakeDialect{}, nil
	case DriverPostgres:
		return postgresDialect{copier: pgxCopier}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}

func quoteIdent(name string) string {
	return `"` + name + `"`
}

func qualifiedTable(cfg Config) string {
	return quoteIdent(cfg.Schema) + "." + quoteIdent(cfg.Table)
}

// createTableSQL returns the idempotent DDL for the article table.
func createTableSQL(d dialect, cfg Config) string {
	cols := make([]string, len(entity.RecordColumns))
	for i, c := range entity.RecordColumns {
		cols[i] = quoteIdent(c) + " " + d.columnType()
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", qualifiedTable(cfg), strings.Join(cols, ", "))
}

// rowArgs returns the bind values of rec, nil for absent values.
func rowArgs(rec entity.ArticleRecord) []any {
	values := rec.Values()
	args := make([]any, len(values))
	for i, v := range values {
		if v != nil {
			args[i] = *v
		}
	}
	return args
}

// chunked splits records into consecutive batches of at most size records.
func chunked(records []entity.ArticleRecord, size int) [][]entity.ArticleRecord {
	if size < 1 {
		size = len(records)
	}
	var out [][]entity.ArticleRecord
	for start := 0; start < len(records); start += size {
		out = append(out, records[start:min(start+size, len(records))])
	}
	return out
}
