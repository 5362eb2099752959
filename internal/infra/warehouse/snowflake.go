package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/snowflakedb/gosnowflake"

	"news-etl/internal/domain/entity"
)

type snowflakeDialect struct{}

func (snowflakeDialect) sessionStatements(cfg Config) []string {
	var stmts []string
	if cfg.Role != "" {
		stmts = append(stmts, "USE ROLE "+cfg.Role)
	}
	return append(stmts,
		"USE DATABASE "+cfg.Database,
		"USE WAREHOUSE "+cfg.Warehouse,
		"USE SCHEMA "+cfg.Schema,
	)
}

func (snowflakeDialect) columnType() string {
	return "STRING"
}

// bulkInsert executes one single-row INSERT per chunk with every column bound
// as an array. The driver uploads large array binds to a temporary stage and
// loads them with COPY.
func (snowflakeDialect) bulkInsert(ctx context.Context, conn *sql.Conn, cfg Config, records []entity.ArticleRecord) (int64, int, error) {
	query := snowflakeInsertSQL(cfg)

	var total int64
	chunks := 0
	for _, chunk := range chunked(records, cfg.BatchSize) {
		res, err := conn.ExecContext(ctx, query, columnArrays(chunk)...)
		if err != nil {
			return total, chunks, fmt.Errorf("insert chunk %d: %w", chunks, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return total, chunks, fmt.Errorf("insert chunk %d: rows affected: %w", chunks, err)
		}
		total += n
		chunks++
	}
	return total, chunks, nil
}

// snowflakeInsertSQL returns the INSERT statement bound once per column.
func snowflakeInsertSQL(cfg Config) string {
	cols := make([]string, len(entity.RecordColumns))
	marks := make([]string, len(entity.RecordColumns))
	for i, c := range entity.RecordColumns {
		cols[i] = quoteIdent(c)
		marks[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		qualifiedTable(cfg), strings.Join(cols, ", "), strings.Join(marks, ", "))
}

// columnArrays transposes records into one array bind per column.
// Absent values stay nil and are inserted as NULL.
func columnArrays(records []entity.ArticleRecord) []any {
	columns := make([][]any, len(entity.RecordColumns))
	for i := range columns {
		columns[i] = make([]any, 0, len(records))
	}
	for _, rec := range records {
		for i, v := range rowArgs(rec) {
			columns[i] = append(columns[i], v)
		}
	}

	args := make([]any, len(columns))
	for i, col := range columns {
		args[i] = gosnowflake.Array(col)
	}
	return args
}

// snowflakeDSN builds the gosnowflake connection string from cfg.
func snowflakeDSN(cfg Config) (string, error) {
	return gosnowflake.DSN(&gosnowflake.Config{
		Account:      cfg.Account,
		User:         cfg.User,
		Password:     cfg.Password,
		Role:         cfg.Role,
		Database:     cfg.Database,
		Warehouse:    cfg.Warehouse,
		Schema:       cfg.Schema,
		LoginTimeout: cfg.ConnectTimeout,
		Application:  "news-etl",
	})
}
