package warehouse

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"news-etl/internal/domain/entity"
)

// copyFromer is the COPY FROM half of *pgx.Conn.
type copyFromer interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

type postgresDialect struct {
	// copier unwraps the driver connection of the pinned session.
	copier func(driverConn any) (copyFromer, error)
}

func (postgresDialect) sessionStatements(Config) []string {
	return nil
}

func (postgresDialect) columnType() string {
	return "TEXT"
}

// bulkInsert streams records with COPY FROM, one COPY per chunk.
func (d postgresDialect) bulkInsert(ctx context.Context, conn *sql.Conn, cfg Config, records []entity.ArticleRecord) (int64, int, error) {
	var (
		total  int64
		chunks int
	)
	err := conn.Raw(func(driverConn any) error {
		cp, err := d.copier(driverConn)
		if err != nil {
			return err
		}
		total, chunks, err = copyChunks(ctx, cp, cfg, records)
		return err
	})
	return total, chunks, err
}

// copyChunks copies records into the configured table in BatchSize chunks.
func copyChunks(ctx context.Context, cp copyFromer, cfg Config, records []entity.ArticleRecord) (int64, int, error) {
	table := pgx.Identifier{cfg.Schema, cfg.Table}

	var total int64
	chunks := 0
	for _, chunk := range chunked(records, cfg.BatchSize) {
		n, err := cp.CopyFrom(ctx, table, entity.RecordColumns,
			pgx.CopyFromSlice(len(chunk), func(i int) ([]any, error) {
				return rowArgs(chunk[i]), nil
			}),
		)
		total += n
		if err != nil {
			return total, chunks, fmt.Errorf("copy chunk %d: %w", chunks, err)
		}
		chunks++
	}
	return total, chunks, nil
}

func pgxCopier(driverConn any) (copyFromer, error) {
	c, ok := driverConn.(*stdlib.Conn)
	if !ok {
		return nil, fmt.Errorf("%w: COPY needs a pgx connection, got %T", ErrUnsupportedDriver, driverConn)
	}
	return c.Conn(), nil
}
