// Package warehouse persists article records to a data warehouse table.
//
// A load pins a single session, selects the configured context, creates the
// table when it does not exist (every column text) and bulk-loads the rows.
// Snowflake is the default backend; PostgreSQL is supported through pgx.
package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"news-etl/internal/domain/entity"
)

// LoadResult reports the outcome of a bulk load.
type LoadResult = entity.LoadResult

// Loader writes article records into the configured table.
type Loader struct {
	db      *sql.DB
	cfg     Config
	dialect dialect
}

// NewLoader wraps an open database handle. The loader owns db and closes it in Close.
func NewLoader(db *sql.DB, cfg Config) (*Loader, error) {
	d, err := dialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}
	return &Loader{db: db, cfg: cfg, dialect: d}, nil
}

// Open connects to the warehouse described by cfg and verifies the connection.
func Open(ctx context.Context, cfg Config) (*Loader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("warehouse config: %w", err)
	}

	driverName, dsn, err := dataSource(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open warehouse: %w", err)
	}
	// One session per run.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect to warehouse: %w", err)
	}

	slog.Info("warehouse connection established",
		slog.String("driver", string(cfg.Driver)),
		slog.String("database", cfg.Database),
		slog.String("schema", cfg.Schema),
		slog.String("table", cfg.Table))

	return NewLoader(db, cfg)
}

func dataSource(cfg Config) (string, string, error) {
	switch cfg.Driver {
	case DriverSnowflake:
		dsn, err := snowflakeDSN(cfg)
		if err != nil {
			return "", "", fmt.Errorf("build snowflake dsn: %w", err)
		}
		return "snowflake", dsn, nil
	case DriverPostgres:
		return "pgx", cfg.DatabaseURL, nil
	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
	}
}

// Table returns the quoted, schema-qualified target table name.
func (l *Loader) Table() string {
	return qualifiedTable(l.cfg)
}

// Load writes records in storage column order and reports how many rows landed.
// The table is created first when missing, even when records is empty.
func (l *Loader) Load(ctx context.Context, records []entity.ArticleRecord) (LoadResult, error) {
	conn, err := l.db.Conn(ctx)
	if err != nil {
		return LoadResult{}, fmt.Errorf("acquire warehouse session: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			slog.Warn("failed to release warehouse session", slog.Any("error", cerr))
		}
	}()

	if err := l.prepare(ctx, conn); err != nil {
		return LoadResult{}, err
	}

	if len(records) == 0 {
		slog.Info("no records to load", slog.String("table", l.Table()))
		return LoadResult{Success: true}, nil
	}

	rows, chunks, err := l.dialect.bulkInsert(ctx, conn, l.cfg, records)
	result := LoadResult{
		Success: err == nil && rows == int64(len(records)),
		Chunks:  chunks,
		Rows:    rows,
	}
	if err != nil {
		return result, fmt.Errorf("bulk load into %s: %w", l.Table(), err)
	}

	slog.Info("warehouse load complete",
		slog.String("table", l.Table()),
		slog.Int64("rows", rows),
		slog.Int("chunks", chunks),
		slog.Bool("success", result.Success))
	return result, nil
}

func (l *Loader) prepare(ctx context.Context, conn *sql.Conn) error {
	for _, stmt := range l.dialect.sessionStatements(l.cfg) {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("session setup %q: %w", stmt, err)
		}
	}
	if _, err := conn.ExecContext(ctx, createTableSQL(l.dialect, l.cfg)); err != nil {
		return fmt.Errorf("create table %s: %w", l.Table(), err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (l *Loader) Close() error {
	return l.db.Close()
}
