package warehouse

import (
	"context"
	"fmt"

	"news-etl/internal/domain/entity"
)

// Target loads records into the warehouse, opening a session only for the
// duration of a load. The session is closed whether the load succeeds or not.
type Target struct {
	cfg  Config
	open func(ctx context.Context, cfg Config) (*Loader, error)
}

// NewTarget returns a Target for cfg.
func NewTarget(cfg Config) *Target {
	return &Target{cfg: cfg, open: Open}
}

// Table returns the qualified destination table.
func (t *Target) Table() string {
	return qualifiedTable(t.cfg)
}

// Load opens a session, writes records and closes the session.
func (t *Target) Load(ctx context.Context, records []entity.ArticleRecord) (result LoadResult, err error) {
	loader, err := t.open(ctx, t.cfg)
	if err != nil {
		return LoadResult{}, err
	}
	defer func() {
		if cerr := loader.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close warehouse session: %w", cerr)
		}
	}()

	return loader.Load(ctx, records)
}
