package warehouse

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTarget_Load_ClosesSession(t *testing.T) {
	db, mock, err := sqlmock.New(
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual),
		sqlmock.ValueConverterOption(passThrough{}),
	)
	require.NoError(t, err)

	cfg := snowflakeConfig()
	target := NewTarget(cfg)
	target.open = func(context.Context, Config) (*Loader, error) {
		return NewLoader(db, cfg)
	}

	recs := records(1)
	expectSnowflakeSession(mock)
	mock.ExpectExec(snowflakeInsert).
		WithArgs(arrayArgs(recs)...).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectClose()

	result, err := target.Load(context.Background(), recs)
	require.NoError(t, err)
	assert.Equal(t, LoadResult{Success: true, Chunks: 1, Rows: 1}, result)
	assert.Equal(t, `"PUBLIC"."NEWS_ARTICLES"`, target.Table())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTarget_Load_ClosesSessionOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)

	cfg := snowflakeConfig()
	target := NewTarget(cfg)
	target.open = func(context.Context, Config) (*Loader, error) {
		return NewLoader(db, cfg)
	}

	mock.ExpectExec("USE DATABASE NEWS").WillReturnError(errors.New("no such database"))
	mock.ExpectClose()

	_, err = target.Load(context.Background(), records(1))
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTarget_Load_OpenError(t *testing.T) {
	cfg := snowflakeConfig()
	cfg.Password = ""

	_, err := NewTarget(cfg).Load(context.Background(), records(1))
	assert.Error(t, err)
}
