package waste

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const collectionsTable = "collections"

const createCollections = `CREATE TABLE IF NOT EXISTS collections (
	key        TEXT PRIMARY KEY,
	value      TEXT,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresKV - коллекции в таблице collections
type PostgresKV struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgresKV(ctx context.Context, dsn string, logger *zap.Logger) (*PostgresKV, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	_, err = pool.Exec(ctx, createCollections)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresKV{pool, logger}, nil
}

func getQuery(key string) (string, []any, error) {
	return sq.Select("value").
		From(collectionsTable).
		Where(sq.Eq{"key": key}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
}

func setQuery(key string, value string, now time.Time) (string, []any, error) {
	return sq.Insert(collectionsTable).
		Columns("key", "value", "updated_at").
		Values(key, value, now).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at").
		PlaceholderFormat(sq.Dollar).
		ToSql()
}

func (p *PostgresKV) Get(ctx context.Context, key string) (string, bool, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return "", false, err
	}
	defer conn.Release()

	sql, args, err := getQuery(key)
	if err != nil {
		p.logger.Error("SQL error",
			zap.Error(err),
			zap.String("query", sql),
			zap.Any("args", args),
		)
		return "", false, err
	}

	var value pgtype.Text
	err = conn.QueryRow(ctx, sql, args...).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	// NULL считаем отсутствием значения
	if value.Status != pgtype.Present {
		return "", false, nil
	}
	return value.String, true, nil
}

func (p *PostgresKV) Set(ctx context.Context, key string, value string) error {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	sql, args, err := setQuery(key, value, time.Now().UTC())
	if err != nil {
		p.logger.Error("SQL error",
			zap.Error(err),
			zap.String("query", sql),
			zap.Any("args", args),
		)
		return err
	}

	_, err = conn.Exec(ctx, sql, args...)
	if err != nil {
		p.logger.Error("SQL error",
			zap.Error(err),
			zap.String("query", sql),
			zap.String("key", key),
		)
		return err
	}
	return nil
}

func (p *PostgresKV) Close() {
	p.pool.Close()
}
