package db

import (
	"context"
	"fmt"

	"ListableAPI/internal/listable"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is a listable.Store backed by a pgx pool.
type Postgres struct {
	Pool *pgxpool.Pool
}

var _ Store = (*Postgres)(nil)

func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect pgx: %w", err)
	}
	// check the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping pgx: %w", err)
	}
	return &Postgres{Pool: pool}, nil
}

func (p *Postgres) Dialect() listable.Dialect {
	return listable.Postgres
}

func (p *Postgres) Query(ctx context.Context, sql string, args ...any) ([]listable.Row, error) {
	rows, err := p.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	out, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []listable.Row{}
	}
	return out, nil
}

func (p *Postgres) Count(ctx context.Context, sql string, args ...any) (int64, error) {
	var n int64
	if err := p.Pool.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.Pool.Ping(ctx)
}

func (p *Postgres) Close() {
	p.Pool.Close()
}
