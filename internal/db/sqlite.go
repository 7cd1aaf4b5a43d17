package db

import (
	"context"
	"fmt"
	"strings"

	"ListableAPI/internal/listable"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // CGO-less SQLite driver
)

// SQLite is a listable.Store backed by database/sql through sqlx.
type SQLite struct {
	DB *sqlx.DB
}

var _ Store = (*SQLite)(nil)

func OpenSQLite(ctx context.Context, dsn string) (*SQLite, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// every connection to :memory: is a separate database
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return &SQLite{DB: db}, nil
}

func (s *SQLite) Dialect() listable.Dialect {
	return listable.SQLite
}

func (s *SQLite) Query(ctx context.Context, sql string, args ...any) ([]listable.Row, error) {
	rows, err := s.DB.QueryxContext(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []listable.Row{}
	for rows.Next() {
		row := listable.Row{}
		if err := rows.MapScan(row); err != nil {
			return nil, err
		}
		for k, v := range row {
			if b, ok := v.([]byte); ok {
				row[k] = string(b)
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLite) Count(ctx context.Context, sql string, args ...any) (int64, error) {
	var n int64
	if err := s.DB.GetContext(ctx, &n, sql, args...); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *SQLite) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func (s *SQLite) Close() {
	_ = s.DB.Close()
}
