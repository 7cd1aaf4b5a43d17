package db

import (
	"context"
	"fmt"

	"ListableAPI/internal/listable"
)

// Store is a listable.Store the process owns and must close.
type Store interface {
	listable.Store
	Ping(ctx context.Context) error
	Close()
}

// Open connects to the store selected by driver ("postgres" or "sqlite").
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "", "postgres", "postgresql":
		return OpenPostgres(ctx, dsn)
	case "sqlite":
		return OpenSQLite(ctx, dsn)
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
}
