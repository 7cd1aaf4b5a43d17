package itests

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"ListableAPI/internal"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// StartTestDB возвращает DSN мигрированной базы. DATABASE_URL указывает на
// существующий сервер, иначе поднимается контейнер postgres. teardown
// останавливает контейнер, если он был запущен.
func StartTestDB(ctx context.Context) (dsn string, teardown func(), err error) {
	// ещё одна защита от запуска в проде
	if os.Getenv("APP_ENV") == "production" {
		return "", nil, errors.New("APP_ENV=production: aborting tests")
	}

	teardown = func() {}
	dsn = os.Getenv("DATABASE_URL")
	if dsn == "" {
		container, err := tcpostgres.Run(ctx,
			"postgres:16-alpine",
			tcpostgres.WithDatabase("listable_test"),
			tcpostgres.WithUsername("listable"),
			tcpostgres.WithPassword("listable"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second)),
		)
		if err != nil {
			return "", nil, fmt.Errorf("start postgres container: %w", err)
		}
		teardown = func() { _ = container.Terminate(context.Background()) }

		if dsn, err = container.ConnectionString(ctx, "sslmode=disable"); err != nil {
			teardown()
			return "", nil, fmt.Errorf("connection string: %w", err)
		}
	}

	if err := applyMigrationsFromDir(dsn); err != nil {
		teardown()
		return "", nil, fmt.Errorf("%w (dsn %s)", err, redactDSN(dsn))
	}
	return dsn, teardown, nil
}

func applyMigrationsFromDir(dsn string) error {
	root, err := internal.FindRepoRoot()
	if err != nil {
		return fmt.Errorf("repo root not found: %w", err)
	}
	abs, err := filepath.Abs(filepath.Join(root, "migrations"))
	if err != nil {
		return fmt.Errorf("abs migrations: %w", err)
	}
	// golang-migrate с file:// требует абсолютный путь и прямые слэши
	src := "file://" + filepath.ToSlash(abs)

	m, err := migrate.New(src, dsn)
	if err != nil {
		return fmt.Errorf("migrate.New: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	username := u.User.Username()
	if username == "" {
		return dsn
	}
	u.User = url.UserPassword(username, "******")
	return u.String()
}
