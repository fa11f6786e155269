// Package db opens the SQL database behind the user and product stores and
// applies the embedded schema migrations.
package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrations embed.FS

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	// memoryDSN is a private in-memory SQLite database. It only survives as
	// long as its single connection does.
	memoryDSN = ":memory:"

	pingTimeout = 5 * time.Second
)

// Open connects to the database for driver, checks the connection and runs
// pending migrations. An empty DSN with the sqlite driver opens a transient
// in-memory database.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	var (
		database *sql.DB
		err      error
	)

	switch driver {
	case DriverSQLite:
		if dsn == "" {
			dsn = memoryDSN
		}
		database, err = sql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		// One connection: an in-memory database is per-connection, and it
		// serializes writers the way SQLite wants anyway.
		database.SetMaxOpenConns(1)
		database.SetMaxIdleConns(1)
		database.SetConnMaxLifetime(0)
		database.SetConnMaxIdleTime(0)
	case DriverPostgres:
		if dsn == "" {
			return nil, fmt.Errorf("postgres DSN is empty")
		}
		database, err = sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := database.PingContext(pingCtx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(ctx, database, driver); err != nil {
		database.Close()
		return nil, err
	}

	return database, nil
}

// Migrate applies all pending up migrations for driver.
func Migrate(ctx context.Context, database *sql.DB, driver string) error {
	dialect, dir, err := dialectFor(driver)
	if err != nil {
		return err
	}

	fsys, err := fs.Sub(migrations, dir)
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	provider, err := goose.NewProvider(dialect, database, fsys)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func dialectFor(driver string) (goose.Dialect, string, error) {
	switch driver {
	case DriverSQLite:
		return goose.DialectSQLite3, "migrations/sqlite", nil
	case DriverPostgres:
		return goose.DialectPostgres, "migrations/postgres", nil
	}
	return "", "", fmt.Errorf("no migrations for driver %q", driver)
}
