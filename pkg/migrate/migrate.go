package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/pressly/goose/v3"
)

const DefaultDir = "pkg/migrate/migrations"

// Migrations use Postgres types (uuid, numeric, partial indexes).
const dialect = "postgres"

func prepare(db *sql.DB, dir string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	if dir == "" {
		return fmt.Errorf("dir is required")
	}
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return nil
}

// Run executes a goose command (up, down, status, redo, reset, up-by-one).
// Files are validated first so a float money column never reaches the DB.
func Run(ctx context.Context, db *sql.DB, dir string, command string, args ...string) error {
	if err := prepare(db, dir); err != nil {
		return err
	}
	if command == "up" || command == "up-by-one" || command == "redo" {
		if err := ValidateDir(dir); err != nil {
			return fmt.Errorf("validate migrations: %w", err)
		}
	}
	if err := goose.RunContext(ctx, command, db, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// MigrateToVersion moves the schema up or down until it sits at version.
func MigrateToVersion(ctx context.Context, db *sql.DB, dir string, version string) error {
	target, err := strconv.ParseInt(version, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", version, err)
	}
	if err := prepare(db, dir); err != nil {
		return err
	}
	current, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}

	switch {
	case target > current:
		err = goose.UpToContext(ctx, db, dir, target)
	case target < current:
		err = goose.DownToContext(ctx, db, dir, target)
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("goose migrate %d -> %d: %w", current, target, err)
	}
	return nil
}

// Pending returns the migrations in dir newer than the database version.
func Pending(ctx context.Context, db *sql.DB, dir string) ([]Migration, error) {
	if err := prepare(db, dir); err != nil {
		return nil, err
	}
	all, err := Scan(dir)
	if err != nil {
		return nil, err
	}
	current, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("get db version: %w", err)
	}
	pending := all[:0:0]
	for _, m := range all {
		if m.Version > current {
			pending = append(pending, m)
		}
	}
	return pending, nil
}
