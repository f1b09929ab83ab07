package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/avisosapp/push-backend/pkg/config"
	"github.com/pressly/goose/v3"
)

const DefaultDir = "pkg/migrate/migrations"

// DialectFor maps the configured driver to the goose dialect name.
func DialectFor(cfg config.DBConfig) string {
	if cfg.IsSQLite() {
		return "sqlite3"
	}
	return "postgres"
}

// DirFor picks the migration set for the configured driver. The DDL is kept
// per-dialect because the id and timestamp column types differ between
// sqlite and postgres.
func DirFor(cfg config.DBConfig) string {
	if cfg.IsSQLite() {
		return filepath.Join(DefaultDir, "sqlite")
	}
	return filepath.Join(DefaultDir, "postgres")
}

// Run executes a standard goose command that requires a DB connection.
func Run(ctx context.Context, db *sql.DB, dir, dialect, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	if dir == "" {
		return fmt.Errorf("dir is required")
	}

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	// RunContext prints status output to stdout (goose internal)
	if err := goose.RunContext(ctx, command, db, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
