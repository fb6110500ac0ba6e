package database

import (
	"context"
	"database/sql"
	"fmt"
	"github.com/pressly/goose/v3"
	"io/fs"
)

// Migrate applies the pending goose migrations found under the driver's
// directory of fsys ("mysql/" or "sqlite/").
func Migrate(ctx context.Context, db *sql.DB, driver string, fsys fs.FS) error {
	provider, err := newProvider(db, driver, fsys)
	if err != nil {
		return err
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	for _, r := range results {
		logger.Info().Int64("version", r.Source.Version).Dur("took", r.Duration).Msg("applied migration")
	}
	return nil
}

// MigrationVersion reports the schema version recorded in the database.
func MigrationVersion(ctx context.Context, db *sql.DB, driver string, fsys fs.FS) (int64, error) {
	provider, err := newProvider(db, driver, fsys)
	if err != nil {
		return 0, err
	}
	return provider.GetDBVersion(ctx)
}

func newProvider(db *sql.DB, driver string, fsys fs.FS) (*goose.Provider, error) {
	var dialect goose.Dialect
	switch driver {
	case "mysql":
		dialect = goose.DialectMySQL
	case "sqlite":
		dialect = goose.DialectSQLite3
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	sub, err := fs.Sub(fsys, driver)
	if err != nil {
		return nil, err
	}
	return goose.NewProvider(dialect, db, sub)
}
