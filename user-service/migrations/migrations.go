package migrations

import (
	"context"
	"database/sql"
	"embed"
	"wishlist-microservices/internal/database"
)

//go:embed mysql/*.sql sqlite/*.sql
var migrationsFS embed.FS

// Up creates or upgrades the users, friends and interests tables.
func Up(ctx context.Context, db *sql.DB, driver string) error {
	return database.Migrate(ctx, db, driver, migrationsFS)
}

func Version(ctx context.Context, db *sql.DB, driver string) (int64, error) {
	return database.MigrationVersion(ctx, db, driver, migrationsFS)
}
