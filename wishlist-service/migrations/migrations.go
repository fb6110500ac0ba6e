package migrations

import (
	"context"
	"database/sql"
	"embed"
	"wishlist-microservices/internal/database"
)

//go:embed mysql/*.sql sqlite/*.sql
var migrationsFS embed.FS

// Up creates or upgrades the wishlists and gifts tables.
func Up(ctx context.Context, db *sql.DB, driver string) error {
	return database.Migrate(ctx, db, driver, migrationsFS)
}
