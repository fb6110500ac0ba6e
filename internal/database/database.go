package database

import (
	"context"
	"database/sql"
	"fmt"
	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
	"os"
	"time"
	"wishlist-microservices/internal/config"

	_ "modernc.org/sqlite"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "database").Logger()

// retryDelay is the pause between connection attempts.
var retryDelay = 3 * time.Second

// Open connects to the configured store and pings it, retrying while the
// database container is still coming up.
func Open(ctx context.Context, cfg config.DBConfig) (*sql.DB, error) {
	driver, dsn := cfg.Driver, ""
	switch cfg.Driver {
	case "mysql":
		dsn = MySQLDSN(cfg)
	case "sqlite":
		dsn = SQLiteDSN(cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}

	retries := cfg.Retries
	if retries < 1 {
		retries = 1
	}

	var db *sql.DB
	var err error
	for i := 0; i < retries; i++ {
		db, err = sql.Open(driver, dsn)
		if err == nil {
			err = db.PingContext(ctx)
			if err == nil {
				configurePool(db, driver)
				logger.Info().Str("driver", driver).Msgf("Connected to DB %s", cfg.Name)
				return db, nil
			}
			db.Close()
		}
		logger.Warn().Err(err).Msgf("Retry %d: failed to connect to DB %s", i+1, cfg.Name)
		if i == retries-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	return nil, fmt.Errorf("failed to connect to DB %s after %d attempts: %w", cfg.Name, retries, err)
}

// OpenSQLite opens a sqlite file without retries. Used for local runs and tests.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", SQLiteDSN(path))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	configurePool(db, "sqlite")
	return db, nil
}

// MySQLDSN builds a go-sql-driver DSN from the config.
func MySQLDSN(cfg config.DBConfig) string {
	c := mysql.NewConfig()
	c.User = cfg.User
	c.Passwd = cfg.Pass
	c.Net = "tcp"
	c.Addr = cfg.Host + ":" + cfg.Port
	c.DBName = cfg.Name
	c.ParseTime = true
	return c.FormatDSN()
}

func SQLiteDSN(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)"
}

func configurePool(db *sql.DB, driver string) {
	if driver == "sqlite" {
		// a single writer avoids SQLITE_BUSY between pooled connections
		db.SetMaxOpenConns(1)
		return
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
}
