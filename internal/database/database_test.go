package database

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"wishlist-microservices/internal/config"

	"github.com/go-sql-driver/mysql"
)

func TestOpenSQLiteFromConfig(t *testing.T) {
	ctx := context.Background()
	cfg := config.DBConfig{Driver: "sqlite", Name: "user_db", Path: filepath.Join(t.TempDir(), "user.db"), Retries: 1}

	db, err := Open(ctx, cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, `CREATE TABLE things (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL UNIQUE)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO things (name) VALUES (?)`, "a"); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	_, err = db.ExecContext(ctx, `INSERT INTO things (name) VALUES (?)`, "a")
	if !IsDuplicateKey(err) {
		t.Fatalf("expected duplicate key error, got %v", err)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), config.DBConfig{Driver: "oracle"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestIsDuplicateKeyMySQL(t *testing.T) {
	if !IsDuplicateKey(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'alice'"}) {
		t.Fatalf("1062 should be a duplicate key")
	}
	if IsDuplicateKey(&mysql.MySQLError{Number: 1146, Message: "Table doesn't exist"}) {
		t.Fatalf("1146 should not be a duplicate key")
	}
	if IsDuplicateKey(nil) || IsDuplicateKey(errors.New("boom")) {
		t.Fatalf("unrelated errors should not be duplicate keys")
	}
}

func TestMySQLDSN(t *testing.T) {
	dsn := MySQLDSN(config.DBConfig{Host: "user-db", Port: "3306", User: "root", Pass: "secret", Name: "user_db"})
	if !strings.HasPrefix(dsn, "root:secret@tcp(user-db:3306)/user_db") {
		t.Fatalf("unexpected dsn %q", dsn)
	}
	if !strings.Contains(dsn, "parseTime=true") {
		t.Fatalf("dsn should enable parseTime: %q", dsn)
	}
}
