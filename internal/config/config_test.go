package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var testDefaults = Defaults{Service: "user-service", Port: "8001", DBName: "user_db", KafkaTopic: "user-topic"}

func TestLoadUsesDefaultsWhenUnset(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{"PORT", "DB_DRIVER", "DB_NAME", "KAFKA_BROKERS", "USER_SERVICE_TIMEOUT", "RATE_LIMIT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load(testDefaults)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr() != ":8001" {
		t.Fatalf("unexpected addr %q", cfg.Addr())
	}
	if cfg.DB.Driver != "mysql" || cfg.DB.Name != "user_db" || cfg.DB.Path != "user_db.db" {
		t.Fatalf("unexpected db config %+v", cfg.DB)
	}
	if len(cfg.KafkaBrokers) != 0 {
		t.Fatalf("expected no brokers, got %v", cfg.KafkaBrokers)
	}
	if cfg.KafkaTopic != "user-topic" {
		t.Fatalf("unexpected topic %q", cfg.KafkaTopic)
	}
	if cfg.UserServiceTimeout != 5*time.Second {
		t.Fatalf("unexpected timeout %s", cfg.UserServiceTimeout)
	}
	if cfg.RateLimit != 20 || cfg.RateBurst != 40 {
		t.Fatalf("unexpected rate limit %v/%d", cfg.RateLimit, cfg.RateBurst)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "9000")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("USER_SERVICE_URL", "http://users.local:8001/")
	t.Setenv("USER_SERVICE_TIMEOUT", "750ms")
	t.Setenv("RATE_LIMIT", "0")

	cfg, err := Load(testDefaults)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9000" || cfg.DB.Driver != "sqlite" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "k2:9092" {
		t.Fatalf("unexpected brokers %v", cfg.KafkaBrokers)
	}
	if cfg.UserServiceURL != "http://users.local:8001" {
		t.Fatalf("trailing slash not trimmed: %q", cfg.UserServiceURL)
	}
	if cfg.UserServiceTimeout != 750*time.Millisecond {
		t.Fatalf("unexpected timeout %s", cfg.UserServiceTimeout)
	}
	if cfg.RateLimit != 0 {
		t.Fatalf("expected rate limit disabled, got %v", cfg.RateLimit)
	}
}

func TestLoadFileReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "service.env")
	if err := os.WriteFile(path, []byte("REDIS_ADDR=redis:6379\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("REDIS_ADDR", "")
	os.Unsetenv("REDIS_ADDR")

	cfg, err := LoadFile(path, testDefaults)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RedisAddr != "redis:6379" {
		t.Fatalf("expected redis addr from file, got %q", cfg.RedisAddr)
	}
}

func TestLoadFileMissingExplicitPathFails(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.env"), testDefaults); err == nil {
		t.Fatalf("expected error for missing env file")
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DB_DRIVER", "oracle")
	if _, err := Load(testDefaults); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}
