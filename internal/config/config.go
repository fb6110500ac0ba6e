package config

import (
	"errors"
	"fmt"
	"github.com/joho/godotenv"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds everything a service reads from its environment.
type Config struct {
	Service  string
	Port     string
	LogLevel string

	DB DBConfig

	KafkaBrokers []string
	KafkaTopic   string

	RedisAddr string

	UserServiceURL     string
	UserServiceTimeout time.Duration

	RateLimit float64
	RateBurst int
}

type DBConfig struct {
	Driver  string // "mysql" or "sqlite"
	Host    string
	Port    string
	User    string
	Pass    string
	Name    string
	Path    string // sqlite file
	Retries int
}

// Defaults are the per-service fallbacks used when a key is not set.
type Defaults struct {
	Service    string
	Port       string
	DBName     string
	KafkaTopic string
}

// Load reads an optional .env file and then the process environment.
func Load(d Defaults) (*Config, error) {
	return LoadFile("", d)
}

// LoadFile is Load with an explicit env file; an empty path means ".env".
func LoadFile(path string, d Defaults) (*Config, error) {
	var err error
	if path == "" {
		err = godotenv.Load()
	} else {
		err = godotenv.Load(path)
	}
	if err != nil && !(path == "" && errors.Is(err, fs.ErrNotExist)) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	cfg := &Config{
		Service:  d.Service,
		Port:     getEnv("PORT", d.Port),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		DB: DBConfig{
			Driver:  getEnv("DB_DRIVER", "mysql"),
			Host:    getEnv("DB_HOST", "127.0.0.1"),
			Port:    getEnv("DB_PORT", "3306"),
			User:    getEnv("DB_USER", "root"),
			Pass:    getEnv("DB_PASS", ""),
			Name:    getEnv("DB_NAME", d.DBName),
			Path:    getEnv("DB_PATH", d.DBName+".db"),
			Retries: getInt("DB_CONNECT_RETRIES", 10),
		},
		KafkaBrokers:       splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:         getEnv("KAFKA_TOPIC", d.KafkaTopic),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		UserServiceURL:     strings.TrimRight(getEnv("USER_SERVICE_URL", "http://user-service:8001"), "/"),
		UserServiceTimeout: getDuration("USER_SERVICE_TIMEOUT", 5*time.Second),
		RateLimit:          getFloat("RATE_LIMIT", 20),
		RateBurst:          getInt("RATE_BURST", 40),
	}

	switch cfg.DB.Driver {
	case "mysql", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
	}

	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	f, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return fallback
	}
	return f
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
