package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port        string   `yaml:"port"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`
	Storage struct {
		Driver     string `yaml:"driver"` // memory | sqlite | postgres
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"storage"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Quiz struct {
		DataDir        string `yaml:"data_dir"`
		Source         string `yaml:"source"` // fs | postgres | memory
		CacheTTL       string `yaml:"cache_ttl"`
		SetTTL         string `yaml:"set_ttl"`
		CatalogRefresh string `yaml:"catalog_refresh"`
	} `yaml:"quiz"`
	Auth struct {
		Secret   string `yaml:"secret"`
		TokenTTL string `yaml:"token_ttl"`
	} `yaml:"auth"`
}

const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"

	SourceFS       = "fs"
	SourcePostgres = "postgres"
	// SourceMemory snapshots the data_dir tree once at startup.
	SourceMemory   = "memory"
)

// Default returns the configuration used when no file is present.
func Default() Config {
	var cfg Config
	cfg.Server.Port = "8080"
	cfg.Storage.Driver = StorageMemory
	cfg.Storage.SQLitePath = "codemcq.db"
	cfg.Quiz.DataDir = "data"
	cfg.Quiz.Source = SourceFS
	cfg.Quiz.CacheTTL = "10m"
	cfg.Quiz.SetTTL = "2h"
	cfg.Quiz.CatalogRefresh = "5m"
	cfg.Auth.Secret = "dev-secret-change-me"
	cfg.Auth.TokenTTL = "24h"
	return cfg
}

// Load reads YAML config from path over the defaults. A missing file is not
// an error. Environment variables override file values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

// LoadDotEnv loads .env files into the process environment without
// overriding variables that are already set.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("STORAGE_DRIVER"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.URL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = db
		}
	}
	if v := os.Getenv("AUTH_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}
	if v := os.Getenv("QUIZ_SOURCE"); v != "" {
		cfg.Quiz.Source = v
	}
	if v := os.Getenv("QUIZ_DATA_DIR"); v != "" {
		cfg.Quiz.DataDir = v
	}
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
