// Package config loads service settings from an optional YAML file, a .env
// file, and the process environment, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTPPort string `yaml:"http_port"`
	GRPCPort string `yaml:"grpc_port"`

	Database Database `yaml:"database"`
	Redis    Redis    `yaml:"redis"`
	NATS     NATS     `yaml:"nats"`
	Mongo    Mongo    `yaml:"mongo"`

	JWTSecret string `yaml:"jwt_secret"`
	// LoginURL is where anonymous actors are sent, with ?next=<path>.
	LoginURL    string   `yaml:"login_url"`
	CORSOrigins []string `yaml:"cors_origins"`
	LogLevel    string   `yaml:"log_level"`

	PageSize      int           `yaml:"page_size"`
	IndexCacheTTL time.Duration `yaml:"index_cache_ttl"`
}

type Database struct {
	Driver     string `yaml:"driver"`
	Host       string `yaml:"host"`
	Port       string `yaml:"port"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	Name       string `yaml:"name"`
	MaxConns   int    `yaml:"max_conns"`
	SQLitePath string `yaml:"sqlite_path"`
}

// Redis is disabled when Host is empty; the index cache then lives in
// process memory.
type Redis struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Password string `yaml:"password"`
}

func (r Redis) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// NATS is disabled when Host is empty.
type NATS struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

func (n NATS) URL() string {
	return fmt.Sprintf("nats://%s:%s", n.Host, n.Port)
}

// Mongo is disabled when URI is empty; images are then kept in memory.
type Mongo struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		HTTPPort: "8000",
		GRPCPort: "7001",
		Database: Database{
			Driver:     "postgres",
			Port:       "5432",
			MaxConns:   20,
			SQLitePath: "yatube.db",
		},
		Redis:         Redis{Port: "6379"},
		NATS:          NATS{Port: "4222"},
		Mongo:         Mongo{Database: "yatube"},
		LoginURL:      "/auth/login/",
		LogLevel:      "info",
		PageSize:      10,
		IndexCacheTTL: 20 * time.Second,
	}
}

// Load reads .env (if present), then CONFIG_FILE (if set), then the
// environment.
func Load() (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

type lookupFunc func(string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("HTTP_PORT", &cfg.HTTPPort)
	str("GRPC_PORT", &cfg.GRPCPort)
	str("DB_DRIVER", &cfg.Database.Driver)
	str("DB_HOST", &cfg.Database.Host)
	str("DB_PORT", &cfg.Database.Port)
	str("DB_USER", &cfg.Database.User)
	str("DB_PASSWORD", &cfg.Database.Password)
	str("DB_NAME", &cfg.Database.Name)
	str("SQLITE_PATH", &cfg.Database.SQLitePath)
	str("REDIS_HOST", &cfg.Redis.Host)
	str("REDIS_PORT", &cfg.Redis.Port)
	str("REDIS_PASSWORD", &cfg.Redis.Password)
	str("NATS_HOST", &cfg.NATS.Host)
	str("NATS_PORT", &cfg.NATS.Port)
	str("MONGO_URI", &cfg.Mongo.URI)
	str("MONGO_DB", &cfg.Mongo.Database)
	str("JWT_SECRET", &cfg.JWTSecret)
	str("LOGIN_URL", &cfg.LoginURL)
	str("LOG_LEVEL", &cfg.LogLevel)

	if v, ok := lookup("CORS_ORIGINS"); ok && v != "" {
		cfg.CORSOrigins = nil
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
			}
		}
	}

	ints := map[string]*int{
		"DB_MAX_CONNS": &cfg.Database.MaxConns,
		"PAGE_SIZE":    &cfg.PageSize,
	}
	for key, dst := range ints {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
	}

	if v, ok := lookup("INDEX_CACHE_TTL"); ok && v != "" {
		ttl, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("INDEX_CACHE_TTL: %w", err)
		}
		cfg.IndexCacheTTL = ttl
	}
	return nil
}

// parseDuration accepts Go durations ("20s") and bare seconds ("20").
func parseDuration(v string) (time.Duration, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(v)
}

// Validate rejects settings the service cannot run with.
func (c Config) Validate() error {
	if c.PageSize <= 0 {
		return fmt.Errorf("page size must be positive, got %d", c.PageSize)
	}
	if c.IndexCacheTTL <= 0 {
		return fmt.Errorf("index cache ttl must be positive, got %s", c.IndexCacheTTL)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.LoginURL == "" {
		return fmt.Errorf("login url is required")
	}
	return nil
}
