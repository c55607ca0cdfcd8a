package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"hunt/api-gateway/utils"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverSupabase = "supabase"
)

// Config holds the runtime settings of the API. Values come from defaults, an optional
// YAML file named by CONFIG_FILE, and environment variables, in increasing priority.
type Config struct {
	Port            string        `yaml:"port" validate:"required,numeric"`
	StoreDriver     string        `yaml:"store_driver" validate:"oneof=postgres sqlite supabase"`
	DatabaseURL     string        `yaml:"database_url" validate:"required_if=StoreDriver postgres"`
	SQLitePath      string        `yaml:"sqlite_path" validate:"required_if=StoreDriver sqlite"`
	SupabaseURL     string        `yaml:"supabase_url" validate:"required_if=StoreDriver supabase"`
	SupabaseKey     string        `yaml:"supabase_service_key" validate:"required_if=StoreDriver supabase"`
	DBMaxOpenConns  int           `yaml:"db_max_open_conns" validate:"gte=0"`
	DBMaxIdleConns  int           `yaml:"db_max_idle_conns" validate:"gte=0"`
	DBConnMaxLife   time.Duration `yaml:"db_conn_max_lifetime" validate:"gte=0"`
	RequestTimeout  time.Duration `yaml:"request_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
	ReadTimeout     time.Duration `yaml:"http_read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `yaml:"http_write_timeout" validate:"gte=0"`
	IdleTimeout     time.Duration `yaml:"http_idle_timeout" validate:"gte=0"`
	BodyLimit       int           `yaml:"http_body_limit" validate:"gt=0"`
	LogLevel        string        `yaml:"log_level" validate:"oneof=trace debug info warn warning error"`
	LogFormat       string        `yaml:"log_format" validate:"oneof=json text"`
	GRPCHealthAddr  string        `yaml:"grpc_health_addr"`
}

func defaults() *Config {
	return &Config{
		Port:            "8080",
		StoreDriver:     DriverSQLite,
		SQLitePath:      "hunt.sqlite",
		DBMaxOpenConns:  25,
		DBMaxIdleConns:  10,
		DBConnMaxLife:   30 * time.Minute,
		RequestTimeout:  10 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		IdleTimeout:     60 * time.Second,
		BodyLimit:       16 << 20,
		LogLevel:        "info",
		LogFormat:       "json",
	}
}

// Load reads .env (if present), the optional YAML file and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.StoreDriver = strings.ToLower(getEnv("STORE_DRIVER", cfg.StoreDriver))
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.SQLitePath = getEnv("SQLITE_PATH", cfg.SQLitePath)
	cfg.SupabaseURL = getEnv("SUPABASE_URL", cfg.SupabaseURL)
	cfg.SupabaseKey = getEnv("SUPABASE_SERVICE_KEY", cfg.SupabaseKey)
	cfg.DBMaxOpenConns = getInt("DB_MAX_OPEN_CONNS", cfg.DBMaxOpenConns)
	cfg.DBMaxIdleConns = getInt("DB_MAX_IDLE_CONNS", cfg.DBMaxIdleConns)
	cfg.DBConnMaxLife = getDuration("DB_CONN_MAX_LIFETIME", cfg.DBConnMaxLife)
	cfg.RequestTimeout = getDuration("REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.ShutdownTimeout = getDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	cfg.ReadTimeout = getDuration("HTTP_READ_TIMEOUT", cfg.ReadTimeout)
	cfg.WriteTimeout = getDuration("HTTP_WRITE_TIMEOUT", cfg.WriteTimeout)
	cfg.IdleTimeout = getDuration("HTTP_IDLE_TIMEOUT", cfg.IdleTimeout)
	cfg.BodyLimit = getInt("HTTP_BODY_LIMIT", cfg.BodyLimit)
	cfg.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(getEnv("LOG_FORMAT", cfg.LogFormat))
	cfg.GRPCHealthAddr = getEnv("GRPC_HEALTH_ADDR", cfg.GRPCHealthAddr)
}

// Validate checks the settings required by the selected store driver.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	return fmt.Errorf("invalid config: %s", strings.Join(utils.FormatValidationErrors(verrs), "; "))
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}
