package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	S3     S3Config
	Auth   AuthConfig
	Log    LogConfig
	Parser ParserConfig
	CORS   CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings for the bill-history store.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds object-storage settings for uploaded bill documents.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// AuthConfig holds service bearer-token settings. When Secret is empty the
// API runs unauthenticated (local/development use).
type AuthConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ParserProviderConfig holds settings for a single LLM parser provider.
type ParserProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// ParserConfig holds LLM bill parser settings with an optional fallback
// provider.
type ParserConfig struct {
	Primary   ParserProviderConfig `mapstructure:"primary"`
	Secondary ParserProviderConfig `mapstructure:"secondary"`
	MaxTokens int                  `mapstructure:"max_tokens"`
}

// SecondaryConfig returns the fallback provider config, or nil if not configured.
func (p *ParserConfig) SecondaryConfig() *ParserProviderConfig {
	if p.Secondary.Provider != "" {
		return &p.Secondary
	}
	return nil
}

// Load reads configuration from environment variables with the GRIDBILL_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("GRIDBILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "gridbill")
	v.SetDefault("db.password", "gridbill_secret")
	v.SetDefault("db.name", "gridbill_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "gridbill-uploads")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 25)
	v.SetDefault("s3.presign_expiry", 3600)

	// Auth defaults (empty secret = auth disabled)
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.issuer", "gridbill")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Parser defaults
	v.SetDefault("parser.max_tokens", 1000)
	v.SetDefault("parser.primary.provider", "openai")
	v.SetDefault("parser.primary.api_key", "")
	v.SetDefault("parser.primary.default_model", "gpt-4o")
	v.SetDefault("parser.primary.timeout_secs", 120)
	v.SetDefault("parser.secondary.provider", "")
	v.SetDefault("parser.secondary.api_key", "")
	v.SetDefault("parser.secondary.default_model", "")
	v.SetDefault("parser.secondary.timeout_secs", 120)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                    "GRIDBILL_SERVER_PORT",
		"server.read_timeout":            "GRIDBILL_SERVER_READ_TIMEOUT",
		"server.write_timeout":           "GRIDBILL_SERVER_WRITE_TIMEOUT",
		"server.environment":             "GRIDBILL_SERVER_ENVIRONMENT",
		"db.host":                        "GRIDBILL_DB_HOST",
		"db.port":                        "GRIDBILL_DB_PORT",
		"db.user":                        "GRIDBILL_DB_USER",
		"db.password":                    "GRIDBILL_DB_PASSWORD",
		"db.name":                        "GRIDBILL_DB_NAME",
		"db.sslmode":                     "GRIDBILL_DB_SSLMODE",
		"db.max_open":                    "GRIDBILL_DB_MAX_OPEN",
		"db.max_idle":                    "GRIDBILL_DB_MAX_IDLE",
		"s3.region":                      "GRIDBILL_S3_REGION",
		"s3.bucket":                      "GRIDBILL_S3_BUCKET",
		"s3.endpoint":                    "GRIDBILL_S3_ENDPOINT",
		"s3.access_key":                  "GRIDBILL_S3_ACCESS_KEY",
		"s3.secret_key":                  "GRIDBILL_S3_SECRET_KEY",
		"s3.max_file_size_mb":            "GRIDBILL_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":              "GRIDBILL_S3_PRESIGN_EXPIRY",
		"auth.secret":                    "GRIDBILL_AUTH_SECRET",
		"auth.issuer":                    "GRIDBILL_AUTH_ISSUER",
		"log.level":                      "GRIDBILL_LOG_LEVEL",
		"log.format":                     "GRIDBILL_LOG_FORMAT",
		"cors.allowed_origins":           "GRIDBILL_CORS_ALLOWED_ORIGINS",
		"parser.max_tokens":              "GRIDBILL_PARSER_MAX_TOKENS",
		"parser.primary.provider":        "GRIDBILL_PARSER_PRIMARY_PROVIDER",
		"parser.primary.api_key":         "GRIDBILL_PARSER_PRIMARY_API_KEY",
		"parser.primary.default_model":   "GRIDBILL_PARSER_PRIMARY_DEFAULT_MODEL",
		"parser.primary.timeout_secs":    "GRIDBILL_PARSER_PRIMARY_TIMEOUT_SECS",
		"parser.secondary.provider":      "GRIDBILL_PARSER_SECONDARY_PROVIDER",
		"parser.secondary.api_key":       "GRIDBILL_PARSER_SECONDARY_API_KEY",
		"parser.secondary.default_model": "GRIDBILL_PARSER_SECONDARY_DEFAULT_MODEL",
		"parser.secondary.timeout_secs":  "GRIDBILL_PARSER_SECONDARY_TIMEOUT_SECS",
	}
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding env %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Viper reads comma-separated origins from env as a single string.
	if len(cfg.CORS.AllowedOrigins) == 1 && strings.Contains(cfg.CORS.AllowedOrigins[0], ",") {
		cfg.CORS.AllowedOrigins = strings.Split(cfg.CORS.AllowedOrigins[0], ",")
	}

	return &cfg, nil
}
