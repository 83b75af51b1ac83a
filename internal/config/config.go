package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config aggregates application settings that may be sourced from files or environment variables.
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Google   GoogleConfig   `mapstructure:"google"`
	Session  SessionConfig  `mapstructure:"session"`
	AI       AIConfig       `mapstructure:"ai"`
	Clamd    ClamdConfig    `mapstructure:"clamd"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Limits   LimitsConfig   `mapstructure:"limits"`
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	FrontendURL    string   `mapstructure:"frontend_url"`
	CookieDomain   string   `mapstructure:"cookie_domain"`
}

// DatabaseConfig contains connection options for PostgreSQL.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig 包含 Redis 连接配置。
type RedisConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// MinIOConfig contains connection options for MinIO/S3-compatible storage.
type MinIOConfig struct {
	Endpoint         string `mapstructure:"endpoint"`
	AccessKeyID      string `mapstructure:"access_key_id"`
	SecretAccessKey  string `mapstructure:"secret_access_key"`
	UseSSL           bool   `mapstructure:"use_ssl"`
	Bucket           string `mapstructure:"bucket"`
	AutoCreateBucket bool   `mapstructure:"auto_create_bucket"`
}

// GoogleConfig contains the OAuth client credentials.
type GoogleConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
}

// SessionConfig 包含会话 Cookie 的签名密钥与有效期。
type SessionConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

// AIConfig points at the external AI service (chat / quiz generation / CV parsing).
type AIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ClamdConfig contains the clamd TCP address. Empty disables upload scanning.
type ClamdConfig struct {
	Addr string `mapstructure:"addr"`
}

// UploadConfig limits CV attachment uploads.
type UploadConfig struct {
	MaxBytes      int64    `mapstructure:"max_bytes"`
	MIMEWhitelist []string `mapstructure:"mime_whitelist"`
}

// LimitsConfig 限制外部 AI 服务的调用频率。
type LimitsConfig struct {
	QuizPerHour int `mapstructure:"quiz_per_hour"`
}

// DSN builds a lib/pq compatible connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
		d.SSLMode,
	)
}

// Addr returns host:port for the Redis client.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Load reads configuration solely from environment variables (with optional defaults).
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.allowed_origins", "http://localhost:3000")
	v.SetDefault("api.frontend_url", "http://localhost:3000")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "jobhelper")
	v.SetDefault("database.user", "jobhelper")
	v.SetDefault("database.password", "jobhelper")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.bucket", "jobhelper-cv")
	v.SetDefault("minio.auto_create_bucket", true)
	v.SetDefault("session.ttl", "24h")
	v.SetDefault("ai.base_url", "http://localhost:8000")
	v.SetDefault("ai.timeout", "60s")
	v.SetDefault("upload.max_bytes", 10*1024*1024)
	v.SetDefault("upload.mime_whitelist", "application/pdf")
	v.SetDefault("limits.quiz_per_hour", 20)
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"api.port":                 "API_PORT",
		"api.allowed_origins":      "API_ALLOWED_ORIGINS",
		"api.frontend_url":         "API_FRONTEND_URL",
		"api.cookie_domain":        "API_COOKIE_DOMAIN",
		"database.host":            "DATABASE_HOST",
		"database.port":            "DATABASE_PORT",
		"database.name":            "POSTGRES_DB",
		"database.user":            "POSTGRES_USER",
		"database.password":        "POSTGRES_PASSWORD",
		"database.sslmode":         "DATABASE_SSLMODE",
		"redis.host":               "REDIS_HOST",
		"redis.port":               "REDIS_PORT",
		"minio.endpoint":           "MINIO_ENDPOINT",
		"minio.access_key_id":      "MINIO_ACCESS_KEY_ID",
		"minio.secret_access_key":  "MINIO_SECRET_ACCESS_KEY",
		"minio.use_ssl":            "MINIO_USE_SSL",
		"minio.bucket":             "MINIO_BUCKET",
		"minio.auto_create_bucket": "MINIO_AUTO_CREATE_BUCKET",
		"google.client_id":         "GOOGLE_CLIENT_ID",
		"google.client_secret":     "GOOGLE_CLIENT_SECRET",
		"google.redirect_url":      "GOOGLE_REDIRECT_URL",
		"session.secret":           "SESSION_SECRET",
		"session.ttl":              "SESSION_TTL",
		"ai.base_url":              "AI_BASE_URL",
		"ai.timeout":               "AI_TIMEOUT",
		"clamd.addr":               "CLAMD_ADDR",
		"upload.max_bytes":         "UPLOAD_MAX_BYTES",
		"upload.mime_whitelist":    "UPLOAD_MIME_WHITELIST",
		"limits.quiz_per_hour":     "QUIZ_RATE_LIMIT_PER_HOUR",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

func validate(cfg Config) error {
	if cfg.API.Port <= 0 {
		return errors.New("api port must be positive")
	}
	if cfg.API.FrontendURL == "" {
		return errors.New("frontend url is required")
	}
	if cfg.Database.Host == "" {
		return errors.New("database host is required")
	}
	if cfg.Database.Port <= 0 {
		return errors.New("database port must be positive")
	}
	if cfg.Database.Name == "" {
		return errors.New("database name is required")
	}
	if cfg.Database.User == "" {
		return errors.New("database user is required")
	}
	if cfg.Database.Password == "" {
		return errors.New("database password is required")
	}
	if cfg.Database.SSLMode == "" {
		return errors.New("database sslmode is required")
	}
	if cfg.Redis.Host == "" {
		return errors.New("redis host is required")
	}
	if cfg.Redis.Port <= 0 {
		return errors.New("redis port must be positive")
	}
	if cfg.MinIO.Endpoint == "" {
		return errors.New("minio endpoint is required")
	}
	if cfg.MinIO.Bucket == "" {
		return errors.New("minio bucket is required")
	}
	if cfg.Google.ClientID == "" {
		return errors.New("google client id is required")
	}
	if cfg.Google.ClientSecret == "" {
		return errors.New("google client secret is required")
	}
	if cfg.Google.RedirectURL == "" {
		return errors.New("google redirect url is required")
	}
	if cfg.Session.Secret == "" {
		return errors.New("session secret is required")
	}
	if cfg.Session.TTL <= 0 {
		return errors.New("session ttl must be positive")
	}
	if cfg.AI.BaseURL == "" {
		return errors.New("ai base url is required")
	}
	if cfg.Upload.MaxBytes <= 0 {
		return errors.New("upload max bytes must be positive")
	}
	return nil
}
