package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"
	_ "time/tzdata" // зона booking.timezone должна загружаться и в образах без zoneinfo

	"github.com/BurntSushi/toml"
)

// Переменные окружения для секретов
const (
	EnvDatabasePassword = "DD_DATABASE_PASSWORD"
	EnvJWTSecret        = "DD_JWT_SECRET"
	EnvSMTPPassword     = "DD_SMTP_PASSWORD"
)

// ErrInvalidConfig возвращается, когда конфигурация не проходит валидацию
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Redis         RedisConfig         `toml:"redis"`
	Auth          AuthConfig          `toml:"auth"`
	Catalog       CatalogConfig       `toml:"catalog"`
	Booking       BookingConfig       `toml:"booking"`
	Notifications NotificationsConfig `toml:"notifications"`
	RateLimit     RateLimitConfig     `toml:"ratelimit"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки хранилища
type DatabaseConfig struct {
	Driver          string `toml:"driver"`
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	Path            string `toml:"path"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
	AutoMigrate     bool   `toml:"auto_migrate"`
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// RedisConfig настройки redis (кэш доступности и очередь уведомлений)
type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	CacheDB  int    `toml:"cache_db"`
	QueueDB  int    `toml:"queue_db"`
	CacheTTL int    `toml:"cache_ttl"`
}

// AuthConfig настройки проверки JWT
type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
	Leeway    int    `toml:"leeway"`
}

// CatalogConfig источник каталога пакетов и опций
type CatalogConfig struct {
	URL     string `toml:"url"`
	File    string `toml:"file"`
	Timeout int    `toml:"timeout"`
}

// BookingConfig настройки бронирования
type BookingConfig struct {
	Timezone string `toml:"timezone"`
}

// NotificationsConfig настройки email уведомлений
type NotificationsConfig struct {
	Enabled      bool   `toml:"enabled"`
	AdminEmail   string `toml:"admin_email"`
	SMTPHost     string `toml:"smtp_host"`
	SMTPPort     int    `toml:"smtp_port"`
	SMTPUser     string `toml:"smtp_user"`
	SMTPPassword string `toml:"smtp_password"`
	From         string `toml:"from"`
	Concurrency  int    `toml:"concurrency"`
	MetricsPort  int    `toml:"metrics_port"` // порт /metrics у worker
}

// RateLimitConfig ограничение частоты публичных запросов
type RateLimitConfig struct {
	Enabled           bool `toml:"enabled"`
	RequestsPerMinute int  `toml:"requests_per_minute"`
	Burst             int  `toml:"burst"`
}

// Load читает конфигурацию из toml файла, применяет значения по умолчанию
// и переменные окружения, затем валидирует результат
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 30,
		},
		Database: DatabaseConfig{
			Driver:          "postgres",
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			Path:            "data/detailing.db",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			AutoMigrate:     true,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "detailing-service",
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			CacheDB:  0,
			QueueDB:  1,
			CacheTTL: 300,
		},
		Auth: AuthConfig{
			Leeway: 30,
		},
		Catalog: CatalogConfig{
			Timeout: 5,
		},
		Booking: BookingConfig{
			Timezone: "America/New_York",
		},
		Notifications: NotificationsConfig{
			SMTPPort:    587,
			Concurrency: 5,
			MetricsPort: 9091,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 60,
			Burst:             10,
		},
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDatabasePassword); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv(EnvJWTSecret); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv(EnvSMTPPassword); v != "" {
		c.Notifications.SMTPPassword = v
	}
}

// Validate проверяет конфигурацию
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be in 1..65535", ErrInvalidConfig)
	}

	switch c.Database.Driver {
	case "postgres":
		if c.Database.Host == "" || c.Database.DBName == "" {
			return fmt.Errorf("%w: database.host and database.dbname are required for postgres", ErrInvalidConfig)
		}
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("%w: database.path is required for sqlite", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: database.driver must be postgres or sqlite, got %q", ErrInvalidConfig, c.Database.Driver)
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("%w: auth.jwt_secret is required (or %s)", ErrInvalidConfig, EnvJWTSecret)
	}

	if c.Catalog.URL == "" && c.Catalog.File == "" {
		return fmt.Errorf("%w: catalog.url or catalog.file is required", ErrInvalidConfig)
	}

	if _, err := time.LoadLocation(c.Booking.Timezone); err != nil {
		return fmt.Errorf("%w: booking.timezone: %v", ErrInvalidConfig, err)
	}

	if c.Notifications.Enabled {
		if !c.Redis.Enabled {
			return fmt.Errorf("%w: notifications require redis.enabled", ErrInvalidConfig)
		}
		if c.Notifications.SMTPHost == "" || c.Notifications.From == "" {
			return fmt.Errorf("%w: notifications.smtp_host and notifications.from are required", ErrInvalidConfig)
		}
		if c.Notifications.Concurrency <= 0 {
			return fmt.Errorf("%w: notifications.concurrency must be positive", ErrInvalidConfig)
		}
	}

	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerMinute <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("%w: ratelimit values must be positive", ErrInvalidConfig)
	}

	return nil
}

// DSN строка подключения для sql.Open
func (d DatabaseConfig) DSN() string {
	if d.Driver == "sqlite" {
		return SQLiteDSN(d.Path)
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// SQLiteDSN строка подключения к файлу sqlite с нужными pragma
func SQLiteDSN(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_txlock=immediate"
}

// Location временная зона, в которой вычисляется "сегодня"
func (b BookingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// CacheTTLDuration время жизни записей кэша доступности
func (r RedisConfig) CacheTTLDuration() time.Duration {
	return time.Duration(r.CacheTTL) * time.Second
}
