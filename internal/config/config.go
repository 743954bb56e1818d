package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
)

// ErrInvalidConfig возвращается при некорректных значениях конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Cache drivers
const (
	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"
)

// Config конфигурация сервиса
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Cache     CacheConfig     `toml:"cache"`
	Redis     RedisConfig     `toml:"redis"`
	Schedule  ScheduleConfig  `toml:"schedule"`
	Booking   BookingConfig   `toml:"booking"`
	Bitrix    BitrixConfig    `toml:"bitrix"`
	Reconcile ReconcileConfig `toml:"reconcile"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// URL строка подключения в формате postgres:// (для golang-migrate)
func (c DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type CacheConfig struct {
	Driver     string `toml:"driver"` // memory | redis
	TTLSeconds int    `toml:"ttl_seconds"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type ScheduleConfig struct {
	MaxApplyDays    int `toml:"max_apply_days"`
	DefaultCapacity int `toml:"default_capacity"`
}

type BookingConfig struct {
	// EnforceCapacity запрещает запись в заполненный слот
	EnforceCapacity bool `toml:"enforce_capacity"`
}

type BitrixConfig struct {
	WebhookURL string `toml:"webhook_url"`
	Timeout    int    `toml:"timeout"` // секунды
	BatchSize  int    `toml:"batch_size"`

	// StatusMap стадия лида в Bitrix24 (STATUS_ID) -> локальный статус записи
	StatusMap map[string]string `toml:"status_map"`
}

// Enabled возвращает true, если задан адрес вебхука
func (c BitrixConfig) Enabled() bool {
	return strings.TrimSpace(c.WebhookURL) != ""
}

type ReconcileConfig struct {
	Enabled           bool `toml:"enabled"`
	SyncIntervalSec   int  `toml:"sync_interval_seconds"`
	ExpireIntervalSec int  `toml:"expire_interval_seconds"`
	DedupeIntervalSec int  `toml:"dedupe_interval_seconds"`
	LookbackDays      int  `toml:"lookback_days"`
}

// Load читает конфигурацию из файла
// Переменная окружения CONFIG_PATH переопределяет путь
func Load(path string) (*Config, error) {
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		path = envPath
	}

	cfg := defaults()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Parse разбирает конфигурацию из строки (используется в тестах)
func Parse(data string) (*Config, error) {
	cfg := defaults()
	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "office-scheduler",
		},
		Cache: CacheConfig{
			Driver:     CacheDriverMemory,
			TTLSeconds: domain.DefaultCacheTTLSeconds,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Schedule: ScheduleConfig{
			MaxApplyDays:    domain.DefaultMaxApplyDays,
			DefaultCapacity: domain.DefaultSlotCapacity,
		},
		Booking: BookingConfig{
			EnforceCapacity: true,
		},
		Bitrix: BitrixConfig{
			Timeout:   10,
			BatchSize: domain.DefaultBitrixBatchSize,
		},
		Reconcile: ReconcileConfig{
			SyncIntervalSec:   300,
			ExpireIntervalSec: 3600,
			DedupeIntervalSec: 3600,
			LookbackDays:      domain.DefaultLeadLookbackDays,
		},
	}
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port %d", ErrInvalidConfig, c.Server.HTTPPort)
	}

	switch c.Cache.Driver {
	case CacheDriverMemory, CacheDriverRedis:
	default:
		return fmt.Errorf("%w: cache.driver %q", ErrInvalidConfig, c.Cache.Driver)
	}

	if c.Cache.TTLSeconds <= 0 {
		return fmt.Errorf("%w: cache.ttl_seconds must be positive", ErrInvalidConfig)
	}

	if c.Schedule.MaxApplyDays <= 0 {
		return fmt.Errorf("%w: schedule.max_apply_days must be positive", ErrInvalidConfig)
	}

	if c.Schedule.DefaultCapacity < 0 || c.Schedule.DefaultCapacity > domain.MaxSlotCapacity {
		return fmt.Errorf("%w: schedule.default_capacity %d", ErrInvalidConfig, c.Schedule.DefaultCapacity)
	}

	if c.Bitrix.BatchSize <= 0 {
		return fmt.Errorf("%w: bitrix.batch_size must be positive", ErrInvalidConfig)
	}

	for stage, status := range c.Bitrix.StatusMap {
		if _, err := domain.ParseAppointmentStatus(status); err != nil {
			return fmt.Errorf("%w: bitrix.status_map[%s]: %v", ErrInvalidConfig, stage, err)
		}
	}

	if c.Reconcile.Enabled {
		if c.Reconcile.SyncIntervalSec <= 0 || c.Reconcile.ExpireIntervalSec <= 0 || c.Reconcile.DedupeIntervalSec <= 0 {
			return fmt.Errorf("%w: reconcile intervals must be positive", ErrInvalidConfig)
		}
	}

	if c.Reconcile.LookbackDays < 0 {
		return fmt.Errorf("%w: reconcile.lookback_days must not be negative", ErrInvalidConfig)
	}

	return nil
}
