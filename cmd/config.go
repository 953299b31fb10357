package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"catering/internal/core/application/usecases/commands"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CachePrefix   string
	CacheTTL      time.Duration

	// RabbitMQURL selects the RabbitMQ task queue; empty runs tasks in process.
	RabbitMQURL    string
	WorkersPerLane int

	SilpoBaseURL    string
	KFCBaseURL      string
	UklonBaseURL    string
	ProviderTimeout time.Duration
	// ProvidersFile is an optional yaml catalog overriding the provider settings above.
	ProvidersFile string

	PollInterval       time.Duration
	SubOrderTimeout    time.Duration
	DeliveryTimeout    time.Duration
	TrackingTTL        time.Duration
	MaxConcurrentPolls int64
	KFCWebhookSecret   string

	OpenAIAPIKey           string
	OpenAIModel            string
	OpenAIBaseURL          string
	RecommendationSchedule string

	LogLevel  slog.Level
	LogFormat string
}

// LoadConfig reads the configuration through getenv. Unset values keep their
// defaults; malformed numbers and durations are reported together.
func LoadConfig(getenv func(string) string) (Config, error) {
	p := envParser{getenv: getenv}

	cfg := Config{
		HTTPPort:   p.string("HTTP_PORT", "8080"),
		DBHost:     p.string("DB_HOST", "localhost"),
		DBPort:     p.string("DB_PORT", "5432"),
		DBUser:     p.string("DB_USER", "postgres"),
		DBPassword: p.string("DB_PASSWORD", ""),
		DBName:     p.string("DB_NAME", "catering"),
		DBSslMode:  p.string("DB_SSLMODE", "disable"),

		RedisAddr:     p.string("REDIS_ADDR", "localhost:6379"),
		RedisPassword: p.string("REDIS_PASSWORD", ""),
		RedisDB:       p.int("REDIS_DB", 0),
		CachePrefix:   p.string("CACHE_PREFIX", "catering"),
		CacheTTL:      p.duration("CACHE_DEFAULT_TTL", 24*time.Hour),

		RabbitMQURL:    p.string("RABBITMQ_URL", ""),
		WorkersPerLane: p.int("WORKERS_PER_LANE", 4),

		SilpoBaseURL:    p.string("SILPO_BASE_URL", "http://localhost:8001"),
		KFCBaseURL:      p.string("KFC_BASE_URL", "http://localhost:8002"),
		UklonBaseURL:    p.string("UKLON_BASE_URL", "http://localhost:8003"),
		ProviderTimeout: p.duration("PROVIDER_TIMEOUT", 10*time.Second),
		ProvidersFile:   p.string("PROVIDERS_FILE", ""),

		PollInterval:       p.duration("POLL_INTERVAL", time.Second),
		SubOrderTimeout:    p.duration("SUB_ORDER_TIMEOUT", commands.DefaultSubOrderTimeout),
		DeliveryTimeout:    p.duration("DELIVERY_TIMEOUT", commands.DefaultDeliveryTimeout),
		TrackingTTL:        p.duration("TRACKING_TTL", commands.DefaultTrackingTTL),
		MaxConcurrentPolls: int64(p.int("MAX_CONCURRENT_POLLS", 16)),
		KFCWebhookSecret:   p.string("KFC_WEBHOOK_SECRET", ""),

		OpenAIAPIKey:           p.string("OPENAI_API_KEY", ""),
		OpenAIModel:            p.string("OPENAI_MODEL", ""),
		OpenAIBaseURL:          p.string("OPENAI_BASE_URL", ""),
		RecommendationSchedule: p.string("RECOMMENDATION_SCHEDULE", ""),

		LogLevel:  p.level("LOG_LEVEL", slog.LevelInfo),
		LogFormat: p.string("LOG_FORMAT", "json"),
	}

	if err := errors.Join(p.errs...); err != nil {
		return Config{}, err
	}
	if err := cfg.orchestration().Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) orchestration() commands.OrchestrationConfig {
	cfg := commands.DefaultOrchestrationConfig()
	cfg.PollInterval = c.PollInterval
	cfg.SubOrderTimeout = c.SubOrderTimeout
	cfg.DeliveryTimeout = c.DeliveryTimeout
	cfg.TrackingTTL = c.TrackingTTL
	return cfg
}

// DSN is the postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

type envParser struct {
	getenv func(string) string
	errs   []error
}

func (p *envParser) string(key, def string) string {
	if v := strings.TrimSpace(p.getenv(key)); v != "" {
		return v
	}
	return def
}

func (p *envParser) int(key string, def int) int {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func (p *envParser) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}

func (p *envParser) level(key string, def slog.Level) slog.Level {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return level
}
