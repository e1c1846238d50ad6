package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/moonshill-backend/internal/observability"
	"github.com/yungbote/moonshill-backend/internal/platform/envutil"
	"github.com/yungbote/moonshill-backend/internal/temporalx"
)

const (
	TriggerTicker   = "ticker"
	TriggerTemporal = "temporal"

	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type LogConfig struct {
	Mode  string `yaml:"mode"`
	Level string `yaml:"level"`
}

type DatabaseConfig struct {
	// DSN is a postgres URL or "sqlite://<path>".
	DSN           string        `yaml:"dsn"`
	MaxOpenConns  int           `yaml:"max_open_conns"`
	MaxIdleConns  int           `yaml:"max_idle_conns"`
	SlowThreshold time.Duration `yaml:"slow_threshold"`
	AutoMigrate   bool          `yaml:"auto_migrate"`
}

type RedisConfig struct {
	// Addr empty disables the market data cache.
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type LLMConfig struct {
	Provider string `yaml:"provider"`

	OpenAIKey        string        `yaml:"openai_api_key"`
	OpenAIBaseURL    string        `yaml:"openai_base_url"`
	OpenAIModel      string        `yaml:"openai_model"`
	OpenAIEmbedModel string        `yaml:"openai_embed_model"`
	Timeout          time.Duration `yaml:"timeout"`
	OpenAISystem     string        `yaml:"openai_system_instruction"`

	GeminiKey        string `yaml:"gemini_api_key"`
	GeminiModel      string `yaml:"gemini_model"`
	GeminiEmbedModel string `yaml:"gemini_embed_model"`
	GeminiSystem     string `yaml:"gemini_system_instruction"`

	MaxTokens int `yaml:"max_tokens"`
}

type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay"`
	MaxDelay    time.Duration `yaml:"max_delay"`
}

type SchedulerConfig struct {
	// Trigger selects the batch driver: "ticker" or "temporal".
	Trigger     string        `yaml:"trigger"`
	Interval    time.Duration `yaml:"interval"`
	Concurrency int           `yaml:"concurrency"`
	BatchLimit  int           `yaml:"batch_limit"`
	Lease       time.Duration `yaml:"lease"`
}

type MarketConfig struct {
	Enabled          bool          `yaml:"enabled"`
	CoinGeckoURL     string        `yaml:"coingecko_url"`
	CoinGeckoKey     string        `yaml:"coingecko_api_key"`
	CryptoCompareURL string        `yaml:"cryptocompare_url"`
	CryptoCompareKey string        `yaml:"cryptocompare_api_key"`
	NewsEnabled      bool          `yaml:"news_enabled"`
	Timeout          time.Duration `yaml:"timeout"`
	CacheTTL         time.Duration `yaml:"cache_ttl"`
}

type HTTPConfig struct {
	Addr        string   `yaml:"addr"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type TelemetryConfig struct {
	Metrics bool                     `yaml:"metrics"`
	Tracing observability.OtelConfig `yaml:"tracing"`
}

type Config struct {
	Log       LogConfig        `yaml:"log"`
	Database  DatabaseConfig   `yaml:"database"`
	Redis     RedisConfig      `yaml:"redis"`
	LLM       LLMConfig        `yaml:"llm"`
	Retry     RetryConfig      `yaml:"retry"`
	Scheduler SchedulerConfig  `yaml:"scheduler"`
	Market    MarketConfig     `yaml:"market"`
	HTTP      HTTPConfig       `yaml:"http"`
	Temporal  temporalx.Config `yaml:"temporal"`
	Telemetry TelemetryConfig  `yaml:"telemetry"`
}

func DefaultConfig() Config {
	return Config{
		Log: LogConfig{Mode: "development", Level: "info"},
		Database: DatabaseConfig{
			DSN:           "sqlite://moonshill.db",
			MaxOpenConns:  20,
			MaxIdleConns:  5,
			SlowThreshold: time.Second,
			AutoMigrate:   true,
		},
		LLM: LLMConfig{
			Provider:         ProviderOpenAI,
			OpenAIBaseURL:    "https://api.openai.com",
			OpenAIModel:      "gpt-4o-mini",
			OpenAIEmbedModel: "text-embedding-3-small",
			Timeout:          60 * time.Second,
			GeminiModel:      "gemini-2.0-flash",
			GeminiEmbedModel: "text-embedding-004",
			MaxTokens:        500,
		},
		Retry: RetryConfig{MaxAttempts: 3, BaseDelay: 4 * time.Second, MaxDelay: 10 * time.Second},
		Scheduler: SchedulerConfig{
			Trigger:     TriggerTicker,
			Interval:    60 * time.Second,
			Concurrency: 4,
			BatchLimit:  500,
			Lease:       10 * time.Minute,
		},
		Market: MarketConfig{
			Enabled:     true,
			NewsEnabled: true,
			Timeout:     10 * time.Second,
			CacheTTL:    5 * time.Minute,
		},
		HTTP:     HTTPConfig{Addr: ":8080"},
		Temporal: temporalx.DefaultConfig(),
		Telemetry: TelemetryConfig{
			Metrics: true,
			Tracing: observability.OtelConfig{ServiceName: "moonshill", SampleRatio: 0.1},
		},
	}
}

// LoadEnvFiles loads .env and .env.local when present. Variables already in
// the process environment win.
func LoadEnvFiles() []string {
	var loaded []string
	for _, f := range []string{".env", ".env.local"} {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err == nil {
			loaded = append(loaded, f)
		}
	}
	return loaded
}

// LoadConfig resolves defaults, then the YAML file named by CONFIG_FILE (or
// path when non-empty), then environment variables.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = envutil.String("CONFIG_FILE", "")
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	cfg = cfg.fromEnv()
	return cfg, cfg.Validate()
}

func (c Config) fromEnv() Config {
	c.Log.Mode = envutil.String("LOG_MODE", c.Log.Mode)
	c.Log.Level = envutil.String("LOG_LEVEL", c.Log.Level)

	c.Database.DSN = envutil.String("DATABASE_URL", c.Database.DSN)
	c.Database.MaxOpenConns = envutil.Int("DATABASE_MAX_OPEN_CONNS", c.Database.MaxOpenConns)
	c.Database.MaxIdleConns = envutil.Int("DATABASE_MAX_IDLE_CONNS", c.Database.MaxIdleConns)
	c.Database.SlowThreshold = envutil.Duration("DATABASE_SLOW_THRESHOLD_MS", c.Database.SlowThreshold, time.Millisecond)
	c.Database.AutoMigrate = envutil.Bool("DATABASE_AUTO_MIGRATE", c.Database.AutoMigrate)

	c.Redis.Addr = envutil.String("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = envutil.String("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = envutil.Int("REDIS_DB", c.Redis.DB)

	c.LLM.Provider = strings.ToLower(envutil.String("LLM_PROVIDER", c.LLM.Provider))
	c.LLM.OpenAIKey = envutil.String("OPENAI_API_KEY", c.LLM.OpenAIKey)
	c.LLM.OpenAIBaseURL = envutil.String("OPENAI_BASE_URL", c.LLM.OpenAIBaseURL)
	c.LLM.OpenAIModel = envutil.String("OPENAI_MODEL", c.LLM.OpenAIModel)
	c.LLM.OpenAIEmbedModel = envutil.String("OPENAI_EMBED_MODEL", c.LLM.OpenAIEmbedModel)
	c.LLM.Timeout = envutil.Duration("OPENAI_TIMEOUT_SECONDS", c.LLM.Timeout, time.Second)
	c.LLM.GeminiKey = envutil.String("GEMINI_API_KEY", c.LLM.GeminiKey)
	c.LLM.GeminiModel = envutil.String("GEMINI_MODEL", c.LLM.GeminiModel)
	c.LLM.GeminiEmbedModel = envutil.String("GEMINI_EMBED_MODEL", c.LLM.GeminiEmbedModel)
	c.LLM.OpenAISystem = envutil.String("OPENAI_SYSTEM_INSTRUCTION", c.LLM.OpenAISystem)
	c.LLM.GeminiSystem = envutil.String("GEMINI_SYSTEM_INSTRUCTION", c.LLM.GeminiSystem)
	c.LLM.MaxTokens = envutil.Int("LLM_MAX_TOKENS", c.LLM.MaxTokens)

	c.Retry.MaxAttempts = envutil.Int("PROVIDER_RETRY_MAX_ATTEMPTS", c.Retry.MaxAttempts)
	c.Retry.BaseDelay = envutil.Duration("PROVIDER_RETRY_BASE_DELAY", c.Retry.BaseDelay, time.Second)
	c.Retry.MaxDelay = envutil.Duration("PROVIDER_RETRY_MAX_DELAY", c.Retry.MaxDelay, time.Second)

	c.Scheduler.Trigger = strings.ToLower(envutil.String("SCHEDULER_TRIGGER", c.Scheduler.Trigger))
	c.Scheduler.Interval = envutil.Duration("SCHEDULER_INTERVAL", c.Scheduler.Interval, time.Second)
	c.Scheduler.Concurrency = envutil.Int("SCHEDULER_CONCURRENCY", c.Scheduler.Concurrency)
	c.Scheduler.BatchLimit = envutil.Int("SCHEDULER_BATCH_LIMIT", c.Scheduler.BatchLimit)
	c.Scheduler.Lease = envutil.Duration("SCHEDULER_LEASE", c.Scheduler.Lease, time.Second)

	c.Market.Enabled = envutil.Bool("MARKET_ENABLED", c.Market.Enabled)
	c.Market.CoinGeckoURL = envutil.String("COINGECKO_BASE_URL", c.Market.CoinGeckoURL)
	c.Market.CoinGeckoKey = envutil.String("COINGECKO_API_KEY", c.Market.CoinGeckoKey)
	c.Market.CryptoCompareURL = envutil.String("CRYPTOCOMPARE_BASE_URL", c.Market.CryptoCompareURL)
	c.Market.CryptoCompareKey = envutil.String("CRYPTOCOMPARE_API_KEY", c.Market.CryptoCompareKey)
	c.Market.NewsEnabled = envutil.Bool("MARKET_NEWS_ENABLED", c.Market.NewsEnabled)
	c.Market.Timeout = envutil.Duration("MARKET_TIMEOUT", c.Market.Timeout, time.Second)
	c.Market.CacheTTL = envutil.Duration("MARKET_CACHE_TTL", c.Market.CacheTTL, time.Second)

	c.HTTP.Addr = envutil.String("HTTP_ADDR", c.HTTP.Addr)
	c.HTTP.CORSOrigins = envutil.List("CORS_ORIGINS", c.HTTP.CORSOrigins)

	c.Temporal = c.Temporal.FromEnv()

	c.Telemetry.Metrics = envutil.Bool("METRICS_ENABLED", c.Telemetry.Metrics)
	t := &c.Telemetry.Tracing
	t.Enabled = envutil.Bool("OTEL_ENABLED", t.Enabled)
	t.ServiceName = envutil.String("OTEL_SERVICE_NAME", t.ServiceName)
	t.Environment = envutil.String("OTEL_ENVIRONMENT", t.Environment)
	t.Version = envutil.String("OTEL_SERVICE_VERSION", t.Version)
	t.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", t.Endpoint)
	if h := observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "")); h != nil {
		t.Headers = h
	}
	t.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", t.Insecure)
	t.SampleRatio = envutil.Float("OTEL_TRACES_SAMPLER_RATIO", t.SampleRatio)
	return c
}

// Validate rejects settings no component could run with. Provider API keys
// are checked when the provider is built.
func (c Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("llm.provider must be %q or %q, got %q", ProviderOpenAI, ProviderGemini, c.LLM.Provider)
	}
	switch c.Scheduler.Trigger {
	case TriggerTicker:
	case TriggerTemporal:
		if !c.Temporal.Enabled() {
			return fmt.Errorf("scheduler.trigger=temporal requires temporal.address")
		}
	default:
		return fmt.Errorf("scheduler.trigger must be %q or %q, got %q", TriggerTicker, TriggerTemporal, c.Scheduler.Trigger)
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Scheduler.Interval <= 0 {
		return fmt.Errorf("scheduler.interval must be positive")
	}
	return nil
}
