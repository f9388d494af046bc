package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kiran-mendhe-8/Home-Assignment-BP/backend-go/internal/station"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	defaultStationsBaseURL = "https://api.jsonbin.io"
	defaultPort            = "8080"
)

type Config struct {
	Environment     string
	LogLevel        zerolog.Level
	HTTPTimeout     time.Duration
	StationsBaseURL string
	StationsPath    string
	DatabaseURL     string
	Port            string
	Cache           *CacheConfig
}

type Option func(*Config)

// WithEnvironment allows setting the environment
func WithEnvironment(env string) Option {
	return func(c *Config) {
		c.Environment = env
	}
}

// WithLogLevel allows setting the log level
func WithLogLevel(level string) Option {
	return func(c *Config) {
		parsedLevel, err := zerolog.ParseLevel(level)
		if err != nil {
			parsedLevel = zerolog.InfoLevel
		}
		c.LogLevel = parsedLevel
	}
}

// WithHTTPTimeout allows setting the HTTP timeout
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.HTTPTimeout = timeout
	}
}

// WithStationsEndpoint points the remote source at another host and path.
func WithStationsEndpoint(baseURL, path string) Option {
	return func(c *Config) {
		c.StationsBaseURL = baseURL
		c.StationsPath = path
	}
}

func WithDatabaseURL(dsn string) Option {
	return func(c *Config) {
		c.DatabaseURL = dsn
	}
}

func WithPort(port string) Option {
	return func(c *Config) {
		c.Port = port
	}
}

func WithCacheConfig(cache *CacheConfig) Option {
	return func(c *Config) {
		c.Cache = cache
	}
}

// New creates a new configuration with default values
func New(opts ...Option) *Config {
	cfg := &Config{
		Environment:     "production",
		LogLevel:        zerolog.InfoLevel,
		HTTPTimeout:     10 * time.Second,
		StationsBaseURL: defaultStationsBaseURL,
		StationsPath:    station.DefaultPath,
		Port:            defaultPort,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Cache == nil {
		cfg.Cache = DefaultCacheConfig()
	}

	return cfg
}

// IsLocal reports whether logs should be human readable.
func (c *Config) IsLocal() bool {
	return c.Environment == "local" || c.Environment == "development"
}

// InitializeLogging sets up logging based on the configuration
func (c *Config) InitializeLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(c.LogLevel)

	if c.IsLocal() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
		return
	}
	log.Logger = zerolog.New(os.Stdout).
		With().
		Timestamp().
		Logger()
}

// LoadFromEnv loads configuration from environment variables. A .env file in
// the working directory is read first but never overrides the environment.
func LoadFromEnv() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("Could not read .env file")
	}

	return New(
		WithEnvironment(getEnvOrDefault("ENV", "production")),
		WithLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
		WithHTTPTimeout(getDurationEnvOrDefault("HTTP_TIMEOUT", 10*time.Second)),
		WithStationsEndpoint(
			getEnvOrDefault("STATIONS_BASE_URL", defaultStationsBaseURL),
			getEnvOrDefault("STATIONS_PATH", station.DefaultPath),
		),
		WithDatabaseURL(os.Getenv("DATABASE_URL")),
		WithPort(getEnvOrDefault("PORT", defaultPort)),
		WithCacheConfig(GetCacheConfig()),
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnvOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Warn().Str("key", key).Msg("Invalid duration in environment variable, using default")
	}
	return defaultValue
}
