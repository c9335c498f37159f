package nexus

import (
	"fmt"
	"time"

	"github.com/Desarso/nexus/credentials"
	"github.com/Desarso/nexus/models/gemini"
	"github.com/Desarso/nexus/subagents"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Store types accepted by NEXUS_STORE.
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreNone     = "none"
)

type Config struct {
	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	APIKey       string `envconfig:"API_KEY"`

	ModelName   string        `envconfig:"NEXUS_MODEL" default:"gemini-2.5-flash"`
	ToolLatency time.Duration `envconfig:"NEXUS_TOOL_LATENCY" default:"800ms"`

	StoreType string `envconfig:"NEXUS_STORE" default:"sqlite"`
	StoreDSN  string `envconfig:"NEXUS_STORE_DSN" default:"file:nexus?mode=memory&cache=shared"`

	ServerPort     int           `envconfig:"SERVER_PORT" default:"8080"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	TurnTimeout    time.Duration `envconfig:"NEXUS_TURN_TIMEOUT" default:"60s"`
	AllowedOrigins []string      `envconfig:"NEXUS_ALLOWED_ORIGINS" default:"*"`

	SessionTTL      time.Duration `envconfig:"NEXUS_SESSION_TTL" default:"2h"`
	CleanupSchedule string        `envconfig:"NEXUS_CLEANUP_SCHEDULE" default:"@every 10m"`
	PrimeHistory    bool          `envconfig:"NEXUS_PRIME_HISTORY" default:"true"`
}

// LoadConfig reads an optional .env file and then the environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// NewConfig returns the defaults without consulting the environment.
func NewConfig() *Config {
	return &Config{
		ModelName:       gemini.DefaultModel,
		ToolLatency:     subagents.DefaultDelay,
		StoreType:       StoreSQLite,
		StoreDSN:        "file:nexus?mode=memory&cache=shared",
		ServerPort:      8080,
		LogLevel:        "info",
		TurnTimeout:     60 * time.Second,
		AllowedOrigins:  []string{"*"},
		SessionTTL:      2 * time.Hour,
		CleanupSchedule: "@every 10m",
		PrimeHistory:    true,
	}
}

func (c *Config) Validate() error {
	switch c.StoreType {
	case StoreSQLite, StorePostgres, StoreNone:
	default:
		return fmt.Errorf("unsupported store type: %s (valid: sqlite, postgres, none)", c.StoreType)
	}
	if c.ToolLatency < 0 {
		return fmt.Errorf("tool latency must not be negative, got %s", c.ToolLatency)
	}
	return nil
}

// Credential resolves the Gemini key: GEMINI_API_KEY, then API_KEY, then the
// OS keyring. An empty result means no key is configured.
func (c *Config) Credential() (string, error) {
	if c.GeminiAPIKey != "" {
		return c.GeminiAPIKey, nil
	}
	return credentials.GetOrEnv(credentials.KeyGemini, c.APIKey), nil
}

// WithModelName sets the Gemini model for the configuration
func (c *Config) WithModelName(modelName string) *Config {
	c.ModelName = modelName
	return c
}

// WithAPIKey sets an explicit Gemini key
func (c *Config) WithAPIKey(key string) *Config {
	c.GeminiAPIKey = key
	return c
}

func (c *Config) WithToolLatency(d time.Duration) *Config {
	c.ToolLatency = d
	return c
}

// WithSQLiteStore persists transcripts to the SQLite database at dsn
func (c *Config) WithSQLiteStore(dsn string) *Config {
	c.StoreType, c.StoreDSN = StoreSQLite, dsn
	return c
}

// WithPostgresStore sets a PostgreSQL store with the specified connection parameters
func (c *Config) WithPostgresStore(host, user, password, dbname string, port int) *Config {
	c.StoreType = StorePostgres
	c.StoreDSN = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		host, user, password, dbname, port)
	return c
}

// WithoutStore keeps transcripts in memory only
func (c *Config) WithoutStore() *Config {
	c.StoreType, c.StoreDSN = StoreNone, ""
	return c
}

func (c *Config) WithPrimeHistory(prime bool) *Config {
	c.PrimeHistory = prime
	return c
}
