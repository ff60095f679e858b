package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	LogLevel    string
	LogFormat   string
	LogDir      string
	ServiceName string
	Version     string
	Environment string
	APIKey      string // API key for authentication

	// TrustedProxies may set X-Forwarded-For
	TrustedProxies []string

	// Storage
	StorageDriver     string
	DBUser            string
	DBPassword        string
	DBHost            string
	DBPort            string
	DBName            string
	DBMaxConns        int
	DBMaxConnIdleTime time.Duration
	DBMaxConnLifetime time.Duration

	// Material pipeline
	CatalogDir            string
	CatalogCacheSize      int
	RNGSeed               int64 // 0 seeds from the clock
	RefiningCycleDuration time.Duration
	JobSweepInterval      time.Duration
	DeadLetterPath        string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:    strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:   strings.ToLower(getEnv("LOG_FORMAT", "text")),
		LogDir:      getEnv("LOG_DIR", "logs"),
		ServiceName: getEnv("SERVICE_NAME", "crucible"),
		Version:     getEnv("VERSION", "dev"),
		Environment: getEnv("ENVIRONMENT", "dev"),
		APIKey:      getEnv("API_KEY", ""),

		TrustedProxies: getEnvAsList("TRUSTED_PROXIES"),

		StorageDriver:     strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverMemory)),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBName:            getEnv("DB_NAME", "crucible"),
		DBMaxConns:        getEnvAsInt("DB_MAX_CONNS", DefaultDBMaxConns),
		DBMaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", DefaultDBMaxConnIdleTime),
		DBMaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", DefaultDBMaxConnLifetime),

		CatalogDir:       getEnv("CATALOG_DIR", DefaultCatalogDir),
		CatalogCacheSize: getEnvAsInt("CATALOG_CACHE_SIZE", DefaultCatalogCacheSize),
		JobSweepInterval: getEnvAsDuration("JOB_SWEEP_INTERVAL", DefaultJobSweepInterval),
		DeadLetterPath:   getEnv("EVENT_DEADLETTER_PATH", DefaultDeadLetterPath),
	}

	if cfg.DBMaxConns <= 0 {
		cfg.DBMaxConns = DefaultDBMaxConns
	}

	port, err := strconv.Atoi(getEnv("PORT", strconv.Itoa(DefaultPort)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgInvalidPort, err)
	}
	cfg.Port = port

	seed, err := strconv.ParseInt(getEnv("RNG_SEED", "0"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgInvalidRNGSeed, err)
	}
	cfg.RNGSeed = seed

	cycleSeconds := getEnvAsInt("REFINING_CYCLE_SECONDS", DefaultRefiningCycleSeconds)
	if cycleSeconds <= 0 {
		return nil, fmt.Errorf("%s: got %d", ErrMsgInvalidCycleSeconds, cycleSeconds)
	}
	cfg.RefiningCycleDuration = time.Duration(cycleSeconds) * time.Second

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("%s", ErrMsgAPIKeyRequired)
	}
	switch c.StorageDriver {
	case StorageDriverMemory, StorageDriverPostgres:
	default:
		return fmt.Errorf("%s: %q (want %s or %s)", ErrMsgInvalidStorageDriver, c.StorageDriver, StorageDriverMemory, StorageDriverPostgres)
	}
	if c.JobSweepInterval <= 0 {
		return fmt.Errorf("%s: got %s", ErrMsgInvalidSweepInterval, c.JobSweepInterval)
	}
	return nil
}

// UsesPostgres reports whether the configured storage driver is PostgreSQL
func (c *Config) UsesPostgres() bool {
	return c.StorageDriver == StorageDriverPostgres
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt parses an integer variable, falling back to the default when unset or invalid
func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration parses a Go duration string such as "10m", falling back to the default
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

// getEnvAsList splits a comma-separated variable, dropping empty entries
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
