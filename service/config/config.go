package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// defaultRPCURLFormat is the Helius mainnet endpoint; the API key rides in
// the query string.
const defaultRPCURLFormat = "https://mainnet.helius-rpc.com/?api-key=%s"

// Config holds all application configuration loaded from environment variables.
// All required fields are validated at startup to ensure fail-fast behavior.
type Config struct {
	LogLevel string

	// Solana RPC configuration
	HeliusAPIKey string
	RPCURL       string

	// Scan configuration
	WalletAddress string
	TokenMint     string
	BatchLimit    int
	MaxPages      int
	RequestDelay  time.Duration

	// Output configuration
	DataDir string

	// Metrics configuration (empty disables the listener)
	MetricsAddr string

	// Temporal configuration
	TemporalHost      string
	TemporalNamespace string
	TemporalTaskQueue string
	ScanInterval      time.Duration
}

// Load reads configuration from environment variables and validates all required fields.
// Returns an error if any required configuration is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{}
	var errs []error

	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", "info")

	// The RPC credential historically shipped under a misspelled variable
	// name; both are accepted, first non-empty wins.
	cfg.HeliusAPIKey = os.Getenv("HELIUS_API_KEY")
	if cfg.HeliusAPIKey == "" {
		cfg.HeliusAPIKey = os.Getenv("HELIUS_APY_KEY")
	}

	// An explicit RPC URL overrides the derived Helius endpoint.
	cfg.RPCURL = os.Getenv("SOLANA_RPC_URL")
	if cfg.RPCURL == "" {
		if cfg.HeliusAPIKey == "" {
			errs = append(errs, fmt.Errorf("HELIUS_API_KEY (or HELIUS_APY_KEY) is required"))
		} else {
			cfg.RPCURL = fmt.Sprintf(defaultRPCURLFormat, cfg.HeliusAPIKey)
		}
	}

	cfg.WalletAddress = os.Getenv("BURN_WALLET_ADDRESS")
	if cfg.WalletAddress == "" {
		errs = append(errs, fmt.Errorf("BURN_WALLET_ADDRESS is required"))
	}

	cfg.TokenMint = os.Getenv("TOKEN_MINT")
	if cfg.TokenMint == "" {
		errs = append(errs, fmt.Errorf("TOKEN_MINT is required"))
	}

	batchLimit, err := parseInt("BATCH_LIMIT", 100)
	if err != nil {
		errs = append(errs, err)
	} else {
		cfg.BatchLimit = batchLimit
	}

	maxPages, err := parseInt("MAX_PAGES", 20)
	if err != nil {
		errs = append(errs, err)
	} else {
		cfg.MaxPages = maxPages
	}

	sleepMs, err := parseInt("SLEEP_MS", 150)
	if err != nil {
		errs = append(errs, err)
	} else {
		cfg.RequestDelay = time.Duration(sleepMs) * time.Millisecond
	}

	cfg.DataDir = getEnvOrDefault("DATA_DIR", "data")
	cfg.MetricsAddr = os.Getenv("METRICS_ADDR")

	// Temporal configuration
	cfg.TemporalHost = getEnvOrDefault("TEMPORAL_HOST", "localhost:7233")
	cfg.TemporalNamespace = getEnvOrDefault("TEMPORAL_NAMESPACE", "default")
	cfg.TemporalTaskQueue = getEnvOrDefault("TEMPORAL_TASK_QUEUE", "burnwatch-scan")

	scanInterval, err := parseDuration("SCAN_INTERVAL", "1h")
	if err != nil {
		errs = append(errs, err)
	} else {
		cfg.ScanInterval = scanInterval
	}

	if cfg.BatchLimit <= 0 {
		errs = append(errs, fmt.Errorf("BATCH_LIMIT must be positive, got %d", cfg.BatchLimit))
	}
	if cfg.MaxPages <= 0 {
		errs = append(errs, fmt.Errorf("MAX_PAGES must be positive, got %d", cfg.MaxPages))
	}
	if cfg.RequestDelay < 0 {
		errs = append(errs, fmt.Errorf("SLEEP_MS must be non-negative"))
	}

	// Return all validation errors
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %v", errs)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid.
// This is useful for testing configuration without loading from env.
func (c *Config) Validate() error {
	var errs []error

	if c.RPCURL == "" {
		errs = append(errs, fmt.Errorf("RPCURL is required"))
	}
	if c.WalletAddress == "" {
		errs = append(errs, fmt.Errorf("WalletAddress is required"))
	}
	if c.TokenMint == "" {
		errs = append(errs, fmt.Errorf("TokenMint is required"))
	}
	if c.BatchLimit <= 0 {
		errs = append(errs, fmt.Errorf("BatchLimit must be positive"))
	}
	if c.MaxPages <= 0 {
		errs = append(errs, fmt.Errorf("MaxPages must be positive"))
	}
	if c.DataDir == "" {
		errs = append(errs, fmt.Errorf("DataDir is required"))
	}
	if c.ScanInterval < time.Minute {
		errs = append(errs, fmt.Errorf("ScanInterval must be at least 1 minute"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errs)
	}

	return nil
}

// getEnvOrDefault returns the environment variable value or a default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseDuration parses a duration from an environment variable or uses a default.
func parseDuration(key, defaultValue string) (time.Duration, error) {
	value := getEnvOrDefault(key, defaultValue)
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, value, err)
	}
	return duration, nil
}

// parseInt parses an integer from an environment variable or uses a default.
func parseInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q: %w", key, value, err)
	}
	return result, nil
}
