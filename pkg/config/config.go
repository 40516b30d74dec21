package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage driver names accepted by STORAGE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL     string
	Port            string
	IsProduction    bool
	StorageDriver   string
	RateLimit       string        // ulule/limiter format, e.g. "100-M"
	LockWaitTimeout time.Duration // upper bound on per-account lock waits
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("STORAGE_DRIVER", DriverPostgres)
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("LOCK_WAIT_TIMEOUT", "3s")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.StorageDriver = viper.GetString("STORAGE_DRIVER")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	if cfg.StorageDriver != DriverPostgres && cfg.StorageDriver != DriverMemory {
		log.Printf("Warning: Unknown STORAGE_DRIVER ('%s'). Defaulting to %s.\n", cfg.StorageDriver, DriverPostgres)
		cfg.StorageDriver = DriverPostgres
	}

	if cfg.StorageDriver == DriverPostgres && cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	lockWaitStr := viper.GetString("LOCK_WAIT_TIMEOUT")
	lockWait, err := time.ParseDuration(lockWaitStr)
	if err != nil || lockWait <= 0 {
		lockWait = 3 * time.Second
		if lockWaitStr != "" {
			log.Printf("Warning: Invalid value for LOCK_WAIT_TIMEOUT ('%s'). Defaulting to %s.\n", lockWaitStr, lockWait)
		}
	}
	cfg.LockWaitTimeout = lockWait

	return cfg, nil
}
