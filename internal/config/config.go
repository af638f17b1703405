package config

import (
	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	// Server
	Port int    `mapstructure:"PORT"`
	Env  string `mapstructure:"APP_ENV"` // development | production

	// Local store
	DBPath string `mapstructure:"DB_PATH"`

	// Optional lookup cache; empty disables Redis entirely
	RedisURL string `mapstructure:"REDIS_URL"`

	// Remote server of record
	RemoteAPIURL string `mapstructure:"REMOTE_API_URL"`

	// Terminal identity
	StoreID   string `mapstructure:"STORE_ID"`
	StoreName string `mapstructure:"STORE_NAME"`

	// Sync timers
	SyncDebounceMS      int `mapstructure:"SYNC_DEBOUNCE_MS"`
	SyncIntervalSeconds int `mapstructure:"SYNC_INTERVAL_SECONDS"`
	StatusTickSeconds   int `mapstructure:"STATUS_TICK_SECONDS"`

	// Receipts
	ReceiptStoragePath string `mapstructure:"RECEIPT_STORAGE_PATH"`
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Sensible defaults for a development terminal
	viper.SetDefault("PORT", 8080)
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("DB_PATH", "swiftpos.db")
	viper.SetDefault("REMOTE_API_URL", "http://localhost:9000")
	viper.SetDefault("STORE_ID", "store-local")
	viper.SetDefault("STORE_NAME", "Swiftgo POS")
	viper.SetDefault("SYNC_DEBOUNCE_MS", 300)
	viper.SetDefault("SYNC_INTERVAL_SECONDS", 60)
	viper.SetDefault("STATUS_TICK_SECONDS", 30)
	viper.SetDefault("RECEIPT_STORAGE_PATH", "/tmp/swiftpos/receipts")

	// Optional .env file for local development — does not fail if missing
	_ = viper.ReadInConfig()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
