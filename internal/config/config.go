package config

import (
	"strings"

	"github.com/spf13/viper"
)

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

type Config struct {
	Server    ServerConfig
	Inventory InventoryConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type InventoryConfig struct {
	Store                   string // memory or sqlite; anything else is rejected by repository.Open
	LowStockThreshold       int
	TransactionDisplayLimit int
	TopProductsLimit        int
	SeedSampleData          bool
}

// Load reads configuration from the environment. Call godotenv.Load first to pick up a .env file.
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("PORT", "3000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LEDGER_STORE", StoreMemory)
	v.SetDefault("LOW_STOCK_THRESHOLD", 30)
	v.SetDefault("TRANSACTION_DISPLAY_LIMIT", 10)
	v.SetDefault("TOP_PRODUCTS_LIMIT", 5)
	v.SetDefault("SEED_SAMPLE_DATA", true)

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("PORT"),
			Env:  v.GetString("APP_ENV"),
		},
		Inventory: InventoryConfig{
			Store:                   strings.ToLower(strings.TrimSpace(v.GetString("LEDGER_STORE"))),
			LowStockThreshold:       v.GetInt("LOW_STOCK_THRESHOLD"),
			TransactionDisplayLimit: v.GetInt("TRANSACTION_DISPLAY_LIMIT"),
			TopProductsLimit:        v.GetInt("TOP_PRODUCTS_LIMIT"),
			SeedSampleData:          v.GetBool("SEED_SAMPLE_DATA"),
		},
	}

	if cfg.Inventory.Store == "" {
		cfg.Inventory.Store = StoreMemory
	}
	if cfg.Inventory.TransactionDisplayLimit < 0 {
		cfg.Inventory.TransactionDisplayLimit = 10
	}
	return cfg
}
