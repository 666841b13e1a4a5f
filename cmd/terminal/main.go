package main

import (
	"fmt"
	"os"

	"plumberry-inventory/internal/config"
	"plumberry-inventory/internal/logger"
	"plumberry-inventory/internal/repository"
	"plumberry-inventory/internal/service"
	"plumberry-inventory/internal/terminal"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	store, err := repository.Open(cfg.Inventory.Store, nil)
	if err != nil {
		log.Fatal("Failed to open store", zap.Error(err))
	}

	inventory := service.NewInventoryService(store, service.WithLowStockThreshold(cfg.Inventory.LowStockThreshold))
	if cfg.Inventory.SeedSampleData {
		if err := service.SeedSampleData(inventory); err != nil {
			log.Fatal("Failed to seed sample data", zap.Error(err))
		}
	}

	menu := terminal.NewMenu(inventory, os.Stdin, os.Stdout, cfg.Inventory.TransactionDisplayLimit)
	if err := menu.Run(); err != nil {
		log.Error("Terminal session ended with error", zap.Error(err))
		os.Exit(1)
	}
}
