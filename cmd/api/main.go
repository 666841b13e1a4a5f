package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"plumberry-inventory/internal/config"
	"plumberry-inventory/internal/logger"
	"plumberry-inventory/internal/repository"
	"plumberry-inventory/internal/server"
	"plumberry-inventory/internal/service"
	"plumberry-inventory/internal/ws"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Env
	envErr := godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	if envErr != nil {
		log.Debug(".env file not found, using process environment")
	}

	// 2. Setup Store
	store, err := repository.Open(cfg.Inventory.Store, log)
	if err != nil {
		log.Fatal("Failed to open store", zap.Error(err))
	}

	// 3. Ledger and dashboard
	inventory := service.NewInventoryService(store, service.WithLowStockThreshold(cfg.Inventory.LowStockThreshold))
	dashboard := service.NewDashboardService(inventory, store.Transactions())

	if cfg.Inventory.SeedSampleData {
		if err := service.SeedSampleData(inventory); err != nil {
			log.Fatal("Failed to seed sample data", zap.Error(err))
		}
		log.Info("Sample data loaded", zap.Int("products", len(service.SampleProducts)))
	}

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub(log)
	go wsHub.Run()

	app := server.NewApp(cfg, log, inventory, dashboard, wsHub)

	// 5. Graceful Shutdown
	go func() {
		log.Info("Starting inventory dashboard API",
			zap.String("env", cfg.Server.Env),
			zap.String("port", cfg.Server.Port),
			zap.String("store", cfg.Inventory.Store),
		)
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	wsHub.Stop()

	log.Info("Server exited")
}
