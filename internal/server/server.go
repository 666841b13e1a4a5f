package server

import (
	"plumberry-inventory/internal/config"
	"plumberry-inventory/internal/handler"
	"plumberry-inventory/internal/middleware"
	"plumberry-inventory/internal/service"
	"plumberry-inventory/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NewApp builds the web dashboard API around one shared ledger. hub may be nil to
// run without the websocket endpoint.
func NewApp(cfg *config.Config, logger *zap.Logger, inventory service.InventoryService, dashboard service.DashboardService, hub *ws.Hub) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Plumberry Inventory",
		DisableStartupMessage: true,
	})

	// Middleware
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(middleware.RequestLogger(logger))
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	invHandler := handler.NewInventoryHandler(inventory, hub, logger, cfg.Inventory.TransactionDisplayLimit)
	dashHandler := handler.NewDashboardHandler(dashboard, logger, inventory.LowStockThreshold(), cfg.Inventory.TopProductsLimit)

	api := app.Group("/api/v1")

	api.Get("/products", invHandler.GetProducts)
	api.Post("/products", invHandler.CreateProduct)
	api.Get("/products/:sku", invHandler.GetProduct)

	api.Get("/transactions", invHandler.GetTransactions)
	api.Post("/transactions", invHandler.CreateTransaction)

	api.Get("/dashboard/stats", dashHandler.GetDashboardStats)
	api.Get("/dashboard/stock-movement", dashHandler.GetStockMovement)
	api.Get("/dashboard/categories", dashHandler.GetCategoryBreakdown)
	api.Get("/dashboard/top-products", dashHandler.GetTopProducts)
	api.Get("/dashboard/low-stock", dashHandler.GetLowStock)

	api.Get("/export/products.csv", invHandler.ExportProducts)
	api.Get("/export/transactions.csv", invHandler.ExportTransactions)

	if hub != nil {
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return c.SendStatus(fiber.StatusUpgradeRequired)
		})
		app.Get("/ws", websocket.New(func(c *websocket.Conn) {
			if !hub.Add(c) {
				return
			}
			defer hub.Remove(c)

			for {
				// Keep alive loop
				if _, _, err := c.ReadMessage(); err != nil {
					break
				}
			}
		}))
	}

	return app
}
