package handler

import (
	"strconv"

	"plumberry-inventory/internal/model"
	"plumberry-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	service   service.DashboardService
	logger    *zap.Logger
	threshold int
	topN      int
}

func NewDashboardHandler(s service.DashboardService, logger *zap.Logger, threshold, topN int) *DashboardHandler {
	return &DashboardHandler{service: s, logger: logger, threshold: threshold, topN: topN}
}

// GetStockMovement returns stock movement data for charts
// Query params: days (default 7, at most service.MaxStockMovementDays)
func (h *DashboardHandler) GetStockMovement(c *fiber.Ctx) error {
	days := positiveQueryInt(c, "days", 7)

	data, err := h.service.GetStockMovement(days)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}

// GetDashboardStats returns overview statistics
func (h *DashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.GetDashboardStats()
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(stats)
}

// GetCategoryBreakdown returns the number of products per category
func (h *DashboardHandler) GetCategoryBreakdown(c *fiber.Ctx) error {
	breakdown, err := h.service.GetCategoryBreakdown()
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(breakdown)
}

// GetTopProducts returns the most valuable products
// Query params: n (default from config)
func (h *DashboardHandler) GetTopProducts(c *fiber.Ctx) error {
	top, err := h.service.GetTopProductsByValue(positiveQueryInt(c, "n", h.topN))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(top)
}

// GetLowStock returns the products that need reordering
func (h *DashboardHandler) GetLowStock(c *fiber.Ctx) error {
	products, err := h.service.GetLowStockProducts()
	if err != nil {
		return respondError(c, h.logger, err)
	}

	resp := make([]model.ProductResponse, len(products))
	for i := range products {
		resp[i] = products[i].ToResponse(h.threshold)
	}
	return c.JSON(resp)
}

func positiveQueryInt(c *fiber.Ctx, key string, fallback int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
