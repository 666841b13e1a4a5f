package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"plumberry-inventory/internal/model"
	"plumberry-inventory/internal/report"
	"plumberry-inventory/internal/service"
	"plumberry-inventory/internal/ws"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type InventoryHandler struct {
	service      service.InventoryService
	hub          *ws.Hub
	logger       *zap.Logger
	displayLimit int
}

// NewInventoryHandler wires the ledger to HTTP. hub may be nil, in which case no
// live updates are published. displayLimit is the default for transaction listings.
func NewInventoryHandler(s service.InventoryService, hub *ws.Hub, logger *zap.Logger, displayLimit int) *InventoryHandler {
	return &InventoryHandler{service: s, hub: hub, logger: logger, displayLimit: displayLimit}
}

type CreateProductRequest struct {
	Name     string          `json:"name"`
	SKU      string          `json:"sku"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

type CreateTransactionRequest struct {
	SKU      string `json:"sku"`
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes"`
}

// normalizeSKU applies the boundary convention: trimmed and upper-cased.
func normalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}

// POST /api/v1/products
func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	var req CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	result, err := h.service.AddProduct(service.AddProductInput{
		Name:     strings.TrimSpace(req.Name),
		SKU:      normalizeSKU(req.SKU),
		Category: strings.TrimSpace(req.Category),
		Price:    req.Price,
		Quantity: req.Quantity,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}

	resp := result.Product.ToResponse(h.service.LowStockThreshold())
	h.publish("product_created", resp, result.Message)

	return c.Status(201).JSON(fiber.Map{"message": result.Message, "data": resp})
}

// GET /api/v1/products?q=
func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts()
	if err != nil {
		return respondError(c, h.logger, err)
	}

	threshold := h.service.LowStockThreshold()
	resp := make([]model.ProductResponse, 0, len(products))
	for _, p := range SearchProducts(products, c.Query("q")) {
		resp = append(resp, p.ToResponse(threshold))
	}
	return c.JSON(resp)
}

// GET /api/v1/products/:sku
func (h *InventoryHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.service.FindProductBySKU(normalizeSKU(c.Params("sku")))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(product.ToResponse(h.service.LowStockThreshold()))
}

// POST /api/v1/transactions
func (h *InventoryHandler) CreateTransaction(c *fiber.Ctx) error {
	var req CreateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	direction, err := model.ParseDirection(req.Type)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := h.service.AdjustStock(service.AdjustStockInput{
		SKU:       normalizeSKU(req.SKU),
		Direction: direction,
		Quantity:  req.Quantity,
		Notes:     strings.TrimSpace(req.Notes),
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}

	tx := result.Transaction.ToResponse()
	h.publish("transaction_created", fiber.Map{"transaction": tx, "new_stock": result.Quantity}, result.Message)

	return c.Status(201).JSON(fiber.Map{
		"message":  result.Message,
		"quantity": result.Quantity,
		"data":     tx,
	})
}

// GET /api/v1/transactions?limit=&type=
func (h *InventoryHandler) GetTransactions(c *fiber.Ctx) error {
	limit, err := h.limitParam(c, h.displayLimit)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	transactions, err := h.transactions(c, limit)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	resp := make([]model.TransactionResponse, len(transactions))
	for i := range transactions {
		resp[i] = transactions[i].ToResponse()
	}
	return c.JSON(resp)
}

// GET /api/v1/export/products.csv
func (h *InventoryHandler) ExportProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts()
	if err != nil {
		return respondError(c, h.logger, err)
	}

	setCSVHeaders(c, fmt.Sprintf("inventory_report_%s.csv", time.Now().Format("20060102")))
	return report.WriteProductsCSV(c, products, h.service.LowStockThreshold())
}

// GET /api/v1/export/transactions.csv?limit=&type=
// Without limit the whole log is exported.
func (h *InventoryHandler) ExportTransactions(c *fiber.Ctx) error {
	total, err := h.service.CountTransactions()
	if err != nil {
		return respondError(c, h.logger, err)
	}
	limit, err := h.limitParam(c, total)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	transactions, err := h.transactions(c, limit)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	setCSVHeaders(c, fmt.Sprintf("transactions_%s.csv", time.Now().Format("20060102_150405")))
	return report.WriteTransactionsCSV(c, transactions)
}

// transactions returns the most recent limit entries, most recent first. With a
// type query only movements in that direction are considered.
func (h *InventoryHandler) transactions(c *fiber.Ctx, limit int) ([]model.Transaction, error) {
	raw := c.Query("type")
	if raw == "" || strings.EqualFold(raw, "all") {
		return h.service.ListTransactions(limit)
	}

	direction, err := model.ParseDirection(raw)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if limit < 0 {
		return h.service.ListTransactions(limit)
	}

	total, err := h.service.CountTransactions()
	if err != nil {
		return nil, err
	}
	all, err := h.service.ListTransactions(total)
	if err != nil {
		return nil, err
	}
	filtered := FilterTransactions(all, direction)
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

func (h *InventoryHandler) limitParam(c *fiber.Ctx, fallback int) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return fallback, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid limit %q", raw)
	}
	return limit, nil
}

func (h *InventoryHandler) publish(action string, data interface{}, message string) {
	if h.hub != nil {
		h.hub.Publish(action, data, message)
	}
}

func setCSVHeaders(c *fiber.Ctx, filename string) {
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
}

// SearchProducts keeps products whose name or SKU contains query, ignoring case.
// An empty query keeps everything.
func SearchProducts(products []model.Product, query string) []model.Product {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return products
	}

	matched := []model.Product{}
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), query) || strings.Contains(strings.ToLower(p.SKU), query) {
			matched = append(matched, p)
		}
	}
	return matched
}

// FilterTransactions keeps the transactions moving stock in direction, preserving order.
func FilterTransactions(transactions []model.Transaction, direction model.Direction) []model.Transaction {
	matched := []model.Transaction{}
	for _, t := range transactions {
		if t.Type == direction {
			matched = append(matched, t)
		}
	}
	return matched
}
