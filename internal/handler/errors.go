package handler

import (
	"errors"

	"plumberry-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// respondError maps ledger failures to HTTP statuses. Anything that is not an
// expected ledger outcome is logged and hidden behind a 500.
func respondError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	var insufficient *service.InsufficientStockError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
	case errors.As(err, &insufficient):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":     err.Error(),
			"available": insufficient.Available,
		})
	case errors.Is(err, service.ErrInvalidArgument):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrDuplicateKey):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}

	logger.Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
}
