package service

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SampleProducts is the Plumberry catalogue loaded by SeedSampleData.
var SampleProducts = []AddProductInput{
	{Name: "Plumberry Jam", SKU: "PLM001", Category: "Preserves", Price: decimal.RequireFromString("12.99"), Quantity: 50},
	{Name: "Dried Plumberries", SKU: "PLM002", Category: "Dried Fruits", Price: decimal.RequireFromString("8.50"), Quantity: 100},
	{Name: "Plumberry Juice", SKU: "PLM003", Category: "Beverages", Price: decimal.RequireFromString("5.99"), Quantity: 75},
	{Name: "Plumberry Tea", SKU: "PLM004", Category: "Beverages", Price: decimal.RequireFromString("7.25"), Quantity: 60},
}

// SeedSampleData adds the sample catalogue and one incoming delivery of Plumberry Jam
// through the ledger's own operations.
func SeedSampleData(inventory InventoryService) error {
	for _, p := range SampleProducts {
		if _, err := inventory.AddProduct(p); err != nil {
			return fmt.Errorf("seed product %s: %w", p.SKU, err)
		}
	}
	if _, err := inventory.AddStock("PLM001", 30, "Initial stock from supplier"); err != nil {
		return fmt.Errorf("seed transaction: %w", err)
	}
	return nil
}
