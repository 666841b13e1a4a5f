package model

import "github.com/shopspring/decimal"

// DefaultLowStockThreshold is the quantity below which a product is reported as low stock.
const DefaultLowStockThreshold = 30

type Product struct {
	ID       int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	SKU      string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku"`
	Name     string          `gorm:"type:varchar(255);not null" json:"name"`
	Category string          `gorm:"type:varchar(100)" json:"category"`
	Price    decimal.Decimal `gorm:"type:text;not null" json:"price"` // stored as text to keep full precision
	Quantity int             `gorm:"not null;default:0" json:"quantity"`
}

func (Product) TableName() string {
	return "products"
}

// Value is price times quantity on hand.
func (p Product) Value() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// IsLowStock reports whether the quantity on hand is below threshold.
func (p Product) IsLowStock(threshold int) bool {
	return p.Quantity < threshold
}

// ProductResponse is the rendered form of a Product for API and export callers.
type ProductResponse struct {
	ID       int64  `json:"id"`
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
	Value    string `json:"value"`
	LowStock bool   `json:"low_stock"`
	Status   string `json:"status"`
}

// ToResponse converts Product to ProductResponse, classifying it against threshold.
func (p *Product) ToResponse(threshold int) ProductResponse {
	low := p.IsLowStock(threshold)
	status := "OK"
	if low {
		status = "LOW"
	}

	return ProductResponse{
		ID:       p.ID,
		SKU:      p.SKU,
		Name:     p.Name,
		Category: p.Category,
		Price:    p.Price.StringFixed(2),
		Quantity: p.Quantity,
		Value:    p.Value().StringFixed(2),
		LowStock: low,
		Status:   status,
	}
}
