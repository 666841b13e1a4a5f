package model

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the layout transaction timestamps are surfaced in.
const TimestampLayout = "2006-01-02 15:04:05"

type Direction string

const (
	TxIn  Direction = "IN"
	TxOut Direction = "OUT"
)

// ParseDirection accepts IN or OUT in any letter case.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToUpper(strings.TrimSpace(s))) {
	case TxIn:
		return TxIn, nil
	case TxOut:
		return TxOut, nil
	}
	return "", fmt.Errorf("unknown direction %q, use IN or OUT", s)
}

// Transaction is an immutable record of one stock movement. SKU and ProductName are
// copied from the product at commit time.
type Transaction struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	SKU         string    `gorm:"type:varchar(50);index;not null" json:"sku"`
	ProductName string    `gorm:"type:varchar(255);not null" json:"product_name"`
	Type        Direction `gorm:"type:varchar(10);not null" json:"type"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	Timestamp   time.Time `gorm:"not null" json:"timestamp"`
	Notes       string    `gorm:"type:text" json:"notes"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// TransactionResponse for API responses
type TransactionResponse struct {
	ID          int64     `json:"id"`
	SKU         string    `json:"sku"`
	ProductName string    `json:"product_name"`
	Type        Direction `json:"type"`
	Quantity    int       `json:"quantity"`
	Timestamp   string    `json:"timestamp"`
	Notes       string    `json:"notes"`
}

// ToResponse converts Transaction to TransactionResponse
func (t *Transaction) ToResponse() TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		SKU:         t.SKU,
		ProductName: t.ProductName,
		Type:        t.Type,
		Quantity:    t.Quantity,
		Timestamp:   t.Timestamp.Format(TimestampLayout),
		Notes:       t.Notes,
	}
}
