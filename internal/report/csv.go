// Package report renders ledger listings as comma-separated text for download.
package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"plumberry-inventory/internal/model"
)

var (
	ProductHeader     = []string{"ID", "SKU", "Name", "Category", "Price", "Quantity", "Value", "Status"}
	TransactionHeader = []string{"ID", "Type", "Product", "SKU", "Quantity", "Timestamp", "Notes"}
)

// WriteProductsCSV writes one row per product, classifying stock against threshold.
func WriteProductsCSV(w io.Writer, products []model.Product, threshold int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ProductHeader); err != nil {
		return err
	}
	for i := range products {
		r := products[i].ToResponse(threshold)
		record := []string{
			strconv.FormatInt(r.ID, 10),
			r.SKU,
			r.Name,
			r.Category,
			r.Price,
			strconv.Itoa(r.Quantity),
			r.Value,
			r.Status,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTransactionsCSV writes transactions in the order given.
func WriteTransactionsCSV(w io.Writer, transactions []model.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(TransactionHeader); err != nil {
		return err
	}
	for i := range transactions {
		r := transactions[i].ToResponse()
		record := []string{
			strconv.FormatInt(r.ID, 10),
			string(r.Type),
			r.ProductName,
			r.SKU,
			strconv.Itoa(r.Quantity),
			r.Timestamp,
			r.Notes,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
