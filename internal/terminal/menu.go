// Package terminal is the interactive console front-end of the inventory ledger.
package terminal

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"plumberry-inventory/internal/service"

	"github.com/shopspring/decimal"
)

const rule = "----------------------------------------------------------------------"
const banner = "======================================================================"

type Menu struct {
	inventory    service.InventoryService
	in           *bufio.Scanner
	out          io.Writer
	displayLimit int
}

// NewMenu reads choices from in and renders to out. displayLimit bounds the
// transaction history view.
func NewMenu(inventory service.InventoryService, in io.Reader, out io.Writer, displayLimit int) *Menu {
	return &Menu{
		inventory:    inventory,
		in:           bufio.NewScanner(in),
		out:          out,
		displayLimit: displayLimit,
	}
}

// Run loops over the main menu until the user exits or input ends.
func (m *Menu) Run() error {
	for {
		m.printMenu()
		choice, ok := m.prompt("\nSelect option (1-7): ")
		if !ok {
			return m.in.Err()
		}

		switch choice {
		case "1":
			m.addProduct()
		case "2":
			m.viewInventory()
		case "3":
			m.adjustStock(true)
		case "4":
			m.adjustStock(false)
		case "5":
			m.viewTransactions()
		case "6":
			m.searchProduct()
		case "7":
			m.println("\nThank you for using Plumberry Inventory System!")
			return nil
		default:
			m.println("\nInvalid option! Please select 1-7.")
		}
	}
}

func (m *Menu) printMenu() {
	m.println("\n" + banner)
	m.println("               PLUMBERRY INVENTORY SYSTEM")
	m.println(banner)
	m.println("1. Add New Product")
	m.println("2. View Inventory")
	m.println("3. Add Stock (Incoming)")
	m.println("4. Remove Stock (Sales/Outgoing)")
	m.println("5. View Transaction History")
	m.println("6. Search Product by SKU")
	m.println("7. Exit")
	m.println(rule)
}

func (m *Menu) addProduct() {
	m.println("\nADD NEW PRODUCT")
	m.println(rule)

	name, _ := m.prompt("Product Name: ")
	sku, _ := m.prompt("SKU: ")
	category, _ := m.prompt("Category: ")
	priceText, _ := m.prompt("Price ($): ")
	qtyText, _ := m.prompt("Quantity: ")

	price, err := decimal.NewFromString(priceText)
	if err != nil {
		m.println("Invalid input! Please enter valid numbers.")
		return
	}
	quantity, err := strconv.Atoi(qtyText)
	if err != nil {
		m.println("Invalid input! Please enter valid numbers.")
		return
	}

	result, err := m.inventory.AddProduct(service.AddProductInput{
		Name:     name,
		SKU:      strings.ToUpper(sku),
		Category: category,
		Price:    price,
		Quantity: quantity,
	})
	if err != nil {
		m.fail(err)
		return
	}
	m.println("\n" + result.Message)
}

func (m *Menu) viewInventory() {
	m.println("\nCURRENT INVENTORY")
	m.println(banner)

	products, err := m.inventory.ListProducts()
	if err != nil {
		m.fail(err)
		return
	}
	if len(products) == 0 {
		m.println("No products in inventory.")
		return
	}

	for _, p := range products {
		status := "OK "
		if m.inventory.IsLowStock(p) {
			status = "LOW"
		}
		m.printf("%s | SKU: %-8s | %-20s\n", status, p.SKU, p.Name)
		m.printf("     Category: %-15s | Price: $%6s | Stock: %3d | Value: $%s\n",
			p.Category, p.Price.StringFixed(2), p.Quantity, p.Value().StringFixed(2))
		m.println(rule)
	}

	total, err := m.inventory.TotalInventoryValue()
	if err != nil {
		m.fail(err)
		return
	}
	m.printf("\nTotal Inventory Value: $%s\n", total.StringFixed(2))
	m.printf("Total Products: %d\n", len(products))
}

func (m *Menu) adjustStock(incoming bool) {
	if incoming {
		m.println("\nADD STOCK (Incoming)")
	} else {
		m.println("\nREMOVE STOCK (Outgoing/Sales)")
	}
	m.println(rule)

	skuText, _ := m.prompt("Product SKU: ")
	sku := strings.ToUpper(skuText)

	product, err := m.inventory.FindProductBySKU(sku)
	if err != nil {
		m.fail(err)
		return
	}
	if !incoming {
		m.printf("   Available stock: %d units\n", product.Quantity)
	}

	qtyText, _ := m.prompt("Quantity: ")
	quantity, err := strconv.Atoi(qtyText)
	if err != nil {
		m.println("Invalid quantity!")
		return
	}
	notes, _ := m.prompt("Notes (optional): ")

	var result *service.AdjustStockResult
	if incoming {
		result, err = m.inventory.AddStock(sku, quantity, notes)
	} else {
		result, err = m.inventory.RemoveStock(sku, quantity, notes)
	}
	if err != nil {
		m.fail(err)
		return
	}
	m.println("\n" + result.Message)
	m.printf("   New stock level: %d\n", result.Quantity)
}

func (m *Menu) viewTransactions() {
	m.println("\nTRANSACTION HISTORY")
	m.println(banner)

	transactions, err := m.inventory.ListTransactions(m.displayLimit)
	if err != nil {
		m.fail(err)
		return
	}
	if len(transactions) == 0 {
		m.println("No transactions recorded.")
		return
	}

	m.printf("Showing last %d transactions:\n\n", len(transactions))
	for _, t := range transactions {
		m.printf("%-3s | ID: %3d | %-20s (%s)\n", t.Type, t.ID, t.ProductName, t.SKU)
		m.printf("       Qty: %3d | Time: %s\n", t.Quantity, t.ToResponse().Timestamp)
		if t.Notes != "" {
			m.printf("       Notes: %s\n", t.Notes)
		}
		m.println(rule)
	}
}

func (m *Menu) searchProduct() {
	m.println("\nSEARCH PRODUCT")
	m.println(rule)

	sku, _ := m.prompt("Enter SKU: ")
	product, err := m.inventory.FindProductBySKU(strings.ToUpper(sku))
	if err != nil {
		m.fail(err)
		return
	}

	m.println("\nProduct Found!")
	m.println(banner)
	m.printf("Name:     %s\n", product.Name)
	m.printf("SKU:      %s\n", product.SKU)
	m.printf("Category: %s\n", product.Category)
	m.printf("Price:    $%s\n", product.Price.StringFixed(2))
	m.printf("Stock:    %d units\n", product.Quantity)
	m.printf("Value:    $%s\n", product.Value().StringFixed(2))
	if m.inventory.IsLowStock(*product) {
		m.println("Status:   LOW STOCK - Reorder needed!")
	} else {
		m.println("Status:   Stock level OK")
	}
}

// prompt prints label and returns the next trimmed input line.
func (m *Menu) prompt(label string) (string, bool) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *Menu) fail(err error) {
	if service.IsExpected(err) {
		m.println("Error: " + err.Error())
		return
	}
	m.println("Unexpected error: " + err.Error())
}

func (m *Menu) println(s string) {
	fmt.Fprintln(m.out, s)
}

func (m *Menu) printf(format string, args ...interface{}) {
	fmt.Fprintf(m.out, format, args...)
}
