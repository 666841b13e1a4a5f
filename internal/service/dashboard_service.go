package service

import (
	"sort"
	"time"

	"plumberry-inventory/internal/model"

	"github.com/shopspring/decimal"
)

const (
	// DefaultTopProducts is how many products TopProductsByValue returns when asked for none.
	DefaultTopProducts = 5
	// MaxStockMovementDays bounds the window GetStockMovement reports on.
	MaxStockMovementDays = 365
)

type DashboardService interface {
	GetDashboardStats() (*DashboardStats, error)
	GetStockMovement(days int) ([]StockMovementData, error)
	GetCategoryBreakdown() ([]CategoryCount, error)
	GetTopProductsByValue(n int) ([]ProductValue, error)
	GetLowStockProducts() ([]model.Product, error)
}

// DashboardStats untuk overview stats
type DashboardStats struct {
	TotalProducts     int    `json:"total_products"`
	TotalValue        string `json:"total_value"`
	LowStockCount     int    `json:"low_stock_count"`
	TotalTransactions int    `json:"total_transactions"`
	LowStockThreshold int    `json:"low_stock_threshold"`
}

// StockMovementData untuk chart data
type StockMovementData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type ProductValue struct {
	SKU   string          `json:"sku"`
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

type dashboardService struct {
	inventory InventoryService
	txCounter transactionCounter
	now       func() time.Time
}

// transactionCounter is the slice of the store the dashboard reads beyond the ledger.
type transactionCounter interface {
	Count() (int64, error)
	FindAll() ([]model.Transaction, error)
}

func NewDashboardService(inventory InventoryService, txs transactionCounter) DashboardService {
	return &dashboardService{inventory: inventory, txCounter: txs, now: time.Now}
}

func (s *dashboardService) GetDashboardStats() (*DashboardStats, error) {
	products, err := s.inventory.ListProducts()
	if err != nil {
		return nil, err
	}
	count, err := s.txCounter.Count()
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalProducts:     len(products),
		TotalValue:        sumValue(products).StringFixed(2),
		TotalTransactions: int(count),
		LowStockThreshold: s.inventory.LowStockThreshold(),
	}
	for _, p := range products {
		if s.inventory.IsLowStock(p) {
			stats.LowStockCount++
		}
	}
	return stats, nil
}

// GetStockMovement aggregates units moved in and out per calendar day over the
// last days days, oldest first. Days without movement are reported as zeros.
func (s *dashboardService) GetStockMovement(days int) ([]StockMovementData, error) {
	if days <= 0 {
		return nil, invalidArgument("Days must be greater than 0")
	}
	if days > MaxStockMovementDays {
		return nil, invalidArgument("Days must be at most %d", MaxStockMovementDays)
	}

	transactions, err := s.txCounter.FindAll()
	if err != nil {
		return nil, err
	}

	endDate := s.now()
	startDate := endDate.AddDate(0, 0, -(days - 1))

	results := make([]StockMovementData, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		date := startDate.AddDate(0, 0, i).Format("2006-01-02")
		results[i] = StockMovementData{Date: date}
		index[date] = i
	}

	for _, tx := range transactions {
		i, ok := index[tx.Timestamp.In(endDate.Location()).Format("2006-01-02")]
		if !ok {
			continue
		}
		if tx.Type == model.TxIn {
			results[i].Inbound += tx.Quantity
		} else {
			results[i].Outbound += tx.Quantity
		}
	}
	return results, nil
}

func (s *dashboardService) GetCategoryBreakdown() ([]CategoryCount, error) {
	products, err := s.inventory.ListProducts()
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, p := range products {
		counts[p.Category]++
	}

	breakdown := make([]CategoryCount, 0, len(counts))
	for category, n := range counts {
		breakdown = append(breakdown, CategoryCount{Category: category, Count: n})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		return breakdown[i].Category < breakdown[j].Category
	})
	return breakdown, nil
}

// GetTopProductsByValue returns the n most valuable products, ties broken by ID.
func (s *dashboardService) GetTopProductsByValue(n int) ([]ProductValue, error) {
	if n <= 0 {
		n = DefaultTopProducts
	}

	products, err := s.inventory.ListProducts()
	if err != nil {
		return nil, err
	}

	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Value().GreaterThan(products[j].Value())
	})
	if len(products) > n {
		products = products[:n]
	}

	top := make([]ProductValue, len(products))
	for i, p := range products {
		top[i] = ProductValue{SKU: p.SKU, Name: p.Name, Value: p.Value()}
	}
	return top, nil
}

func (s *dashboardService) GetLowStockProducts() ([]model.Product, error) {
	products, err := s.inventory.ListProducts()
	if err != nil {
		return nil, err
	}

	low := []model.Product{}
	for _, p := range products {
		if s.inventory.IsLowStock(p) {
			low = append(low, p)
		}
	}
	return low, nil
}
