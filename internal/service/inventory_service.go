package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"plumberry-inventory/internal/model"
	"plumberry-inventory/internal/repository"
	"plumberry-inventory/pkg/validator"

	"github.com/shopspring/decimal"
)

// InventoryService is the inventory ledger: the product table, the transaction log
// and the rules that keep them consistent. It never logs; callers render the
// returned messages and errors.
type InventoryService interface {
	AddProduct(in AddProductInput) (*AddProductResult, error)
	FindProductBySKU(sku string) (*model.Product, error)
	AdjustStock(in AdjustStockInput) (*AdjustStockResult, error)
	AddStock(sku string, quantity int, notes string) (*AdjustStockResult, error)
	RemoveStock(sku string, quantity int, notes string) (*AdjustStockResult, error)
	ListProducts() ([]model.Product, error)
	ListTransactions(limit int) ([]model.Transaction, error)
	CountTransactions() (int, error)
	TotalInventoryValue() (decimal.Decimal, error)
	IsLowStock(product model.Product) bool
	LowStockThreshold() int
}

type AddProductInput struct {
	Name     string          `validate:"notblank"`
	SKU      string          `validate:"notblank"`
	Category string          `validate:"notblank"`
	Price    decimal.Decimal `validate:"-"`
	Quantity int             `validate:"gte=0"`
}

type AddProductResult struct {
	ID      int64
	Product model.Product
	Message string
}

type AdjustStockInput struct {
	SKU       string          `validate:"notblank"`
	Direction model.Direction `validate:"oneof=IN OUT"`
	Quantity  int             `validate:"gt=0"`
	Notes     string
}

type AdjustStockResult struct {
	Quantity    int
	Transaction model.Transaction
	Message     string
}

// Option configures an InventoryService.
type Option func(*inventoryService)

// WithClock replaces time.Now as the source of transaction timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *inventoryService) {
		s.now = now
	}
}

// WithLowStockThreshold sets the quantity below which products count as low stock.
func WithLowStockThreshold(threshold int) Option {
	return func(s *inventoryService) {
		s.lowStockThreshold = threshold
	}
}

type inventoryService struct {
	// mu serializes mutations: the SKU check and the ID counters are check-then-act.
	mu                sync.RWMutex
	store             repository.Store
	now               func() time.Time
	lowStockThreshold int
}

func NewInventoryService(store repository.Store, opts ...Option) InventoryService {
	s := &inventoryService{
		store:             store,
		now:               time.Now,
		lowStockThreshold: model.DefaultLowStockThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *inventoryService) AddProduct(in AddProductInput) (*AddProductResult, error) {
	if err := validateInput(&in); err != nil {
		return nil, err
	}
	if in.Price.IsNegative() {
		return nil, invalidArgument("Price must be greater than or equal to 0")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.store.Products().FindBySKU(in.SKU)
	if err == nil {
		return nil, duplicateKey(in.SKU)
	}
	if !errors.Is(err, repository.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up SKU %s: %w", in.SKU, err)
	}

	product := &model.Product{
		SKU:      in.SKU,
		Name:     in.Name,
		Category: in.Category,
		Price:    in.Price,
		Quantity: in.Quantity,
	}
	if err := s.store.Products().Create(product); err != nil {
		if errors.Is(err, repository.ErrDuplicateSKU) {
			return nil, duplicateKey(in.SKU)
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return &AddProductResult{
		ID:      product.ID,
		Product: *product,
		Message: fmt.Sprintf("Product '%s' added successfully!", product.Name),
	}, nil
}

func (s *inventoryService) FindProductBySKU(sku string) (*model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, err := s.store.Products().FindBySKU(sku)
	if errors.Is(err, repository.ErrRecordNotFound) {
		return nil, notFound(sku)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up SKU %s: %w", sku, err)
	}
	return product, nil
}

func (s *inventoryService) AdjustStock(in AdjustStockInput) (*AdjustStockResult, error) {
	if err := validateInput(&in); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var result *AdjustStockResult
	err := s.store.Atomic(func(st repository.Store) error {
		product, err := st.Products().FindBySKU(in.SKU)
		if errors.Is(err, repository.ErrRecordNotFound) {
			return notFound(in.SKU)
		}
		if err != nil {
			return fmt.Errorf("failed to look up SKU %s: %w", in.SKU, err)
		}

		newStock := product.Quantity
		verb := "Added %d units to %s"
		if in.Direction == model.TxIn {
			newStock += in.Quantity
		} else {
			if product.Quantity < in.Quantity {
				return &InsufficientStockError{SKU: product.SKU, Available: product.Quantity, Requested: in.Quantity}
			}
			newStock -= in.Quantity
			verb = "Removed %d units from %s"
		}
		if newStock < 0 {
			panic(fmt.Sprintf("inventory: quantity of %s would become %d", product.SKU, newStock))
		}

		if err := st.Products().UpdateStock(product.ID, newStock); err != nil {
			return fmt.Errorf("failed to update stock of %s: %w", product.SKU, err)
		}

		tx := &model.Transaction{
			SKU:         product.SKU,
			ProductName: product.Name,
			Type:        in.Direction,
			Quantity:    in.Quantity,
			Timestamp:   s.now().Truncate(time.Second),
			Notes:       in.Notes,
		}
		if err := st.Transactions().Create(tx); err != nil {
			return fmt.Errorf("failed to record transaction: %w", err)
		}

		result = &AdjustStockResult{
			Quantity:    newStock,
			Transaction: *tx,
			Message:     fmt.Sprintf(verb, in.Quantity, product.Name),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *inventoryService) AddStock(sku string, quantity int, notes string) (*AdjustStockResult, error) {
	return s.AdjustStock(AdjustStockInput{SKU: sku, Direction: model.TxIn, Quantity: quantity, Notes: notes})
}

func (s *inventoryService) RemoveStock(sku string, quantity int, notes string) (*AdjustStockResult, error) {
	return s.AdjustStock(AdjustStockInput{SKU: sku, Direction: model.TxOut, Quantity: quantity, Notes: notes})
}

func (s *inventoryService) ListProducts() ([]model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products, err := s.store.Products().FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}

// ListTransactions returns at most limit transactions, most recent first.
func (s *inventoryService) ListTransactions(limit int) ([]model.Transaction, error) {
	if limit < 0 {
		return nil, invalidArgument("Limit must be greater than or equal to 0")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	transactions, err := s.store.Transactions().FindRecent(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	if transactions == nil {
		transactions = []model.Transaction{}
	}
	return transactions, nil
}

// CountTransactions returns the length of the transaction log.
func (s *inventoryService) CountTransactions() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, err := s.store.Transactions().Count()
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return int(n), nil
}

func (s *inventoryService) TotalInventoryValue() (decimal.Decimal, error) {
	products, err := s.ListProducts()
	if err != nil {
		return decimal.Zero, err
	}
	return sumValue(products), nil
}

func (s *inventoryService) IsLowStock(product model.Product) bool {
	return product.IsLowStock(s.lowStockThreshold)
}

func (s *inventoryService) LowStockThreshold() int {
	return s.lowStockThreshold
}

func sumValue(products []model.Product) decimal.Decimal {
	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.Value())
	}
	return total
}

func validateInput(in interface{}) error {
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return invalidArgument("%s", errs[0].Message())
	}
	return nil
}
