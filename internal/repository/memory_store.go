package repository

import (
	"fmt"
	"sync"

	"plumberry-inventory/internal/model"
)

// MemoryStore keeps products and transactions in process memory.
// It is safe for concurrent use and hands out copies, never its own records.
// Data is lost when the process exits.
type MemoryStore struct {
	mu            sync.RWMutex
	products      []model.Product
	skuIndex      map[string]int // sku -> position in products
	transactions  []model.Transaction
	lastProductID int64
	lastTxID      int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		skuIndex: make(map[string]int),
	}
}

func (s *MemoryStore) Products() ProductRepository {
	return memProductRepo{s}
}

func (s *MemoryStore) Transactions() TransactionRepository {
	return memTransactionRepo{s}
}

// Atomic restores the tables and counters to their state before fn if fn fails.
func (s *MemoryStore) Atomic(fn func(s Store) error) error {
	s.mu.RLock()
	snap := s.snapshot()
	s.mu.RUnlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.restore(snap)
		s.mu.Unlock()
		return err
	}
	return nil
}

type memSnapshot struct {
	products      []model.Product
	txCount       int
	lastProductID int64
	lastTxID      int64
}

func (s *MemoryStore) snapshot() memSnapshot {
	products := make([]model.Product, len(s.products))
	copy(products, s.products)
	return memSnapshot{
		products:      products,
		txCount:       len(s.transactions),
		lastProductID: s.lastProductID,
		lastTxID:      s.lastTxID,
	}
}

func (s *MemoryStore) restore(snap memSnapshot) {
	s.products = snap.products
	s.skuIndex = make(map[string]int, len(snap.products))
	for i, p := range snap.products {
		s.skuIndex[p.SKU] = i
	}
	s.transactions = s.transactions[:snap.txCount]
	s.lastProductID = snap.lastProductID
	s.lastTxID = snap.lastTxID
}

type memProductRepo struct {
	s *MemoryStore
}

func (r memProductRepo) Create(product *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.skuIndex[product.SKU]; exists {
		return ErrDuplicateSKU
	}

	r.s.lastProductID++
	product.ID = r.s.lastProductID
	r.s.skuIndex[product.SKU] = len(r.s.products)
	r.s.products = append(r.s.products, *product)
	return nil
}

func (r memProductRepo) FindAll() ([]model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	products := make([]model.Product, len(r.s.products))
	copy(products, r.s.products)
	return products, nil
}

func (r memProductRepo) FindBySKU(sku string) (*model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	i, ok := r.s.skuIndex[sku]
	if !ok {
		return nil, ErrRecordNotFound
	}
	product := r.s.products[i]
	return &product, nil
}

func (r memProductRepo) UpdateStock(id int64, newStock int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.products {
		if r.s.products[i].ID == id {
			r.s.products[i].Quantity = newStock
			return nil
		}
	}
	return fmt.Errorf("product %d: %w", id, ErrRecordNotFound)
}

func (r memProductRepo) Count() (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.products)), nil
}

type memTransactionRepo struct {
	s *MemoryStore
}

func (r memTransactionRepo) Create(tx *model.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.lastTxID++
	tx.ID = r.s.lastTxID
	r.s.transactions = append(r.s.transactions, *tx)
	return nil
}

func (r memTransactionRepo) FindAll() ([]model.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	transactions := make([]model.Transaction, len(r.s.transactions))
	copy(transactions, r.s.transactions)
	return transactions, nil
}

func (r memTransactionRepo) FindRecent(limit int) ([]model.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := len(r.s.transactions)
	if limit < n {
		n = limit
	}
	if n < 0 {
		n = 0
	}

	recent := make([]model.Transaction, 0, n)
	for i := len(r.s.transactions) - 1; i >= 0 && len(recent) < n; i-- {
		recent = append(recent, r.s.transactions[i])
	}
	return recent, nil
}

func (r memTransactionRepo) Count() (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.transactions)), nil
}

// Ensure MemoryStore implements Store interface.
var _ Store = (*MemoryStore)(nil)
