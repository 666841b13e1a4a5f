package service

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"plumberry-inventory/internal/model"
	"plumberry-inventory/internal/repository"

	"github.com/shopspring/decimal"
)

var fixedNow = time.Date(2024, 3, 14, 9, 26, 53, 589793000, time.Local)

// ledgerStores returns a fresh store per backend.
func ledgerStores(t *testing.T) map[string]repository.Store {
	t.Helper()
	sqlite, err := repository.Open("sqlite", nil)
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	return map[string]repository.Store{
		"memory": repository.NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func newTestService(opts ...Option) InventoryService {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewInventoryService(repository.NewMemoryStore(), opts...)
}

func jam() AddProductInput {
	return AddProductInput{
		Name:     "Plumberry Jam",
		SKU:      "PLM001",
		Category: "Preserves",
		Price:    decimal.RequireFromString("12.99"),
		Quantity: 50,
	}
}

func TestAddProduct_AssignsSequentialIDs(t *testing.T) {
	svc := newTestService()

	for i, p := range SampleProducts {
		res, err := svc.AddProduct(p)
		if err != nil {
			t.Fatalf("AddProduct(%s) failed: %v", p.SKU, err)
		}
		if res.ID != int64(i+1) {
			t.Errorf("AddProduct(%s) id = %d, want %d", p.SKU, res.ID, i+1)
		}
	}
}

func TestAddProduct_Message(t *testing.T) {
	svc := newTestService()

	res, err := svc.AddProduct(jam())
	if err != nil {
		t.Fatalf("AddProduct failed: %v", err)
	}
	if res.Message != "Product 'Plumberry Jam' added successfully!" {
		t.Errorf("unexpected message %q", res.Message)
	}
	if res.Product.Quantity != 50 || !res.Product.Price.Equal(decimal.RequireFromString("12.99")) {
		t.Errorf("product attributes not preserved: %+v", res.Product)
	}
}

func TestAddProduct_DoesNotLogTransaction(t *testing.T) {
	svc := newTestService()

	if _, err := svc.AddProduct(jam()); err != nil {
		t.Fatalf("AddProduct failed: %v", err)
	}
	txs, err := svc.ListTransactions(10)
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	if len(txs) != 0 {
		t.Errorf("expected no transactions, got %d", len(txs))
	}
}

func TestAddProduct_InvalidArguments(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *AddProductInput)
	}{
		{"empty name", func(in *AddProductInput) { in.Name = "" }},
		{"blank name", func(in *AddProductInput) { in.Name = "   " }},
		{"empty sku", func(in *AddProductInput) { in.SKU = "" }},
		{"blank sku", func(in *AddProductInput) { in.SKU = "\t" }},
		{"empty category", func(in *AddProductInput) { in.Category = "" }},
		{"negative price", func(in *AddProductInput) { in.Price = decimal.RequireFromString("-0.01") }},
		{"negative quantity", func(in *AddProductInput) { in.Quantity = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService()
			in := jam()
			tt.mutate(&in)

			_, err := svc.AddProduct(in)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
			products, _ := svc.ListProducts()
			if len(products) != 0 {
				t.Errorf("product table changed: %d products", len(products))
			}
		})
	}
}

func TestAddProduct_ZeroPriceAndQuantityAllowed(t *testing.T) {
	svc := newTestService()
	in := jam()
	in.Price = decimal.Zero
	in.Quantity = 0

	if _, err := svc.AddProduct(in); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
}

func TestAddProduct_DuplicateSKU(t *testing.T) {
	svc := newTestService()

	first := AddProductInput{Name: "Dried Plumberries", SKU: "PLM002", Category: "Dried Fruits", Price: decimal.RequireFromString("8.50"), Quantity: 100}
	second := AddProductInput{Name: "Other", SKU: "PLM002", Category: "Misc", Price: decimal.RequireFromString("1"), Quantity: 1}

	if _, err := svc.AddProduct(first); err != nil {
		t.Fatalf("first AddProduct failed: %v", err)
	}
	_, err := svc.AddProduct(second)
	if !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
	if err.Error() != "SKU PLM002 already exists!" {
		t.Errorf("unexpected message %q", err.Error())
	}

	products, _ := svc.ListProducts()
	count := 0
	for _, p := range products {
		if p.SKU == "PLM002" {
			count++
			if p.Name != "Dried Plumberries" {
				t.Errorf("original product overwritten: %+v", p)
			}
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one PLM002, got %d", count)
	}
}

func TestAddProduct_SKUIsCaseSensitive(t *testing.T) {
	svc := newTestService()

	if _, err := svc.AddProduct(jam()); err != nil {
		t.Fatalf("AddProduct failed: %v", err)
	}
	lower := jam()
	lower.SKU = "plm001"
	if _, err := svc.AddProduct(lower); err != nil {
		t.Fatalf("expected lower-case SKU to be distinct, got %v", err)
	}
	if _, err := svc.FindProductBySKU("Plm001"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for mixed-case lookup, got %v", err)
	}
}

func TestFindProductBySKU_NotFound(t *testing.T) {
	svc := newTestService()

	_, err := svc.FindProductBySKU("NOPE")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err.Error() != "Product with SKU NOPE not found!" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

// add_product, IN 30, then an oversized OUT that must leave everything untouched.
func TestPlumberryJamScenario(t *testing.T) {
	for name, store := range ledgerStores(t) {
		t.Run(name, func(t *testing.T) {
			plumberryJamScenario(t, NewInventoryService(store, WithClock(func() time.Time { return fixedNow })))
		})
	}
}

func plumberryJamScenario(t *testing.T, svc InventoryService) {

	res, err := svc.AddProduct(jam())
	if err != nil {
		t.Fatalf("AddProduct failed: %v", err)
	}
	if res.ID != 1 {
		t.Fatalf("expected id 1, got %d", res.ID)
	}

	in, err := svc.AdjustStock(AdjustStockInput{SKU: "PLM001", Direction: model.TxIn, Quantity: 30, Notes: "restock"})
	if err != nil {
		t.Fatalf("AdjustStock IN failed: %v", err)
	}
	if in.Quantity != 80 {
		t.Errorf("expected quantity 80, got %d", in.Quantity)
	}
	if in.Message != "Added 30 units to Plumberry Jam" {
		t.Errorf("unexpected message %q", in.Message)
	}

	_, err = svc.AdjustStock(AdjustStockInput{SKU: "PLM001", Direction: model.TxOut, Quantity: 100, Notes: "order"})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	var insufficient *InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected *InsufficientStockError, got %T", err)
	}
	if insufficient.Available != 80 || insufficient.Requested != 100 {
		t.Errorf("unexpected error payload %+v", insufficient)
	}
	if !strings.Contains(err.Error(), "Available: 80") {
		t.Errorf("message must report available quantity, got %q", err.Error())
	}

	product, err := svc.FindProductBySKU("PLM001")
	if err != nil {
		t.Fatalf("FindProductBySKU failed: %v", err)
	}
	if product.Quantity != 80 {
		t.Errorf("quantity changed to %d", product.Quantity)
	}
	txs, _ := svc.ListTransactions(100)
	if len(txs) != 1 {
		t.Errorf("expected 1 transaction, got %d", len(txs))
	}
	if n, _ := svc.CountTransactions(); n != 1 {
		t.Errorf("expected a log of 1, got %d", n)
	}

	out, err := svc.RemoveStock("PLM001", 80, "clearance")
	if err != nil {
		t.Fatalf("RemoveStock failed: %v", err)
	}
	if out.Quantity != 0 || out.Transaction.ID != 2 || out.Transaction.Type != model.TxOut {
		t.Errorf("unexpected OUT result %+v", out)
	}
	value, _ := svc.TotalInventoryValue()
	if !value.IsZero() {
		t.Errorf("expected zero value after clearance, got %s", value)
	}
}

func TestAdjustStock_RecordsTransaction(t *testing.T) {
	svc := newTestService()
	if _, err := svc.AddProduct(jam()); err != nil {
		t.Fatalf("AddProduct failed: %v", err)
	}

	res, err := svc.RemoveStock("PLM001", 20, "market stall")
	if err != nil {
		t.Fatalf("RemoveStock failed: %v", err)
	}

	tx := res.Transaction
	if tx.ID != 1 || tx.SKU != "PLM001" || tx.ProductName != "Plumberry Jam" || tx.Type != model.TxOut || tx.Quantity != 20 || tx.Notes != "market stall" {
		t.Errorf("unexpected transaction %+v", tx)
	}
	if !tx.Timestamp.Equal(fixedNow.Truncate(time.Second)) {
		t.Errorf("timestamp = %v, want %v", tx.Timestamp, fixedNow.Truncate(time.Second))
	}
	if got := tx.ToResponse().Timestamp; got != "2024-03-14 09:26:53" {
		t.Errorf("formatted timestamp = %q", got)
	}
	if res.Message != "Removed 20 units from Plumberry Jam" {
		t.Errorf("unexpected message %q", res.Message)
	}
}

func TestAdjustStock_RemoveExactlyAvailable(t *testing.T) {
	svc := newTestService()
	if _, err := svc.AddProduct(jam()); err != nil {
		t.Fatalf("AddProduct failed: %v", err)
	}

	res, err := svc.RemoveStock("PLM001", 50, "")
	if err != nil {
		t.Fatalf("RemoveStock failed: %v", err)
	}
	if res.Quantity != 0 {
		t.Errorf("expected 0 left, got %d", res.Quantity)
	}
}

func TestAdjustStock_Failures(t *testing.T) {
	tests := []struct {
		name    string
		in      AdjustStockInput
		wantErr error
	}{
		{"zero quantity", AdjustStockInput{SKU: "PLM001", Direction: model.TxIn, Quantity: 0}, ErrInvalidArgument},
		{"negative quantity", AdjustStockInput{SKU: "PLM001", Direction: model.TxOut, Quantity: -5}, ErrInvalidArgument},
		{"bad direction", AdjustStockInput{SKU: "PLM001", Direction: "SIDEWAYS", Quantity: 1}, ErrInvalidArgument},
		{"empty sku", AdjustStockInput{SKU: "", Direction: model.TxIn, Quantity: 1}, ErrInvalidArgument},
		{"unknown sku", AdjustStockInput{SKU: "PLM999", Direction: model.TxIn, Quantity: 1}, ErrNotFound},
		{"too many out", AdjustStockInput{SKU: "PLM001", Direction: model.TxOut, Quantity: 51}, ErrInsufficientStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService()
			if _, err := svc.AddProduct(jam()); err != nil {
				t.Fatalf("AddProduct failed: %v", err)
			}

			_, err := svc.AdjustStock(tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if !IsExpected(err) {
				t.Errorf("IsExpected(%v) = false", err)
			}

			product, _ := svc.FindProductBySKU("PLM001")
			if product.Quantity != 50 {
				t.Errorf("quantity changed to %d", product.Quantity)
			}
			txs, _ := svc.ListTransactions(10)
			if len(txs) != 0 {
				t.Errorf("expected empty log, got %d entries", len(txs))
			}
		})
	}
}

func TestListTransactions_MostRecentFirst(t *testing.T) {
	svc := newTestService()
	if _, err := svc.AddProduct(jam()); err != nil {
		t.Fatalf("AddProduct failed: %v", err)
	}
	for i := 1; i <= 5; i++ {
		if _, err := svc.AddStock("PLM001", i, ""); err != nil {
			t.Fatalf("AddStock failed: %v", err)
		}
	}

	tests := []struct {
		limit   int
		wantIDs []int64
	}{
		{0, []int64{}},
		{2, []int64{5, 4}},
		{5, []int64{5, 4, 3, 2, 1}},
		{50, []int64{5, 4, 3, 2, 1}},
	}
	for _, tt := range tests {
		txs, err := svc.ListTransactions(tt.limit)
		if err != nil {
			t.Fatalf("ListTransactions(%d) failed: %v", tt.limit, err)
		}
		if len(txs) != len(tt.wantIDs) {
			t.Fatalf("ListTransactions(%d) returned %d entries, want %d", tt.limit, len(txs), len(tt.wantIDs))
		}
		for i, id := range tt.wantIDs {
			if txs[i].ID != id {
				t.Errorf("ListTransactions(%d)[%d].ID = %d, want %d", tt.limit, i, txs[i].ID, id)
			}
		}
	}

	if _, err := svc.ListTransactions(-1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for negative limit, got %v", err)
	}
}

func TestTotalInventoryValue(t *testing.T) {
	svc := newTestService()
	if err := SeedSampleData(svc); err != nil {
		t.Fatalf("SeedSampleData failed: %v", err)
	}

	// 12.99*80 + 8.50*100 + 5.99*75 + 7.25*60
	want := decimal.RequireFromString("2773.45")
	got, err := svc.TotalInventoryValue()
	if err != nil {
		t.Fatalf("TotalInventoryValue failed: %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("TotalInventoryValue = %s, want %s", got, want)
	}
}

func TestLowStockThreshold(t *testing.T) {
	svc := newTestService()
	if svc.LowStockThreshold() != 30 {
		t.Errorf("default threshold = %d, want 30", svc.LowStockThreshold())
	}
	if !svc.IsLowStock(model.Product{Quantity: 29}) || svc.IsLowStock(model.Product{Quantity: 30}) {
		t.Error("threshold boundary misclassified")
	}

	custom := newTestService(WithLowStockThreshold(5))
	if custom.IsLowStock(model.Product{Quantity: 5}) || !custom.IsLowStock(model.Product{Quantity: 4}) {
		t.Error("custom threshold not applied")
	}
}

func TestSeedSampleData(t *testing.T) {
	svc := newTestService()
	if err := SeedSampleData(svc); err != nil {
		t.Fatalf("SeedSampleData failed: %v", err)
	}

	products, _ := svc.ListProducts()
	if len(products) != 4 {
		t.Fatalf("expected 4 products, got %d", len(products))
	}
	for i, p := range products {
		if p.ID != int64(i+1) || p.SKU != SampleProducts[i].SKU {
			t.Errorf("product %d = %+v", i, p)
		}
	}

	txs, _ := svc.ListTransactions(10)
	if len(txs) != 1 || txs[0].Notes != "Initial stock from supplier" {
		t.Errorf("unexpected seeded log %+v", txs)
	}

	if err := SeedSampleData(svc); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("second seed should fail with ErrDuplicateKey, got %v", err)
	}
}

func TestAdjustStock_ConcurrentCallersAreSerialized(t *testing.T) {
	svc := newTestService()
	in := jam()
	in.Quantity = 100
	if _, err := svc.AddProduct(in); err != nil {
		t.Fatalf("AddProduct failed: %v", err)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 150; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.RemoveStock("PLM001", 1, ""); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else if !errors.Is(err, ErrInsufficientStock) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 100 {
		t.Errorf("expected 100 successful removals, got %d", succeeded)
	}
	product, _ := svc.FindProductBySKU("PLM001")
	if product.Quantity != 0 {
		t.Errorf("expected 0 left, got %d", product.Quantity)
	}
	txs, _ := svc.ListTransactions(1000)
	if len(txs) != 100 {
		t.Errorf("expected 100 transactions, got %d", len(txs))
	}
}

func TestAddProduct_ConcurrentDuplicateSKU(t *testing.T) {
	svc := newTestService()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.AddProduct(jam())
		}()
	}
	wg.Wait()

	products, _ := svc.ListProducts()
	if len(products) != 1 || products[0].ID != 1 {
		t.Errorf("expected a single product with id 1, got %+v", products)
	}
}

// failingStore lets tests inject store failures.
type failingStore struct {
	repository.Store
	failTxCreate *bool
}

type failingTxRepo struct {
	repository.TransactionRepository
}

func (failingTxRepo) Create(*model.Transaction) error {
	return errors.New("disk on fire")
}

func (s *failingStore) Transactions() repository.TransactionRepository {
	if *s.failTxCreate {
		return failingTxRepo{s.Store.Transactions()}
	}
	return s.Store.Transactions()
}

func (s *failingStore) Atomic(fn func(repository.Store) error) error {
	return s.Store.Atomic(func(inner repository.Store) error {
		return fn(&failingStore{Store: inner, failTxCreate: s.failTxCreate})
	})
}

func TestAdjustStock_StoreFailureRollsBack(t *testing.T) {
	for name, backend := range ledgerStores(t) {
		t.Run(name, func(t *testing.T) {
			fail := false
			svc := NewInventoryService(&failingStore{Store: backend, failTxCreate: &fail})
			if _, err := svc.AddProduct(jam()); err != nil {
				t.Fatalf("AddProduct failed: %v", err)
			}

			fail = true
			_, err := svc.AddStock("PLM001", 10, "")
			if err == nil {
				t.Fatal("expected error")
			}
			if IsExpected(err) {
				t.Errorf("store failure must not look like a validation outcome: %v", err)
			}

			fail = false
			product, _ := svc.FindProductBySKU("PLM001")
			if product.Quantity != 50 {
				t.Errorf("quantity update was not rolled back: %d", product.Quantity)
			}
			if n, _ := svc.CountTransactions(); n != 0 {
				t.Errorf("expected an empty log, got %d", n)
			}
		})
	}
}
