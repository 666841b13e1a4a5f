package repository

import (
	"plumberry-inventory/internal/model"

	"gorm.io/gorm"
)

type TransactionRepository interface {
	// Create appends tx to the log and assigns the next sequential ID to it.
	Create(tx *model.Transaction) error
	// FindAll returns the whole log in insertion order.
	FindAll() ([]model.Transaction, error)
	// FindRecent returns at most limit entries, most recent first.
	FindRecent(limit int) ([]model.Transaction, error)
	Count() (int64, error)
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) Create(tx *model.Transaction) error {
	return r.db.Create(tx).Error
}

func (r *transactionRepo) FindAll() ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Order("id ASC").Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindRecent(limit int) ([]model.Transaction, error) {
	transactions := []model.Transaction{}
	if limit <= 0 {
		return transactions, nil
	}
	err := r.db.Order("id DESC").Limit(limit).Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Transaction{}).Count(&count).Error
	return count, err
}

// GormStore is a Store backed by gorm. Opened over SQLite ":memory:" it keeps the
// tables process-local.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Products() ProductRepository {
	return NewProductRepo(s.db)
}

func (s *GormStore) Transactions() TransactionRepository {
	return NewTransactionRepo(s.db)
}

func (s *GormStore) Atomic(fn func(s Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

var _ Store = (*GormStore)(nil)
