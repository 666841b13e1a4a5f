package repository

import "errors"

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateSKU   = errors.New("sku already exists")
)

// Store groups the product and transaction tables behind one handle so that a
// stock mutation and its transaction entry can be committed together.
type Store interface {
	Products() ProductRepository
	Transactions() TransactionRepository

	// Atomic runs fn against a view of the store whose writes are discarded
	// if fn returns an error.
	Atomic(fn func(s Store) error) error
}
