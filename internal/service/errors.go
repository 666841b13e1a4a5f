package service

import (
	"errors"
	"fmt"
)

// Expected, caller-recoverable failures. Match them with errors.Is.
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// LedgerError is an expected failure carrying the message shown to the user.
type LedgerError struct {
	Kind    error
	Message string
}

func (e *LedgerError) Error() string {
	return e.Message
}

func (e *LedgerError) Unwrap() error {
	return e.Kind
}

// InsufficientStockError reports an OUT movement larger than the quantity on hand.
type InsufficientStockError struct {
	SKU       string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock! Available: %d", e.Available)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

func invalidArgument(format string, args ...interface{}) error {
	return &LedgerError{Kind: ErrInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func duplicateKey(sku string) error {
	return &LedgerError{Kind: ErrDuplicateKey, Message: fmt.Sprintf("SKU %s already exists!", sku)}
}

func notFound(sku string) error {
	return &LedgerError{Kind: ErrNotFound, Message: fmt.Sprintf("Product with SKU %s not found!", sku)}
}

// IsExpected reports whether err is one of the ledger's validation outcomes rather
// than a store failure.
func IsExpected(err error) bool {
	return errors.Is(err, ErrInvalidArgument) ||
		errors.Is(err, ErrDuplicateKey) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInsufficientStock)
}
