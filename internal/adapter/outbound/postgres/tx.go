package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/etaskify/server/internal/port/outbound"
)

// txContextKey is used to store transaction in context.
type txContextKeyType struct{}

var txContextKey = txContextKeyType{}

// dbFrom returns the transaction stored in ctx, or fallback when the call
// is not running inside RunInTransaction. Every adapter resolves its handle
// through this so writes made with the inner context join the transaction.
func dbFrom(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return fallback.WithContext(ctx)
}

// TransactionAdapter implements TransactionPort.
type TransactionAdapter struct {
	db *gorm.DB
}

// NewTransactionAdapter creates a new transaction adapter.
func NewTransactionAdapter(db *gorm.DB) *TransactionAdapter {
	return &TransactionAdapter{db: db}
}

func (a *TransactionAdapter) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, txContextKey, tx)
		return fn(txCtx)
	})
}

var _ outbound.TransactionPort = (*TransactionAdapter)(nil)
