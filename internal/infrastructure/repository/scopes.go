package repository

import (
	"context"

	"gorm.io/gorm"
)

type ctxKey string

const (
	// txKey is the context key for the transaction opened by the transactor
	txKey ctxKey = "gorm_tx"
)

// WithTx adds an open transaction to context
func WithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey, tx)
}

// TxFromContext extracts the open transaction from context
func TxFromContext(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	return tx, ok
}

// conn returns the transaction carried by ctx, or db when there is none.
// Repositories must go through conn so their queries join the caller's
// unit of work.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := TxFromContext(ctx); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// ProjectCodeScope restricts a receipts query to a live project with the given code
func ProjectCodeScope(code string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Joins("JOIN projects ON projects.id = receipts.project_id").
			Where("projects.code = ? AND projects.deleted_at IS NULL", code)
	}
}
