package repository

import (
	"context"

	"github.com/sangkips/receipts-api/internal/domain/entity"
)

// PublicReceiptCache holds assembled public receipt views. Receipts never
// change, so entries only go stale when their project is edited.
type PublicReceiptCache interface {
	// Get returns the cached view, or nil on a miss
	Get(ctx context.Context, projectCode string, receiptID uint64) (*entity.PublicReceipt, error)
	Set(ctx context.Context, view *entity.PublicReceipt) error
	// InvalidateProject drops every cached view of a project
	InvalidateProject(ctx context.Context, projectCode string) error
}
