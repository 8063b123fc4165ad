package repository

import (
	"context"

	"github.com/sangkips/receipts-api/internal/domain/entity"
)

// ReceiptRepository defines the interface for receipt data operations
type ReceiptRepository interface {
	// Create inserts a receipt together with its items
	Create(ctx context.Context, receipt *entity.Receipt) error

	// ListByProject retrieves receipt summaries of a project, newest first
	ListByProject(ctx context.Context, projectID uint64) ([]entity.ReceiptSummary, error)

	// GetByProjectCodeAndID retrieves a receipt of a live project with its
	// items in entry order
	GetByProjectCodeAndID(ctx context.Context, projectCode string, id uint64) (*entity.Receipt, error)
}
