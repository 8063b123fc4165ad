package repository

import (
	"context"

	"github.com/sangkips/receipts-api/internal/domain/entity"
)

// ProjectRepository defines the interface for project data operations
type ProjectRepository interface {
	// Create creates a new project
	Create(ctx context.Context, project *entity.Project) error

	// GetByID retrieves a project by ID
	GetByID(ctx context.Context, id uint64) (*entity.Project, error)

	// GetByCode retrieves a project by its business code
	GetByCode(ctx context.Context, code string) (*entity.Project, error)

	// LockByCode retrieves a project by code and holds an exclusive row lock
	// on it until the surrounding transaction ends
	LockByCode(ctx context.Context, code string) (*entity.Project, error)

	// UpdateReceiptSeq stores the last issued receipt number
	UpdateReceiptSeq(ctx context.Context, id uint64, seq int64) error

	// Update updates an existing project
	Update(ctx context.Context, project *entity.Project) error

	// Delete soft-deletes a project
	Delete(ctx context.Context, id uint64) error

	// List retrieves all live projects
	List(ctx context.Context) ([]entity.Project, error)

	// CodeExists checks if a code was ever taken, including by deleted projects
	CodeExists(ctx context.Context, code string) (bool, error)
}
