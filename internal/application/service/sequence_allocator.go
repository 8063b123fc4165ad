package service

import (
	"context"

	"github.com/sangkips/receipts-api/internal/domain/entity"
	"github.com/sangkips/receipts-api/internal/domain/repository"
)

// SequenceAllocator hands out per-project receipt numbers
type SequenceAllocator struct {
	projectRepo repository.ProjectRepository
}

// NewSequenceAllocator creates a new sequence allocator
func NewSequenceAllocator(projectRepo repository.ProjectRepository) *SequenceAllocator {
	return &SequenceAllocator{projectRepo: projectRepo}
}

// Next increments the project's counter and returns the new receipt number.
// project must have been loaded with ProjectRepository.LockByCode in the
// transaction carried by ctx; the write is undone if that transaction rolls
// back.
func (a *SequenceAllocator) Next(ctx context.Context, project *entity.Project) (int64, error) {
	next := project.ReceiptSeq + 1
	if err := a.projectRepo.UpdateReceiptSeq(ctx, project.ID, next); err != nil {
		return 0, err
	}
	project.ReceiptSeq = next
	return next, nil
}
