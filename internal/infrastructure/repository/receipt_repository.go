package repository

import (
	"context"
	"errors"

	"github.com/sangkips/receipts-api/internal/domain/entity"
	domainRepo "github.com/sangkips/receipts-api/internal/domain/repository"
	"gorm.io/gorm"
)

type receiptRepository struct {
	db *gorm.DB
}

// NewReceiptRepository creates a new receipt repository
func NewReceiptRepository(db *gorm.DB) domainRepo.ReceiptRepository {
	return &receiptRepository{db: db}
}

// Create inserts the receipt and its items in one statement batch
func (r *receiptRepository) Create(ctx context.Context, receipt *entity.Receipt) error {
	return classify(conn(ctx, r.db).Omit("Project").Create(receipt).Error)
}

func (r *receiptRepository) ListByProject(ctx context.Context, projectID uint64) ([]entity.ReceiptSummary, error) {
	var summaries []entity.ReceiptSummary
	err := conn(ctx, r.db).Model(&entity.Receipt{}).
		Select("id", "receipt_no", "date_time", "grand_total").
		Where("project_id = ?", projectID).
		Order("id DESC").
		Scan(&summaries).Error
	return summaries, err
}

func (r *receiptRepository) GetByProjectCodeAndID(ctx context.Context, projectCode string, id uint64) (*entity.Receipt, error) {
	var receipt entity.Receipt
	err := conn(ctx, r.db).
		Scopes(ProjectCodeScope(projectCode)).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Project").
		Where("receipts.id = ?", id).
		First(&receipt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receipt, err
}
