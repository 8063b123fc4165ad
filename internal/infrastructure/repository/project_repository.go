package repository

import (
	"context"
	"errors"

	"github.com/sangkips/receipts-api/internal/domain/entity"
	domainRepo "github.com/sangkips/receipts-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *gorm.DB) domainRepo.ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *entity.Project) error {
	return classify(conn(ctx, r.db).Create(project).Error)
}

func (r *projectRepository) GetByID(ctx context.Context, id uint64) (*entity.Project, error) {
	var project entity.Project
	err := conn(ctx, r.db).First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &project, err
}

func (r *projectRepository) GetByCode(ctx context.Context, code string) (*entity.Project, error) {
	var project entity.Project
	err := conn(ctx, r.db).First(&project, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &project, err
}

// LockByCode issues SELECT ... FOR UPDATE. SQLite has no row locks; there the
// single writer connection serializes callers instead.
func (r *projectRepository) LockByCode(ctx context.Context, code string) (*entity.Project, error) {
	var project entity.Project
	err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&project, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &project, classify(err)
}

func (r *projectRepository) UpdateReceiptSeq(ctx context.Context, id uint64, seq int64) error {
	result := conn(ctx, r.db).Model(&entity.Project{}).
		Where("id = ?", id).
		UpdateColumn("receipt_seq", seq)
	if result.Error != nil {
		return classify(result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Update saves every editable column. receipt_seq is left to UpdateReceiptSeq
// so an admin edit can never rewind numbering.
func (r *projectRepository) Update(ctx context.Context, project *entity.Project) error {
	return classify(conn(ctx, r.db).Model(project).
		Select("name", "logo_path", "primary_color", "secondary_color", "address",
			"phone", "email", "footer_note", "is_active", "receipt_extra_schema", "updated_at").
		Updates(project).Error)
}

func (r *projectRepository) Delete(ctx context.Context, id uint64) error {
	return conn(ctx, r.db).Delete(&entity.Project{}, "id = ?", id).Error
}

func (r *projectRepository) List(ctx context.Context) ([]entity.Project, error) {
	var projects []entity.Project
	err := conn(ctx, r.db).Order("id ASC").Find(&projects).Error
	return projects, err
}

func (r *projectRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Unscoped().
		Model(&entity.Project{}).
		Where("code = ?", code).
		Count(&count).Error
	return count > 0, err
}
