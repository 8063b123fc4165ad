package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sangkips/receipts-api/internal/domain/entity"
	"github.com/sangkips/receipts-api/internal/domain/extrafield"
	"github.com/sangkips/receipts-api/internal/domain/repository"
	"github.com/sangkips/receipts-api/pkg/apperror"
	"github.com/sangkips/receipts-api/pkg/utils"
)

var projectCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Logo formats accepted for upload, keyed by detected MIME type
var logoTypes = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/gif":  {},
	"image/webp": {},
}

// ProjectService handles project administration
type ProjectService struct {
	projectRepo   repository.ProjectRepository
	blobs         repository.BlobStore
	cache         repository.PublicReceiptCache
	maxUploadSize int64
}

// NewProjectService creates a new project service
func NewProjectService(
	projectRepo repository.ProjectRepository,
	blobs repository.BlobStore,
	cache repository.PublicReceiptCache,
	maxUploadSize int64,
) *ProjectService {
	return &ProjectService{
		projectRepo:   projectRepo,
		blobs:         blobs,
		cache:         cache,
		maxUploadSize: maxUploadSize,
	}
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	Code               string
	Name               string
	PrimaryColor       string
	SecondaryColor     string
	Address            string
	Phone              string
	Email              string
	FooterNote         string
	IsActive           *bool
	ReceiptExtraSchema extrafield.Schema
}

// UpdateProjectInput represents a partial update. Nil fields are left as is.
type UpdateProjectInput struct {
	Code               *string
	Name               *string
	PrimaryColor       *string
	SecondaryColor     *string
	Address            *string
	Phone              *string
	Email              *string
	FooterNote         *string
	IsActive           *bool
	ReceiptExtraSchema *extrafield.Schema
}

// ListProjects returns every live project
func (s *ProjectService) ListProjects(ctx context.Context) ([]entity.Project, error) {
	projects, err := s.projectRepo.List(ctx)
	if err != nil {
		return nil, storageError("Unable to list projects", err)
	}
	if projects == nil {
		projects = []entity.Project{}
	}
	return projects, nil
}

// GetProject retrieves a project by ID
func (s *ProjectService) GetProject(ctx context.Context, id uint64) (*entity.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storageError("Unable to load project", err)
	}
	if project == nil {
		return nil, apperror.NewNotFoundError("Project")
	}
	return project, nil
}

// CreateProject creates a project. Codes are unique forever: a deleted
// project's code is never handed out again.
func (s *ProjectService) CreateProject(ctx context.Context, input *CreateProjectInput) (*entity.Project, error) {
	code := strings.TrimSpace(input.Code)
	name := strings.TrimSpace(input.Name)
	if code == "" {
		return nil, invalidField("code", "project code is required")
	}
	if !projectCodePattern.MatchString(code) {
		return nil, invalidField("code", "project code may only contain letters, digits, '-' and '_' (max 64)")
	}
	if name == "" {
		return nil, invalidField("name", "project name is required")
	}

	schema := input.ReceiptExtraSchema
	if schema == nil {
		schema = extrafield.Schema{}
	}
	if err := extrafield.ValidateSchema(schema); err != nil {
		return nil, fromExtraFieldError("receipt_extra_schema", err)
	}

	exists, err := s.projectRepo.CodeExists(ctx, code)
	if err != nil {
		return nil, storageError("Unable to create project", err)
	}
	if exists {
		return nil, apperror.NewConflictError("project code already exists")
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	project := &entity.Project{
		Code:               code,
		Name:               name,
		PrimaryColor:       strings.TrimSpace(input.PrimaryColor),
		SecondaryColor:     strings.TrimSpace(input.SecondaryColor),
		Address:            input.Address,
		Phone:              strings.TrimSpace(input.Phone),
		Email:              strings.TrimSpace(input.Email),
		FooterNote:         input.FooterNote,
		IsActive:           active,
		ReceiptExtraSchema: schema,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperror.NewConflictError("project code already exists")
		}
		return nil, storageError("Unable to create project", err)
	}
	return project, nil
}

// UpdateProject applies a partial update. The code is immutable.
func (s *ProjectService) UpdateProject(ctx context.Context, id uint64, input *UpdateProjectInput) (*entity.Project, error) {
	project, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Code != nil && strings.TrimSpace(*input.Code) != project.Code {
		return nil, invalidField("code", "project code cannot be changed")
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, invalidField("name", "project name is required")
		}
		project.Name = name
	}
	if input.ReceiptExtraSchema != nil {
		schema := *input.ReceiptExtraSchema
		if schema == nil {
			schema = extrafield.Schema{}
		}
		if err := extrafield.ValidateSchema(schema); err != nil {
			return nil, fromExtraFieldError("receipt_extra_schema", err)
		}
		project.ReceiptExtraSchema = schema
	}
	assignTrimmed(&project.PrimaryColor, input.PrimaryColor)
	assignTrimmed(&project.SecondaryColor, input.SecondaryColor)
	assignTrimmed(&project.Phone, input.Phone)
	assignTrimmed(&project.Email, input.Email)
	if input.Address != nil {
		project.Address = *input.Address
	}
	if input.FooterNote != nil {
		project.FooterNote = *input.FooterNote
	}
	if input.IsActive != nil {
		project.IsActive = *input.IsActive
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, storageError("Unable to update project", err)
	}
	s.invalidate(ctx, project.Code)
	return project, nil
}

func assignTrimmed(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

// DeleteProject soft-deletes a project. Its receipts stop resolving, signed
// links included.
func (s *ProjectService) DeleteProject(ctx context.Context, id uint64) error {
	project, err := s.GetProject(ctx, id)
	if err != nil {
		return err
	}
	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return storageError("Unable to delete project", err)
	}
	s.invalidate(ctx, project.Code)
	return nil
}

// UploadLogo stores an image and points the project's logo at it
func (s *ProjectService) UploadLogo(ctx context.Context, id uint64, file io.Reader, size int64) (*entity.Project, error) {
	project, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	if size == 0 {
		return nil, invalidField("file", "logo file is empty")
	}
	if s.maxUploadSize > 0 && size > s.maxUploadSize {
		return nil, invalidField("file", fmt.Sprintf("logo exceeds maximum size of %d bytes", s.maxUploadSize))
	}

	// Read one byte past the limit to catch a size header that understates
	// the body.
	limit := s.maxUploadSize
	if limit <= 0 {
		limit = size
	}
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, apperror.NewStorageError("Unable to read logo", err)
	}
	if len(data) == 0 {
		return nil, invalidField("file", "logo file is empty")
	}
	if int64(len(data)) > limit {
		return nil, invalidField("file", fmt.Sprintf("logo exceeds maximum size of %d bytes", limit))
	}

	mtype := mimetype.Detect(data)
	if _, ok := logoTypes[baseMIME(mtype)]; !ok {
		return nil, invalidField("file", "logo must be a PNG, JPEG, GIF or WEBP image")
	}

	key := utils.ObjectKey("logos", mtype.Extension())
	publicPath, err := s.blobs.Put(ctx, key, bytes.NewReader(data), int64(len(data)), baseMIME(mtype))
	if err != nil {
		return nil, apperror.NewStorageError("Unable to store logo", err)
	}

	project.LogoPath = publicPath
	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, storageError("Unable to update project", err)
	}
	s.invalidate(ctx, project.Code)
	return project, nil
}

// baseMIME drops parameters such as "; charset=utf-8"
func baseMIME(m *mimetype.MIME) string {
	base, _, _ := strings.Cut(m.String(), ";")
	return strings.TrimSpace(base)
}

func (s *ProjectService) invalidate(ctx context.Context, code string) {
	if err := s.cache.InvalidateProject(ctx, code); err != nil {
		log.Printf("invalidate public receipts of %s: %v", code, err)
	}
}
