package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/receipts-api/internal/application/service"
	"github.com/sangkips/receipts-api/internal/presentation/http/dto/request"
	"github.com/sangkips/receipts-api/internal/presentation/http/dto/response"
	"github.com/sangkips/receipts-api/pkg/apperror"
)

// ProjectHandler handles project administration requests
type ProjectHandler struct {
	projectService *service.ProjectService
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// List handles listing projects
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projectService.ListProjects(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Projects retrieved successfully", projects)
}

// Create handles creating a project
func (h *ProjectHandler) Create(c *gin.Context) {
	var req request.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), &service.CreateProjectInput{
		Code:               req.Code,
		Name:               req.Name,
		PrimaryColor:       req.PrimaryColor,
		SecondaryColor:     req.SecondaryColor,
		Address:            req.Address,
		Phone:              req.Phone,
		Email:              req.Email,
		FooterNote:         req.FooterNote,
		IsActive:           req.IsActive,
		ReceiptExtraSchema: req.ReceiptExtraSchema,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Project created successfully", project)
}

// Get handles getting a single project
func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid project ID")
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Project retrieved successfully", project)
}

// Update handles updating a project
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid project ID")
	if !ok {
		return
	}

	var req request.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	project, err := h.projectService.UpdateProject(c.Request.Context(), id, &service.UpdateProjectInput{
		Code:               req.Code,
		Name:               req.Name,
		PrimaryColor:       req.PrimaryColor,
		SecondaryColor:     req.SecondaryColor,
		Address:            req.Address,
		Phone:              req.Phone,
		Email:              req.Email,
		FooterNote:         req.FooterNote,
		IsActive:           req.IsActive,
		ReceiptExtraSchema: req.ReceiptExtraSchema,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Project updated successfully", project)
}

// Delete handles deleting a project
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid project ID")
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Project deleted successfully", nil)
}

// UploadLogo handles a multipart logo upload in the "file" field
func (h *ProjectHandler) UploadLogo(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid project ID")
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, &apperror.AppError{
			Code:    400,
			Message: "logo file is required",
			Errors:  []apperror.FieldError{{Field: "file", Message: "logo file is required"}},
		})
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, apperror.NewStorageError("Unable to read logo", err))
		return
	}
	defer file.Close()

	project, err := h.projectService.UploadLogo(c.Request.Context(), id, file, header.Size)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Logo uploaded successfully", project)
}
