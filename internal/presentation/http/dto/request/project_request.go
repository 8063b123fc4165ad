package request

import "github.com/sangkips/receipts-api/internal/domain/extrafield"

// CreateProjectRequest represents a project creation request
type CreateProjectRequest struct {
	Code               string            `json:"code"`
	Name               string            `json:"name" binding:"max=255"`
	PrimaryColor       string            `json:"primary_color" binding:"max=32"`
	SecondaryColor     string            `json:"secondary_color" binding:"max=32"`
	Address            string            `json:"address"`
	Phone              string            `json:"phone" binding:"max=64"`
	Email              string            `json:"email" binding:"omitempty,email,max=255"`
	FooterNote         string            `json:"footer_note"`
	IsActive           *bool             `json:"is_active"`
	ReceiptExtraSchema extrafield.Schema `json:"receipt_extra_schema"`
}

// UpdateProjectRequest represents a partial project update
type UpdateProjectRequest struct {
	Code               *string            `json:"code"`
	Name               *string            `json:"name" binding:"omitempty,max=255"`
	PrimaryColor       *string            `json:"primary_color" binding:"omitempty,max=32"`
	SecondaryColor     *string            `json:"secondary_color" binding:"omitempty,max=32"`
	Address            *string            `json:"address"`
	Phone              *string            `json:"phone" binding:"omitempty,max=64"`
	Email              *string            `json:"email" binding:"omitempty,email,max=255"`
	FooterNote         *string            `json:"footer_note"`
	IsActive           *bool              `json:"is_active"`
	ReceiptExtraSchema *extrafield.Schema `json:"receipt_extra_schema"`
}
