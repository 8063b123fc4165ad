package entity

import (
	"time"

	"github.com/sangkips/receipts-api/internal/domain/extrafield"
	"gorm.io/gorm"
)

// Project is a tenant: a business with its own branding, extra field schema
// and receipt numbering.
type Project struct {
	ID                 uint64            `gorm:"primaryKey" json:"id"`
	Code               string            `gorm:"size:64;uniqueIndex;not null" json:"code"`
	Name               string            `gorm:"size:255;not null" json:"name"`
	LogoPath           string            `gorm:"size:512" json:"logo_path"`
	PrimaryColor       string            `gorm:"size:32" json:"primary_color"`
	SecondaryColor     string            `gorm:"size:32" json:"secondary_color"`
	Address            string            `gorm:"type:text" json:"address"`
	Phone              string            `gorm:"size:64" json:"phone"`
	Email              string            `gorm:"size:255" json:"email"`
	FooterNote         string            `gorm:"type:text" json:"footer_note"`
	IsActive           bool              `gorm:"not null" json:"is_active"`
	ReceiptExtraSchema extrafield.Schema `gorm:"type:text;not null" json:"receipt_extra_schema"`
	// ReceiptSeq is the last receipt number handed out. Only the sequence
	// allocator writes it, under a row lock.
	ReceiptSeq int64          `gorm:"not null;default:0" json:"-"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName returns the table name for the Project model
func (Project) TableName() string {
	return "projects"
}

// ProjectSummary is the public view of a project. It never carries the
// sequence counter.
type ProjectSummary struct {
	Code           string `json:"code"`
	Name           string `json:"name"`
	LogoPath       string `json:"logo_path,omitempty"`
	PrimaryColor   string `json:"primary_color,omitempty"`
	SecondaryColor string `json:"secondary_color,omitempty"`
	Address        string `json:"address,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Email          string `json:"email,omitempty"`
	FooterNote     string `json:"footer_note,omitempty"`
}

// Summary returns the public-safe subset of the project
func (p *Project) Summary() ProjectSummary {
	return ProjectSummary{
		Code:           p.Code,
		Name:           p.Name,
		LogoPath:       p.LogoPath,
		PrimaryColor:   p.PrimaryColor,
		SecondaryColor: p.SecondaryColor,
		Address:        p.Address,
		Phone:          p.Phone,
		Email:          p.Email,
		FooterNote:     p.FooterNote,
	}
}
