package entity

import (
	"time"

	"github.com/sangkips/receipts-api/internal/domain/enum"
	"github.com/sangkips/receipts-api/internal/domain/extrafield"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Receipt is an issued receipt. It is immutable once committed.
type Receipt struct {
	ID            uint64                              `gorm:"primaryKey" json:"id"`
	ProjectID     uint64                              `gorm:"not null;uniqueIndex:idx_receipts_project_no,priority:1" json:"project_id"`
	ReceiptNo     int64                               `gorm:"not null;uniqueIndex:idx_receipts_project_no,priority:2" json:"receipt_no"`
	DateTime      time.Time                           `gorm:"not null" json:"date_time"`
	CustomerName  string                              `gorm:"size:255" json:"customer_name"`
	CustomerPhone string                              `gorm:"size:64" json:"customer_phone"`
	PaymentMode   enum.PaymentMode                    `gorm:"size:32;not null" json:"payment_mode"`
	Subtotal      decimal.Decimal                     `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Discount      decimal.Decimal                     `gorm:"type:decimal(12,2);not null" json:"discount"`
	Tax           decimal.Decimal                     `gorm:"type:decimal(12,2);not null" json:"tax"`
	GrandTotal    decimal.Decimal                     `gorm:"type:decimal(12,2);not null" json:"grand_total"`
	Notes         string                              `gorm:"type:text" json:"notes"`
	ExtraData     datatypes.JSONType[extrafield.Data] `json:"extra_data"`
	CreatedAt     time.Time                           `json:"created_at"`

	// Relationships
	Project *Project      `gorm:"foreignKey:ProjectID" json:"-"`
	Items   []ReceiptItem `gorm:"foreignKey:ReceiptID;constraint:OnDelete:CASCADE" json:"items"`
}

// TableName returns the table name for the Receipt model
func (Receipt) TableName() string {
	return "receipts"
}

// Extra returns the decoded extra field values
func (r *Receipt) Extra() extrafield.Data {
	d := r.ExtraData.Data()
	if d == nil {
		return extrafield.Data{}
	}
	return d
}

// ReceiptItem is one line of a receipt. LineTotal is always derived from
// Qty and UnitPrice.
type ReceiptItem struct {
	ID        uint64          `gorm:"primaryKey" json:"id"`
	ReceiptID uint64          `gorm:"not null;index" json:"receipt_id"`
	Position  int             `gorm:"not null" json:"position"`
	ItemName  string          `gorm:"size:255;not null" json:"item_name"`
	Qty       decimal.Decimal `gorm:"type:decimal(14,4);not null" json:"qty"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(14,4);not null" json:"unit_price"`
	LineTotal decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"line_total"`
}

// TableName returns the table name for the ReceiptItem model
func (ReceiptItem) TableName() string {
	return "receipt_items"
}

// ReceiptSummary is the list view of a receipt
type ReceiptSummary struct {
	ID         uint64          `json:"id"`
	ReceiptNo  int64           `json:"receipt_no"`
	DateTime   time.Time       `json:"date_time"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// PublicReceipt is what an unauthenticated holder of a signed link sees: the
// project's public summary, the receipt and the schema needed to label its
// extra fields.
type PublicReceipt struct {
	Project            ProjectSummary    `json:"project"`
	Receipt            *Receipt          `json:"receipt"`
	ReceiptExtraSchema extrafield.Schema `json:"receipt_extra_schema"`
}
