package request

import (
	"errors"
	"strings"
	"time"

	"github.com/sangkips/receipts-api/internal/domain/extrafield"
	"github.com/shopspring/decimal"
)

// Accepted date_time layouts. Values without an offset are taken as UTC.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ErrInvalidDateTime is returned for a date_time in none of the accepted layouts
var ErrInvalidDateTime = errors.New("date_time must be an ISO-8601 date-time such as 2024-01-31T14:05:00")

// CreateReceiptRequest represents a receipt issuance request. Amounts may be
// sent as JSON numbers or numeric strings.
type CreateReceiptRequest struct {
	ProjectCode   string               `json:"project_code"`
	DateTime      string               `json:"date_time"`
	CustomerName  string               `json:"customer_name" binding:"max=255"`
	CustomerPhone string               `json:"customer_phone" binding:"max=64"`
	PaymentMode   string               `json:"payment_mode"`
	Discount      *decimal.Decimal     `json:"discount"`
	Tax           *decimal.Decimal     `json:"tax"`
	Notes         string               `json:"notes"`
	Items         []ReceiptItemRequest `json:"items"`
	ExtraData     extrafield.Data      `json:"extra_data"`
}

// ReceiptItemRequest is one submitted line
type ReceiptItemRequest struct {
	Name      string           `json:"name"`
	Qty       *decimal.Decimal `json:"qty"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// ParseDateTime returns the issue time, or nil when none was sent
func (r *CreateReceiptRequest) ParseDateTime() (*time.Time, error) {
	raw := strings.TrimSpace(r.DateTime)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, ErrInvalidDateTime
}

// ReceiptQuery carries the project a receipt lookup is scoped to
type ReceiptQuery struct {
	ProjectCode string `form:"project_code" binding:"required"`
}
