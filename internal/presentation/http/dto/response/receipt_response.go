package response

import (
	"encoding/json"
	"time"

	"github.com/sangkips/receipts-api/internal/domain/entity"
	"github.com/sangkips/receipts-api/internal/domain/enum"
	"github.com/sangkips/receipts-api/internal/domain/extrafield"
	"github.com/sangkips/receipts-api/pkg/money"
	"github.com/shopspring/decimal"
)

// amount renders a monetary value as a JSON number with exactly two decimals
func amount(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(money.Scale))
}

// quantity renders a quantity or unit price without trailing zeros
func quantity(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

// ReceiptItemResponse is one line of a receipt
type ReceiptItemResponse struct {
	ItemName  string      `json:"item_name"`
	Qty       json.Number `json:"qty"`
	UnitPrice json.Number `json:"unit_price"`
	LineTotal json.Number `json:"line_total"`
}

// ReceiptResponse is the full view of a receipt
type ReceiptResponse struct {
	ID            uint64                `json:"id"`
	ProjectCode   string                `json:"project_code,omitempty"`
	ReceiptNo     int64                 `json:"receipt_no"`
	DateTime      time.Time             `json:"date_time"`
	CustomerName  string                `json:"customer_name,omitempty"`
	CustomerPhone string                `json:"customer_phone,omitempty"`
	PaymentMode   enum.PaymentMode      `json:"payment_mode"`
	Subtotal      json.Number           `json:"subtotal"`
	Discount      json.Number           `json:"discount"`
	Tax           json.Number           `json:"tax"`
	GrandTotal    json.Number           `json:"grand_total"`
	Notes         string                `json:"notes,omitempty"`
	ExtraData     extrafield.Data       `json:"extra_data"`
	Items         []ReceiptItemResponse `json:"items"`
	CreatedAt     time.Time             `json:"created_at"`
}

// NewReceiptResponse maps a receipt entity
func NewReceiptResponse(r *entity.Receipt) *ReceiptResponse {
	items := make([]ReceiptItemResponse, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, ReceiptItemResponse{
			ItemName:  item.ItemName,
			Qty:       quantity(item.Qty),
			UnitPrice: quantity(item.UnitPrice),
			LineTotal: amount(item.LineTotal),
		})
	}

	resp := &ReceiptResponse{
		ID:            r.ID,
		ReceiptNo:     r.ReceiptNo,
		DateTime:      r.DateTime.UTC(),
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		PaymentMode:   r.PaymentMode,
		Subtotal:      amount(r.Subtotal),
		Discount:      amount(r.Discount),
		Tax:           amount(r.Tax),
		GrandTotal:    amount(r.GrandTotal),
		Notes:         r.Notes,
		ExtraData:     r.Extra(),
		Items:         items,
		CreatedAt:     r.CreatedAt,
	}
	if r.Project != nil {
		resp.ProjectCode = r.Project.Code
	}
	return resp
}

// ReceiptSummaryResponse is one row of a receipt listing
type ReceiptSummaryResponse struct {
	ID         uint64      `json:"id"`
	ReceiptNo  int64       `json:"receipt_no"`
	DateTime   time.Time   `json:"date_time"`
	GrandTotal json.Number `json:"grand_total"`
}

// NewReceiptSummaries maps a receipt listing
func NewReceiptSummaries(rows []entity.ReceiptSummary) []ReceiptSummaryResponse {
	out := make([]ReceiptSummaryResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, ReceiptSummaryResponse{
			ID:         row.ID,
			ReceiptNo:  row.ReceiptNo,
			DateTime:   row.DateTime.UTC(),
			GrandTotal: amount(row.GrandTotal),
		})
	}
	return out
}

// PublicReceiptResponse is served to holders of a signed link
type PublicReceiptResponse struct {
	Project            entity.ProjectSummary `json:"project"`
	Receipt            *ReceiptResponse      `json:"receipt"`
	ReceiptExtraSchema extrafield.Schema     `json:"receipt_extra_schema"`
}

// NewPublicReceiptResponse maps a public receipt view
func NewPublicReceiptResponse(view *entity.PublicReceipt) *PublicReceiptResponse {
	resp := &PublicReceiptResponse{
		Project:            view.Project,
		ReceiptExtraSchema: view.ReceiptExtraSchema,
	}
	if resp.ReceiptExtraSchema == nil {
		resp.ReceiptExtraSchema = extrafield.Schema{}
	}
	if view.Receipt != nil {
		resp.Receipt = NewReceiptResponse(view.Receipt)
		resp.Receipt.ProjectCode = view.Project.Code
	}
	return resp
}

// ShareLinkResponse carries a signed public link
type ShareLinkResponse struct {
	URL string `json:"url"`
}
