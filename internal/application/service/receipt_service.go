package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sangkips/receipts-api/internal/domain/entity"
	"github.com/sangkips/receipts-api/internal/domain/enum"
	"github.com/sangkips/receipts-api/internal/domain/extrafield"
	"github.com/sangkips/receipts-api/internal/domain/repository"
	"github.com/sangkips/receipts-api/pkg/apperror"
	"github.com/sangkips/receipts-api/pkg/money"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Column limits: quantities and unit prices are decimal(14,4), amounts
// decimal(12,2).
const (
	inputScale    = 4
	maxIntDigits  = 10
	minExponent   = -18
	itemNameLimit = 255
)

var maxAmount = decimal.New(1, maxIntDigits)

// ReceiptService issues and reads receipts
type ReceiptService struct {
	tx          repository.Transactor
	projectRepo repository.ProjectRepository
	receiptRepo repository.ReceiptRepository
	allocator   *SequenceAllocator
	now         func() time.Time
}

// NewReceiptService creates a new receipt service
func NewReceiptService(
	tx repository.Transactor,
	projectRepo repository.ProjectRepository,
	receiptRepo repository.ReceiptRepository,
	allocator *SequenceAllocator,
) *ReceiptService {
	return &ReceiptService{
		tx:          tx,
		projectRepo: projectRepo,
		receiptRepo: receiptRepo,
		allocator:   allocator,
		now:         time.Now,
	}
}

// CreateReceiptInput represents input for issuing a receipt
type CreateReceiptInput struct {
	ProjectCode   string
	DateTime      *time.Time
	CustomerName  string
	CustomerPhone string
	PaymentMode   string
	Discount      *decimal.Decimal
	Tax           *decimal.Decimal
	Notes         string
	Items         []ReceiptItemInput
	ExtraData     extrafield.Data
}

// ReceiptItemInput is one submitted line. Nil fields were absent.
type ReceiptItemInput struct {
	Name      string
	Qty       *decimal.Decimal
	UnitPrice *decimal.Decimal
}

// CreateReceipt validates the input against the project, numbers the receipt
// and stores it. Input is checked before the project row is locked; the lock
// is held only to re-check the project, allocate the number and insert, so
// either the receipt and the advanced counter are both committed or neither
// is.
func (s *ReceiptService) CreateReceipt(ctx context.Context, input *CreateReceiptInput) (*entity.Receipt, error) {
	project, err := s.requireProject(ctx, input.ProjectCode)
	if err != nil {
		return nil, err
	}
	if !project.IsActive {
		return nil, apperror.NewBadRequestError("project is inactive")
	}

	receipt, err := s.buildReceipt(project.ReceiptExtraSchema, input)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		locked, err := s.projectRepo.LockByCode(ctx, project.Code)
		if err != nil {
			return err
		}
		if locked == nil {
			return apperror.NewNotFoundError("Project")
		}
		if !locked.IsActive {
			return apperror.NewBadRequestError("project is inactive")
		}

		// The schema may have changed since the unlocked read
		extra, err := extrafield.Validate(locked.ReceiptExtraSchema, input.ExtraData)
		if err != nil {
			return fromExtraFieldError("extra_data", err)
		}
		receipt.ExtraData = datatypes.NewJSONType(extra)
		receipt.ProjectID = locked.ID

		receiptNo, err := s.allocator.Next(ctx, locked)
		if err != nil {
			return err
		}
		receipt.ReceiptNo = receiptNo

		if err := s.receiptRepo.Create(ctx, receipt); err != nil {
			return err
		}
		receipt.Project = locked
		return nil
	})
	if err != nil {
		return nil, storageError("Unable to create receipt", err)
	}
	return receipt, nil
}

// buildReceipt runs every check that needs no storage and computes totals
func (s *ReceiptService) buildReceipt(schema extrafield.Schema, input *CreateReceiptInput) (*entity.Receipt, error) {
	extra, err := extrafield.Validate(schema, input.ExtraData)
	if err != nil {
		return nil, fromExtraFieldError("extra_data", err)
	}

	if len(input.Items) == 0 {
		return nil, invalidField("items", "at least one item required")
	}

	items := make([]entity.ReceiptItem, 0, len(input.Items))
	lineTotals := make([]decimal.Decimal, 0, len(input.Items))
	for i, in := range input.Items {
		item, err := buildItem(i, in)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		lineTotals = append(lineTotals, item.LineTotal)
	}

	for _, adj := range []struct {
		field string
		value *decimal.Decimal
	}{
		{"discount", input.Discount},
		{"tax", input.Tax},
	} {
		if adj.value == nil {
			continue
		}
		if err := checkMagnitude(adj.field, adj.field, *adj.value); err != nil {
			return nil, err
		}
		if adj.value.IsNegative() {
			return nil, invalidField(adj.field, adj.field+" cannot be negative")
		}
	}

	totals := money.Compute(lineTotals, input.Discount, input.Tax)
	if totals.GrandTotal.IsNegative() {
		return nil, invalidField("grand_total", "grand total cannot be negative")
	}
	for _, amount := range []struct {
		field string
		label string
		value decimal.Decimal
	}{
		{"subtotal", "subtotal", totals.Subtotal},
		{"discount", "discount", totals.Discount},
		{"tax", "tax", totals.Tax},
		{"grand_total", "grand total", totals.GrandTotal},
	} {
		if amount.value.GreaterThanOrEqual(maxAmount) {
			return nil, invalidField(amount.field, amount.label+" exceeds the supported range")
		}
	}

	mode, err := enum.ParsePaymentMode(input.PaymentMode)
	if err != nil {
		return nil, invalidField("payment_mode", err.Error())
	}

	issuedAt := s.now().UTC().Truncate(time.Second)
	if input.DateTime != nil {
		issuedAt = input.DateTime.UTC().Truncate(time.Second)
	}

	return &entity.Receipt{
		DateTime:      issuedAt,
		CustomerName:  strings.TrimSpace(input.CustomerName),
		CustomerPhone: strings.TrimSpace(input.CustomerPhone),
		PaymentMode:   mode,
		Subtotal:      totals.Subtotal,
		Discount:      totals.Discount,
		Tax:           totals.Tax,
		GrandTotal:    totals.GrandTotal,
		Notes:         input.Notes,
		ExtraData:     datatypes.NewJSONType(extra),
		Items:         items,
	}, nil
}

// checkMagnitude bounds the exponent of a submitted amount. Rounding or
// comparing a decimal rescales its coefficient to the full exponent, so
// values such as 1e50000000 must be refused before any arithmetic.
func checkMagnitude(field, label string, d decimal.Decimal) error {
	switch exp := d.Exponent(); {
	case exp > maxIntDigits:
		return invalidField(field, label+" exceeds the supported range")
	case exp < minExponent:
		return invalidField(field, label+" has too many decimal places")
	}
	return nil
}

func buildItem(i int, in ReceiptItemInput) (entity.ReceiptItem, error) {
	field := func(name string) string {
		return fmt.Sprintf("items[%d].%s", i, name)
	}

	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		return entity.ReceiptItem{}, invalidField(field("name"), "item name is required")
	case len(name) > itemNameLimit:
		return entity.ReceiptItem{}, invalidField(field("name"), fmt.Sprintf("item name must be at most %d characters", itemNameLimit))
	case in.Qty == nil:
		return entity.ReceiptItem{}, invalidField(field("qty"), "item qty is required")
	case in.UnitPrice == nil:
		return entity.ReceiptItem{}, invalidField(field("unit_price"), "item unit price is required")
	}

	qty, price := *in.Qty, *in.UnitPrice
	if err := checkMagnitude(field("qty"), "item qty", qty); err != nil {
		return entity.ReceiptItem{}, err
	}
	if err := checkMagnitude(field("unit_price"), "item unit price", price); err != nil {
		return entity.ReceiptItem{}, err
	}
	if !qty.IsPositive() {
		return entity.ReceiptItem{}, invalidField(field("qty"), "item qty must be greater than zero")
	}
	if price.IsNegative() {
		return entity.ReceiptItem{}, invalidField(field("unit_price"), "item unit price cannot be negative")
	}
	for _, v := range []struct {
		name  string
		label string
		value decimal.Decimal
	}{
		{"qty", "qty", qty},
		{"unit_price", "unit price", price},
	} {
		if !v.value.Equal(v.value.Round(inputScale)) {
			return entity.ReceiptItem{}, invalidField(field(v.name), fmt.Sprintf("item %s supports at most %d decimal places", v.label, inputScale))
		}
		if v.value.GreaterThanOrEqual(maxAmount) {
			return entity.ReceiptItem{}, invalidField(field(v.name), fmt.Sprintf("item %s exceeds the supported range", v.label))
		}
	}

	lineTotal := money.LineTotal(qty, price)
	if lineTotal.GreaterThanOrEqual(maxAmount) {
		return entity.ReceiptItem{}, invalidField(field("qty"), "item line total exceeds the supported range")
	}

	return entity.ReceiptItem{
		Position:  i + 1,
		ItemName:  name,
		Qty:       qty,
		UnitPrice: price,
		LineTotal: lineTotal,
	}, nil
}

// ListReceipts returns the receipts of a project, newest first
func (s *ReceiptService) ListReceipts(ctx context.Context, projectCode string) ([]entity.ReceiptSummary, error) {
	project, err := s.requireProject(ctx, projectCode)
	if err != nil {
		return nil, err
	}

	summaries, err := s.receiptRepo.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, storageError("Unable to list receipts", err)
	}
	if summaries == nil {
		summaries = []entity.ReceiptSummary{}
	}
	return summaries, nil
}

// GetReceipt retrieves a receipt of a project with its items
func (s *ReceiptService) GetReceipt(ctx context.Context, projectCode string, id uint64) (*entity.Receipt, error) {
	code := strings.TrimSpace(projectCode)
	if code == "" {
		return nil, invalidField("project_code", "project code is required")
	}

	receipt, err := s.receiptRepo.GetByProjectCodeAndID(ctx, code, id)
	if err != nil {
		return nil, storageError("Unable to load receipt", err)
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	return receipt, nil
}

func (s *ReceiptService) requireProject(ctx context.Context, projectCode string) (*entity.Project, error) {
	code := strings.TrimSpace(projectCode)
	if code == "" {
		return nil, invalidField("project_code", "project code is required")
	}
	project, err := s.projectRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, storageError("Unable to load project", err)
	}
	if project == nil {
		return nil, apperror.NewNotFoundError("Project")
	}
	return project, nil
}
