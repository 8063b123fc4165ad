package service

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/sangkips/receipts-api/internal/domain/entity"
	"github.com/sangkips/receipts-api/internal/domain/extrafield"
	"github.com/sangkips/receipts-api/pkg/apperror"
	"github.com/sangkips/receipts-api/pkg/printer"
)

var (
	ErrPrinterNotConfigured = &apperror.AppError{Code: http.StatusServiceUnavailable, Message: "No printer configured"}
	ErrPrinterUnavailable   = &apperror.AppError{Code: http.StatusBadGateway, Message: "Printer is not reachable"}
)

// PrinterStatus describes the configured thermal printer
type PrinterStatus struct {
	Type  string `json:"type"`
	Width int    `json:"width"`
	Ready bool   `json:"ready"`
}

// PrinterService renders receipts as ESC/POS jobs and sends them to the
// configured thermal printer
type PrinterService struct {
	receiptService *ReceiptService
	printer        printer.Printer
	printerType    string
	width          int
}

// NewPrinterService creates a new printer service
func NewPrinterService(receiptService *ReceiptService, p printer.Printer, printerType string, width int) *PrinterService {
	if width <= 0 {
		width = printer.Width58mm
	}
	if printerType == "" {
		printerType = printer.TypeNone
	}
	return &PrinterService{
		receiptService: receiptService,
		printer:        p,
		printerType:    printerType,
		width:          width,
	}
}

// Status reports the printer type and whether it is reachable
func (s *PrinterService) Status(ctx context.Context) PrinterStatus {
	return PrinterStatus{
		Type:  s.printerType,
		Width: s.width,
		Ready: s.printerType != printer.TypeNone && s.printer.Ready(ctx),
	}
}

// PrintReceipt loads a receipt of the project and prints it
func (s *PrinterService) PrintReceipt(ctx context.Context, projectCode string, id uint64) error {
	if s.printerType == printer.TypeNone {
		return ErrPrinterNotConfigured
	}

	receipt, err := s.receiptService.GetReceipt(ctx, projectCode, id)
	if err != nil {
		return err
	}
	if receipt.Project == nil {
		return apperror.NewNotFoundError("Receipt")
	}

	if err := s.printer.Print(ctx, s.FormatReceipt(receipt)); err != nil {
		log.Printf("print receipt %s:%d: %v", receipt.Project.Code, receipt.ReceiptNo, err)
		if errors.Is(err, printer.ErrNotConfigured) {
			return ErrPrinterNotConfigured
		}
		return &apperror.AppError{Code: ErrPrinterUnavailable.Code, Message: ErrPrinterUnavailable.Message, Err: err}
	}
	return nil
}

// TestPrint sends a short alignment page
func (s *PrinterService) TestPrint(ctx context.Context) error {
	if s.printerType == printer.TypeNone {
		return ErrPrinterNotConfigured
	}
	doc := printer.NewDocument(s.width).
		SetAlign(printer.AlignCenter).
		SetBold(true).
		Text("PRINTER TEST").
		SetBold(false).
		SetAlign(printer.AlignLeft).
		Separator('=').
		KeyValue("Type", s.printerType).
		KeyValue("Width", strconv.Itoa(s.width)).
		Separator('=').
		Cut()
	if err := s.printer.Print(ctx, doc.Bytes()); err != nil {
		log.Printf("printer test page: %v", err)
		return &apperror.AppError{Code: ErrPrinterUnavailable.Code, Message: ErrPrinterUnavailable.Message, Err: err}
	}
	return nil
}

// FormatReceipt lays out a receipt for the paper width. The receipt's
// project supplies the header, the extra field labels and the footer.
func (s *PrinterService) FormatReceipt(receipt *entity.Receipt) []byte {
	doc := printer.NewDocument(s.width)
	project := receipt.Project
	if project == nil {
		project = &entity.Project{}
	}

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetFontSize(printer.FontDouble).
		SetBold(true).
		Text(project.Name).
		SetBold(false).
		SetFontSize(printer.FontNormal)
	if project.Address != "" {
		doc.Text(project.Address)
	}
	if project.Phone != "" {
		doc.Text("Tel: " + project.Phone)
	}
	doc.SetAlign(printer.AlignLeft).Separator('=')

	doc.KeyValue("Receipt #", strconv.FormatInt(receipt.ReceiptNo, 10))
	doc.KeyValue("Date", receipt.DateTime.UTC().Format("2006-01-02 15:04"))
	if receipt.CustomerName != "" {
		doc.KeyValue("Customer", receipt.CustomerName)
	}
	if receipt.CustomerPhone != "" {
		doc.KeyValue("Phone", receipt.CustomerPhone)
	}
	doc.KeyValue("Payment", string(receipt.PaymentMode))
	doc.Separator('-')

	for _, item := range receipt.Items {
		doc.ItemLine(item.Qty.String(), item.ItemName, item.LineTotal.StringFixed(2))
	}
	doc.Separator('-')

	doc.KeyValue("Subtotal", receipt.Subtotal.StringFixed(2))
	if !receipt.Discount.IsZero() {
		doc.KeyValue("Discount", "-"+receipt.Discount.StringFixed(2))
	}
	if !receipt.Tax.IsZero() {
		doc.KeyValue("Tax", receipt.Tax.StringFixed(2))
	}
	doc.SetBold(true).
		KeyValue("TOTAL", receipt.GrandTotal.StringFixed(2)).
		SetBold(false)

	extra := receipt.Extra()
	printedExtra := false
	for _, def := range project.ReceiptExtraSchema {
		v, ok := extra[def.Key]
		if !ok || v.IsNull() {
			continue
		}
		if !printedExtra {
			doc.Separator('-')
			printedExtra = true
		}
		label := def.Label
		if label == "" {
			label = def.Key
		}
		doc.KeyValue(label, displayValue(v))
	}

	if receipt.Notes != "" {
		doc.Separator('-').Text(receipt.Notes)
	}

	doc.Separator('=').SetAlign(printer.AlignCenter)
	if project.FooterNote != "" {
		doc.Text(project.FooterNote)
	}
	doc.SetAlign(printer.AlignLeft).Cut()

	return doc.Bytes()
}

func displayValue(v extrafield.Value) string {
	if v.Kind() != extrafield.KindBoolean {
		return strings.TrimSpace(v.Text())
	}
	if v.BoolVal() {
		return "Yes"
	}
	return "No"
}
