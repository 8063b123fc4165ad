package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/receipts-api/internal/application/service"
	"github.com/sangkips/receipts-api/internal/presentation/http/dto/request"
	"github.com/sangkips/receipts-api/internal/presentation/http/dto/response"
	"github.com/sangkips/receipts-api/pkg/apperror"
)

// ReceiptHandler handles receipt-related HTTP requests
type ReceiptHandler struct {
	receiptService *service.ReceiptService
	publicService  *service.PublicReceiptService
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService *service.ReceiptService, publicService *service.PublicReceiptService) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService: receiptService,
		publicService:  publicService,
	}
}

// Create handles issuing a receipt
func (h *ReceiptHandler) Create(c *gin.Context) {
	var req request.CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	issuedAt, err := req.ParseDateTime()
	if err != nil {
		response.Error(c, apperror.NewFieldError("date_time", err.Error()))
		return
	}

	items := make([]service.ReceiptItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.ReceiptItemInput{
			Name:      item.Name,
			Qty:       item.Qty,
			UnitPrice: item.UnitPrice,
		})
	}

	receipt, err := h.receiptService.CreateReceipt(c.Request.Context(), &service.CreateReceiptInput{
		ProjectCode:   req.ProjectCode,
		DateTime:      issuedAt,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		PaymentMode:   req.PaymentMode,
		Discount:      req.Discount,
		Tax:           req.Tax,
		Notes:         req.Notes,
		Items:         items,
		ExtraData:     req.ExtraData,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Receipt created successfully", response.NewReceiptResponse(receipt))
}

// List handles listing the receipts of a project
func (h *ReceiptHandler) List(c *gin.Context) {
	var query request.ReceiptQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "project_code query parameter is required")
		return
	}

	receipts, err := h.receiptService.ListReceipts(c.Request.Context(), query.ProjectCode)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipts retrieved successfully", response.NewReceiptSummaries(receipts))
}

// Get handles getting a single receipt
func (h *ReceiptHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid receipt ID")
	if !ok {
		return
	}
	var query request.ReceiptQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "project_code query parameter is required")
		return
	}

	receipt, err := h.receiptService.GetReceipt(c.Request.Context(), query.ProjectCode, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt retrieved successfully", response.NewReceiptResponse(receipt))
}

// ShareLink handles generating the signed public link of a receipt
func (h *ReceiptHandler) ShareLink(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid receipt ID")
	if !ok {
		return
	}
	var query request.ReceiptQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "project_code query parameter is required")
		return
	}

	link, err := h.publicService.ShareLink(c.Request.Context(), query.ProjectCode, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Share link generated successfully", response.ShareLinkResponse{URL: link})
}
