package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/receipts-api/internal/application/service"
	"github.com/sangkips/receipts-api/internal/presentation/http/dto/response"
)

// PublicHandler serves signed receipt links without authentication
type PublicHandler struct {
	publicService *service.PublicReceiptService
}

// NewPublicHandler creates a new public handler
func NewPublicHandler(publicService *service.PublicReceiptService) *PublicHandler {
	return &PublicHandler{publicService: publicService}
}

// GetReceipt handles fetching a receipt through its signed link
func (h *PublicHandler) GetReceipt(c *gin.Context) {
	id, ok := parseID(c, "receiptId", "Invalid receipt ID")
	if !ok {
		return
	}
	view, err := h.publicService.GetPublicReceipt(c.Request.Context(), c.Param("projectCode"), id, c.Query("sign"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Cache-Control", "private, max-age=60")
	response.OK(c, "Receipt retrieved successfully", response.NewPublicReceiptResponse(view))
}
