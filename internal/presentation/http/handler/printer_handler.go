package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/receipts-api/internal/application/service"
	"github.com/sangkips/receipts-api/internal/presentation/http/dto/request"
	"github.com/sangkips/receipts-api/internal/presentation/http/dto/response"
)

// PrinterHandler handles printer-related HTTP requests.
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// GetStatus returns the configured printer and whether it is reachable.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.printerService.Status(c.Request.Context()))
}

// TestPrint sends a test page to the printer.
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	if err := h.printerService.TestPrint(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Test page sent to printer", nil)
}

// PrintReceipt prints a stored receipt of a project.
func (h *PrinterHandler) PrintReceipt(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid receipt ID")
	if !ok {
		return
	}
	var query request.ReceiptQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "project_code query parameter is required")
		return
	}

	if err := h.printerService.PrintReceipt(c.Request.Context(), query.ProjectCode, id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt sent to printer", nil)
}
