package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/receipts-api/internal/presentation/http/dto/response"
)

// parseID reads a positive numeric path parameter. On failure it writes a
// 400 and returns false.
func parseID(c *gin.Context, param, message string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, message)
		return 0, false
	}
	return id, true
}
