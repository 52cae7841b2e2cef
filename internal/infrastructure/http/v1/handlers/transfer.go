package handlers

import (
	"github.com/gin-gonic/gin"

	"stockpilot/internal/domain/transfer"
)

// TransferHandler handles HTTP requests for bulk export/import.
type TransferHandler struct {
	*BaseHandler
	service *transfer.Service
}

// NewTransferHandler creates a new transfer handler.
func NewTransferHandler(base *BaseHandler, service *transfer.Service) *TransferHandler {
	return &TransferHandler{BaseHandler: base, service: service}
}

// Export handles GET /export
func (h *TransferHandler) Export(c *gin.Context) {
	data, err := h.service.Export(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, data)
}

// Import handles POST /import
func (h *TransferHandler) Import(c *gin.Context) {
	var data transfer.Data
	if !h.BindJSON(c, &data) {
		return
	}

	result, err := h.service.Import(c.Request.Context(), data)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}
