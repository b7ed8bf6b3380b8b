package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	appsyncing "github.com/stocksync/backend/internal/application/syncing"
)

// maxWebhookBodySize bounds webhook payload reads (1MB)
const maxWebhookBodySize = 1 * 1024 * 1024

// WebhookHandler receives ERP webhook deliveries. Token verification
// happens in middleware before these handlers run.
type WebhookHandler struct {
	BaseHandler
	service *appsyncing.Service
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(service *appsyncing.Service) *WebhookHandler {
	return &WebhookHandler{service: service}
}

// RegisterRoutes registers webhook routes behind the token middleware
func (h *WebhookHandler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	webhooks := rg.Group("/webhooks", auth)
	{
		webhooks.POST("/stock", h.Stock)
		webhooks.POST("/sales", h.Sales)
	}
}

// Stock handles an ERP stock-change notification
func (h *WebhookHandler) Stock(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodySize))
	if err != nil {
		h.BadRequest(c, "failed to read payload")
		return
	}

	result, err := h.service.ProcessStockWebhook(c.Request.Context(), payload)
	if err != nil {
		h.Internal(c, err.Error())
		return
	}
	h.Success(c, result)
}

// Sales handles an ERP sale notification
func (h *WebhookHandler) Sales(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodySize))
	if err != nil {
		h.BadRequest(c, "failed to read payload")
		return
	}

	result, err := h.service.ProcessSalesWebhook(c.Request.Context(), payload)
	if err != nil {
		h.Internal(c, err.Error())
		return
	}
	h.Success(c, result)
}
