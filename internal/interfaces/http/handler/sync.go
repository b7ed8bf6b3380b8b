package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	appsyncing "github.com/stocksync/backend/internal/application/syncing"
)

// SyncHandler exposes the full-sync trigger and status endpoints
type SyncHandler struct {
	BaseHandler
	service *appsyncing.Service
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(service *appsyncing.Service) *SyncHandler {
	return &SyncHandler{service: service}
}

// RegisterRoutes registers sync routes
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sync := rg.Group("/sync")
	{
		sync.POST("/full", h.TriggerFullSync)
		sync.GET("/status", h.GetStatus)
	}
}

// TriggerFullSync starts a full sync run. A run rejected by the
// single-flight guard still answers 200, with the skip reason in the body.
// The run is detached from the request context: a client disconnect or a
// write timeout must not abort a catalog-sized walk halfway through.
func (h *SyncHandler) TriggerFullSync(c *gin.Context) {
	result, err := h.service.RunFullSync(context.WithoutCancel(c.Request.Context()))
	if err != nil {
		h.Internal(c, err.Error())
		return
	}
	h.Success(c, result)
}

// GetStatus reports the orchestrator state and the last run summary
func (h *SyncHandler) GetStatus(c *gin.Context) {
	h.Success(c, h.service.Status())
}
