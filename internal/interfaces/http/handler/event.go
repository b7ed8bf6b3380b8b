package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appsyncing "github.com/stocksync/backend/internal/application/syncing"
	"github.com/stocksync/backend/internal/domain/syncing"
)

// EventHandler exposes the audit trail
type EventHandler struct {
	BaseHandler
	service *appsyncing.Service
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(service *appsyncing.Service) *EventHandler {
	return &EventHandler{service: service}
}

// RegisterRoutes registers event routes
func (h *EventHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/events", h.List)
}

// List returns the newest audit trail entries first, optionally filtered
// by type
func (h *EventHandler) List(c *gin.Context) {
	filter := syncing.SyncEventFilter{
		Type: syncing.EventType(c.Query("type")),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			h.BadRequest(c, "limit must be a positive integer")
			return
		}
		filter.Limit = limit
	}

	events, err := h.service.ListEvents(c.Request.Context(), filter)
	if err != nil {
		h.Internal(c, err.Error())
		return
	}
	h.Success(c, events)
}
