package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	appsyncing "github.com/stocksync/backend/internal/application/syncing"
)

// SchedulerControl is the scheduler surface the settings endpoint drives
type SchedulerControl interface {
	Restart(ctx context.Context) error
}

// SyncIntervalRequest is the request body for changing the sync interval
type SyncIntervalRequest struct {
	Minutes int `json:"minutes" binding:"required,min=1,max=10080"`
}

// SyncIntervalResponse reports the effective sync interval
type SyncIntervalResponse struct {
	Minutes int `json:"minutes"`
}

// SettingHandler exposes runtime sync settings
type SettingHandler struct {
	BaseHandler
	service   *appsyncing.Service
	scheduler SchedulerControl
}

// NewSettingHandler creates a new SettingHandler
func NewSettingHandler(service *appsyncing.Service, scheduler SchedulerControl) *SettingHandler {
	return &SettingHandler{service: service, scheduler: scheduler}
}

// RegisterRoutes registers setting routes
func (h *SettingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	settings := rg.Group("/settings")
	{
		settings.GET("/sync-interval", h.GetSyncInterval)
		settings.PUT("/sync-interval", h.PutSyncInterval)
	}
}

// GetSyncInterval reports the effective full-sync interval
func (h *SettingHandler) GetSyncInterval(c *gin.Context) {
	h.Success(c, SyncIntervalResponse{
		Minutes: h.service.SyncIntervalMinutes(c.Request.Context()),
	})
}

// PutSyncInterval stores a new interval and restarts the scheduler so it
// takes effect. A sync already in flight is left to finish.
func (h *SettingHandler) PutSyncInterval(c *gin.Context) {
	var req SyncIntervalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			h.BadRequest(c, validationErrs.Error())
			return
		}
		h.BadRequest(c, "invalid request body")
		return
	}

	if err := h.service.SetSyncIntervalMinutes(c.Request.Context(), req.Minutes); err != nil {
		h.Internal(c, err.Error())
		return
	}

	if h.scheduler != nil {
		if err := h.scheduler.Restart(c.Request.Context()); err != nil {
			h.Internal(c, "interval stored but scheduler restart failed: "+err.Error())
			return
		}
	}

	h.Success(c, SyncIntervalResponse{Minutes: req.Minutes})
}
