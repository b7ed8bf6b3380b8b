package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	appsyncing "github.com/stocksync/backend/internal/application/syncing"
	"github.com/stocksync/backend/internal/domain/syncing"
)

// UpsertMappingRequest is the request body for creating or replacing a
// warehouse mapping
type UpsertMappingRequest struct {
	WarehouseID   string `json:"warehouse_id" binding:"required,max=64"`
	WarehouseName string `json:"warehouse_name" binding:"max=255"`
	LocationID    string `json:"location_id" binding:"required,max=128"`
	LocationName  string `json:"location_name" binding:"max=255"`
	// Active defaults to true when omitted
	Active *bool `json:"active"`
}

// MappingHandler exposes warehouse mapping management
type MappingHandler struct {
	BaseHandler
	service *appsyncing.Service
}

// NewMappingHandler creates a new MappingHandler
func NewMappingHandler(service *appsyncing.Service) *MappingHandler {
	return &MappingHandler{service: service}
}

// RegisterRoutes registers mapping routes
func (h *MappingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	mappings := rg.Group("/mappings")
	{
		mappings.GET("", h.List)
		mappings.POST("", h.Upsert)
		mappings.DELETE("/:warehouseID", h.Remove)
	}
}

// List returns all mappings in display order
func (h *MappingHandler) List(c *gin.Context) {
	mappings, err := h.service.ListMappings(c.Request.Context())
	if err != nil {
		h.Internal(c, err.Error())
		return
	}
	h.Success(c, mappings)
}

// Upsert creates or replaces the mapping for a warehouse
func (h *MappingHandler) Upsert(c *gin.Context) {
	var req UpsertMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			h.BadRequest(c, validationErrs.Error())
			return
		}
		h.BadRequest(c, "invalid request body")
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	mapping, err := syncing.NewMapping(req.WarehouseID, req.WarehouseName, req.LocationID, req.LocationName, active)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.service.UpsertMapping(c.Request.Context(), mapping); err != nil {
		h.Internal(c, err.Error())
		return
	}
	h.Success(c, mapping)
}

// Remove deletes the mapping for a warehouse; removing an absent mapping
// still answers 204
func (h *MappingHandler) Remove(c *gin.Context) {
	warehouseID := c.Param("warehouseID")

	if err := h.service.RemoveMapping(c.Request.Context(), warehouseID); err != nil {
		if errors.Is(err, syncing.ErrMappingInvalidWarehouseID) {
			h.BadRequest(c, err.Error())
			return
		}
		h.Internal(c, err.Error())
		return
	}
	h.NoContent(c)
}
