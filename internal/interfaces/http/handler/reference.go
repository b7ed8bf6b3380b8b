package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appsyncing "github.com/stocksync/backend/internal/application/syncing"
)

// defaultWarehouseSample bounds the catalog walk behind warehouse discovery
const defaultWarehouseSample = 25

// ReferenceHandler exposes the reference data the mapping UI needs
type ReferenceHandler struct {
	BaseHandler
	service *appsyncing.Service
}

// NewReferenceHandler creates a new ReferenceHandler
func NewReferenceHandler(service *appsyncing.Service) *ReferenceHandler {
	return &ReferenceHandler{service: service}
}

// RegisterRoutes registers reference routes
func (h *ReferenceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	references := rg.Group("/references")
	{
		references.GET("/locations", h.Locations)
		references.GET("/warehouses", h.Warehouses)
	}
}

// Locations lists the storefront locations
func (h *ReferenceHandler) Locations(c *gin.Context) {
	locations, err := h.service.ListLocations(c.Request.Context())
	if err != nil {
		h.Internal(c, err.Error())
		return
	}
	h.Success(c, locations)
}

// Warehouses samples the ERP catalog for warehouses seen in stock
// breakdowns
func (h *ReferenceHandler) Warehouses(c *gin.Context) {
	sample := defaultWarehouseSample
	if raw := c.Query("sample"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.BadRequest(c, "sample must be a positive integer")
			return
		}
		sample = parsed
	}

	warehouses, err := h.service.DiscoverWarehouses(c.Request.Context(), sample)
	if err != nil {
		h.Internal(c, err.Error())
		return
	}
	h.Success(c, warehouses)
}
