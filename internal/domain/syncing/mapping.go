package syncing

import (
	"context"
	"time"
)

// ---------------------------------------------------------------------------
// Mapping Entity
// ---------------------------------------------------------------------------

// Mapping binds one ERP warehouse to the single storefront location it feeds.
// The warehouse ID is the natural key: at most one mapping exists per
// warehouse, and saving an existing warehouse replaces the row.
type Mapping struct {
	// WarehouseID is the stable external warehouse identifier in the ERP
	WarehouseID string
	// WarehouseName is the warehouse display name, cached for the UI
	WarehouseName string
	// LocationID is the storefront location identifier quantities are pushed to
	LocationID string
	// LocationName is the location display name, cached for the UI
	LocationName string
	// Active controls whether the sync paths consume this mapping.
	// Disabled mappings are kept so historical audit events stay interpretable.
	Active bool
	// CreatedAt is when this mapping was first created
	CreatedAt time.Time
	// UpdatedAt is when this mapping was last updated
	UpdatedAt time.Time
}

// NewMapping creates a mapping after validating both identifiers.
func NewMapping(warehouseID, warehouseName, locationID, locationName string, active bool) (*Mapping, error) {
	if warehouseID == "" {
		return nil, ErrMappingInvalidWarehouseID
	}
	if locationID == "" {
		return nil, ErrMappingInvalidLocationID
	}

	now := time.Now()
	return &Mapping{
		WarehouseID:   warehouseID,
		WarehouseName: warehouseName,
		LocationID:    locationID,
		LocationName:  locationName,
		Active:        active,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Validate validates the mapping identifiers.
func (m *Mapping) Validate() error {
	if m.WarehouseID == "" {
		return ErrMappingInvalidWarehouseID
	}
	if m.LocationID == "" {
		return ErrMappingInvalidLocationID
	}
	return nil
}

// Deactivate soft-disables the mapping without deleting it.
func (m *Mapping) Deactivate() {
	m.Active = false
	m.UpdatedAt = time.Now()
}

// Activate re-enables the mapping.
func (m *Mapping) Activate() {
	m.Active = true
	m.UpdatedAt = time.Now()
}

// ---------------------------------------------------------------------------
// MappingRepository Interface
// ---------------------------------------------------------------------------

// MappingRepository persists warehouse → location mappings.
type MappingRepository interface {
	// Upsert inserts or replaces the row keyed by warehouse ID.
	Upsert(ctx context.Context, mapping *Mapping) error

	// Remove deletes the mapping for a warehouse. Removing an absent
	// warehouse is not an error.
	Remove(ctx context.Context, warehouseID string) error

	// ListAll returns every mapping ordered by display name then warehouse ID.
	ListAll(ctx context.Context) ([]Mapping, error)

	// ListActive returns only active mappings; this is the set the
	// orchestrator fans out over.
	ListActive(ctx context.Context) ([]Mapping, error)

	// GetByWarehouse returns the mapping for a warehouse or ErrMappingNotFound.
	GetByWarehouse(ctx context.Context, warehouseID string) (*Mapping, error)
}
