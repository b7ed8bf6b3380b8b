package syncing

import (
	"context"
	"fmt"

	"github.com/stocksync/backend/internal/domain/syncing"
)

// ---------------------------------------------------------------------------
// Mapping Management
// ---------------------------------------------------------------------------

// ListMappings returns all warehouse mappings in display order
func (s *Service) ListMappings(ctx context.Context) ([]syncing.Mapping, error) {
	return s.mappings.ListAll(ctx)
}

// UpsertMapping creates or replaces the mapping for a warehouse
func (s *Service) UpsertMapping(ctx context.Context, mapping *syncing.Mapping) error {
	if err := s.mappings.Upsert(ctx, mapping); err != nil {
		return err
	}

	s.events.Record(ctx, syncing.EventTypeConfig, syncing.EventStatusOK,
		fmt.Sprintf("mapping saved: warehouse %s -> location %s", mapping.WarehouseID, mapping.LocationID),
		map[string]any{
			"warehouse_id": mapping.WarehouseID,
			"location_id":  mapping.LocationID,
			"active":       mapping.Active,
		})
	return nil
}

// RemoveMapping deletes the mapping for a warehouse; removing an absent
// mapping is not an error
func (s *Service) RemoveMapping(ctx context.Context, warehouseID string) error {
	if warehouseID == "" {
		return syncing.ErrMappingInvalidWarehouseID
	}

	if err := s.mappings.Remove(ctx, warehouseID); err != nil {
		return err
	}

	s.events.Record(ctx, syncing.EventTypeConfig, syncing.EventStatusOK,
		"mapping removed: warehouse "+warehouseID,
		map[string]any{"warehouse_id": warehouseID})
	return nil
}

// ---------------------------------------------------------------------------
// Reference Data
// ---------------------------------------------------------------------------

// ListLocations returns the storefront locations for the mapping UI
func (s *Service) ListLocations(ctx context.Context) ([]syncing.Location, error) {
	return s.sink.ListLocations(ctx)
}

// DiscoverWarehouses samples the ERP catalog for warehouses seen in stock
// breakdowns, for the mapping UI
func (s *Service) DiscoverWarehouses(ctx context.Context, sampleLimit int) ([]syncing.Warehouse, error) {
	return s.source.DiscoverWarehouses(ctx, sampleLimit)
}

// ListEvents returns the newest audit trail entries first
func (s *Service) ListEvents(ctx context.Context, filter syncing.SyncEventFilter) ([]syncing.SyncEvent, error) {
	return s.eventLog.ListRecent(ctx, filter)
}
