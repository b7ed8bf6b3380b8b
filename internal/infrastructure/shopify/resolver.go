package shopify

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/stocksync/backend/internal/domain/syncing"
)

// SkuResolver implements the SinkConnector port by wrapping the Admin
// client with the durable SKU resolution cache. Lookups hit the cache
// first; a successful remote resolution is written through before it is
// returned. Cached bindings carry no expiry.
type SkuResolver struct {
	client AdminClient
	cache  syncing.SkuBindingRepository
	logger *zap.Logger
}

// NewSkuResolver creates a new SkuResolver
func NewSkuResolver(client AdminClient, cache syncing.SkuBindingRepository, logger *zap.Logger) *SkuResolver {
	return &SkuResolver{
		client: client,
		cache:  cache,
		logger: logger,
	}
}

// ListLocations delegates to the Admin client
func (r *SkuResolver) ListLocations(ctx context.Context) ([]syncing.Location, error) {
	return r.client.ListLocations(ctx)
}

// SetQuantity delegates to the Admin client
func (r *SkuResolver) SetQuantity(ctx context.Context, inventoryItemID, locationID string, quantity int64, reason syncing.SetReason) error {
	return r.client.SetQuantity(ctx, inventoryItemID, locationID, quantity, reason)
}

// ResolveSKU maps a SKU to its storefront inventory item. Returns
// (nil, nil) when the SKU does not exist remotely.
func (r *SkuResolver) ResolveSKU(ctx context.Context, sku string) (*syncing.RemoteItem, error) {
	binding, err := r.cache.Get(ctx, sku)
	if err == nil {
		return &syncing.RemoteItem{
			InventoryItemID: binding.InventoryItemID,
			VariantID:       binding.VariantID,
			Title:           binding.Title,
		}, nil
	}
	if !errors.Is(err, syncing.ErrBindingNotFound) {
		// A broken cache degrades to a remote lookup, it does not fail
		// the resolution.
		r.logger.Warn("Resolution cache read failed, falling back to remote lookup",
			zap.String("sku", sku),
			zap.Error(err),
		)
	}

	item, err := r.client.LookupVariantBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	entry := &syncing.SkuBinding{
		SKU:             sku,
		InventoryItemID: item.InventoryItemID,
		VariantID:       item.VariantID,
		Title:           item.Title,
		UpdatedAt:       time.Now(),
	}
	if err := r.cache.Put(ctx, entry); err != nil {
		r.logger.Warn("Failed to populate resolution cache",
			zap.String("sku", sku),
			zap.Error(err),
		)
	}

	return item, nil
}

// Ensure SkuResolver implements SinkConnector
var _ syncing.SinkConnector = (*SkuResolver)(nil)
