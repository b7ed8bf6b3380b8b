package syncing

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/stocksync/backend/internal/domain/syncing"
)

// ---------------------------------------------------------------------------
// Stock Webhook
// ---------------------------------------------------------------------------

// ProcessStockWebhook handles a near-real-time stock change for a single
// SKU/warehouse. Domain skips (unmapped warehouse, ambiguous mapping,
// unresolved SKU, unrecognized payload) come back as skipped results, not
// errors; errors are reserved for transport and remote failures.
func (s *Service) ProcessStockWebhook(ctx context.Context, payload []byte) (*syncing.WebhookResult, error) {
	notice, ok := normalizeStockPayload(payload)
	if !ok {
		s.events.Record(ctx, syncing.EventTypeWebhookStock, syncing.EventStatusSkipped,
			"unrecognized stock payload shape", nil)
		return syncing.SkippedWebhookResult(syncing.SkipUnrecognizedPayload), nil
	}

	eventContext := map[string]any{
		"warehouse_id": notice.WarehouseID,
		"sku":          notice.SKU,
		"product_id":   notice.ProductID,
	}

	mapping, skipReason, err := s.selectMapping(ctx, notice.WarehouseID)
	if err != nil {
		return nil, fmt.Errorf("stock webhook: select mapping: %w", err)
	}
	if mapping == nil {
		s.events.Record(ctx, syncing.EventTypeWebhookStock, syncing.EventStatusSkipped,
			"no usable mapping for stock change", eventContext)
		return syncing.SkippedWebhookResult(skipReason), nil
	}
	eventContext["location_id"] = mapping.LocationID

	if notice.SKU == "" {
		s.events.Record(ctx, syncing.EventTypeWebhookStock, syncing.EventStatusSkipped,
			"stock payload carries no sku", eventContext)
		return syncing.SkippedWebhookResult(syncing.SkipUnrecognizedPayload), nil
	}

	quantity := decimal.Zero
	if notice.Quantity != nil {
		quantity = *notice.Quantity
	} else {
		if notice.ProductID == 0 {
			s.events.Record(ctx, syncing.EventTypeWebhookStock, syncing.EventStatusSkipped,
				"stock payload carries neither quantity nor product id", eventContext)
			return syncing.SkippedWebhookResult(syncing.SkipUnrecognizedPayload), nil
		}
		stock, err := s.source.GetProductStock(ctx, notice.ProductID)
		if err != nil {
			s.events.Record(ctx, syncing.EventTypeWebhookStock, syncing.EventStatusError,
				"failed to fetch stock: "+err.Error(), eventContext)
			return nil, fmt.Errorf("stock webhook: fetch stock: %w", err)
		}
		// A warehouse with no stock entry for the product reads as zero
		quantity, _ = stock.QuantityFor(mapping.WarehouseID)
	}

	item, err := s.sink.ResolveSKU(ctx, notice.SKU)
	if err != nil {
		s.events.Record(ctx, syncing.EventTypeWebhookStock, syncing.EventStatusError,
			"failed to resolve sku: "+err.Error(), eventContext)
		return nil, fmt.Errorf("stock webhook: resolve sku: %w", err)
	}
	if item == nil {
		s.events.Record(ctx, syncing.EventTypeWebhookStock, syncing.EventStatusSkipped,
			"sku not found on storefront", eventContext)
		return syncing.SkippedWebhookResult(syncing.SkipSkuNotFound), nil
	}

	if err := s.sink.SetQuantity(ctx, item.InventoryItemID, mapping.LocationID, quantity.IntPart(), syncing.ReasonCorrection); err != nil {
		s.events.Record(ctx, syncing.EventTypeWebhookStock, syncing.EventStatusError,
			"failed to set quantity: "+err.Error(), eventContext)
		return nil, fmt.Errorf("stock webhook: set quantity: %w", err)
	}

	eventContext["quantity"] = quantity.String()
	s.events.Record(ctx, syncing.EventTypeWebhookStock, syncing.EventStatusOK,
		"stock change pushed", eventContext)

	return syncing.OKWebhookResult(1), nil
}

// selectMapping picks the mapping a stock notice routes to. A known
// warehouse id must have an active mapping; a notice without a warehouse id
// falls back to the single active mapping only when exactly one exists.
func (s *Service) selectMapping(ctx context.Context, warehouseID string) (*syncing.Mapping, string, error) {
	if warehouseID != "" {
		mapping, err := s.mappings.GetByWarehouse(ctx, warehouseID)
		if err != nil {
			if errors.Is(err, syncing.ErrMappingNotFound) {
				return nil, syncing.SkipMappingNotFound, nil
			}
			return nil, "", err
		}
		if !mapping.Active {
			return nil, syncing.SkipMappingNotFound, nil
		}
		return mapping, "", nil
	}

	active, err := s.mappings.ListActive(ctx)
	if err != nil {
		return nil, "", err
	}
	if len(active) != 1 {
		return nil, syncing.SkipMappingUndetermined, nil
	}
	return &active[0], "", nil
}

// ---------------------------------------------------------------------------
// Sales Webhook
// ---------------------------------------------------------------------------

// ProcessSalesWebhook reconciles storefront quantities after an ERP sale.
// Every (sku × active mapping) pair is processed independently; per-pair
// failures are logged and absorbed, and the result reports only the total
// number of pushes issued.
func (s *Service) ProcessSalesWebhook(ctx context.Context, payload []byte) (*syncing.WebhookResult, error) {
	notice, ok := normalizeSalesPayload(payload)
	if !ok {
		s.events.Record(ctx, syncing.EventTypeWebhookSales, syncing.EventStatusSkipped,
			"unrecognized sales payload shape", nil)
		return syncing.SkippedWebhookResult(syncing.SkipUnrecognizedPayload), nil
	}

	mappings, err := s.mappings.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("sales webhook: load active mappings: %w", err)
	}
	if len(mappings) == 0 {
		s.events.Record(ctx, syncing.EventTypeWebhookSales, syncing.EventStatusSkipped,
			"no active mappings", nil)
		return syncing.SkippedWebhookResult(syncing.SkipNoMappings), nil
	}
	if len(notice.SKUs) == 0 {
		s.events.Record(ctx, syncing.EventTypeWebhookSales, syncing.EventStatusSkipped,
			"sale carries no skus", nil)
		return syncing.SkippedWebhookResult(syncing.SkipNoSKUs), nil
	}

	updated := 0
	for _, sku := range notice.SKUs {
		updated += s.reconcileSaleSku(ctx, sku, mappings)
	}

	s.events.Record(ctx, syncing.EventTypeWebhookSales, syncing.EventStatusOK,
		"sale reconciled",
		map[string]any{"skus": len(notice.SKUs), "updated": updated})

	return syncing.OKWebhookResult(updated), nil
}

// reconcileSaleSku pushes current ERP quantities for one sold SKU across
// all active mappings, returning the number of pushes issued
func (s *Service) reconcileSaleSku(ctx context.Context, sku string, mappings []syncing.Mapping) int {
	eventContext := map[string]any{"sku": sku}

	item, err := s.sink.ResolveSKU(ctx, sku)
	if err != nil {
		s.recordSaleItemError(ctx, "failed to resolve sku: "+err.Error(), eventContext)
		return 0
	}
	if item == nil {
		s.events.Record(ctx, syncing.EventTypeWebhookSale, syncing.EventStatusSkipped,
			"sku not found on storefront", eventContext)
		return 0
	}

	product, err := s.source.FindProductBySKU(ctx, sku)
	if err != nil {
		s.recordSaleItemError(ctx, "failed to find product: "+err.Error(), eventContext)
		return 0
	}
	if product == nil {
		s.events.Record(ctx, syncing.EventTypeWebhookSale, syncing.EventStatusSkipped,
			"sku not found in erp catalog", eventContext)
		return 0
	}
	eventContext["product_id"] = product.ID

	stock, err := s.source.GetProductStock(ctx, product.ID)
	if err != nil {
		s.recordSaleItemError(ctx, "failed to fetch stock: "+err.Error(), eventContext)
		return 0
	}

	updated := 0
	for i := range mappings {
		mapping := &mappings[i]
		pairContext := map[string]any{
			"sku":          sku,
			"product_id":   product.ID,
			"warehouse_id": mapping.WarehouseID,
			"location_id":  mapping.LocationID,
		}

		quantity, found := stock.QuantityFor(mapping.WarehouseID)
		if !found {
			s.events.Record(ctx, syncing.EventTypeWebhookSale, syncing.EventStatusSkipped,
				"no stock entry for warehouse", pairContext)
			continue
		}

		if err := s.sink.SetQuantity(ctx, item.InventoryItemID, mapping.LocationID, quantity.IntPart(), syncing.ReasonSale); err != nil {
			s.recordSaleItemError(ctx, "failed to set quantity: "+err.Error(), pairContext)
			s.logger.Warn("Sale reconciliation pair failed",
				zap.String("sku", sku),
				zap.String("warehouse_id", mapping.WarehouseID),
				zap.Error(err),
			)
			continue
		}

		pairContext["quantity"] = quantity.String()
		s.events.Record(ctx, syncing.EventTypeWebhookSale, syncing.EventStatusOK,
			"sale quantity pushed", pairContext)
		updated++
	}

	return updated
}

func (s *Service) recordSaleItemError(ctx context.Context, message string, eventContext map[string]any) {
	s.events.Record(ctx, syncing.EventTypeWebhookSale, syncing.EventStatusError, message, eventContext)
}
