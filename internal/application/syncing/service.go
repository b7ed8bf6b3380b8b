package syncing

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stocksync/backend/internal/domain/syncing"
)

// Service is the sync orchestrator. It owns the single-flight guard for
// full-sync runs and drives the source and sink connectors for the three
// trigger paths: periodic/manual full sync, the stock webhook, and the
// sales webhook.
type Service struct {
	mappings syncing.MappingRepository
	settings syncing.SettingRepository
	source   syncing.SourceConnector
	sink     syncing.SinkConnector
	events   syncing.EventRecorder
	eventLog syncing.SyncEventRepository
	logger   *zap.Logger

	// defaultIntervalMinutes applies when no runtime setting is stored
	defaultIntervalMinutes int

	mu         sync.Mutex
	isRunning  bool
	state      syncing.RunState
	lastResult *syncing.FullSyncResult
	lastRunAt  *time.Time
}

// NewService creates a new sync orchestration Service
func NewService(
	mappings syncing.MappingRepository,
	settings syncing.SettingRepository,
	source syncing.SourceConnector,
	sink syncing.SinkConnector,
	events syncing.EventRecorder,
	eventLog syncing.SyncEventRepository,
	defaultIntervalMinutes int,
	logger *zap.Logger,
) *Service {
	if defaultIntervalMinutes <= 0 {
		defaultIntervalMinutes = syncing.DefaultSyncIntervalMinutes
	}
	return &Service{
		mappings:               mappings,
		settings:               settings,
		source:                 source,
		sink:                   sink,
		events:                 events,
		eventLog:               eventLog,
		logger:                 logger,
		defaultIntervalMinutes: defaultIntervalMinutes,
		state:                  syncing.RunStateIdle,
	}
}

// ---------------------------------------------------------------------------
// Full Sync
// ---------------------------------------------------------------------------

// RunFullSync walks the whole ERP catalog and pushes absolute quantities for
// every product × active mapping pair. At most one run is active
// process-wide; a second request while one is running returns a skipped
// result without doing any work.
func (s *Service) RunFullSync(ctx context.Context) (*syncing.FullSyncResult, error) {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		s.events.Record(ctx, syncing.EventTypeFullSync, syncing.EventStatusSkipped,
			"full sync already running", nil)
		return &syncing.FullSyncResult{
			Started:    false,
			SkipReason: syncing.SkipAlreadyRunning,
		}, nil
	}
	s.isRunning = true
	s.state = syncing.RunStateRunning
	s.mu.Unlock()

	result := &syncing.FullSyncResult{
		RunID:   uuid.New(),
		Started: true,
	}
	started := time.Now()

	finish := func(state syncing.RunState) {
		result.Elapsed = time.Since(started)
		now := time.Now()
		s.mu.Lock()
		s.isRunning = false
		s.state = state
		s.lastResult = result
		s.lastRunAt = &now
		s.mu.Unlock()
	}

	mappings, err := s.mappings.ListActive(ctx)
	if err != nil {
		finish(syncing.RunStateFailed)
		s.events.Record(ctx, syncing.EventTypeFullSync, syncing.EventStatusError,
			"failed to load active mappings: "+err.Error(),
			map[string]any{"run_id": result.RunID.String()})
		return result, fmt.Errorf("full sync: load active mappings: %w", err)
	}

	if len(mappings) == 0 {
		finish(syncing.RunStateCompleted)
		s.events.Record(ctx, syncing.EventTypeFullSync, syncing.EventStatusOK,
			"no active mappings, nothing to sync",
			map[string]any{"run_id": result.RunID.String()})
		return result, nil
	}

	for page := 1; ; page++ {
		productPage, err := s.source.ListProducts(ctx, page)
		if err != nil {
			finish(syncing.RunStateFailed)
			s.events.Record(ctx, syncing.EventTypeFullSync, syncing.EventStatusError,
				fmt.Sprintf("failed to fetch catalog page %d: %v", page, err),
				map[string]any{"run_id": result.RunID.String(), "page": page})
			return result, fmt.Errorf("full sync: fetch catalog page %d: %w", page, err)
		}

		for _, product := range productPage.Products {
			result.Products++
			for i := range mappings {
				s.syncUnit(ctx, result, &product, &mappings[i])
			}
		}

		if len(productPage.Products) == 0 || page >= productPage.TotalPages {
			break
		}
	}

	finish(syncing.RunStateCompleted)
	s.events.Record(ctx, syncing.EventTypeFullSync, syncing.EventStatusOK,
		"full sync completed",
		map[string]any{
			"run_id":    result.RunID.String(),
			"products":  result.Products,
			"updated":   result.Updated,
			"not_found": result.NotFound,
			"skipped":   result.Skipped,
			"failed":    result.Failed,
			"elapsed":   result.Elapsed.String(),
		})

	s.logger.Info("Full sync completed",
		zap.String("run_id", result.RunID.String()),
		zap.Int("products", result.Products),
		zap.Int("updated", result.Updated),
		zap.Int("not_found", result.NotFound),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
		zap.Duration("elapsed", result.Elapsed),
	)

	return result, nil
}

// syncUnit processes one product × mapping pair. Failures are absorbed into
// the run's failure counter; they never abort the run.
func (s *Service) syncUnit(ctx context.Context, result *syncing.FullSyncResult, product *syncing.Product, mapping *syncing.Mapping) {
	unitContext := map[string]any{
		"run_id":       result.RunID.String(),
		"product_id":   product.ID,
		"sku":          product.SKU,
		"warehouse_id": mapping.WarehouseID,
		"location_id":  mapping.LocationID,
	}

	outcome, message, err := s.pushProductQuantity(ctx, product, mapping)
	if err != nil {
		result.Failed++
		s.events.Record(ctx, syncing.EventTypeFullSyncItem, syncing.EventStatusError, err.Error(), unitContext)
		s.logger.Warn("Sync unit failed",
			zap.Int64("product_id", product.ID),
			zap.String("sku", product.SKU),
			zap.String("warehouse_id", mapping.WarehouseID),
			zap.Error(err),
		)
		return
	}

	switch outcome {
	case syncing.UnitUpdated:
		result.Updated++
	case syncing.UnitNotFound:
		result.NotFound++
	case syncing.UnitSkipped:
		result.Skipped++
	}
	unitContext["outcome"] = string(outcome)
	s.events.Record(ctx, syncing.EventTypeFullSyncItem, syncing.EventStatusOK, message, unitContext)
}

// pushProductQuantity fetches one product's stock and pushes the absolute
// quantity for the mapping's warehouse to the mapped location
func (s *Service) pushProductQuantity(ctx context.Context, product *syncing.Product, mapping *syncing.Mapping) (syncing.UnitOutcome, string, error) {
	stock, err := s.source.GetProductStock(ctx, product.ID)
	if err != nil {
		return "", "", fmt.Errorf("fetch stock: %w", err)
	}

	quantity, found := stock.QuantityFor(mapping.WarehouseID)
	if !found {
		return syncing.UnitSkipped, "no stock entry for warehouse", nil
	}

	if product.SKU == "" {
		return syncing.UnitNotFound, "product has no sku", nil
	}

	item, err := s.sink.ResolveSKU(ctx, product.SKU)
	if err != nil {
		return "", "", fmt.Errorf("resolve sku: %w", err)
	}
	if item == nil {
		return syncing.UnitNotFound, "sku not found on storefront", nil
	}

	if err := s.sink.SetQuantity(ctx, item.InventoryItemID, mapping.LocationID, quantity.IntPart(), syncing.ReasonCorrection); err != nil {
		return "", "", fmt.Errorf("set quantity: %w", err)
	}

	return syncing.UnitUpdated, fmt.Sprintf("set quantity %s", quantity.String()), nil
}

// ---------------------------------------------------------------------------
// Status & Scheduling
// ---------------------------------------------------------------------------

// SyncStatus reports the orchestrator's current state and last run summary
type SyncStatus struct {
	State      syncing.RunState        `json:"state"`
	LastResult *syncing.FullSyncResult `json:"last_result,omitempty"`
	LastRunAt  *time.Time              `json:"last_run_at,omitempty"`
}

// Status returns the current orchestrator status
func (s *Service) Status() SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SyncStatus{
		State:      s.state,
		LastResult: s.lastResult,
		LastRunAt:  s.lastRunAt,
	}
}

// RunScheduledSync is the scheduler entry point. Outcomes are recorded on
// the audit trail; errors are not propagated because there is no caller to
// hand them to.
func (s *Service) RunScheduledSync(ctx context.Context) {
	s.events.Record(ctx, syncing.EventTypeScheduler, syncing.EventStatusOK, "scheduled sync triggered", nil)

	result, err := s.RunFullSync(ctx)
	if err != nil {
		s.logger.Error("Scheduled sync failed", zap.Error(err))
		return
	}
	if !result.Started {
		s.logger.Info("Scheduled sync skipped", zap.String("reason", result.SkipReason))
	}
}

// SyncInterval returns the effective full-sync interval, reading the
// runtime setting with the configured default as fallback
func (s *Service) SyncInterval(ctx context.Context) time.Duration {
	fallback := strconv.Itoa(s.defaultIntervalMinutes)
	value, err := s.settings.Get(ctx, syncing.SettingSyncIntervalMinutes, fallback)
	if err != nil {
		s.logger.Warn("Failed to read sync interval setting, using default", zap.Error(err))
		return time.Duration(s.defaultIntervalMinutes) * time.Minute
	}

	minutes, err := strconv.Atoi(value)
	if err != nil || minutes <= 0 {
		s.logger.Warn("Invalid sync interval setting, using default", zap.String("value", value))
		return time.Duration(s.defaultIntervalMinutes) * time.Minute
	}

	return time.Duration(minutes) * time.Minute
}

// SyncIntervalMinutes returns the effective interval in whole minutes
func (s *Service) SyncIntervalMinutes(ctx context.Context) int {
	return int(s.SyncInterval(ctx) / time.Minute)
}

// SetSyncIntervalMinutes stores a new full-sync interval. The caller is
// responsible for restarting the scheduler so the change takes effect.
func (s *Service) SetSyncIntervalMinutes(ctx context.Context, minutes int) error {
	if minutes <= 0 {
		return fmt.Errorf("syncing: interval must be positive, got %d", minutes)
	}

	if err := s.settings.Set(ctx, syncing.SettingSyncIntervalMinutes, strconv.Itoa(minutes)); err != nil {
		return fmt.Errorf("syncing: store sync interval: %w", err)
	}

	s.events.Record(ctx, syncing.EventTypeConfig, syncing.EventStatusOK,
		fmt.Sprintf("sync interval changed to %d minutes", minutes), nil)
	return nil
}
