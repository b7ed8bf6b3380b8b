package handler

import (
	"context"
	"sort"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appsyncing "github.com/stocksync/backend/internal/application/syncing"
	"github.com/stocksync/backend/internal/domain/syncing"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ---------------------------------------------------------------------------
// In-memory test doubles for the domain ports
// ---------------------------------------------------------------------------

type stubMappings struct {
	mu       sync.Mutex
	mappings map[string]syncing.Mapping
}

func newStubMappings(mappings ...syncing.Mapping) *stubMappings {
	s := &stubMappings{mappings: make(map[string]syncing.Mapping)}
	for _, m := range mappings {
		s.mappings[m.WarehouseID] = m
	}
	return s
}

func (s *stubMappings) Upsert(_ context.Context, mapping *syncing.Mapping) error {
	if err := mapping.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mappings[mapping.WarehouseID] = *mapping
	return nil
}

func (s *stubMappings) Remove(_ context.Context, warehouseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.mappings, warehouseID)
	return nil
}

func (s *stubMappings) ListAll(_ context.Context) ([]syncing.Mapping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]syncing.Mapping, 0, len(s.mappings))
	for _, m := range s.mappings {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WarehouseID < out[j].WarehouseID })
	return out, nil
}

func (s *stubMappings) ListActive(ctx context.Context) ([]syncing.Mapping, error) {
	all, _ := s.ListAll(ctx)
	out := make([]syncing.Mapping, 0, len(all))
	for _, m := range all {
		if m.Active {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *stubMappings) GetByWarehouse(_ context.Context, warehouseID string) (*syncing.Mapping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.mappings[warehouseID]; ok {
		return &m, nil
	}
	return nil, syncing.ErrMappingNotFound
}

type stubSettings struct {
	mu     sync.Mutex
	values map[string]string
}

func newStubSettings() *stubSettings {
	return &stubSettings{values: make(map[string]string)}
}

func (s *stubSettings) Get(_ context.Context, key, fallback string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.values[key]; ok {
		return v, nil
	}
	return fallback, nil
}

func (s *stubSettings) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

type stubSource struct {
	products   []syncing.Product
	stocks     map[int64]*syncing.ProductStock
	warehouses []syncing.Warehouse

	// listCtxErr records the context state seen by the last ListProducts call
	listCtxErr error
}

func (s *stubSource) ListProducts(ctx context.Context, page int) (*syncing.ProductPage, error) {
	s.listCtxErr = ctx.Err()
	if page > 1 {
		return &syncing.ProductPage{Page: page, TotalPages: 1}, nil
	}
	return &syncing.ProductPage{Products: s.products, Page: 1, TotalPages: 1}, nil
}

func (s *stubSource) GetProductStock(_ context.Context, productID int64) (*syncing.ProductStock, error) {
	if stock, ok := s.stocks[productID]; ok {
		return stock, nil
	}
	return &syncing.ProductStock{ProductID: productID}, nil
}

func (s *stubSource) FindProductBySKU(_ context.Context, sku string) (*syncing.Product, error) {
	for i := range s.products {
		if s.products[i].SKU == sku {
			return &s.products[i], nil
		}
	}
	return nil, nil
}

func (s *stubSource) DiscoverWarehouses(_ context.Context, _ int) ([]syncing.Warehouse, error) {
	return s.warehouses, nil
}

type stubSink struct {
	mu        sync.Mutex
	items     map[string]*syncing.RemoteItem
	locations []syncing.Location
	setErr    error
	setCalls  int
}

func (s *stubSink) ListLocations(_ context.Context) ([]syncing.Location, error) {
	return s.locations, nil
}

func (s *stubSink) ResolveSKU(_ context.Context, sku string) (*syncing.RemoteItem, error) {
	if item, ok := s.items[sku]; ok {
		return item, nil
	}
	return nil, nil
}

func (s *stubSink) SetQuantity(_ context.Context, _, _ string, _ int64, _ syncing.SetReason) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.setCalls++
	return nil
}

type memEventLog struct {
	mu     sync.Mutex
	events []syncing.SyncEvent
}

func (l *memEventLog) Append(_ context.Context, event *syncing.SyncEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, *event)
	return nil
}

func (l *memEventLog) ListRecent(_ context.Context, filter syncing.SyncEventFilter) ([]syncing.SyncEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]syncing.SyncEvent, 0, len(l.events))
	for i := len(l.events) - 1; i >= 0; i-- {
		if filter.Type != "" && l.events[i].Type != filter.Type {
			continue
		}
		out = append(out, l.events[i])
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (l *memEventLog) Record(ctx context.Context, eventType syncing.EventType, status syncing.EventStatus, message string, eventContext map[string]any) {
	_ = l.Append(ctx, syncing.NewSyncEvent(eventType, status, message, eventContext))
}

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

type fixture struct {
	service  *appsyncing.Service
	mappings *stubMappings
	settings *stubSettings
	source   *stubSource
	sink     *stubSink
	eventLog *memEventLog
}

func newFixture(mappings ...syncing.Mapping) *fixture {
	f := &fixture{
		mappings: newStubMappings(mappings...),
		settings: newStubSettings(),
		source: &stubSource{
			stocks: make(map[int64]*syncing.ProductStock),
		},
		sink: &stubSink{
			items: make(map[string]*syncing.RemoteItem),
		},
		eventLog: &memEventLog{},
	}
	f.service = appsyncing.NewService(
		f.mappings, f.settings, f.source, f.sink,
		f.eventLog, f.eventLog, 0, zap.NewNop(),
	)
	return f
}

func activeTestMapping(warehouseID, locationID string) syncing.Mapping {
	m, _ := syncing.NewMapping(warehouseID, "Warehouse "+warehouseID, locationID, "Location "+locationID, true)
	return *m
}

func qty(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}
