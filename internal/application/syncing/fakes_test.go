package syncing

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/stocksync/backend/internal/domain/syncing"
)

// ---------------------------------------------------------------------------
// Repository fakes
// ---------------------------------------------------------------------------

type fakeMappings struct {
	mappings      []syncing.Mapping
	listActiveErr error
}

func (f *fakeMappings) Upsert(ctx context.Context, mapping *syncing.Mapping) error {
	if err := mapping.Validate(); err != nil {
		return err
	}
	for i := range f.mappings {
		if f.mappings[i].WarehouseID == mapping.WarehouseID {
			f.mappings[i] = *mapping
			return nil
		}
	}
	f.mappings = append(f.mappings, *mapping)
	return nil
}

func (f *fakeMappings) Remove(ctx context.Context, warehouseID string) error {
	for i := range f.mappings {
		if f.mappings[i].WarehouseID == warehouseID {
			f.mappings = append(f.mappings[:i], f.mappings[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeMappings) ListAll(ctx context.Context) ([]syncing.Mapping, error) {
	return f.mappings, nil
}

func (f *fakeMappings) ListActive(ctx context.Context) ([]syncing.Mapping, error) {
	if f.listActiveErr != nil {
		return nil, f.listActiveErr
	}
	active := make([]syncing.Mapping, 0, len(f.mappings))
	for _, m := range f.mappings {
		if m.Active {
			active = append(active, m)
		}
	}
	return active, nil
}

func (f *fakeMappings) GetByWarehouse(ctx context.Context, warehouseID string) (*syncing.Mapping, error) {
	for i := range f.mappings {
		if f.mappings[i].WarehouseID == warehouseID {
			m := f.mappings[i]
			return &m, nil
		}
	}
	return nil, syncing.ErrMappingNotFound
}

type fakeSettings struct {
	values map[string]string
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{values: make(map[string]string)}
}

func (f *fakeSettings) Get(ctx context.Context, key, fallback string) (string, error) {
	if value, ok := f.values[key]; ok {
		return value, nil
	}
	return fallback, nil
}

func (f *fakeSettings) Set(ctx context.Context, key, value string) error {
	f.values[key] = value
	return nil
}

// ---------------------------------------------------------------------------
// Connector fakes
// ---------------------------------------------------------------------------

type fakeSource struct {
	pages  [][]syncing.Product
	stocks map[int64]*syncing.ProductStock

	listErr   error
	stockErrs map[int64]error

	// listGate, when set, blocks ListProducts until the gate closes
	listGate chan struct{}

	listCalls  int
	stockCalls int
	findCalls  int
}

func (f *fakeSource) ListProducts(ctx context.Context, page int) (*syncing.ProductPage, error) {
	f.listCalls++
	if f.listGate != nil {
		<-f.listGate
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	result := &syncing.ProductPage{Page: page, TotalPages: len(f.pages)}
	if page >= 1 && page <= len(f.pages) {
		result.Products = f.pages[page-1]
	}
	return result, nil
}

func (f *fakeSource) GetProductStock(ctx context.Context, productID int64) (*syncing.ProductStock, error) {
	f.stockCalls++
	if err, ok := f.stockErrs[productID]; ok {
		return nil, err
	}
	if stock, ok := f.stocks[productID]; ok {
		return stock, nil
	}
	return &syncing.ProductStock{ProductID: productID}, nil
}

func (f *fakeSource) FindProductBySKU(ctx context.Context, sku string) (*syncing.Product, error) {
	f.findCalls++
	for _, page := range f.pages {
		for _, product := range page {
			if product.SKU == sku {
				found := product
				return &found, nil
			}
		}
	}
	return nil, nil
}

func (f *fakeSource) DiscoverWarehouses(ctx context.Context, sampleLimit int) ([]syncing.Warehouse, error) {
	return nil, nil
}

type setCall struct {
	inventoryItemID string
	locationID      string
	quantity        int64
	reason          syncing.SetReason
}

type fakeSink struct {
	items map[string]*syncing.RemoteItem

	resolveErr error
	setErr     error

	resolveCalls int
	setCalls     []setCall
}

func (f *fakeSink) ListLocations(ctx context.Context) ([]syncing.Location, error) {
	return nil, nil
}

func (f *fakeSink) ResolveSKU(ctx context.Context, sku string) (*syncing.RemoteItem, error) {
	f.resolveCalls++
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	return f.items[sku], nil
}

func (f *fakeSink) SetQuantity(ctx context.Context, inventoryItemID, locationID string, quantity int64, reason syncing.SetReason) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.setCalls = append(f.setCalls, setCall{
		inventoryItemID: inventoryItemID,
		locationID:      locationID,
		quantity:        quantity,
		reason:          reason,
	})
	return nil
}

// ---------------------------------------------------------------------------
// Audit fakes
// ---------------------------------------------------------------------------

type recordedEvent struct {
	eventType syncing.EventType
	status    syncing.EventStatus
	message   string
	context   map[string]any
}

type recorderSpy struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *recorderSpy) Record(ctx context.Context, eventType syncing.EventType, status syncing.EventStatus, message string, eventContext map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{
		eventType: eventType,
		status:    status,
		message:   message,
		context:   eventContext,
	})
}

func (r *recorderSpy) byType(eventType syncing.EventType) []recordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []recordedEvent
	for _, e := range r.events {
		if e.eventType == eventType {
			matched = append(matched, e)
		}
	}
	return matched
}

type fakeEventLog struct {
	entries []syncing.SyncEvent
}

func (f *fakeEventLog) Append(ctx context.Context, event *syncing.SyncEvent) error {
	f.entries = append(f.entries, *event)
	return nil
}

func (f *fakeEventLog) ListRecent(ctx context.Context, filter syncing.SyncEventFilter) ([]syncing.SyncEvent, error) {
	return f.entries, nil
}

// ---------------------------------------------------------------------------
// Harness
// ---------------------------------------------------------------------------

type harness struct {
	service  *Service
	mappings *fakeMappings
	settings *fakeSettings
	source   *fakeSource
	sink     *fakeSink
	recorder *recorderSpy
	eventLog *fakeEventLog
}

func newHarness() *harness {
	h := &harness{
		mappings: &fakeMappings{},
		settings: newFakeSettings(),
		source:   &fakeSource{stocks: make(map[int64]*syncing.ProductStock)},
		sink:     &fakeSink{items: make(map[string]*syncing.RemoteItem)},
		recorder: &recorderSpy{},
		eventLog: &fakeEventLog{},
	}
	h.service = NewService(h.mappings, h.settings, h.source, h.sink, h.recorder, h.eventLog, 0, zap.NewNop())
	return h
}
