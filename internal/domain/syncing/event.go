package syncing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// SyncEvent
// ---------------------------------------------------------------------------

// EventType categorizes audit trail entries.
type EventType string

const (
	EventTypeFullSync     EventType = "full_sync"
	EventTypeFullSyncItem EventType = "full_sync_item"
	EventTypeWebhookStock EventType = "webhook_stock"
	EventTypeWebhookSales EventType = "webhook_sales"
	EventTypeWebhookSale  EventType = "webhook_sales_item"
	EventTypeScheduler    EventType = "scheduler"
	EventTypeConfig       EventType = "config"
)

// EventStatus is the outcome tier of an audit trail entry.
type EventStatus string

const (
	EventStatusOK           EventStatus = "ok"
	EventStatusSkipped      EventStatus = "skipped"
	EventStatusError        EventStatus = "error"
	EventStatusUnauthorized EventStatus = "unauthorized"
)

// SyncEvent is one append-only audit trail entry: one per attempted unit of
// work and one per orchestration run. Events are never mutated or deleted by
// the engine and are used for observability, not recovery.
type SyncEvent struct {
	ID        uuid.UUID
	Type      EventType
	Status    EventStatus
	Message   string
	Context   map[string]any
	CreatedAt time.Time
}

// NewSyncEvent creates an audit trail entry with a fresh identity.
func NewSyncEvent(eventType EventType, status EventStatus, message string, eventContext map[string]any) *SyncEvent {
	return &SyncEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Status:    status,
		Message:   message,
		Context:   eventContext,
		CreatedAt: time.Now(),
	}
}

// ---------------------------------------------------------------------------
// EventRecorder / SyncEventRepository Interfaces
// ---------------------------------------------------------------------------

// EventRecorder is the fire-and-forget audit sink consumed by the
// orchestrator. Implementations must never propagate recording failures into
// sync control flow.
type EventRecorder interface {
	Record(ctx context.Context, eventType EventType, status EventStatus, message string, eventContext map[string]any)
}

// SyncEventFilter narrows audit trail reads.
type SyncEventFilter struct {
	// Type filters by event type when non-empty
	Type EventType
	// Limit caps the number of returned events (repository default applies at 0)
	Limit int
}

// SyncEventRepository persists the append-only audit trail.
type SyncEventRepository interface {
	// Append stores one event. The trail is ordered by creation time.
	Append(ctx context.Context, event *SyncEvent) error

	// ListRecent returns the newest events first, honoring the filter.
	ListRecent(ctx context.Context, filter SyncEventFilter) ([]SyncEvent, error)
}
