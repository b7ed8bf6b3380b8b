package persistence

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/stocksync/backend/internal/domain/syncing"
	"github.com/stocksync/backend/internal/infrastructure/persistence/models"
)

// defaultEventListLimit caps audit trail reads when no limit is supplied
const defaultEventListLimit = 100

// GormSyncEventRepository implements SyncEventRepository using GORM
type GormSyncEventRepository struct {
	db *gorm.DB
}

// NewGormSyncEventRepository creates a new GormSyncEventRepository
func NewGormSyncEventRepository(db *gorm.DB) *GormSyncEventRepository {
	return &GormSyncEventRepository{db: db}
}

// Append stores one audit trail entry
func (r *GormSyncEventRepository) Append(ctx context.Context, event *syncing.SyncEvent) error {
	return r.db.WithContext(ctx).Create(models.SyncEventModelFromDomain(event)).Error
}

// ListRecent returns the newest events first, honoring the filter
func (r *GormSyncEventRepository) ListRecent(ctx context.Context, filter syncing.SyncEventFilter) ([]syncing.SyncEvent, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultEventListLimit
	}

	query := r.db.WithContext(ctx).Model(&models.SyncEventModel{})
	if filter.Type != "" {
		query = query.Where("type = ?", string(filter.Type))
	}

	var eventModels []models.SyncEventModel
	if err := query.Order("created_at DESC").Limit(limit).Find(&eventModels).Error; err != nil {
		return nil, err
	}

	events := make([]syncing.SyncEvent, len(eventModels))
	for i, model := range eventModels {
		events[i] = *model.ToDomain()
	}
	return events, nil
}

// Ensure GormSyncEventRepository implements SyncEventRepository
var _ syncing.SyncEventRepository = (*GormSyncEventRepository)(nil)

// ---------------------------------------------------------------------------
// EventRecorder
// ---------------------------------------------------------------------------

// SyncEventRecorder is the fire-and-forget audit sink backed by the event
// repository. Recording failures are logged and never propagated, so a broken
// audit trail cannot abort sync work.
type SyncEventRecorder struct {
	repo   syncing.SyncEventRepository
	logger *zap.Logger
}

// NewSyncEventRecorder creates a new SyncEventRecorder
func NewSyncEventRecorder(repo syncing.SyncEventRepository, logger *zap.Logger) *SyncEventRecorder {
	return &SyncEventRecorder{repo: repo, logger: logger}
}

// Record appends one audit trail entry, swallowing persistence failures
func (r *SyncEventRecorder) Record(ctx context.Context, eventType syncing.EventType, status syncing.EventStatus, message string, eventContext map[string]any) {
	event := syncing.NewSyncEvent(eventType, status, message, eventContext)
	if err := r.repo.Append(ctx, event); err != nil {
		r.logger.Warn("Failed to record sync event",
			zap.String("type", string(eventType)),
			zap.String("status", string(status)),
			zap.Error(err),
		)
	}
}

// Ensure SyncEventRecorder implements EventRecorder
var _ syncing.EventRecorder = (*SyncEventRecorder)(nil)
