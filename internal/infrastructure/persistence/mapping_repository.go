package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stocksync/backend/internal/domain/syncing"
	"github.com/stocksync/backend/internal/infrastructure/persistence/models"
)

// GormMappingRepository implements MappingRepository using GORM
type GormMappingRepository struct {
	db *gorm.DB
}

// NewGormMappingRepository creates a new GormMappingRepository
func NewGormMappingRepository(db *gorm.DB) *GormMappingRepository {
	return &GormMappingRepository{db: db}
}

// Upsert inserts or replaces the mapping row keyed by warehouse ID
func (r *GormMappingRepository) Upsert(ctx context.Context, mapping *syncing.Mapping) error {
	if err := mapping.Validate(); err != nil {
		return err
	}

	model := models.MappingModelFromDomain(mapping)
	if model.CreatedAt.IsZero() {
		model.CreatedAt = time.Now()
	}
	model.UpdatedAt = time.Now()

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "warehouse_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"warehouse_name", "location_id", "location_name", "active", "updated_at",
			}),
		}).
		Create(model).Error
}

// Remove deletes the mapping for a warehouse; removing an absent row is a no-op
func (r *GormMappingRepository) Remove(ctx context.Context, warehouseID string) error {
	return r.db.WithContext(ctx).
		Delete(&models.MappingModel{}, "warehouse_id = ?", warehouseID).Error
}

// ListAll returns every mapping ordered by display name then warehouse ID
func (r *GormMappingRepository) ListAll(ctx context.Context) ([]syncing.Mapping, error) {
	var mappingModels []models.MappingModel
	if err := r.db.WithContext(ctx).
		Order("warehouse_name ASC, warehouse_id ASC").
		Find(&mappingModels).Error; err != nil {
		return nil, err
	}
	return toDomainMappings(mappingModels), nil
}

// ListActive returns only active mappings
func (r *GormMappingRepository) ListActive(ctx context.Context) ([]syncing.Mapping, error) {
	var mappingModels []models.MappingModel
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("warehouse_name ASC, warehouse_id ASC").
		Find(&mappingModels).Error; err != nil {
		return nil, err
	}
	return toDomainMappings(mappingModels), nil
}

// GetByWarehouse returns the mapping for a warehouse or ErrMappingNotFound
func (r *GormMappingRepository) GetByWarehouse(ctx context.Context, warehouseID string) (*syncing.Mapping, error) {
	var model models.MappingModel
	if err := r.db.WithContext(ctx).
		First(&model, "warehouse_id = ?", warehouseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, syncing.ErrMappingNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func toDomainMappings(mappingModels []models.MappingModel) []syncing.Mapping {
	mappings := make([]syncing.Mapping, len(mappingModels))
	for i, model := range mappingModels {
		mappings[i] = *model.ToDomain()
	}
	return mappings
}

// Ensure GormMappingRepository implements MappingRepository
var _ syncing.MappingRepository = (*GormMappingRepository)(nil)
