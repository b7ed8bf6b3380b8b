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

// GormSkuBindingRepository implements SkuBindingRepository using GORM
type GormSkuBindingRepository struct {
	db *gorm.DB
}

// NewGormSkuBindingRepository creates a new GormSkuBindingRepository
func NewGormSkuBindingRepository(db *gorm.DB) *GormSkuBindingRepository {
	return &GormSkuBindingRepository{db: db}
}

// Get returns the binding for a SKU or ErrBindingNotFound
func (r *GormSkuBindingRepository) Get(ctx context.Context, sku string) (*syncing.SkuBinding, error) {
	var model models.SkuBindingModel
	if err := r.db.WithContext(ctx).First(&model, "sku = ?", sku).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, syncing.ErrBindingNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Put inserts or replaces the binding keyed by SKU
func (r *GormSkuBindingRepository) Put(ctx context.Context, binding *syncing.SkuBinding) error {
	model := models.SkuBindingModelFromDomain(binding)
	model.UpdatedAt = time.Now()

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "sku"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"inventory_item_id", "variant_id", "title", "updated_at",
			}),
		}).
		Create(model).Error
}

// Ensure GormSkuBindingRepository implements SkuBindingRepository
var _ syncing.SkuBindingRepository = (*GormSkuBindingRepository)(nil)
