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

// GormSettingRepository implements SettingRepository using GORM
type GormSettingRepository struct {
	db *gorm.DB
}

// NewGormSettingRepository creates a new GormSettingRepository
func NewGormSettingRepository(db *gorm.DB) *GormSettingRepository {
	return &GormSettingRepository{db: db}
}

// Get returns the stored value for key, or fallback when absent
func (r *GormSettingRepository) Get(ctx context.Context, key, fallback string) (string, error) {
	var model models.SettingModel
	if err := r.db.WithContext(ctx).First(&model, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fallback, nil
		}
		return "", err
	}
	return model.Value, nil
}

// Set inserts or replaces the value for key
func (r *GormSettingRepository) Set(ctx context.Context, key, value string) error {
	model := &models.SettingModel{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(model).Error
}

// Ensure GormSettingRepository implements SettingRepository
var _ syncing.SettingRepository = (*GormSettingRepository)(nil)
