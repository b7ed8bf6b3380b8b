package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/stocksync/backend/internal/domain/syncing"
)

// ---------------------------------------------------------------------------
// MappingModel
// ---------------------------------------------------------------------------

// MappingModel is the persistence model for the Mapping domain entity.
// The warehouse ID is the primary key, which gives the upsert its
// one-row-per-warehouse invariant for free.
type MappingModel struct {
	WarehouseID   string    `gorm:"type:varchar(64);primaryKey"`
	WarehouseName string    `gorm:"type:varchar(255)"`
	LocationID    string    `gorm:"type:varchar(128);not null"`
	LocationName  string    `gorm:"type:varchar(255)"`
	Active        bool      `gorm:"not null;index"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (MappingModel) TableName() string {
	return "warehouse_mappings"
}

// ToDomain converts the persistence model to a domain Mapping entity.
func (m *MappingModel) ToDomain() *syncing.Mapping {
	return &syncing.Mapping{
		WarehouseID:   m.WarehouseID,
		WarehouseName: m.WarehouseName,
		LocationID:    m.LocationID,
		LocationName:  m.LocationName,
		Active:        m.Active,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// MappingModelFromDomain creates a persistence model from a domain Mapping.
func MappingModelFromDomain(mapping *syncing.Mapping) *MappingModel {
	return &MappingModel{
		WarehouseID:   mapping.WarehouseID,
		WarehouseName: mapping.WarehouseName,
		LocationID:    mapping.LocationID,
		LocationName:  mapping.LocationName,
		Active:        mapping.Active,
		CreatedAt:     mapping.CreatedAt,
		UpdatedAt:     mapping.UpdatedAt,
	}
}

// ---------------------------------------------------------------------------
// SkuBindingModel
// ---------------------------------------------------------------------------

// SkuBindingModel is the persistence model for the SkuBinding cache entry.
type SkuBindingModel struct {
	SKU             string    `gorm:"type:varchar(128);primaryKey;column:sku"`
	InventoryItemID string    `gorm:"type:varchar(128);not null"`
	VariantID       string    `gorm:"type:varchar(128)"`
	Title           string    `gorm:"type:varchar(255)"`
	UpdatedAt       time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SkuBindingModel) TableName() string {
	return "sku_bindings"
}

// ToDomain converts the persistence model to a domain SkuBinding.
func (m *SkuBindingModel) ToDomain() *syncing.SkuBinding {
	return &syncing.SkuBinding{
		SKU:             m.SKU,
		InventoryItemID: m.InventoryItemID,
		VariantID:       m.VariantID,
		Title:           m.Title,
		UpdatedAt:       m.UpdatedAt,
	}
}

// SkuBindingModelFromDomain creates a persistence model from a domain SkuBinding.
func SkuBindingModelFromDomain(binding *syncing.SkuBinding) *SkuBindingModel {
	return &SkuBindingModel{
		SKU:             binding.SKU,
		InventoryItemID: binding.InventoryItemID,
		VariantID:       binding.VariantID,
		Title:           binding.Title,
		UpdatedAt:       binding.UpdatedAt,
	}
}

// ---------------------------------------------------------------------------
// SyncEventModel
// ---------------------------------------------------------------------------

// SyncEventModel is the persistence model for one audit trail entry.
type SyncEventModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Type        string    `gorm:"type:varchar(32);not null;index"`
	Status      string    `gorm:"type:varchar(16);not null"`
	Message     string    `gorm:"type:text"`
	ContextJSON string    `gorm:"type:jsonb;column:context"`
	CreatedAt   time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (SyncEventModel) TableName() string {
	return "sync_events"
}

// ToDomain converts the persistence model to a domain SyncEvent.
func (m *SyncEventModel) ToDomain() *syncing.SyncEvent {
	event := &syncing.SyncEvent{
		ID:        m.ID,
		Type:      syncing.EventType(m.Type),
		Status:    syncing.EventStatus(m.Status),
		Message:   m.Message,
		CreatedAt: m.CreatedAt,
	}
	if m.ContextJSON != "" {
		var eventContext map[string]any
		if err := json.Unmarshal([]byte(m.ContextJSON), &eventContext); err == nil {
			event.Context = eventContext
		}
	}
	return event
}

// SyncEventModelFromDomain creates a persistence model from a domain SyncEvent.
func SyncEventModelFromDomain(event *syncing.SyncEvent) *SyncEventModel {
	m := &SyncEventModel{
		ID:        event.ID,
		Type:      string(event.Type),
		Status:    string(event.Status),
		Message:   event.Message,
		CreatedAt: event.CreatedAt,
	}
	if len(event.Context) > 0 {
		if jsonBytes, err := json.Marshal(event.Context); err == nil {
			m.ContextJSON = string(jsonBytes)
		}
	} else {
		m.ContextJSON = "{}"
	}
	return m
}

// ---------------------------------------------------------------------------
// SettingModel
// ---------------------------------------------------------------------------

// SettingModel is the persistence model for one runtime setting.
type SettingModel struct {
	Key       string    `gorm:"type:varchar(64);primaryKey;column:key"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SettingModel) TableName() string {
	return "settings"
}
