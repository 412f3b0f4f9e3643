package storage

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Snapshot is the database row backing one namespace.
type Snapshot struct {
	Namespace string         `gorm:"primaryKey;type:varchar(100)"`
	Version   int            `gorm:"not null"`
	Data      []byte         `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time
}

// GormAdapter persists snapshots in a single table via GORM.
type GormAdapter struct {
	db *gorm.DB
}

// NewGormAdapter returns an adapter backed by db. The snapshots table is
// migrated by pkg/database at startup.
func NewGormAdapter(db *gorm.DB) *GormAdapter {
	return &GormAdapter{db: db}
}

// Load implements Adapter. A missing row or a version mismatch reads as
// absent so schema bumps start from seed state instead of crashing.
func (g *GormAdapter) Load(namespace string, version int, out any) (bool, error) {
	var snap Snapshot
	result := g.db.First(&snap, "namespace = ?", namespace)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, result.Error
	}
	if snap.Version != version {
		return false, nil
	}
	if err := json.Unmarshal(snap.Data, out); err != nil {
		return false, err
	}
	return true, nil
}

// Save implements Adapter.
func (g *GormAdapter) Save(namespace string, version int, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	snap := Snapshot{Namespace: namespace, Version: version, Data: data, UpdatedAt: time.Now()}
	return g.db.Save(&snap).Error
}
