package store

import (
	"encoding/json"
	"fmt"

	"github.com/zulandar/pitwall/internal/keys"
	"github.com/zulandar/pitwall/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore persists entries through GORM (sqlite or mysql).
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps a migrated database.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Get returns the raw JSON stored under key.
func (s *GormStore) Get(key string) (json.RawMessage, bool, error) {
	var entries []models.Entry
	if err := s.db.Where("entry_key = ?", key).Limit(1).Find(&entries).Error; err != nil {
		return nil, false, fmt.Errorf("store: get %s: %w", key, err)
	}
	if len(entries) == 0 {
		return nil, false, nil
	}
	return json.RawMessage(entries[0].Value), true, nil
}

// Set upserts the value and, for categorized keys, its index row in one
// transaction.
func (s *GormStore) Set(key string, value any) error {
	data, err := encode(key, value)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		entry := models.Entry{Key: key, Value: data}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "entry_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&entry).Error; err != nil {
			return fmt.Errorf("store: set %s: %w", key, err)
		}

		k, err := keys.Parse(key)
		if err != nil {
			return nil
		}
		idx := models.KeyIndex{Category: k.Category, RecordID: k.ID, Key: key}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&idx).Error; err != nil {
			return fmt.Errorf("store: index %s: %w", key, err)
		}
		return nil
	})
}

// Delete removes a key and its index row. Deleting a missing key is a no-op.
func (s *GormStore) Delete(key string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("entry_key = ?", key).Delete(&models.Entry{}).Error; err != nil {
			return fmt.Errorf("store: delete %s: %w", key, err)
		}
		if err := tx.Where("entry_key = ?", key).Delete(&models.KeyIndex{}).Error; err != nil {
			return fmt.Errorf("store: unindex %s: %w", key, err)
		}
		return nil
	})
}

// Keys returns every stored key, sorted.
func (s *GormStore) Keys() ([]string, error) {
	var out []string
	if err := s.db.Model(&models.Entry{}).Order("entry_key ASC").Pluck("entry_key", &out).Error; err != nil {
		return nil, fmt.Errorf("store: keys: %w", err)
	}
	return out, nil
}

// KeysIn returns the keys of one category in first-write order.
func (s *GormStore) KeysIn(category string) ([]string, error) {
	var out []string
	if err := s.db.Model(&models.KeyIndex{}).
		Where("category = ?", category).
		Order("id ASC").
		Pluck("entry_key", &out).Error; err != nil {
		return nil, fmt.Errorf("store: keys in %s: %w", category, err)
	}
	return out, nil
}

// Categories returns every indexed category, sorted.
func (s *GormStore) Categories() ([]string, error) {
	var out []string
	if err := s.db.Model(&models.KeyIndex{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &out).Error; err != nil {
		return nil, fmt.Errorf("store: categories: %w", err)
	}
	return out, nil
}
