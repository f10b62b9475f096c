package models

import "time"

// Entry is one persisted value in the key-value store. Value holds the raw
// JSON text exactly as it was written.
type Entry struct {
	Key       string `gorm:"column:entry_key;primaryKey;size:191"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// KeyIndex maps a report category to the record ids stored under it. Rows are
// created on first write and never reordered, so ID gives a stable
// enumeration order per category.
type KeyIndex struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"`
	Category string `gorm:"size:64;not null;uniqueIndex:idx_category_record"`
	RecordID string `gorm:"size:191;not null;uniqueIndex:idx_category_record"`
	Key      string `gorm:"column:entry_key;size:191;not null;uniqueIndex"`
}
