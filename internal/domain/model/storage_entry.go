package model

import "time"

// セッション単位のkey-value（ブラウザのlocalStorage相当）
type StorageEntry struct {
	SessionID string    `gorm:"primaryKey;type:varchar(64)" json:"session_id"`
	Key       string    `gorm:"primaryKey;type:varchar(128)" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (StorageEntry) TableName() string {
	return "storage_entries"
}
