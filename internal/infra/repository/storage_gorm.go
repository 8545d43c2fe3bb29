package repository

import (
	"context"
	"errors"
	"time"

	"cartwidget/internal/domain/model"
	repo "cartwidget/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StorageGormRepository struct {
	db *gorm.DB
}

// DI
func NewStorageGormRepository(db *gorm.DB) *StorageGormRepository {
	return &StorageGormRepository{db: db}
}

// 1件取得
func (r *StorageGormRepository) Get(ctx context.Context, sessionID string, key string) (string, error) {
	var entry model.StorageEntry

	err := r.db.WithContext(ctx).
		Where("session_id = ? AND key = ?", sessionID, key).
		First(&entry).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", repo.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return entry.Value, nil
}

// 同じ(session_id, key)があれば上書き
func (r *StorageGormRepository) Set(ctx context.Context, sessionID string, key string, value string) error {
	now := time.Now()
	entry := model.StorageEntry{
		SessionID: sessionID,
		Key:       key,
		Value:     value,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
}

// 削除。0件でもエラーにしない
func (r *StorageGormRepository) Remove(ctx context.Context, sessionID string, key string) error {
	return r.db.WithContext(ctx).
		Where("session_id = ? AND key = ?", sessionID, key).
		Delete(&model.StorageEntry{}).Error
}

func (r *StorageGormRepository) ListSessions(ctx context.Context, key string) ([]string, error) {
	var ids []string

	if err := r.db.WithContext(ctx).
		Model(&model.StorageEntry{}).
		Where("key = ?", key).
		Order("updated_at desc").
		Pluck("session_id", &ids).Error; err != nil {
		return []string{}, err
	}

	return ids, nil
}
