package repository

import (
	"fmt"

	"cartwidget/internal/config"
	"cartwidget/internal/infra/db"
	repo "cartwidget/internal/repository"
)

// 設定に応じてストアを開く。closeは終了時に呼ぶ
func OpenStorage(cfg config.Config) (repo.StorageRepository, func() error, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		return NewStorageMemoryRepository(), func() error { return nil }, nil

	case config.StorageDriverPostgres:
		gormDB, err := db.Connect(cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(gormDB); err != nil {
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		sqlDB, err := gormDB.DB()
		if err != nil {
			return nil, nil, err
		}
		return NewStorageGormRepository(gormDB), sqlDB.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
