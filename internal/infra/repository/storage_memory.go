package repository

import (
	"context"
	"sort"
	"sync"

	repo "cartwidget/internal/repository"
)

// DBなしで動かすとき（開発・テスト）のストア
type StorageMemoryRepository struct {
	mu      sync.RWMutex
	entries map[string]map[string]string // sessionID -> key -> value
}

func NewStorageMemoryRepository() *StorageMemoryRepository {
	return &StorageMemoryRepository{
		entries: make(map[string]map[string]string),
	}
}

func (r *StorageMemoryRepository) Get(ctx context.Context, sessionID string, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.entries[sessionID][key]
	if !ok {
		return "", repo.ErrNotFound
	}
	return v, nil
}

func (r *StorageMemoryRepository) Set(ctx context.Context, sessionID string, key string, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kv, ok := r.entries[sessionID]
	if !ok {
		kv = make(map[string]string)
		r.entries[sessionID] = kv
	}
	kv[key] = value
	return nil
}

func (r *StorageMemoryRepository) Remove(ctx context.Context, sessionID string, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kv, ok := r.entries[sessionID]
	if !ok {
		return nil
	}
	delete(kv, key)
	if len(kv) == 0 {
		delete(r.entries, sessionID)
	}
	return nil
}

func (r *StorageMemoryRepository) ListSessions(ctx context.Context, key string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.entries))
	for id, kv := range r.entries {
		if _, ok := kv[key]; ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}
