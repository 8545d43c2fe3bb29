package usecase_test

import (
	"context"

	"cartwidget/internal/domain/model"

	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks
// =====================

type StorageRepoMock struct{ mock.Mock }

func (m *StorageRepoMock) Get(ctx context.Context, sessionID string, key string) (string, error) {
	args := m.Called(ctx, sessionID, key)
	return args.String(0), args.Error(1)
}

func (m *StorageRepoMock) Set(ctx context.Context, sessionID string, key string, value string) error {
	args := m.Called(ctx, sessionID, key, value)
	return args.Error(0)
}

func (m *StorageRepoMock) Remove(ctx context.Context, sessionID string, key string) error {
	args := m.Called(ctx, sessionID, key)
	return args.Error(0)
}

func (m *StorageRepoMock) ListSessions(ctx context.Context, key string) ([]string, error) {
	panic("not used in usecase tests")
}

type RendererMock struct{ mock.Mock }

func (m *RendererMock) Render(lines []model.CartLine) error {
	args := m.Called(lines)
	return args.Error(0)
}

// 最後に描画された行を覚えるだけのrenderer
type recordingRenderer struct {
	calls int
	last  []model.CartLine
}

func (r *recordingRenderer) Render(lines []model.CartLine) error {
	r.calls++
	r.last = lines
	return nil
}
