package usecase_test

import (
	"context"
	"errors"
	"testing"

	"cartwidget/internal/domain/model"
	infraRepo "cartwidget/internal/infra/repository"
	repo "cartwidget/internal/repository"
	"cartwidget/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleLines() []model.CartLine {
	return []model.CartLine{
		{ID: "a1", Name: "Course A", Price: "$10", Image: "img/a.jpg", Quantity: 2},
		{ID: "b1", Name: "Course B", Price: "$15", Image: "img/b.jpg", Quantity: 1},
	}
}

func TestCartPersistence_SaveLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	p := usecase.NewCartPersistence(infraRepo.NewStorageMemoryRepository(), "s1", nil)

	require.NoError(t, p.Save(ctx, sampleLines()))

	assert.Equal(t, sampleLines(), p.Load(ctx))
}

func TestCartPersistence_Save_WritesJSONUnderFixedKey(t *testing.T) {
	ctx := context.Background()
	storage := infraRepo.NewStorageMemoryRepository()
	p := usecase.NewCartPersistence(storage, "s1", nil)

	require.NoError(t, p.Save(ctx, sampleLines()[1:]))

	raw, err := storage.Get(ctx, "s1", usecase.CartStorageKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"b1","name":"Course B","price":"$15","image":"img/b.jpg","quantity":1}]`, raw)
}

func TestCartPersistence_Load_Missing_ReturnsEmpty(t *testing.T) {
	p := usecase.NewCartPersistence(infraRepo.NewStorageMemoryRepository(), "s1", nil)

	lines := p.Load(context.Background())
	assert.NotNil(t, lines)
	assert.Empty(t, lines)
}

func TestCartPersistence_Load_Malformed_ReturnsEmpty(t *testing.T) {
	cases := map[string]string{
		"not json":        `{{{`,
		"null":            `null`,
		"object":          `{"id":"a1"}`,
		"unknown field":   `[{"id":"a1","name":"A","price":"1","image":"x","quantity":1,"extra":true}]`,
		"zero quantity":   `[{"id":"a1","name":"A","price":"1","image":"x","quantity":0}]`,
		"empty id":        `[{"id":"","name":"A","price":"1","image":"x","quantity":1}]`,
		"duplicate id":    `[{"id":"a1","quantity":1},{"id":"a1","quantity":2}]`,
		"string quantity": `[{"id":"a1","quantity":"1"}]`,
		"trailing data":   `[] []`,
		"missing name":    `[{"id":"a1","price":"1","image":"x","quantity":1}]`,
		"missing price":   `[{"id":"a1","name":"A","image":"x","quantity":1}]`,
		"missing image":   `[{"id":"a1","name":"A","price":"1","quantity":1}]`,
		"only id and qty": `[{"id":"a1","quantity":1}]`,
		"null name":       `[{"id":"a1","name":null,"price":"1","image":"x","quantity":1}]`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			storage := infraRepo.NewStorageMemoryRepository()
			require.NoError(t, storage.Set(ctx, "s1", usecase.CartStorageKey, raw))

			lines := usecase.NewCartPersistence(storage, "s1", nil).Load(ctx)
			assert.Empty(t, lines)
		})
	}
}

func TestCartPersistence_Load_ReadError_ReturnsEmpty(t *testing.T) {
	storage := new(StorageRepoMock)
	storage.On("Get", mock.Anything, "s1", usecase.CartStorageKey).Return("", errors.New("db down"))

	lines := usecase.NewCartPersistence(storage, "s1", nil).Load(context.Background())
	assert.Empty(t, lines)
	storage.AssertExpectations(t)
}

func TestCartPersistence_Clear_RemovesKey(t *testing.T) {
	ctx := context.Background()
	storage := infraRepo.NewStorageMemoryRepository()
	p := usecase.NewCartPersistence(storage, "s1", nil)

	require.NoError(t, p.Save(ctx, sampleLines()))
	require.NoError(t, p.Clear(ctx))

	_, err := storage.Get(ctx, "s1", usecase.CartStorageKey)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestCartPersistence_Save_WriteError_IsReturned(t *testing.T) {
	storage := new(StorageRepoMock)
	storage.On("Set", mock.Anything, "s1", usecase.CartStorageKey, mock.Anything).Return(errors.New("disk full"))

	err := usecase.NewCartPersistence(storage, "s1", nil).Save(context.Background(), sampleLines())
	assert.ErrorContains(t, err, "disk full")
}
