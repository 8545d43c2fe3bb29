package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"cartwidget/internal/domain/model"
	repo "cartwidget/internal/repository"
)

// カートを保存するkey（固定）
const CartStorageKey = "cart"

// CartPersistence はセッションのストアにカートを読み書きする。
type CartPersistence struct {
	storage   repo.StorageRepository
	sessionID string
	logger    *slog.Logger
}

// DI
func NewCartPersistence(storage repo.StorageRepository, sessionID string, logger *slog.Logger) *CartPersistence {
	if logger == nil {
		logger = slog.Default()
	}
	return &CartPersistence{
		storage:   storage,
		sessionID: sessionID,
		logger:    logger.With("session_id", sessionID),
	}
}

// JSON配列にしてkeyへ保存
func (p *CartPersistence) Save(ctx context.Context, lines []model.CartLine) error {
	if lines == nil {
		lines = []model.CartLine{}
	}

	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}

	if err := p.storage.Set(ctx, p.sessionID, CartStorageKey, string(data)); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// 保存済みカートを読む。無い・壊れている場合は空カート。
func (p *CartPersistence) Load(ctx context.Context) []model.CartLine {
	raw, err := p.storage.Get(ctx, p.sessionID, CartStorageKey)
	if errors.Is(err, repo.ErrNotFound) {
		p.logger.Debug("no persisted cart")
		return []model.CartLine{}
	}
	if err != nil {
		p.logger.Warn("read persisted cart failed", "error", err)
		return []model.CartLine{}
	}

	lines, err := decodeCart(raw)
	if err != nil {
		p.logger.Warn("persisted cart is malformed, starting empty", "error", err)
		return []model.CartLine{}
	}
	return lines
}

// keyごと削除（空配列は保存しない）
func (p *CartPersistence) Clear(ctx context.Context) error {
	if err := p.storage.Remove(ctx, p.sessionID, CartStorageKey); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// 保存形式の1行。キーが欠けていたら nil になる
type storedLine struct {
	ID       *string `json:"id"`
	Name     *string `json:"name"`
	Price    *string `json:"price"`
	Image    *string `json:"image"`
	Quantity *int    `json:"quantity"`
}

func (s storedLine) toLine() (model.CartLine, error) {
	switch {
	case s.ID == nil:
		return model.CartLine{}, errors.New("missing key: id")
	case s.Name == nil:
		return model.CartLine{}, errors.New("missing key: name")
	case s.Price == nil:
		return model.CartLine{}, errors.New("missing key: price")
	case s.Image == nil:
		return model.CartLine{}, errors.New("missing key: image")
	case s.Quantity == nil:
		return model.CartLine{}, errors.New("missing key: quantity")
	}

	l := model.CartLine{
		ID:       *s.ID,
		Name:     *s.Name,
		Price:    *s.Price,
		Image:    *s.Image,
		Quantity: *s.Quantity,
	}
	if err := l.Validate(); err != nil {
		return model.CartLine{}, err
	}
	return l, nil
}

// 形が合わないものはすべてエラーにする
func decodeCart(raw string) ([]model.CartLine, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.DisallowUnknownFields()

	var stored []storedLine
	if err := dec.Decode(&stored); err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, errors.New("cart is not an array")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after cart")
	}

	lines := make([]model.CartLine, 0, len(stored))
	seen := make(map[string]struct{}, len(stored))
	for i, s := range stored {
		l, err := s.toLine()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
		if _, dup := seen[l.ID]; dup {
			return nil, fmt.Errorf("line %d: duplicate id %q", i, l.ID)
		}
		seen[l.ID] = struct{}{}
		lines = append(lines, l)
	}
	return lines, nil
}
