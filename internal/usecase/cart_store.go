package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cartwidget/internal/domain/model"
)

var ErrInvalidLine = errors.New("invalid cart line")

// カートの保存先
type CartPersistencePort interface {
	Save(ctx context.Context, lines []model.CartLine) error
	Load(ctx context.Context) []model.CartLine
	Clear(ctx context.Context) error
}

// カートの表示先
type CartRenderer interface {
	Render(lines []model.CartLine) error
}

// CartStore はカートの行を持ち、変更のたびに保存と再描画を行う。
// 変更はこのstore経由だけ。
type CartStore struct {
	lines    []model.CartLine
	persist  CartPersistencePort
	renderer CartRenderer
	logger   *slog.Logger
}

// DI
func NewCartStore(persist CartPersistencePort, renderer CartRenderer, logger *slog.Logger) *CartStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &CartStore{
		lines:    []model.CartLine{},
		persist:  persist,
		renderer: renderer,
		logger:   logger,
	}
}

// 保存済みのカートを読み込んで表示（無ければ空）
func (s *CartStore) Initialize(ctx context.Context) error {
	s.lines = s.persist.Load(ctx)
	s.logger.Debug("cart initialized", "lines", len(s.lines))
	return s.render()
}

// 同じIDなら数量+1、無ければ末尾に追加
func (s *CartStore) Add(ctx context.Context, line model.CartLine) error {
	if line.Quantity != 1 {
		return fmt.Errorf("%w: quantity must be 1, got %d", ErrInvalidLine, line.Quantity)
	}
	if err := line.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLine, err)
	}

	next := s.snapshot()
	if i := indexOf(next, line.ID); i != -1 {
		next[i].Quantity++
	} else {
		next = append(next, line)
	}

	return s.commit(ctx, next)
}

// 数量1なら行ごと削除、2以上なら-1。無いIDは何もしない。
func (s *CartStore) RemoveOne(ctx context.Context, id string) error {
	next := s.snapshot()
	if i := indexOf(next, id); i != -1 {
		if next[i].Quantity == 1 {
			next = append(next[:i], next[i+1:]...)
		} else {
			next[i].Quantity--
		}
	}

	return s.commit(ctx, next)
}

// 全削除。保存先はkeyごと消す
func (s *CartStore) Clear(ctx context.Context) error {
	if err := s.persist.Clear(ctx); err != nil {
		return err
	}
	s.lines = []model.CartLine{}
	return s.render()
}

// 現在の行のコピー
func (s *CartStore) Lines() []model.CartLine {
	return s.snapshot()
}

func (s *CartStore) Len() int {
	return len(s.lines)
}

// 保存できたときだけメモリに反映する
func (s *CartStore) commit(ctx context.Context, next []model.CartLine) error {
	if err := s.persist.Save(ctx, next); err != nil {
		return err
	}
	s.lines = next
	return s.render()
}

func (s *CartStore) render() error {
	if s.renderer == nil {
		return nil
	}
	if err := s.renderer.Render(s.snapshot()); err != nil {
		return fmt.Errorf("render cart: %w", err)
	}
	return nil
}

func (s *CartStore) snapshot() []model.CartLine {
	out := make([]model.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

func indexOf(lines []model.CartLine, id string) int {
	for i, l := range lines {
		if l.ID == id {
			return i
		}
	}
	return -1
}
