package event

import (
	"context"
	"fmt"
	"log/slog"

	"cartwidget/internal/domain/model"
	"cartwidget/internal/view"

	"golang.org/x/net/html"
)

// Routerが使うカート操作
type CartStore interface {
	Initialize(ctx context.Context) error
	Add(ctx context.Context, line model.CartLine) error
	RemoveOne(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

// 商品カードからの読み取り
type EntryReader interface {
	Extract(entry *html.Node) (model.CartLine, error)
}

// メトリクス等への通知（任意）
type Observer interface {
	ObserveEvent(kind string, err error)
}

type handlerFunc func(ctx context.Context, ev *Event) error

// Router は操作の種類ごとに1つの処理へ振り分ける。
type Router struct {
	store    CartStore
	reader   EntryReader
	observer Observer
	logger   *slog.Logger
	handlers map[Kind]handlerFunc
}

// DI
func NewRouter(store CartStore, reader EntryReader, observer Observer, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}

	r := &Router{
		store:    store,
		reader:   reader,
		observer: observer,
		logger:   logger,
	}
	r.handlers = map[Kind]handlerFunc{
		KindPageReady:      r.pageReady,
		KindAddToCart:      r.addToCart,
		KindRemoveFromCart: r.removeFromCart,
		KindClearCart:      r.clearCart,
	}
	return r
}

// 種類に対応する処理を実行。対応が無い操作は何もしない。
func (r *Router) Dispatch(ctx context.Context, ev *Event) error {
	if ev.Area != "" || isAnchor(ev.Target) {
		ev.PreventDefault()
	}

	h, ok := r.handlers[ev.Kind]
	if !ok {
		r.logger.Debug("event ignored", "area", string(ev.Area))
		return nil
	}

	err := h(ctx, ev)
	if r.observer != nil {
		r.observer.ObserveEvent(ev.Kind.String(), err)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", ev.Kind, err)
	}
	return nil
}

func (r *Router) pageReady(ctx context.Context, _ *Event) error {
	return r.store.Initialize(ctx)
}

// ボタン → info-card → card
func (r *Router) addToCart(ctx context.Context, ev *Event) error {
	card := ancestor(ev.Target, 2)

	line, err := r.reader.Extract(card)
	if err != nil {
		return err
	}
	return r.store.Add(ctx, line)
}

func (r *Router) removeFromCart(ctx context.Context, ev *Event) error {
	return r.store.RemoveOne(ctx, attr(ev.Target, view.DataIDAttr))
}

func (r *Router) clearCart(ctx context.Context, _ *Event) error {
	return r.store.Clear(ctx)
}

func ancestor(n *html.Node, levels int) *html.Node {
	for i := 0; i < levels && n != nil; i++ {
		n = n.Parent
	}
	return n
}
