package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"cartwidget/internal/domain/model"
	"cartwidget/internal/event"
	repo "cartwidget/internal/repository"
	"cartwidget/internal/view"
)

var errWidgetClosed = errors.New("widget closed")

// Widget は1セッション分のページ（DOM・カート・ルーター）。
// イベントは mu で1つずつ処理する。
type Widget struct {
	mu        sync.Mutex
	sessionID string
	page      *view.Page
	renderer  *view.CartTableRenderer
	store     *CartStore
	router    *event.Router
	closed    bool

	lastUsed atomic.Int64 // UnixNano
}

// クリック処理後の状態
type ClickResult struct {
	Kind             string
	Items            []model.CartLine
	CartHTML         string
	DefaultPrevented bool
}

func newWidget(
	sessionID string,
	tmpl *view.PageTemplate,
	storage repo.StorageRepository,
	reader event.EntryReader,
	observer event.Observer,
	logger *slog.Logger,
) (*Widget, error) {
	page, err := tmpl.NewPage()
	if err != nil {
		return nil, err
	}

	logger = logger.With("session_id", sessionID)
	renderer := view.NewCartTableRenderer(page.CartBody())
	store := NewCartStore(NewCartPersistence(storage, sessionID, logger), renderer, logger)

	w := &Widget{
		sessionID: sessionID,
		page:      page,
		renderer:  renderer,
		store:     store,
		router:    event.NewRouter(store, reader, observer, logger),
	}
	w.touch()
	return w, nil
}

func (w *Widget) touch() {
	w.lastUsed.Store(time.Now().UnixNano())
}

// 最後に使われてから cutoff より前か
func (w *Widget) idleSince(cutoff time.Time) bool {
	return w.lastUsed.Load() < cutoff.UnixNano()
}

// ページ読み込み完了（保存済みカートを読み込む）
func (w *Widget) ready(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()

	return w.router.Dispatch(ctx, event.PageReady())
}

func (w *Widget) click(ctx context.Context, area view.Area, class string, dataID string) (ClickResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()

	if w.closed {
		return ClickResult{}, errWidgetClosed
	}

	ev := event.Click(area, w.page.FindTarget(area, class, dataID))
	dispatchErr := w.router.Dispatch(ctx, ev)

	body, err := w.page.CartBodyHTML()
	if err != nil {
		return ClickResult{}, err
	}

	return ClickResult{
		Kind:             ev.Kind.String(),
		Items:            w.store.Lines(),
		CartHTML:         body,
		DefaultPrevented: ev.DefaultPrevented(),
	}, dispatchErr
}

func (w *Widget) lines() []model.CartLine {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()

	return w.store.Lines()
}

func (w *Widget) html() (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()

	return w.page.HTML()
}

// ページを閉じる。保存済みのカートは残る
func (w *Widget) close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.closed = true
}
