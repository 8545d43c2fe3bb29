package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"cartwidget/internal/domain/model"
	"cartwidget/internal/event"
	"cartwidget/internal/infra/catalog"
	repo "cartwidget/internal/repository"
	"cartwidget/internal/view"
)

// セッション数とイベントの通知先（metrics）
type WidgetObserver interface {
	event.Observer
	SessionOpened()
	SessionClosed()
}

// WidgetUsecase はセッションIDごとのWidgetを管理する。
type WidgetUsecase struct {
	tmpl     *view.PageTemplate
	storage  repo.StorageRepository
	reader   event.EntryReader
	observer WidgetObserver
	logger   *slog.Logger

	mu      sync.Mutex
	widgets map[string]*Widget
}

// DI
func NewWidgetUsecase(
	tmpl *view.PageTemplate,
	storage repo.StorageRepository,
	reader event.EntryReader,
	observer WidgetObserver,
	logger *slog.Logger,
) *WidgetUsecase {
	if logger == nil {
		logger = slog.Default()
	}
	if observer == nil {
		observer = noopObserver{}
	}
	return &WidgetUsecase{
		tmpl:     tmpl,
		storage:  storage,
		reader:   reader,
		observer: observer,
		logger:   logger,
		widgets:  make(map[string]*Widget),
	}
}

// CartOutput はカートのJSON表現。
type CartOutput struct {
	Items []model.CartLine `json:"items"`
}

// ClickInput はクリックされた要素。
type ClickInput struct {
	Area   string
	Class  string
	DataID string
}

// ClickOutput はクリック処理後のカートと再描画したtbody。
type ClickOutput struct {
	Event            string           `json:"event"`
	Items            []model.CartLine `json:"items"`
	HTML             string           `json:"html"`
	DefaultPrevented bool             `json:"default_prevented"`
}

// ページ読み込み。既存のWidgetは捨てて作り直す（リロード）
func (u *WidgetUsecase) OpenPage(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", NewHTTPError(http.StatusUnauthorized, "no session")
	}

	w, err := u.open(ctx, sessionID)
	if err != nil {
		return "", err
	}

	out, err := w.html()
	if err != nil {
		u.logger.Error("render page failed", "session_id", sessionID, "error", err)
		return "", NewHTTPError(http.StatusInternalServerError, "render error")
	}
	return out, nil
}

// クリックを振り分けてカートを更新
func (u *WidgetUsecase) Click(ctx context.Context, sessionID string, in ClickInput) (ClickOutput, error) {
	if sessionID == "" {
		return ClickOutput{}, NewHTTPError(http.StatusUnauthorized, "no session")
	}

	area := view.Area(in.Area)
	switch area {
	case view.AreaCatalog, view.AreaCart, view.AreaClear:
	default:
		return ClickOutput{}, NewHTTPError(http.StatusBadRequest, "invalid area")
	}

	w, err := u.get(ctx, sessionID)
	if err != nil {
		return ClickOutput{}, err
	}

	res, err := w.click(ctx, area, in.Class, in.DataID)
	if errors.Is(err, errWidgetClosed) {
		// 直前にUnload/リロードされた
		if w, err = u.open(ctx, sessionID); err != nil {
			return ClickOutput{}, err
		}
		res, err = w.click(ctx, area, in.Class, in.DataID)
	}
	if err != nil {
		return ClickOutput{}, u.toHTTPError(sessionID, err)
	}

	return ClickOutput{
		Event:            res.Kind,
		Items:            res.Items,
		HTML:             res.CartHTML,
		DefaultPrevented: res.DefaultPrevented,
	}, nil
}

// 現在のカート
func (u *WidgetUsecase) GetCart(ctx context.Context, sessionID string) (CartOutput, error) {
	if sessionID == "" {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "no session")
	}

	w, err := u.get(ctx, sessionID)
	if err != nil {
		return CartOutput{}, err
	}
	return CartOutput{Items: w.lines()}, nil
}

// ページを離れた。メモリ上のWidgetだけ捨てる
func (u *WidgetUsecase) Unload(sessionID string) bool {
	u.mu.Lock()
	w, ok := u.widgets[sessionID]
	if ok {
		delete(u.widgets, sessionID)
	}
	u.mu.Unlock()

	if !ok {
		return false
	}
	w.close()
	u.observer.SessionClosed()
	return true
}

// メモリ上のセッション数
func (u *WidgetUsecase) OpenSessions() int {
	u.mu.Lock()
	defer u.mu.Unlock()

	return len(u.widgets)
}

func (u *WidgetUsecase) open(ctx context.Context, sessionID string) (*Widget, error) {
	w, err := newWidget(sessionID, u.tmpl, u.storage, u.reader, u.observer, u.logger)
	if err != nil {
		u.logger.Error("create widget failed", "session_id", sessionID, "error", err)
		return nil, NewHTTPError(http.StatusInternalServerError, "page error")
	}
	if err := w.ready(ctx); err != nil {
		return nil, u.toHTTPError(sessionID, err)
	}

	u.mu.Lock()
	old, replaced := u.widgets[sessionID]
	u.widgets[sessionID] = w
	u.mu.Unlock()

	if replaced {
		old.close()
	} else {
		u.observer.SessionOpened()
	}
	return w, nil
}

// cutoff 以降使われていないWidgetを捨てる。保存済みのカートは残る
func (u *WidgetUsecase) EvictIdle(cutoff time.Time) int {
	u.mu.Lock()
	var idle []*Widget
	for id, w := range u.widgets {
		if w.idleSince(cutoff) {
			idle = append(idle, w)
			delete(u.widgets, id)
		}
	}
	u.mu.Unlock()

	for _, w := range idle {
		w.close()
		u.observer.SessionClosed()
	}
	if len(idle) > 0 {
		u.logger.Info("evicted idle sessions", "count", len(idle))
	}
	return len(idle)
}

// ctx が終わるまで interval ごとに ttl を超えたWidgetを捨てる
func (u *WidgetUsecase) RunEviction(ctx context.Context, ttl time.Duration, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			u.EvictIdle(now.Add(-ttl))
		}
	}
}

// 無ければ保存済みカートから開き直す
func (u *WidgetUsecase) get(ctx context.Context, sessionID string) (*Widget, error) {
	u.mu.Lock()
	w, ok := u.widgets[sessionID]
	u.mu.Unlock()

	if ok {
		return w, nil
	}

	u.logger.Info("session not in memory, reopening from storage", "session_id", sessionID)
	return u.open(ctx, sessionID)
}

func (u *WidgetUsecase) toHTTPError(sessionID string, err error) error {
	var ee *catalog.ExtractionError
	switch {
	case errors.As(err, &ee):
		u.logger.Warn("catalog entry rejected", "session_id", sessionID, "field", ee.Field)
		return NewHTTPError(http.StatusUnprocessableEntity, "invalid catalog entry: missing "+ee.Field)
	case errors.Is(err, ErrInvalidLine):
		return NewHTTPError(http.StatusUnprocessableEntity, "invalid cart line")
	default:
		u.logger.Error("cart event failed", "session_id", sessionID, "error", err)
		return NewHTTPError(http.StatusInternalServerError, "storage error")
	}
}

type noopObserver struct{}

func (noopObserver) ObserveEvent(string, error) {}
func (noopObserver) SessionOpened()             {}
func (noopObserver) SessionClosed()             {}
