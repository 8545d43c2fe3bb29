package event_test

import (
	"context"
	"errors"
	"testing"

	"cartwidget/internal/domain/model"
	"cartwidget/internal/event"
	"cartwidget/internal/infra/catalog"
	"cartwidget/internal/view"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// =====================
// Mocks
// =====================

type CartStoreMock struct{ mock.Mock }

func (m *CartStoreMock) Initialize(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *CartStoreMock) Add(ctx context.Context, line model.CartLine) error {
	return m.Called(ctx, line).Error(0)
}

func (m *CartStoreMock) RemoveOne(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *CartStoreMock) Clear(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type ObserverMock struct{ mock.Mock }

func (m *ObserverMock) ObserveEvent(kind string, err error) {
	m.Called(kind, err)
}

func newPage(t *testing.T) *view.Page {
	t.Helper()

	tmpl, err := view.NewPageTemplate(catalog.Catalog{Courses: []catalog.Course{
		{ID: "a1", Name: "Course A", Price: "$10", Image: "img/a.jpg"},
		{ID: "b1", Name: "Course B", Price: "$15", Image: "img/b.jpg"},
	}})
	require.NoError(t, err)

	p, err := tmpl.NewPage()
	require.NoError(t, err)
	return p
}

func anchor(class string, dataID string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.A,
		Data:     "a",
		Attr: []html.Attribute{
			{Key: "href", Val: "#"},
			{Key: "class", Val: class},
			{Key: view.DataIDAttr, Val: dataID},
		},
	}
}

// =====================
// Classify
// =====================

func TestClassify(t *testing.T) {
	add := anchor("button agregar-carrito", "a1")
	remove := anchor(view.RemoveClass, "a1")
	other := anchor("imagen-curso", "")

	assert.Equal(t, event.KindAddToCart, event.Classify(view.AreaCatalog, add))
	assert.Equal(t, event.KindRemoveFromCart, event.Classify(view.AreaCart, remove))
	assert.Equal(t, event.KindClearCart, event.Classify(view.AreaClear, other))

	//場所と要素が合わないものは無視
	assert.Equal(t, event.KindUnknown, event.Classify(view.AreaCart, add))
	assert.Equal(t, event.KindUnknown, event.Classify(view.AreaCatalog, remove))
	assert.Equal(t, event.KindUnknown, event.Classify(view.AreaCatalog, other))
	assert.Equal(t, event.KindUnknown, event.Classify(view.AreaCatalog, nil))
	assert.Equal(t, event.KindUnknown, event.Classify(view.Area("nav"), add))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "add_to_cart", event.KindAddToCart.String())
	assert.Equal(t, "remove_from_cart", event.KindRemoveFromCart.String())
	assert.Equal(t, "clear_cart", event.KindClearCart.String())
	assert.Equal(t, "page_ready", event.KindPageReady.String())
	assert.Equal(t, "unknown", event.KindUnknown.String())
}

// =====================
// Dispatch
// =====================

func TestRouter_AddToCart_ExtractsCardAndAdds(t *testing.T) {
	ctx := context.Background()
	p := newPage(t)

	store := new(CartStoreMock)
	store.On("Add", mock.Anything, model.CartLine{
		ID: "b1", Name: "Course B", Price: "$15", Image: "img/b.jpg", Quantity: 1,
	}).Return(nil).Once()

	r := event.NewRouter(store, catalog.NewReader(), nil, nil)
	ev := event.Click(view.AreaCatalog, p.FindTarget(view.AreaCatalog, event.AddClass, "b1"))

	require.NoError(t, r.Dispatch(ctx, ev))
	assert.Equal(t, event.KindAddToCart, ev.Kind)
	assert.True(t, ev.DefaultPrevented())
	store.AssertExpectations(t)
}

func TestRouter_AddToCart_ExtractionErrorIsReturned(t *testing.T) {
	store := new(CartStoreMock)
	r := event.NewRouter(store, catalog.NewReader(), nil, nil)

	//カードの外にある追加ボタン
	ev := event.Click(view.AreaCatalog, anchor(event.AddClass, "a1"))
	err := r.Dispatch(context.Background(), ev)

	var ee *catalog.ExtractionError
	assert.ErrorAs(t, err, &ee)
	store.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestRouter_RemoveFromCart_UsesDataID(t *testing.T) {
	store := new(CartStoreMock)
	store.On("RemoveOne", mock.Anything, "a1").Return(nil).Once()

	r := event.NewRouter(store, catalog.NewReader(), nil, nil)
	ev := event.Click(view.AreaCart, anchor(view.RemoveClass, "a1"))

	require.NoError(t, r.Dispatch(context.Background(), ev))
	assert.True(t, ev.DefaultPrevented())
	store.AssertExpectations(t)
}

func TestRouter_ClearCart(t *testing.T) {
	p := newPage(t)
	store := new(CartStoreMock)
	store.On("Clear", mock.Anything).Return(nil).Once()

	r := event.NewRouter(store, catalog.NewReader(), nil, nil)
	ev := event.Click(view.AreaClear, p.FindTarget(view.AreaClear, "", ""))

	require.NoError(t, r.Dispatch(context.Background(), ev))
	assert.True(t, ev.DefaultPrevented())
	store.AssertExpectations(t)
}

func TestRouter_PageReady_Initializes(t *testing.T) {
	store := new(CartStoreMock)
	store.On("Initialize", mock.Anything).Return(nil).Once()

	r := event.NewRouter(store, catalog.NewReader(), nil, nil)
	ev := event.PageReady()

	require.NoError(t, r.Dispatch(context.Background(), ev))
	assert.False(t, ev.DefaultPrevented())
	store.AssertExpectations(t)
}

func TestRouter_Unknown_IsNoopButPreventsDefault(t *testing.T) {
	store := new(CartStoreMock)
	r := event.NewRouter(store, catalog.NewReader(), nil, nil)

	ev := event.Click(view.AreaCatalog, anchor("imagen-curso", ""))
	require.NoError(t, r.Dispatch(context.Background(), ev))

	assert.Equal(t, event.KindUnknown, ev.Kind)
	assert.True(t, ev.DefaultPrevented())
	store.AssertExpectations(t)
}

func TestRouter_NotifiesObserver(t *testing.T) {
	storeErr := errors.New("save failed")

	store := new(CartStoreMock)
	store.On("RemoveOne", mock.Anything, "a1").Return(storeErr).Once()

	obs := new(ObserverMock)
	obs.On("ObserveEvent", "remove_from_cart", storeErr).Once()

	r := event.NewRouter(store, catalog.NewReader(), obs, nil)
	err := r.Dispatch(context.Background(), event.Click(view.AreaCart, anchor(view.RemoveClass, "a1")))

	assert.ErrorIs(t, err, storeErr)
	obs.AssertExpectations(t)
}
