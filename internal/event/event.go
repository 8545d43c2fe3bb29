package event

import (
	"strings"

	"cartwidget/internal/view"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// 商品カードの「カートに追加」
const AddClass = "agregar-carrito"

// Kind はユーザー操作の種類。
type Kind int

const (
	KindUnknown Kind = iota
	KindPageReady
	KindAddToCart
	KindRemoveFromCart
	KindClearCart
)

func (k Kind) String() string {
	switch k {
	case KindPageReady:
		return "page_ready"
	case KindAddToCart:
		return "add_to_cart"
	case KindRemoveFromCart:
		return "remove_from_cart"
	case KindClearCart:
		return "clear_cart"
	default:
		return "unknown"
	}
}

// Event は1回の操作。
type Event struct {
	Kind   Kind
	Area   view.Area
	Target *html.Node

	defaultPrevented bool
}

// ページ読み込み完了
func PageReady() *Event {
	return &Event{Kind: KindPageReady}
}

// クリックされた場所と要素から種類を決める
func Click(area view.Area, target *html.Node) *Event {
	return &Event{
		Kind:   Classify(area, target),
		Area:   area,
		Target: target,
	}
}

// リンクの既定動作（画面遷移）を止める
func (e *Event) PreventDefault() {
	e.defaultPrevented = true
}

func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

// 「何がクリックされたか」だけを見る。処理は Router 側。
func Classify(area view.Area, target *html.Node) Kind {
	if target == nil {
		return KindUnknown
	}

	switch area {
	case view.AreaCatalog:
		if hasClass(target, AddClass) {
			return KindAddToCart
		}
	case view.AreaCart:
		if hasClass(target, view.RemoveClass) {
			return KindRemoveFromCart
		}
	case view.AreaClear:
		return KindClearCart
	}
	return KindUnknown
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func isAnchor(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && n.DataAtom == atom.A
}
