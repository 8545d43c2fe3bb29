package catalog

import (
	"errors"
	"strings"

	"cartwidget/internal/domain/model"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var ErrMissingField = errors.New("catalog entry field missing")

// 商品カード内の各データの位置
const (
	imageSelector = "img"
	nameSelector  = ".info-card h4"
	priceSelector = ".info-card .precio span"
	idSelector    = ".info-card a"
	idAttr        = "data-id"
)

// どの項目が取れなかったか
type ExtractionError struct {
	Field string
}

func (e *ExtractionError) Error() string {
	return "extract catalog entry: missing " + e.Field
}

func (e *ExtractionError) Unwrap() error {
	return ErrMissingField
}

// Reader は表示中の商品カードからカート行を読み取る。DOMは変更しない。
type Reader struct{}

func NewReader() *Reader {
	return &Reader{}
}

// 画像・名前・価格・IDを読み取って数量1の行を返す
func (r *Reader) Extract(entry *html.Node) (model.CartLine, error) {
	if entry == nil {
		return model.CartLine{}, &ExtractionError{Field: "entry"}
	}

	card := goquery.NewDocumentFromNode(entry).Selection

	image, ok := card.Find(imageSelector).First().Attr("src")
	if !ok || strings.TrimSpace(image) == "" {
		return model.CartLine{}, &ExtractionError{Field: "image"}
	}

	nameSel := card.Find(nameSelector).First()
	name := strings.TrimSpace(nameSel.Text())
	if nameSel.Length() == 0 || name == "" {
		return model.CartLine{}, &ExtractionError{Field: "name"}
	}

	priceSel := card.Find(priceSelector).First()
	price := strings.TrimSpace(priceSel.Text())
	if priceSel.Length() == 0 || price == "" {
		return model.CartLine{}, &ExtractionError{Field: "price"}
	}

	id, ok := card.Find(idSelector).First().Attr(idAttr)
	if !ok || strings.TrimSpace(id) == "" {
		return model.CartLine{}, &ExtractionError{Field: "id"}
	}

	return model.CartLine{
		ID:       strings.TrimSpace(id),
		Name:     name,
		Price:    price,
		Image:    strings.TrimSpace(image),
		Quantity: 1,
	}, nil
}
