package view

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"cartwidget/internal/infra/catalog"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

//go:embed templates/page.html.tmpl
var templatesFS embed.FS

// クリックされた場所
type Area string

const (
	AreaCatalog Area = "catalog"
	AreaCart    Area = "cart"
	AreaClear   Area = "clear"
)

// ページ内の要素の位置
const (
	catalogSelector = "#lista-cursos"
	cartSelector    = "#carrito"
	bodySelector    = "#lista-carrito tbody"
	clearSelector   = "#vaciar-carrito"
)

const DataIDAttr = "data-id"

var ErrPageStructure = errors.New("page structure is incomplete")

// PageTemplate はカタログを埋め込んだページのマークアップを1度だけ作る。
type PageTemplate struct {
	markup []byte
}

func NewPageTemplate(c catalog.Catalog) (*PageTemplate, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/page.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, c); err != nil {
		return nil, fmt.Errorf("execute page template: %w", err)
	}
	return &PageTemplate{markup: buf.Bytes()}, nil
}

// セッションごとに新しいDOMを作る
func (t *PageTemplate) NewPage() (*Page, error) {
	doc, err := html.Parse(bytes.NewReader(t.markup))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return newPage(doc)
}

// Page は1つのページのDOM。
type Page struct {
	doc     *html.Node
	catalog *html.Node
	cart    *html.Node
	body    *html.Node
	clear   *html.Node
}

func newPage(doc *html.Node) (*Page, error) {
	root := goquery.NewDocumentFromNode(doc)

	p := &Page{doc: doc}
	lookups := []struct {
		selector string
		dst      **html.Node
	}{
		{catalogSelector, &p.catalog},
		{cartSelector, &p.cart},
		{bodySelector, &p.body},
		{clearSelector, &p.clear},
	}
	for _, l := range lookups {
		sel := root.Find(l.selector)
		if sel.Length() == 0 {
			return nil, fmt.Errorf("%w: %s not found", ErrPageStructure, l.selector)
		}
		*l.dst = sel.Get(0)
	}
	return p, nil
}

func (p *Page) Area(a Area) *html.Node {
	switch a {
	case AreaCatalog:
		return p.catalog
	case AreaCart:
		return p.cart
	case AreaClear:
		return p.clear
	default:
		return nil
	}
}

// カート行を描画するtbody
func (p *Page) CartBody() *html.Node {
	return p.body
}

// area内で class と data-id が一致する最初の要素。
// 空の条件は見ない。見つからなければnil。
func (p *Page) FindTarget(area Area, class string, dataID string) *html.Node {
	root := p.Area(area)
	if root == nil {
		return nil
	}
	if area == AreaClear {
		return root
	}

	match := goquery.NewDocumentFromNode(root).Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
		if class != "" && !s.HasClass(class) {
			return false
		}
		if dataID != "" {
			v, ok := s.Attr(DataIDAttr)
			if !ok || v != dataID {
				return false
			}
		}
		return true
	}).First()

	if match.Length() == 0 {
		return nil
	}
	return match.Get(0)
}

func (p *Page) HTML() (string, error) {
	var b strings.Builder
	if err := html.Render(&b, p.doc); err != nil {
		return "", err
	}
	return b.String(), nil
}

// tbodyの中身だけ
func (p *Page) CartBodyHTML() (string, error) {
	var b strings.Builder
	for c := p.body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}
