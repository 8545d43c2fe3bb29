package view

import (
	"errors"
	"strconv"

	"cartwidget/internal/domain/model"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const RemoveClass = "borrar-curso"

var ErrNoRenderTarget = errors.New("cart render target missing")

// CartTableRenderer はカートの行をtbodyに描画する。
// 毎回中身を消してから作り直す。
type CartTableRenderer struct {
	body *html.Node
}

func NewCartTableRenderer(body *html.Node) *CartTableRenderer {
	return &CartTableRenderer{body: body}
}

func (r *CartTableRenderer) Render(lines []model.CartLine) error {
	if r.body == nil {
		return ErrNoRenderTarget
	}

	clearChildren(r.body)
	for _, l := range lines {
		r.body.AppendChild(cartRow(l))
	}
	return nil
}

// 描画済みの行数
func (r *CartTableRenderer) Rows() int {
	if r.body == nil {
		return 0
	}
	n := 0
	for c := r.body.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Tr {
			n++
		}
	}
	return n
}

func clearChildren(n *html.Node) {
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
}

// <td><img></td><td>名前</td><td>価格</td><td>数量</td><td><a>X</a></td>
func cartRow(l model.CartLine) *html.Node {
	tr := element(atom.Tr)

	img := element(atom.Img,
		html.Attribute{Key: "src", Val: l.Image},
		html.Attribute{Key: "width", Val: "100px"},
	)
	tr.AppendChild(cell(img))
	tr.AppendChild(cell(text(l.Name)))
	tr.AppendChild(cell(text(l.Price)))
	tr.AppendChild(cell(text(strconv.Itoa(l.Quantity))))

	remove := element(atom.A,
		html.Attribute{Key: "href", Val: "#"},
		html.Attribute{Key: "class", Val: RemoveClass},
		html.Attribute{Key: DataIDAttr, Val: l.ID},
	)
	remove.AppendChild(text(" X "))
	tr.AppendChild(cell(remove))

	return tr
}

func cell(child *html.Node) *html.Node {
	td := element(atom.Td)
	td.AppendChild(child)
	return td
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
