package model

import "errors"

var (
	ErrEmptyLineID     = errors.New("cart line id is empty")
	ErrInvalidQuantity = errors.New("cart line quantity must be >= 1")
)

// カートの1行。同じIDの行は1つだけ。
// price は表示用の文字列で、計算には使わない。
type CartLine struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Image    string `json:"image"`
	Quantity int    `json:"quantity"`
}

// 永続化・表示してよい行かを確認
func (l CartLine) Validate() error {
	if l.ID == "" {
		return ErrEmptyLineID
	}
	if l.Quantity < 1 {
		return ErrInvalidQuantity
	}
	return nil
}
