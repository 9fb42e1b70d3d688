package model

import "github.com/shopspring/decimal"

// Product is a catalog item after it has passed the API parse boundary.
type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Rating      float64         `json:"rating"`
	InStock     *bool           `json:"in_stock,omitempty"`
	StockCount  *int            `json:"stock_count,omitempty"`
}

// Available reports whether the product can be bought. Unknown stock counts as available.
func (p Product) Available() bool {
	if p.InStock != nil && !*p.InStock {
		return false
	}
	if p.StockCount != nil && *p.StockCount == 0 {
		return false
	}
	return true
}

type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ProductQuery carries the server-side listing parameters. Nil/empty fields are not sent.
type ProductQuery struct {
	CategoryID *int
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	SortBy     string
}
