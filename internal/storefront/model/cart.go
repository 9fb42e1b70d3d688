package model

import "github.com/shopspring/decimal"

// CartLine is one row of the cart, keyed by product id.
type CartLine struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Rating      float64         `json:"rating"`
	Quantity    int             `json:"quantity"`
}

func NewCartLine(p Product, quantity int) CartLine {
	return CartLine{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Category:    p.Category,
		Description: p.Description,
		Rating:      p.Rating,
		Quantity:    quantity,
	}
}

func (l CartLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartSnapshot is an immutable view of the cart handed to subscribers.
type CartSnapshot struct {
	Lines     []CartLine      `json:"lines"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}
