package mockapi

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Product is a fixture record. Price is kept as text so fixtures can carry
// the loosely typed values the real API has been seen to send.
type Product struct {
	ID            int
	Name          string
	Price         string
	PriceAsString bool
	Category      string
	Description   string
	Rating        float64
	InStock       *bool
	StockCount    *int
}

type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func wireProducts(products []Product) []gin.H {
	out := make([]gin.H, 0, len(products))
	for _, p := range products {
		rec := gin.H{
			"id":          p.ID,
			"name":        p.Name,
			"category":    p.Category,
			"description": p.Description,
			"rating":      p.Rating,
		}
		if _, err := decimal.NewFromString(p.Price); err != nil || p.PriceAsString {
			rec["price"] = p.Price
		} else {
			rec["price"] = json.Number(p.Price)
		}
		if p.InStock != nil {
			rec["in_stock"] = *p.InStock
		}
		if p.StockCount != nil {
			rec["stock_count"] = *p.StockCount
		}
		out = append(out, rec)
	}
	return out
}

func ptr[T any](v T) *T { return &v }

// SampleCategories and SampleProducts seed the local stand-in.
func SampleCategories() []Category {
	return []Category{
		{ID: 1, Name: "Electronics"},
		{ID: 2, Name: "Home"},
		{ID: 3, Name: "Sports"},
	}
}

func SampleProducts() []Product {
	return []Product{
		{ID: 1, Name: "Wireless Headphones", Price: "199.99", Category: "Electronics", Description: "Noise cancelling over-ear headphones", Rating: 4.5, InStock: ptr(true), StockCount: ptr(12)},
		{ID: 2, Name: "Smart Watch", Price: "249.00", PriceAsString: true, Category: "Electronics", Description: "Fitness tracking and notifications", Rating: 4.1, InStock: ptr(true), StockCount: ptr(4)},
		{ID: 3, Name: "Espresso Machine", Price: "349.50", Category: "Home", Description: "15 bar pump with milk frother", Rating: 4.8, InStock: ptr(true)},
		{ID: 4, Name: "Desk Lamp", Price: "35", PriceAsString: true, Category: "Home", Description: "Warm light LED lamp", Rating: 4.0},
		{ID: 5, Name: "Running Shoes", Price: "89.90", Category: "Sports", Description: "Lightweight road running shoes", Rating: 4.2, InStock: ptr(true), StockCount: ptr(20)},
		{ID: 6, Name: "Yoga Mat", Price: "25.00", PriceAsString: true, Category: "Sports", Description: "Non-slip 6mm mat", Rating: 3.9, InStock: ptr(false), StockCount: ptr(0)},
		{ID: 7, Name: "Mystery Box", Price: "call us", Category: "Home", Description: "Price on request", Rating: 3.0},
	}
}
