package model

import "context"

// CatalogSource fetches listings from the remote storefront API.
type CatalogSource interface {
	ListProducts(ctx context.Context, q ProductQuery) ([]Product, error)
	ListCategories(ctx context.Context) ([]Category, error)
}

type CatalogCache interface {
	// GetProducts returns the cached listing for key; found is false on a miss.
	GetProducts(ctx context.Context, key string) (products []Product, found bool, err error)

	// SetProducts stores a listing under key.
	SetProducts(ctx context.Context, key string, products []Product) error

	GetCategories(ctx context.Context) (categories []Category, found bool, err error)
	SetCategories(ctx context.Context, categories []Category) error

	// Invalidate removes every cached listing.
	Invalidate(ctx context.Context) error
}

// OrderSender delivers a checkout payload to the order API.
type OrderSender interface {
	SubmitOrder(ctx context.Context, payload OrderPayload, idempotencyKey string) (*OrderResponse, error)
}

// OrderResponse is the decoded success body of POST /orders.
type OrderResponse struct {
	OrderNumber string `json:"order_number"`
	Message     string `json:"message,omitempty"`
}
