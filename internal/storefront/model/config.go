package model

import "github.com/shopspring/decimal"

// ================ Config ================
type APIConfig struct {
	BaseURL   string `envconfig:"API_BASE_URL" default:"http://localhost:8089/api"`
	UserAgent string `envconfig:"API_USER_AGENT" default:"storefront-core/1.0"`
}

type CatalogConfig struct {
	CacheTTL  string `envconfig:"CATALOG_CACHE_TTL" default:"5m"`
	KeyPrefix string `envconfig:"CATALOG_CACHE_PREFIX" default:"catalog"`
}

type FilterConfig struct {
	MaxPrice  decimal.Decimal `envconfig:"FILTER_MAX_PRICE" default:"1000"`
	Collation string          `envconfig:"FILTER_COLLATION" default:"en"`
}

type CheckoutConfig struct {
	ShippingCost decimal.Decimal `envconfig:"CHECKOUT_SHIPPING_COST" default:"10.00"`
	TaxAmount    decimal.Decimal `envconfig:"CHECKOUT_TAX_AMOUNT" default:"0"`
}

type AssistantConfig struct {
	Tools struct {
		MaxCalls int `envconfig:"ASSISTANT_TOOL_MAX_CALLS" default:"10"`
	}
}

type MockAPIConfig struct {
	Enabled bool   `envconfig:"MOCK_API_ENABLED" default:"false"`
	Addr    string `envconfig:"MOCK_API_ADDR" default:"127.0.0.1:8089"`
}
