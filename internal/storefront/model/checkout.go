package model

import "github.com/shopspring/decimal"

// CheckoutForm holds the user-entered shipping, gift and payment fields.
type CheckoutForm struct {
	Name                 string
	Email                string
	Phone                string
	Address              string
	City                 string
	State                string
	Country              string
	ZipCode              string
	DeliveryMethod       string
	DeliveryInstructions string
	IsGift               bool
	GiftMessage          string
	CouponCode           string
	PaymentMethod        string
}

// OrderItem is one line of the order payload.
type OrderItem struct {
	ProductID   int               `json:"product_id"`
	Quantity    int               `json:"quantity"`
	UnitPrice   Money             `json:"unit_price"`
	ProductName string            `json:"product_name"`
	Attributes  map[string]string `json:"attributes"`
}

// OrderPayload is the JSON document POSTed to /orders.
type OrderPayload struct {
	CustomerName         string      `json:"customer_name"`
	CustomerEmail        string      `json:"customer_email"`
	CustomerPhone        string      `json:"customer_phone"`
	ShippingAddress      string      `json:"shipping_address"`
	ShippingCity         string      `json:"shipping_city"`
	ShippingState        string      `json:"shipping_state"`
	ShippingCountry      string      `json:"shipping_country"`
	ShippingZipCode      string      `json:"shipping_zip_code"`
	DeliveryMethod       string      `json:"delivery_method"`
	DeliveryInstructions string      `json:"delivery_instructions"`
	IsGift               bool        `json:"is_gift"`
	GiftMessage          string      `json:"gift_message"`
	Subtotal             Money       `json:"subtotal"`
	ShippingCost         Money       `json:"shipping_cost"`
	TaxAmount            Money       `json:"tax_amount"`
	CouponCode           *string     `json:"coupon_code,omitempty"`
	PaymentMethod        string      `json:"payment_method"`
	Items                []OrderItem `json:"items"`
}

// OrderResult is reported back to the caller after a confirmed order.
type OrderResult struct {
	OrderNumber  string          `json:"order_number"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	TaxAmount    decimal.Decimal `json:"tax_amount"`
	Total        decimal.Decimal `json:"total"`
}
