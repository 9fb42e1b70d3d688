// Package mockapi is an in-memory stand-in for the remote storefront API,
// used for local runs and integration tests.
package mockapi

import (
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	logx "github.com/storefront-core/server/pkg/logger"
)

type Handler struct {
	mu         sync.Mutex
	products   []Product
	categories []Category
	orders     []OrderReq
	seq        int
}

func NewHandler(products []Product, categories []Category) *Handler {
	return &Handler{products: products, categories: categories, seq: 1000}
}

// NewRouter builds a gin engine with the handler mounted under prefix.
func NewRouter(h *Handler, prefix string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	h.RegisterRoutes(r.Group(prefix))
	return r
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/products", h.ListProducts)
	r.GET("/categories", h.ListCategories)
	r.POST("/orders", h.CreateOrder)
}

type OrderItemReq struct {
	ProductID   int               `json:"product_id" binding:"required"`
	Quantity    int               `json:"quantity" binding:"required,min=1"`
	UnitPrice   decimal.Decimal   `json:"unit_price"`
	ProductName string            `json:"product_name"`
	Attributes  map[string]string `json:"attributes"`
}

type OrderReq struct {
	CustomerName         string          `json:"customer_name" binding:"required"`
	CustomerEmail        string          `json:"customer_email" binding:"required"`
	CustomerPhone        string          `json:"customer_phone"`
	ShippingAddress      string          `json:"shipping_address" binding:"required"`
	ShippingCity         string          `json:"shipping_city" binding:"required"`
	ShippingState        string          `json:"shipping_state" binding:"required"`
	ShippingCountry      string          `json:"shipping_country" binding:"required"`
	ShippingZipCode      string          `json:"shipping_zip_code" binding:"required"`
	DeliveryMethod       string          `json:"delivery_method"`
	DeliveryInstructions string          `json:"delivery_instructions"`
	IsGift               bool            `json:"is_gift"`
	GiftMessage          string          `json:"gift_message"`
	Subtotal             decimal.Decimal `json:"subtotal"`
	ShippingCost         decimal.Decimal `json:"shipping_cost"`
	TaxAmount            decimal.Decimal `json:"tax_amount"`
	CouponCode           *string         `json:"coupon_code"`
	PaymentMethod        string          `json:"payment_method"`
	Items                []OrderItemReq  `json:"items" binding:"required,min=1,dive"`
}

func (h *Handler) ListProducts(c *gin.Context) {
	var (
		categoryName string
		min, max     *decimal.Decimal
	)

	if v := c.Query("category_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid category_id"})
			return
		}
		categoryName = h.categoryName(id)
	}
	for key, dst := range map[string]**decimal.Decimal{"min_price": &min, "max_price": &max} {
		if v := c.Query(key); v != "" {
			d, err := decimal.NewFromString(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "invalid " + key})
				return
			}
			*dst = &d
		}
	}

	h.mu.Lock()
	out := make([]Product, 0, len(h.products))
	for _, p := range h.products {
		if categoryName != "" && p.Category != categoryName {
			continue
		}
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			// Malformed fixtures are served as-is so clients see them.
			out = append(out, p)
			continue
		}
		if min != nil && price.LessThan(*min) {
			continue
		}
		if max != nil && price.GreaterThan(*max) {
			continue
		}
		out = append(out, p)
	}
	h.mu.Unlock()

	sortProducts(out, c.Query("sort_by"))

	if c.Query("envelope") != "" {
		c.JSON(http.StatusOK, gin.H{"data": wireProducts(out)})
		return
	}
	c.JSON(http.StatusOK, wireProducts(out))
}

func (h *Handler) ListCategories(c *gin.Context) {
	h.mu.Lock()
	out := slices.Clone(h.categories)
	h.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req OrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid order: " + err.Error()})
		return
	}

	h.mu.Lock()
	h.seq++
	number := fmt.Sprintf("ORD-%d", h.seq)
	h.orders = append(h.orders, req)
	h.mu.Unlock()

	logx.Info().
		Str("order_number", number).
		Str("idempotency_key", c.GetHeader("Idempotency-Key")).
		Int("items", len(req.Items)).
		Msg("mock api accepted order")

	c.JSON(http.StatusCreated, gin.H{"order_number": number})
}

// Orders returns a copy of every accepted order.
func (h *Handler) Orders() []OrderReq {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.orders)
}

func (h *Handler) categoryName(id int) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.categories {
		if c.ID == id {
			return c.Name
		}
	}
	return "\x00unknown"
}

func sortProducts(products []Product, sortBy string) {
	price := func(p Product) decimal.Decimal {
		d, _ := decimal.NewFromString(p.Price)
		return d
	}
	switch sortBy {
	case "price-low":
		slices.SortStableFunc(products, func(a, b Product) int { return price(a).Cmp(price(b)) })
	case "price-high":
		slices.SortStableFunc(products, func(a, b Product) int { return price(b).Cmp(price(a)) })
	case "rating":
		slices.SortStableFunc(products, func(a, b Product) int {
			switch {
			case a.Rating > b.Rating:
				return -1
			case a.Rating < b.Rating:
				return 1
			}
			return 0
		})
	case "name":
		slices.SortStableFunc(products, func(a, b Product) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		})
	}
}
