package mockapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront-core/server/internal/storefront/api"
	"github.com/storefront-core/server/internal/storefront/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) (*Handler, *httptest.Server) {
	t.Helper()
	h := NewHandler(SampleProducts(), SampleCategories())
	srv := httptest.NewServer(NewRouter(h, "/api"))
	t.Cleanup(srv.Close)
	return h, srv
}

func TestListProducts_ServerSideFilters(t *testing.T) {
	_, srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/products?category_id=2&max_price=100&sort_by=price-low")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	// Espresso Machine is over budget. Mystery Box has no numeric price and
	// is served unfiltered, sorting as zero.
	ids := []float64{}
	for _, p := range body {
		ids = append(ids, p["id"].(float64))
	}
	assert.Equal(t, []float64{7, 4}, ids)
	assert.Equal(t, "35", body[1]["price"])
}

func TestListProducts_BadParams(t *testing.T) {
	_, srv := newTestServer(t)

	for _, q := range []string{"category_id=x", "min_price=abc"} {
		resp, err := http.Get(srv.URL + "/api/products?" + q)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
	}
}

func TestClientAgainstMockAPI(t *testing.T) {
	h, srv := newTestServer(t)
	client := api.NewClient(model.APIConfig{BaseURL: srv.URL + "/api"}, srv.Client())
	ctx := context.Background()

	products, err := client.ListProducts(ctx, model.ProductQuery{SortBy: "rating"})
	require.NoError(t, err)
	// Mystery Box is rejected at the parse boundary.
	require.Len(t, products, 6)
	assert.Equal(t, 3, products[0].ID)
	assert.True(t, products[1].Price.Equal(decimal.RequireFromString("199.99")))

	categories, err := client.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 3)

	coupon := "WELCOME"
	resp, err := client.SubmitOrder(ctx, model.OrderPayload{
		CustomerName:    "Ada",
		CustomerEmail:   "ada@example.com",
		ShippingAddress: "1 Main St",
		ShippingCity:    "Springfield",
		ShippingState:   "IL",
		ShippingCountry: "US",
		ShippingZipCode: "62701",
		Subtotal:        model.NewMoney(decimal.NewFromInt(35)),
		CouponCode:      &coupon,
		Items: []model.OrderItem{{
			ProductID: 4, Quantity: 1, UnitPrice: model.NewMoney(decimal.NewFromInt(35)), ProductName: "Desk Lamp",
		}},
	}, "idem-1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.OrderNumber, "ORD-"))

	orders := h.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, "WELCOME", *orders[0].CouponCode)
	assert.True(t, orders[0].Subtotal.Equal(decimal.NewFromInt(35)))
}

func TestCreateOrder_Validation(t *testing.T) {
	h, srv := newTestServer(t)
	client := api.NewClient(model.APIConfig{BaseURL: srv.URL + "/api"}, srv.Client())

	_, err := client.SubmitOrder(context.Background(), model.OrderPayload{CustomerName: "Ada"}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid order")
	assert.Empty(t, h.Orders())
}

func TestListProducts_Envelope(t *testing.T) {
	_, srv := newTestServer(t)

	products, _, err := api.ParseProducts(mustGet(t, srv.URL+"/api/products?envelope=1"))
	require.NoError(t, err)
	assert.Len(t, products, 6)
}

func mustGet(t *testing.T, url string) []byte {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	var raw json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	return raw
}
