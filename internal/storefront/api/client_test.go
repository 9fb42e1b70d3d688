package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errx "github.com/storefront-core/server/internal/core/error"
	"github.com/storefront-core/server/internal/storefront/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(model.APIConfig{BaseURL: srv.URL + "/api/", UserAgent: "test-agent"}, srv.Client()), srv
}

func TestClient_ListProductsSendsQuery(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		_, _ = io.WriteString(w, `[{"id": 1, "name": "Lamp", "price": "10"}]`)
	})

	categoryID := 3
	min, max := decimal.NewFromInt(5), decimal.RequireFromString("99.5")
	products, err := client.ListProducts(context.Background(), model.ProductQuery{
		CategoryID: &categoryID,
		MinPrice:   &min,
		MaxPrice:   &max,
		SortBy:     "price-low",
	})
	require.NoError(t, err)
	require.Len(t, products, 1)

	assert.Equal(t, "/api/products", gotPath)
	assert.Equal(t, map[string]string{
		"category_id": "3",
		"min_price":   "5",
		"max_price":   "99.5",
		"sort_by":     "price-low",
	}, gotQuery)
}

func TestClient_ListProductsOmitsUnsetParams(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		_, _ = io.WriteString(w, `{"data": []}`)
	})

	products, err := client.ListProducts(context.Background(), model.ProductQuery{})
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestClient_ListProductsErrors(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.ListProducts(context.Background(), model.ProductQuery{})
	assert.Error(t, err)

	_, err = client.ListCategories(context.Background())
	assert.Error(t, err)
}

func TestClient_ListAcceptsAny2xx(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNonAuthoritativeInfo)
		_, _ = io.WriteString(w, `{"data": [{"id": 1, "name": "Lamp", "price": 10}]}`)
	})

	products, err := client.ListProducts(context.Background(), model.ProductQuery{})
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestClient_ListCategories(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/categories", r.URL.Path)
		_, _ = io.WriteString(w, `[{"id": 1, "name": "Home"}]`)
	})

	categories, err := client.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Category{{ID: 1, Name: "Home"}}, categories)
}

func TestClient_SubmitOrderSuccess(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/orders", r.URL.Path)
		assert.Equal(t, "key-1", r.Header.Get("Idempotency-Key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Ada", body["customer_name"])
		assert.Equal(t, 20.0, body["subtotal"])
		assert.NotContains(t, body, "coupon_code")

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"order_number": "X123"}`)
	})

	resp, err := client.SubmitOrder(context.Background(), model.OrderPayload{
		CustomerName: "Ada",
		Subtotal:     model.NewMoney(decimal.NewFromInt(20)),
	}, "key-1")
	require.NoError(t, err)
	assert.Equal(t, "X123", resp.OrderNumber)
}

func TestClient_SubmitOrderFailures(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		code        errx.Code
		wantMessage string
	}{
		{"ServerMessage", http.StatusUnprocessableEntity, `{"message": "coupon expired"}`, errx.CodeOrderFailed, "coupon expired"},
		{"NoMessage", http.StatusInternalServerError, `oops`, errx.CodeOrderFailed, errx.OrderFailedMessage},
		{"SuccessWithoutOrderNumber", http.StatusOK, `{}`, errx.CodeOrderFailed, errx.OrderFailedMessage},
		{"NumericOrderNumberIsFine", http.StatusOK, `{"order_number": 77}`, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			resp, err := client.SubmitOrder(context.Background(), model.OrderPayload{}, "")
			if tt.code == "" {
				require.NoError(t, err)
				assert.Equal(t, "77", resp.OrderNumber)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.code, errx.CodeOf(err))
			assert.Equal(t, tt.wantMessage, errx.MessageOf(err))
		})
	}
}

func TestClient_SubmitOrderNetworkError(t *testing.T) {
	client, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	_, err := client.SubmitOrder(context.Background(), model.OrderPayload{}, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errx.ErrNetwork))
}
