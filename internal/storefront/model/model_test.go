package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		in       string
		expected SortKey
	}{
		{"name", SortByName},
		{"price-low", SortByPriceLow},
		{"PRICE-HIGH", SortByPriceHigh},
		{"rating", SortByRating},
		{"newest", SortByName},
		{"", SortByName},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseSortKey(tt.in))
		})
	}
}

func TestPriceRange_ContainsIsInclusive(t *testing.T) {
	r := PriceRange{Min: decimal.NewFromInt(5), Max: decimal.NewFromInt(10)}

	assert.True(t, r.Contains(decimal.NewFromInt(5)))
	assert.True(t, r.Contains(decimal.NewFromInt(10)))
	assert.True(t, r.Contains(decimal.RequireFromString("7.5")))
	assert.False(t, r.Contains(decimal.RequireFromString("4.99")))
	assert.False(t, r.Contains(decimal.RequireFromString("10.01")))
}

func TestMoney_JSONIsBareNumber(t *testing.T) {
	b, err := json.Marshal(struct {
		Total Money `json:"total"`
	}{Total: NewMoney(decimal.RequireFromString("12.5"))})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":12.50}`, string(b))

	var out struct {
		Total Money `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"total":"3.25"}`), &out))
	assert.True(t, out.Total.Decimal().Equal(decimal.RequireFromString("3.25")))
}

func TestCartLine_LineTotal(t *testing.T) {
	line := NewCartLine(Product{ID: 1, Name: "Mug", Price: decimal.RequireFromString("4.50")}, 3)
	assert.Equal(t, "13.5", line.LineTotal().String())
}

func TestProduct_Available(t *testing.T) {
	yes, no := true, false
	zero, five := 0, 5

	assert.True(t, Product{}.Available())
	assert.True(t, Product{InStock: &yes, StockCount: &five}.Available())
	assert.False(t, Product{InStock: &no}.Available())
	assert.False(t, Product{StockCount: &zero}.Available())
}
