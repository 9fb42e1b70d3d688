package filter

import (
	"slices"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/storefront-core/server/internal/storefront/model"
)

func p(id int, name, category, price string, rating float64) model.Product {
	return model.Product{
		ID:          id,
		Name:        name,
		Category:    category,
		Price:       decimal.RequireFromString(price),
		Description: "A fine " + name,
		Rating:      rating,
	}
}

func spec(category string, min, max int64, sortBy model.SortKey) model.FilterSpec {
	return model.FilterSpec{
		Category:   category,
		PriceRange: model.PriceRange{Min: decimal.NewFromInt(min), Max: decimal.NewFromInt(max)},
		SortBy:     sortBy,
	}
}

func ids(products []model.Product) []int {
	out := make([]int, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

var catalog = []model.Product{
	p(1, "Wireless Headphones", "Electronics", "199.99", 4.5),
	p(2, "Running Shoes", "Sports", "89.50", 4.2),
	p(3, "espresso Machine", "Home", "349", 4.8),
	p(4, "Yoga Mat", "Sports", "25", 3.9),
	p(5, "Smart Watch", "Electronics", "249", 4.1),
}

func TestEngine_EmptyInput(t *testing.T) {
	e := NewEngine("en")
	for _, key := range []model.SortKey{model.SortByName, model.SortByPriceLow, model.SortByPriceHigh, model.SortByRating} {
		assert.Empty(t, e.Apply(nil, "anything", spec("Sports", 0, 10, key)))
		assert.Empty(t, e.Apply([]model.Product{}, "", spec(model.AllCategories, 0, 1000, key)))
	}
}

func TestEngine_Example(t *testing.T) {
	e := NewEngine("en")
	products := []model.Product{
		{ID: 1, Price: decimal.NewFromInt(10)},
		{ID: 2, Price: decimal.NewFromInt(5)},
	}

	got := e.Apply(products, "", spec(model.AllCategories, 0, 100, model.SortByPriceLow))
	assert.Equal(t, []int{2, 1}, ids(got))
}

func TestEngine_Filters(t *testing.T) {
	e := NewEngine("en")
	tests := []struct {
		name     string
		query    string
		spec     model.FilterSpec
		expected []int
	}{
		{"AllCategories", "", spec(model.AllCategories, 0, 1000, model.SortByPriceLow), []int{4, 2, 1, 5, 3}},
		{"Category", "", spec("Sports", 0, 1000, model.SortByPriceLow), []int{4, 2}},
		{"CategoryIsCaseSensitive", "", spec("sports", 0, 1000, model.SortByPriceLow), []int{}},
		{"QueryMatchesNameCaseInsensitive", "WATCH", spec(model.AllCategories, 0, 1000, model.SortByName), []int{5}},
		{"QueryMatchesDescription", "fine running", spec(model.AllCategories, 0, 1000, model.SortByName), []int{2}},
		{"PriceBoundsInclusive", "", spec(model.AllCategories, 25, 249, model.SortByPriceLow), []int{4, 2, 1, 5}},
		{"Combined", "s", spec("Electronics", 200, 300, model.SortByName), []int{5}},
		{"QueryKeepsLeadingSpace", " shoes", spec(model.AllCategories, 0, 1000, model.SortByName), []int{2}},
		{"QueryKeepsTrailingSpace", "shoes ", spec(model.AllCategories, 0, 1000, model.SortByName), []int{}},
		{"NoMatch", "toaster", spec(model.AllCategories, 0, 1000, model.SortByName), []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ids(e.Apply(catalog, tt.query, tt.spec)))
		})
	}
}

func TestEngine_Sorts(t *testing.T) {
	e := NewEngine("en")
	tests := []struct {
		key      model.SortKey
		expected []int
	}{
		{model.SortByName, []int{3, 2, 5, 1, 4}},
		{model.SortByPriceLow, []int{4, 2, 1, 5, 3}},
		{model.SortByPriceHigh, []int{3, 5, 1, 2, 4}},
		{model.SortByRating, []int{3, 1, 2, 5, 4}},
		{"unknown", []int{3, 2, 5, 1, 4}},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			got := e.Apply(catalog, "", spec(model.AllCategories, 0, 1000, tt.key))
			assert.Equal(t, tt.expected, ids(got))
		})
	}
}

func TestEngine_PriceLowIsReverseOfPriceHigh(t *testing.T) {
	e := NewEngine("en")
	low := ids(e.Apply(catalog, "", spec(model.AllCategories, 0, 1000, model.SortByPriceLow)))
	high := ids(e.Apply(catalog, "", spec(model.AllCategories, 0, 1000, model.SortByPriceHigh)))

	slices.Reverse(high)
	assert.Equal(t, low, high)
}

func TestEngine_AllCategoryMatchesUnconstrainedSet(t *testing.T) {
	e := NewEngine("en")
	all := e.Apply(catalog, "e", spec(model.AllCategories, 20, 300, model.SortByName))

	var union []model.Product
	for _, c := range []string{"Electronics", "Sports", "Home"} {
		union = append(union, e.Apply(catalog, "e", spec(c, 20, 300, model.SortByName))...)
	}

	assert.ElementsMatch(t, ids(all), ids(union))
}

func TestEngine_StableOnTies(t *testing.T) {
	e := NewEngine("en")
	products := []model.Product{
		p(1, "A", "X", "10", 4),
		p(2, "B", "X", "10", 4),
		p(3, "C", "X", "10", 4),
	}

	assert.Equal(t, []int{1, 2, 3}, ids(e.Apply(products, "", spec(model.AllCategories, 0, 100, model.SortByPriceHigh))))
	assert.Equal(t, []int{1, 2, 3}, ids(e.Apply(products, "", spec(model.AllCategories, 0, 100, model.SortByRating))))
}

func TestEngine_DoesNotMutateInput(t *testing.T) {
	e := NewEngine("en")
	input := slices.Clone(catalog)

	_ = e.Apply(input, "", spec(model.AllCategories, 0, 1000, model.SortByPriceHigh))

	assert.Equal(t, ids(catalog), ids(input))
}

func TestNewEngine_InvalidCollationFallsBack(t *testing.T) {
	e := NewEngine("not a tag!!")
	got := e.Apply(catalog, "", spec(model.AllCategories, 0, 1000, model.SortByName))
	assert.Equal(t, []int{3, 2, 5, 1, 4}, ids(got))
}
