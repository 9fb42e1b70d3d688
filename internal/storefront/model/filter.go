package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AllCategories disables the category constraint.
const AllCategories = "All"

type SortKey string

const (
	SortByName      SortKey = "name"
	SortByPriceLow  SortKey = "price-low"
	SortByPriceHigh SortKey = "price-high"
	SortByRating    SortKey = "rating"
)

// ParseSortKey maps unknown values to SortByName.
func ParseSortKey(v string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(v))) {
	case SortByPriceLow:
		return SortByPriceLow
	case SortByPriceHigh:
		return SortByPriceHigh
	case SortByRating:
		return SortByRating
	default:
		return SortByName
	}
}

type PriceRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// Contains is inclusive on both bounds.
func (r PriceRange) Contains(price decimal.Decimal) bool {
	return price.GreaterThanOrEqual(r.Min) && price.LessThanOrEqual(r.Max)
}

type FilterSpec struct {
	Category   string     `json:"category"`
	PriceRange PriceRange `json:"price_range"`
	SortBy     SortKey    `json:"sort_by"`
}

func DefaultFilterSpec(maxPrice decimal.Decimal) FilterSpec {
	return FilterSpec{
		Category:   AllCategories,
		PriceRange: PriceRange{Min: decimal.Zero, Max: maxPrice},
		SortBy:     SortByName,
	}
}
