package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
	"github.com/shopspring/decimal"

	"github.com/storefront-core/server/internal/storefront/model"
)

const (
	defaultMaxResults = 10
	maxMaxResults     = 20
)

// ===================================
// Search Product Tool
// ===================================

type SearchProductInput struct {
	Query      string   `json:"query"`
	Category   string   `json:"category,omitempty"`
	MinPrice   *float64 `json:"min_price,omitempty"`
	MaxPrice   *float64 `json:"max_price,omitempty"`
	SortBy     string   `json:"sort_by,omitempty"`
	MaxResults int      `json:"max_results,omitempty"`
}

type SearchProductOutput struct {
	Products []model.Product `json:"products"`
	Total    int             `json:"total"`
}

func createSearchProductTool(deps Deps) tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolSearchProduct,
			Desc: "Search the store catalog. Matches the query against product names and descriptions, optionally narrowed by category and price range, ordered by name, price-low, price-high or rating.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {
					Type: schema.String,
					Desc: "Search keywords matched case-insensitively against name and description. Empty matches every product.",
				},
				"category": {
					Type: schema.String,
					Desc: "Exact category name. Omit or use All for every category.",
				},
				"min_price": {
					Type: schema.Number,
					Desc: "Lowest price to include (inclusive).",
				},
				"max_price": {
					Type: schema.Number,
					Desc: "Highest price to include (inclusive).",
				},
				"sort_by": {
					Type: schema.String,
					Desc: "One of name, price-low, price-high, rating.",
					Enum: []string{string(model.SortByName), string(model.SortByPriceLow), string(model.SortByPriceHigh), string(model.SortByRating)},
				},
				"max_results": {
					Type: schema.Integer,
					Desc: "Maximum number of products to return (default: 10, max: 20)",
				},
			}),
		},
		func(ctx context.Context, in *SearchProductInput) (*SearchProductOutput, error) {
			spec := model.DefaultFilterSpec(deps.MaxPrice)
			if c := strings.TrimSpace(in.Category); c != "" {
				spec.Category = c
			}
			if in.MinPrice != nil {
				spec.PriceRange.Min = decimal.NewFromFloat(*in.MinPrice)
			}
			if in.MaxPrice != nil {
				spec.PriceRange.Max = decimal.NewFromFloat(*in.MaxPrice)
			}
			if spec.PriceRange.Min.GreaterThan(spec.PriceRange.Max) {
				return nil, fmt.Errorf("min_price %s is above max_price %s", spec.PriceRange.Min, spec.PriceRange.Max)
			}
			spec.SortBy = model.ParseSortKey(in.SortBy)

			limit := in.MaxResults
			if limit <= 0 {
				limit = defaultMaxResults
			}
			if limit > maxMaxResults {
				limit = maxMaxResults
			}

			matched := deps.Engine.Apply(deps.Catalog.Products(ctx, model.ProductQuery{}), in.Query, spec)
			total := len(matched)
			if len(matched) > limit {
				matched = matched[:limit]
			}

			return &SearchProductOutput{
				Products: matched,
				Total:    total,
			}, nil
		},
	)
}
