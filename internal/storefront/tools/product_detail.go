package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/storefront-core/server/internal/storefront/model"
)

type GetProductDetailsInput struct {
	ProductID int `json:"product_id"`
}

type GetProductDetailsOutput struct {
	model.Product
	Available bool `json:"available"`
	InCart    int  `json:"in_cart"`
}

func createGetProductDetailsTool(deps Deps) tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolGetProductDetails,
			Desc: "Get the full record for one product, including availability and how many are already in the cart. Use the id returned by search_product.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"product_id": {
					Type:     schema.Integer,
					Desc:     "Product ID obtained from search_product results.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *GetProductDetailsInput) (*GetProductDetailsOutput, error) {
			if in.ProductID <= 0 {
				return nil, fmt.Errorf("product_id is required")
			}

			p, ok := deps.Catalog.Product(ctx, in.ProductID)
			if !ok {
				return nil, productNotFound(in.ProductID)
			}

			out := &GetProductDetailsOutput{Product: p, Available: p.Available()}
			if line, ok := deps.Cart.Line(p.ID); ok {
				out.InCart = line.Quantity
			}
			return out, nil
		},
	)
}
