package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/storefront-core/server/internal/storefront/model"
)

type AddToCartInput struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity,omitempty"`
}

type RemoveFromCartInput struct {
	ProductID int `json:"product_id"`
}

type ChangeQuantityInput struct {
	ProductID int `json:"product_id"`
	Delta     int `json:"delta"`
}

type ViewCartInput struct{}

// CartOutput is returned by every cart tool so the caller always sees the resulting cart.
type CartOutput = model.CartSnapshot

var productIDParam = &schema.ParameterInfo{
	Type:     schema.Integer,
	Desc:     "Product ID obtained from search_product results.",
	Required: true,
}

func createAddToCartTool(deps Deps) tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolAddToCart,
			Desc: "Add a product to the cart. Adding a product that is already in the cart increases its quantity.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"product_id": productIDParam,
				"quantity": {
					Type: schema.Integer,
					Desc: "How many to add (default: 1).",
				},
			}),
		},
		func(ctx context.Context, in *AddToCartInput) (*CartOutput, error) {
			p, ok := deps.Catalog.Product(ctx, in.ProductID)
			if !ok {
				return nil, productNotFound(in.ProductID)
			}
			if in.Quantity == 0 {
				in.Quantity = 1
			}
			if in.Quantity < 0 {
				return nil, fmt.Errorf("quantity must be positive, got %d", in.Quantity)
			}
			// Stock limits are enforced here, not by the cart store.
			if !p.Available() {
				return nil, productUnavailable("product %d is out of stock", p.ID)
			}
			if p.StockCount != nil {
				have := 0
				if line, ok := deps.Cart.Line(p.ID); ok {
					have = line.Quantity
				}
				if have+in.Quantity > *p.StockCount {
					return nil, productUnavailable("only %d of product %d in stock", *p.StockCount, p.ID)
				}
			}

			deps.Cart.Add(p, in.Quantity)
			snap := deps.Cart.Snapshot()
			return &snap, nil
		},
	)
}

func createRemoveFromCartTool(deps Deps) tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolRemoveFromCart,
			Desc: "Remove a product line from the cart entirely. Removing a product that is not in the cart does nothing.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"product_id": productIDParam,
			}),
		},
		func(ctx context.Context, in *RemoveFromCartInput) (*CartOutput, error) {
			deps.Cart.Remove(in.ProductID)
			snap := deps.Cart.Snapshot()
			return &snap, nil
		},
	)
}

func createChangeQuantityTool(deps Deps) tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolChangeQuantity,
			Desc: "Change the quantity of a product already in the cart by delta. A result of zero or less removes the line.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"product_id": productIDParam,
				"delta": {
					Type:     schema.Integer,
					Desc:     "Amount to add (positive) or subtract (negative).",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *ChangeQuantityInput) (*CartOutput, error) {
			deps.Cart.ChangeQuantity(in.ProductID, in.Delta)
			snap := deps.Cart.Snapshot()
			return &snap, nil
		},
	)
}

func createViewCartTool(deps Deps) tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name:        ToolViewCart,
			Desc:        "Show the cart lines, total item count and subtotal.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
		func(ctx context.Context, in *ViewCartInput) (*CartOutput, error) {
			snap := deps.Cart.Snapshot()
			return &snap, nil
		},
	)
}
