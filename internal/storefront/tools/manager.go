package tools

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"github.com/shopspring/decimal"

	errx "github.com/storefront-core/server/internal/core/error"
	"github.com/storefront-core/server/internal/storefront/cart"
	"github.com/storefront-core/server/internal/storefront/model"
)

const (
	ToolSearchProduct     = "search_product"
	ToolGetProductDetails = "get_product_details"
	ToolAddToCart         = "add_to_cart"
	ToolRemoveFromCart    = "remove_from_cart"
	ToolChangeQuantity    = "change_cart_quantity"
	ToolViewCart          = "view_cart"
)

// Catalog is the read side the tools need.
type Catalog interface {
	Products(ctx context.Context, q model.ProductQuery) []model.Product
	Product(ctx context.Context, id int) (model.Product, bool)
}

type Filter interface {
	Apply(products []model.Product, query string, spec model.FilterSpec) []model.Product
}

type Deps struct {
	Catalog  Catalog
	Engine   Filter
	Cart     *cart.Store
	MaxPrice decimal.Decimal
}

// GetQueryTools returns the read-only catalog tools.
func GetQueryTools(deps Deps) []tool.BaseTool {
	return []tool.BaseTool{
		createSearchProductTool(deps),
		createGetProductDetailsTool(deps),
	}
}

// GetCartTools returns the tools that read or mutate the cart.
func GetCartTools(deps Deps) []tool.BaseTool {
	return []tool.BaseTool{
		createAddToCartTool(deps),
		createRemoveFromCartTool(deps),
		createChangeQuantityTool(deps),
		createViewCartTool(deps),
	}
}

func GetAllTools(deps Deps) []tool.BaseTool {
	return append(GetQueryTools(deps), GetCartTools(deps)...)
}

func GetToolInfos(ctx context.Context, tools []tool.BaseTool) ([]*schema.ToolInfo, error) {
	infos := make([]*schema.ToolInfo, 0, len(tools))
	for _, t := range tools {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("tool info: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func productNotFound(id int) error {
	return errx.New(errx.CodeInvalidProduct, http.StatusNotFound, fmt.Sprintf("product not found: %d", id))
}

func productUnavailable(format string, args ...any) error {
	return errx.New(errx.CodeInvalidProduct, http.StatusConflict, fmt.Sprintf(format, args...))
}
