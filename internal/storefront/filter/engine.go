package filter

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/storefront-core/server/internal/storefront/model"
	logx "github.com/storefront-core/server/pkg/logger"
)

// Engine filters and orders a product list. It holds no per-call state and is safe for concurrent use.
type Engine struct {
	tag language.Tag
}

// NewEngine builds an engine whose name ordering follows the collation rules of
// the given BCP 47 tag. An invalid tag falls back to English.
func NewEngine(collation string) *Engine {
	tag, err := language.Parse(collation)
	if err != nil {
		logx.Warn().Err(err).Str("collation", collation).Msg("invalid collation tag, using en")
		tag = language.English
	}
	return &Engine{tag: tag}
}

// Apply returns the products matching query and spec, ordered by spec.SortBy.
// The input slice is never modified.
func (e *Engine) Apply(products []model.Product, query string, spec model.FilterSpec) []model.Product {
	out := make([]model.Product, 0, len(products))
	needle := strings.ToLower(query)

	for _, p := range products {
		if !matchesQuery(p, needle) {
			continue
		}
		if spec.Category != model.AllCategories && p.Category != spec.Category {
			continue
		}
		if !spec.PriceRange.Contains(p.Price) {
			continue
		}
		out = append(out, p)
	}

	e.sort(out, spec.SortBy)
	return out
}

func matchesQuery(p model.Product, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle)
}

func (e *Engine) sort(products []model.Product, key model.SortKey) {
	switch model.ParseSortKey(string(key)) {
	case model.SortByPriceLow:
		slices.SortStableFunc(products, func(a, b model.Product) int {
			return a.Price.Cmp(b.Price)
		})
	case model.SortByPriceHigh:
		slices.SortStableFunc(products, func(a, b model.Product) int {
			return b.Price.Cmp(a.Price)
		})
	case model.SortByRating:
		slices.SortStableFunc(products, func(a, b model.Product) int {
			return cmp.Compare(b.Rating, a.Rating)
		})
	default:
		// Collator keeps scratch buffers, so one per call.
		c := collate.New(e.tag)
		slices.SortStableFunc(products, func(a, b model.Product) int {
			return c.CompareString(a.Name, b.Name)
		})
	}
}
