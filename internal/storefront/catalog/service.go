package catalog

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/storefront-core/server/internal/storefront/model"
	logx "github.com/storefront-core/server/pkg/logger"
)

// Service serves product and category listings. Fetch failures degrade to an
// empty listing; they are logged, never returned.
type Service struct {
	source model.CatalogSource
	cache  model.CatalogCache
	group  singleflight.Group
}

// NewService builds a catalog service. cache may be nil.
func NewService(source model.CatalogSource, cache model.CatalogCache) *Service {
	return &Service{source: source, cache: cache}
}

func (s *Service) Products(ctx context.Context, q model.ProductQuery) []model.Product {
	key := QueryKey(q)

	if s.cache != nil {
		products, found, err := s.cache.GetProducts(ctx, key)
		if err != nil {
			logx.Warn().Err(err).Str("key", key).Msg("catalog cache read failed, fetching from api")
		} else if found {
			logx.Debug().Str("key", key).Int("count", len(products)).Msg("catalog cache hit")
			return products
		}
	}

	// The shared fetch outlives any one caller's cancellation.
	fetchCtx := context.WithoutCancel(ctx)
	v, err, shared := s.group.Do("products:"+key, func() (any, error) {
		products, err := s.source.ListProducts(fetchCtx, q)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.SetProducts(fetchCtx, key, products); err != nil {
				logx.Warn().Err(err).Str("key", key).Msg("failed to cache product listing")
			}
		}
		return products, nil
	})
	if err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to fetch products, returning empty listing")
		return []model.Product{}
	}

	products := v.([]model.Product)
	if shared {
		return slices.Clone(products)
	}
	return products
}

func (s *Service) Categories(ctx context.Context) []model.Category {
	if s.cache != nil {
		categories, found, err := s.cache.GetCategories(ctx)
		if err != nil {
			logx.Warn().Err(err).Msg("category cache read failed, fetching from api")
		} else if found {
			return categories
		}
	}

	fetchCtx := context.WithoutCancel(ctx)
	v, err, shared := s.group.Do("categories", func() (any, error) {
		categories, err := s.source.ListCategories(fetchCtx)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.SetCategories(fetchCtx, categories); err != nil {
				logx.Warn().Err(err).Msg("failed to cache category listing")
			}
		}
		return categories, nil
	})
	if err != nil {
		logx.Error().Err(err).Msg("failed to fetch categories, returning empty listing")
		return []model.Category{}
	}

	categories := v.([]model.Category)
	if shared {
		return slices.Clone(categories)
	}
	return categories
}

// Product looks id up in the unfiltered listing.
func (s *Service) Product(ctx context.Context, id int) (model.Product, bool) {
	for _, p := range s.Products(ctx, model.ProductQuery{}) {
		if p.ID == id {
			return p, true
		}
	}
	return model.Product{}, false
}

// Invalidate drops every cached listing. Without a cache it does nothing.
func (s *Service) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx)
}

// QueryKey renders q as a stable cache key.
func QueryKey(q model.ProductQuery) string {
	parts := make([]string, 0, 4)
	if q.CategoryID != nil {
		parts = append(parts, "cat="+strconv.Itoa(*q.CategoryID))
	}
	if q.MinPrice != nil {
		parts = append(parts, "min="+q.MinPrice.String())
	}
	if q.MaxPrice != nil {
		parts = append(parts, "max="+q.MaxPrice.String())
	}
	if q.SortBy != "" {
		parts = append(parts, "sort="+q.SortBy)
	}
	if len(parts) == 0 {
		return "all"
	}
	return strings.Join(parts, "&")
}
