package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/storefront-core/server/internal/core"
	errx "github.com/storefront-core/server/internal/core/error"
	"github.com/storefront-core/server/internal/mockapi"
	"github.com/storefront-core/server/internal/storefront/api"
	"github.com/storefront-core/server/internal/storefront/assistant"
	"github.com/storefront-core/server/internal/storefront/cart"
	"github.com/storefront-core/server/internal/storefront/catalog"
	"github.com/storefront-core/server/internal/storefront/checkout"
	"github.com/storefront-core/server/internal/storefront/filter"
	"github.com/storefront-core/server/internal/storefront/model"
	"github.com/storefront-core/server/internal/storefront/tools"
	"github.com/storefront-core/server/pkg/httpclient"
	logx "github.com/storefront-core/server/pkg/logger"
	pkgredis "github.com/storefront-core/server/pkg/redis"
)

// AppConfig defines all configurable parameters of the storefront demo,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Env string `envconfig:"APP_ENV" default:"development"`

	// Infrastructure
	Redis pkgredis.Config
	HTTP  httpclient.Config `envconfig:"API"`

	// Storefront
	API       model.APIConfig
	Catalog   model.CatalogConfig
	Filter    model.FilterConfig
	Checkout  model.CheckoutConfig
	Assistant model.AssistantConfig
	MockAPI   model.MockAPIConfig
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	env := core.ParseEnvironment(cfg.Env)
	logx.Init(logx.LoggerOpts{Environment: env})
	logx.Info().Str("env", env.String()).Str("api", cfg.API.BaseURL).Msg("starting storefront core")

	if cfg.MockAPI.Enabled {
		shutdown, err := startMockAPI(cfg.MockAPI, env)
		if err != nil {
			logx.Fatal().Err(err).Str("addr", cfg.MockAPI.Addr).Msg("Failed to start mock api")
		}
		defer shutdown()
	}

	client := api.NewClient(cfg.API, cfg.HTTP.New())

	var cache model.CatalogCache
	if cfg.Redis.Enabled {
		rdb, err := cfg.Redis.New()
		if err != nil {
			logx.Fatal().Err(err).Msg("Failed to initialise Redis client")
		}
		defer rdb.Close()

		ttl, err := time.ParseDuration(cfg.Catalog.CacheTTL)
		if err != nil {
			logx.Fatal().Err(err).Str("ttl", cfg.Catalog.CacheTTL).Msg("Invalid CATALOG_CACHE_TTL")
		}
		cache = catalog.NewRedisCache(rdb, ttl, cfg.Catalog.KeyPrefix)
		logx.Info().Dur("ttl", ttl).Msg("catalog cache enabled")
	}

	svc := catalog.NewService(client, cache)
	engine := filter.NewEngine(cfg.Filter.Collation)
	store := cart.NewStore()

	unsubscribe := store.Subscribe(func(snap model.CartSnapshot) {
		logx.Info().
			Int("lines", len(snap.Lines)).
			Int("items", snap.ItemCount).
			Str("subtotal", snap.Subtotal.StringFixed(2)).
			Msg("cart updated")
	})
	defer unsubscribe()

	if err := browse(ctx, svc, engine, cfg.Filter); err != nil {
		logx.Error().Err(err).Msg("browse failed")
	}

	runner, err := assistant.NewRunner(ctx, assistant.Config{
		Tools: tools.GetAllTools(tools.Deps{
			Catalog:  svc,
			Engine:   engine,
			Cart:     store,
			MaxPrice: cfg.Filter.MaxPrice,
		}),
		MaxCalls: cfg.Assistant.Tools.MaxCalls,
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to build assistant runner")
	}

	results, err := runner.Execute(ctx, []schema.ToolCall{
		{Function: schema.FunctionCall{Name: tools.ToolSearchProduct, Arguments: `{"query": "", "sort_by": "rating", "max_results": 3}`}},
		{Function: schema.FunctionCall{Name: tools.ToolAddToCart, Arguments: `{"product_id": 1, "quantity": 2}`}},
		{Function: schema.FunctionCall{Name: tools.ToolAddToCart, Arguments: `{"product_id": 5}`}},
		{Function: schema.FunctionCall{Name: tools.ToolChangeQuantity, Arguments: `{"product_id": 1, "delta": -1}`}},
		{Function: schema.FunctionCall{Name: tools.ToolViewCart}},
	})
	if err != nil {
		logx.Error().Err(err).Msg("Failed to run assistant tool calls")
	}
	for _, r := range results {
		logx.Debug().Str("tool", r.Name).Str("call_id", r.CallID).Str("content", r.Content).Msg("tool result")
	}

	submitter := checkout.NewSubmitter(store, client, cfg.Checkout,
		checkout.WithOnSuccess(func(res model.OrderResult) {
			logx.Info().Str("order_number", res.OrderNumber).Str("total", res.Total.StringFixed(2)).Msg("order confirmed")
		}),
	)

	_, err = submitter.Submit(ctx, model.CheckoutForm{
		Name:           "Ada Lovelace",
		Email:          "ada@example.com",
		Address:        "12 Analytical Row",
		City:           "London",
		State:          "Greater London",
		Country:        "UK",
		ZipCode:        "N1 9GU",
		DeliveryMethod: "standard",
		PaymentMethod:  "card",
	})
	if err != nil {
		logx.Error().Err(err).Str("code", string(errx.CodeOf(err))).Str("message", errx.MessageOf(err)).Msg("checkout failed")
	}
}

// browse lists categories and the top rated products within the configured
// price ceiling.
func browse(ctx context.Context, svc *catalog.Service, engine *filter.Engine, cfg model.FilterConfig) error {
	categories := svc.Categories(ctx)
	products := svc.Products(ctx, model.ProductQuery{})
	if len(products) == 0 {
		return errors.New("catalog is empty")
	}

	spec := model.DefaultFilterSpec(cfg.MaxPrice)
	spec.SortBy = model.SortByRating
	visible := engine.Apply(products, "", spec)

	logx.Info().
		Int("categories", len(categories)).
		Int("products", len(products)).
		Int("visible", len(visible)).
		Msg("catalog loaded")
	for _, p := range visible {
		logx.Debug().Int("id", p.ID).Str("name", p.Name).Str("price", p.Price.StringFixed(2)).Float64("rating", p.Rating).Msg("product")
	}
	return nil
}

func startMockAPI(cfg model.MockAPIConfig, env core.Environment) (func(), error) {
	if env.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, err
	}

	h := mockapi.NewHandler(mockapi.SampleProducts(), mockapi.SampleCategories())
	srv := &http.Server{
		Handler:           mockapi.NewRouter(h, "/api"),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Error().Err(err).Msg("mock api stopped")
		}
	}()
	logx.Info().Str("addr", ln.Addr().String()).Msg("mock api listening")

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logx.Warn().Err(err).Msg("mock api shutdown")
		}
	}, nil
}
