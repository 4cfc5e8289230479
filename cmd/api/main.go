package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/api/routes"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/internal/checkout"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/internal/discount"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/internal/payment"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/internal/transaction"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/internal/upstream"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/config"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/draft"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/logger"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/metrics"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/types"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	drafts, err := newDraftStore(context.Background(), cfg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap draft store", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	client := upstream.NewClient(cfg.Upstream, cfg.Breaker)

	discountService, err := discount.NewService(client, cfg.Checkout.DiscountLockOnApply)
	if err != nil {
		logg.Error(context.Background(), "failed to create discount service", err)
		os.Exit(1)
	}

	submitter, err := transaction.NewSubmitter(client, checkoutMetrics, func() {
		ctx := logg.WithField(context.Background(), "login_url", cfg.Checkout.LoginURL)
		logg.Warn(ctx, "session expired during submission, client must re-authenticate")
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create submitter", err)
		os.Exit(1)
	}

	manager, err := checkout.NewManager(checkout.Deps{
		Profile:   client,
		Locations: client,
		Shipping:  client,
		Discount:  discountService,
		Submitter: submitter,
		Drafts:    drafts,
		Payment:   payment.NewValidator(),
		Tax: types.TaxSettings{
			Enabled:          cfg.Tax.Enabled,
			PriceIncludesTax: cfg.Tax.PriceIncludesTax,
			Rate:             cfg.Tax.NormalizedRate(),
		},
		Metrics:           checkoutMetrics,
		Logger:            logg,
		ShippingPageLimit: cfg.Checkout.ShippingPageLimit,
	}, cfg.Checkout.SessionTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout manager", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":           cfg.App.Env,
		"addr":          addr,
		"draft_backend": cfg.Draft.Backend,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, manager, client, registry),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func newDraftStore(ctx context.Context, cfg *config.Config) (draft.Store, error) {
	switch cfg.Draft.Backend {
	case config.DraftBackendRedis:
		return draft.NewRedisStore(ctx, cfg.Redis, cfg.Checkout.SessionTTL)
	case config.DraftBackendSQLite:
		return draft.NewSQLiteStore(cfg.Draft.SQLitePath)
	}
	return draft.NewMemoryStore(), nil
}
