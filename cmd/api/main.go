package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/denovbaraka/storefront-backend/api/routes"
	"github.com/denovbaraka/storefront-backend/internal/cart"
	"github.com/denovbaraka/storefront-backend/internal/catalog"
	"github.com/denovbaraka/storefront-backend/internal/orders"
	"github.com/denovbaraka/storefront-backend/internal/remote"
	storesync "github.com/denovbaraka/storefront-backend/internal/sync"
	"github.com/denovbaraka/storefront-backend/internal/telegram"
	"github.com/denovbaraka/storefront-backend/pkg/config"
	"github.com/denovbaraka/storefront-backend/pkg/localstore"
	"github.com/denovbaraka/storefront-backend/pkg/logger"
	"github.com/denovbaraka/storefront-backend/pkg/redis"
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
	})

	store, err := localstore.Open(context.Background(), cfg.LocalStore, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to open local store", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logg.Error(context.Background(), "error closing local store", err)
		}
	}()

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		redisClient, err = redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, checkout idempotency guard disabled")
	}

	remoteClient, err := remote.NewClient(cfg.Remote)
	if err != nil {
		logg.Error(context.Background(), "failed to build remote client", err)
		os.Exit(1)
	}

	productStore := storesync.NewProductStore(remoteClient, store, logg)
	orderStore := storesync.NewOrderStore(remoteClient, store, logg)

	dispatcher := telegram.NewDispatcher(cfg.Telegram, cfg.Cart.DeliveryFee, logg)
	if !cfg.Telegram.Enabled() {
		logg.Warn(context.Background(), "telegram not configured, notifications disabled")
	}

	catalogService, err := catalog.NewService(productStore, dispatcher, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartEngine := cart.NewEngine(cart.Pricing{
		FreeDeliveryThreshold: cfg.Cart.FreeDeliveryThreshold,
		DeliveryFee:           cfg.Cart.DeliveryFee,
	}, store, logg)
	if err := cartEngine.Load(context.Background()); err != nil {
		logg.Error(context.Background(), "failed to load persisted cart", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orderStore, cartEngine, dispatcher, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, store, redisClient, cartEngine, catalogService, orderService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
