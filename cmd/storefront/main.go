package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/johdel/machinery/internal/auth/infra/gotrue"
	authpg "github.com/johdel/machinery/internal/auth/infra/postgres"
	cartapp "github.com/johdel/machinery/internal/cart/app"
	"github.com/johdel/machinery/internal/cart/infra/bolt"
	catalogapp "github.com/johdel/machinery/internal/catalog/app"
	catalogpg "github.com/johdel/machinery/internal/catalog/infra/postgres"
	checkoutapp "github.com/johdel/machinery/internal/checkout/app"
	"github.com/johdel/machinery/internal/checkout/infra/paystack"
	"github.com/johdel/machinery/internal/events"
	"github.com/johdel/machinery/internal/httpapi"
	orderapp "github.com/johdel/machinery/internal/order/app"
	orderpg "github.com/johdel/machinery/internal/order/infra/postgres"
	"github.com/johdel/machinery/internal/storage"
	"github.com/johdel/machinery/pkg/config"
	"github.com/johdel/machinery/pkg/logger"
	"github.com/johdel/machinery/pkg/shutdown"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Service:   "storefront",
		Env:       cfg.AppEnv,
		Level:     cfg.LogLevel,
		AddSource: true,
	})

	root := context.Background()
	ctx, cancel := shutdown.WithSignals(root)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Error("postgres pool init failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer pool.Close()

	cartStore, err := bolt.Open(cfg.CartDBPath)
	if err != nil {
		log.Error("cart store open failed",
			slog.String("path", cfg.CartDBPath), slog.Any("err", err))
		os.Exit(1)
	}
	defer cartStore.Close()

	authClient := gotrue.NewClient(cfg.AuthBaseURL, cfg.AuthAnonKey)
	profiles := authpg.NewProfileRepo(pool)

	carts := cartapp.NewService(cartStore, log)
	catalog := catalogapp.NewService(catalogpg.NewProductRepo(pool))
	orders := orderapp.NewService(orderpg.NewOrderRepo(pool))

	gateway := paystack.NewClient(cfg.PaystackBaseURL, cfg.PaystackSecretKey, cfg.PaystackPublicKey)
	uploader := storage.NewHTTPUploader(cfg.StorageBaseURL, cfg.StorageBucket, cfg.AuthAnonKey)

	// The broker is optional in dev; without it, paid orders simply
	// skip the fulfillment queue.
	var notifier checkoutapp.FulfillmentNotifier
	chanPool, err := events.NewChannelPool(cfg.RabbitMQURL, cfg.FulfillmentQueue, cfg.ChannelPoolSize)
	if err != nil {
		log.Warn("fulfillment broker unavailable, continuing without it", slog.Any("err", err))
	} else {
		defer chanPool.Close()
		notifier = events.NewPublisher(chanPool, cfg.FulfillmentQueue, log)
	}

	pricer := checkoutapp.NewPricer(cfg.ShippingStandardFee, cfg.ShippingExpressFee, cfg.TaxBasisPoints)
	checkout := checkoutapp.NewService(carts, orders, gateway, notifier, pricer, cfg.Currency, log)

	router := httpapi.NewRouter(httpapi.Handlers{
		Auth:     httpapi.NewAuthHandler(authClient),
		Products: httpapi.NewProductHandler(catalog),
		Cart:     httpapi.NewCartHandler(carts, catalog),
		Checkout: httpapi.NewCheckoutHandler(checkout),
		Orders:   httpapi.NewOrderHandler(orders),
		Admin:    httpapi.NewAdminHandler(catalog, orders, profiles, uploader),
		Webhook:  httpapi.NewWebhookHandler(checkout, gateway, log),
	}, authClient, profiles, log)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("http server starting", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", slog.Any("err", err))
	}

	wg.Wait()
	log.Info("bye")
}
