package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/sync/errgroup"

	"github.com/johdel/machinery/internal/events"
	orderapp "github.com/johdel/machinery/internal/order/app"
	orderpg "github.com/johdel/machinery/internal/order/infra/postgres"
	"github.com/johdel/machinery/pkg/config"
	"github.com/johdel/machinery/pkg/logger"
	"github.com/johdel/machinery/pkg/shutdown"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Service:   "fulfillment",
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

	orders := orderapp.NewService(orderpg.NewOrderRepo(pool))

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Error("rabbitmq connect failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer conn.Close()

	// Declare up front so the consumer can start before the first
	// publish.
	setup, err := conn.Channel()
	if err != nil {
		log.Error("channel open failed", slog.Any("err", err))
		os.Exit(1)
	}
	if _, err := setup.QueueDeclare(cfg.FulfillmentQueue, true, false, false, false, nil); err != nil {
		log.Error("queue declare failed", slog.Any("err", err))
		os.Exit(1)
	}
	setup.Close()

	handler := func(ctx context.Context, evt events.OrderPaidEvent) error {
		order, err := orders.MarkShipped(ctx, evt.OrderID)
		if err != nil {
			// Orders already shipped (or gone) will never succeed on
			// retry; drop them instead of requeueing forever.
			if errors.Is(err, orderapp.ErrInvalidTransition) || errors.Is(err, orderapp.ErrNotFound) {
				log.Warn("skipping unshippable order",
					slog.String("order_id", evt.OrderID), slog.Any("err", err))
				return nil
			}
			return err
		}
		log.Info("order shipped",
			slog.String("order_id", order.ID),
			slog.String("user_email", order.UserEmail))
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < cfg.ConsumerWorkers; i++ {
		worker, err := events.NewWorker(i, conn, cfg.FulfillmentQueue, handler, log)
		if err != nil {
			log.Error("worker init failed", slog.Int("worker", i), slog.Any("err", err))
			os.Exit(1)
		}
		g.Go(func() error { return worker.Run(gctx) })
	}

	log.Info("fulfillment consumer running",
		slog.String("queue", cfg.FulfillmentQueue),
		slog.Int("workers", cfg.ConsumerWorkers))

	if err := g.Wait(); err != nil {
		log.Error("consumer stopped with error", slog.Any("err", err))
		os.Exit(1)
	}
	log.Info("bye")
}
