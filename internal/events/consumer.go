package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler processes one paid-order event. Returning an error requeues
// the delivery.
type Handler func(ctx context.Context, evt OrderPaidEvent) error

// Worker consumes fulfillment events from its own channel, one message
// at a time, with manual acks.
type Worker struct {
	id        int
	channel   *amqp.Channel
	queueName string
	handler   Handler
	log       *slog.Logger
}

func NewWorker(id int, conn *amqp.Connection, queueName string, handler Handler, log *slog.Logger) (*Worker, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel for worker %d: %w", id, err)
	}

	if err := ch.Qos(1, 0, false); err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to set QoS for worker %d: %w", id, err)
	}

	return &Worker{
		id:        id,
		channel:   ch,
		queueName: queueName,
		handler:   handler,
		log:       log.With(slog.Int("worker", id)),
	}, nil
}

// Run consumes until the context is cancelled or the channel closes.
func (w *Worker) Run(ctx context.Context) error {
	defer w.channel.Close()

	msgs, err := w.channel.Consume(
		w.queueName,
		fmt.Sprintf("fulfillment-worker-%d", w.id),
		false, false, false, false, nil,
	)
	if err != nil {
		return fmt.Errorf("worker %d failed to register consumer: %w", w.id, err)
	}

	w.log.Info("worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info("worker stopping")
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			w.process(ctx, msg)
		}
	}
}

func (w *Worker) process(ctx context.Context, msg amqp.Delivery) {
	var evt OrderPaidEvent
	if err := json.Unmarshal(msg.Body, &evt); err != nil {
		w.log.Error("malformed event, dropping", slog.Any("err", err))
		// Malformed payloads are not requeued.
		msg.Nack(false, false)
		return
	}

	if err := w.handler(ctx, evt); err != nil {
		w.log.Error("handling event failed, requeueing",
			slog.String("order_id", evt.OrderID), slog.Any("err", err))
		msg.Nack(false, true)
		return
	}

	msg.Ack(false)
}
