package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	orderdomain "github.com/johdel/machinery/internal/order/domain"
)

type Publisher struct {
	pool      *ChannelPool
	queueName string
	log       *slog.Logger
}

func NewPublisher(pool *ChannelPool, queueName string, log *slog.Logger) *Publisher {
	return &Publisher{
		pool:      pool,
		queueName: queueName,
		log:       log,
	}
}

// OrderPaid publishes a paid order to the fulfillment queue. It
// satisfies the checkout service's FulfillmentNotifier port.
func (p *Publisher) OrderPaid(ctx context.Context, order orderdomain.Order) error {
	ch, err := p.pool.Get()
	if err != nil {
		return fmt.Errorf("failed to get channel from pool: %w", err)
	}
	defer p.pool.Put(ch)

	evt := OrderPaidEvent{
		OrderID:          order.ID,
		UserID:           order.UserID,
		UserEmail:        order.UserEmail,
		TotalAmount:      order.TotalAmount,
		PaymentReference: order.PaymentReference,
		PaidAt:           time.Now().UTC(),
	}
	for _, line := range order.Items {
		evt.Items = append(evt.Items, Item{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
		})
	}

	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = ch.PublishWithContext(pubCtx,
		"", p.queueName, false, false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("failed to publish order paid event: %w", err)
	}

	p.log.Info("published order paid event", slog.String("order_id", order.ID))
	return nil
}
