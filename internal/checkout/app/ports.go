package app

import (
	"context"

	cartdomain "github.com/johdel/machinery/internal/cart/domain"
	"github.com/johdel/machinery/internal/checkout/domain"
	orderdomain "github.com/johdel/machinery/internal/order/domain"
)

type Carts interface {
	Get(ctx context.Context, key string) (cartdomain.Cart, error)
	Clear(ctx context.Context, key string) error
}

type Orders interface {
	Create(ctx context.Context, order orderdomain.Order) (orderdomain.Order, error)
	Update(ctx context.Context, userID string, order orderdomain.Order) (orderdomain.Order, error)
	GetForUser(ctx context.Context, userID, id string) (orderdomain.Order, error)
	Get(ctx context.Context, id string) (orderdomain.Order, error)
	Transition(ctx context.Context, id string, to orderdomain.Status, paymentRef string) (orderdomain.Order, error)
}

// Gateway initializes a hosted payment session with the provider.
type Gateway interface {
	Initialize(ctx context.Context, req domain.PaymentRequest) (domain.PaymentSession, error)
}

// FulfillmentNotifier hands paid orders to the fulfillment pipeline.
type FulfillmentNotifier interface {
	OrderPaid(ctx context.Context, order orderdomain.Order) error
}
