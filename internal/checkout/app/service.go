package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/johdel/machinery/internal/auth"
	"github.com/johdel/machinery/internal/checkout/domain"
	orderdomain "github.com/johdel/machinery/internal/order/domain"
)

var (
	ErrUnauthenticated = errors.New("checkout requires a signed-in user")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrAlreadyPaid     = errors.New("order is already paid")
	ErrPaymentGateway  = errors.New("payment gateway request failed")
)

// PaidButNotRecordedError means the provider confirmed the charge but
// updating the order failed. Money has moved: the caller must show a
// support-contact message and must not retry the charge.
type PaidButNotRecordedError struct {
	OrderID string
	Err     error
}

func (e *PaidButNotRecordedError) Error() string {
	return fmt.Sprintf("payment for order %s succeeded but recording it failed: %v", e.OrderID, e.Err)
}

func (e *PaidButNotRecordedError) Unwrap() error { return e.Err }

type Service struct {
	carts    Carts
	orders   Orders
	gateway  Gateway
	notifier FulfillmentNotifier
	pricer   Pricer
	currency string
	log      *slog.Logger

	now func() time.Time
}

func NewService(carts Carts, orders Orders, gateway Gateway, notifier FulfillmentNotifier, pricer Pricer, currency string, log *slog.Logger) *Service {
	return &Service{
		carts:    carts,
		orders:   orders,
		gateway:  gateway,
		notifier: notifier,
		pricer:   pricer,
		currency: currency,
		log:      log,
		now:      time.Now,
	}
}

// Quote prices the current cart for the given shipping method. Always
// computed fresh from the live cart.
func (s *Service) Quote(ctx context.Context, cartKey string, method orderdomain.ShippingMethod) (domain.Pricing, error) {
	cart, err := s.carts.Get(ctx, cartKey)
	if err != nil {
		return domain.Pricing{}, err
	}
	return s.pricer.Quote(cart, method), nil
}

// CreateOrUpdateOrder freezes the cart, shipping details and derived
// total into a pending order. With orderID set it rewrites that order
// in place (shipping edits before payment); otherwise it inserts a new
// one. The session must be present, otherwise ErrUnauthenticated.
func (s *Service) CreateOrUpdateOrder(ctx context.Context, sess *auth.Session, cartKey string, details domain.ShippingDetails, orderID string) (orderdomain.Order, error) {
	if sess == nil {
		return orderdomain.Order{}, ErrUnauthenticated
	}
	if err := ValidateShipping(details); err != nil {
		return orderdomain.Order{}, err
	}

	cart, err := s.carts.Get(ctx, cartKey)
	if err != nil {
		return orderdomain.Order{}, err
	}
	if cart.Size() == 0 {
		return orderdomain.Order{}, ErrEmptyCart
	}

	method := orderdomain.ShippingMethod(details.ShippingMethod)
	if method != orderdomain.ShippingExpress {
		method = orderdomain.ShippingStandard
	}
	pricing := s.pricer.Quote(cart, method)

	lines := make([]orderdomain.Line, 0, cart.Size())
	for _, it := range cart.Items {
		lines = append(lines, orderdomain.Line{
			ProductID:  it.ProductID,
			Name:       it.Name,
			UnitAmount: it.UnitAmount,
			Quantity:   it.Quantity,
			ImageURL:   it.ImageURL,
		})
	}

	order := orderdomain.Order{
		ID:        orderID,
		UserID:    sess.UserID,
		UserEmail: details.Email,
		ShippingAddress: orderdomain.ShippingAddress{
			FirstName:  details.FirstName,
			LastName:   details.LastName,
			Address:    details.Address,
			City:       details.City,
			PostalCode: details.PostalCode,
			Country:    details.Country,
		},
		Items:          lines,
		ShippingMethod: method,
		TotalAmount:    pricing.Total,
	}

	if orderID == "" {
		return s.orders.Create(ctx, order)
	}
	return s.orders.Update(ctx, sess.UserID, order)
}

// BeginPayment builds the widget initialization for a pending or
// cancelled order; a retry after an aborted attempt reuses the same
// order, and its success is recorded like any first attempt. A fresh
// reference is derived per attempt so retries never collide. An order
// already paid returns ErrAlreadyPaid so the caller can go straight to
// confirmation without re-invoking the widget.
func (s *Service) BeginPayment(ctx context.Context, sess *auth.Session, orderID string) (domain.PaymentSession, error) {
	if sess == nil {
		return domain.PaymentSession{}, ErrUnauthenticated
	}

	order, err := s.orders.GetForUser(ctx, sess.UserID, orderID)
	if err != nil {
		return domain.PaymentSession{}, err
	}
	if order.Status.Terminal() {
		return domain.PaymentSession{}, ErrAlreadyPaid
	}

	req := domain.PaymentRequest{
		Email:     order.UserEmail,
		Amount:    order.TotalAmount,
		Currency:  s.currency,
		Reference: fmt.Sprintf("ORD-%s-%d", order.ID, s.now().UnixMilli()),
		Metadata: map[string]string{
			"order_id": order.ID,
			"user_id":  order.UserID,
		},
	}

	session, err := s.gateway.Initialize(ctx, req)
	if err != nil {
		return domain.PaymentSession{}, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}
	return session, nil
}

// CompletePayment applies a widget outcome to the order. Duplicate
// callbacks are no-ops: once the order is paid, a repeat success
// changes nothing, clears nothing and persists nothing. On the first
// success the cart is cleared and fulfillment is notified; a persist
// failure after a confirmed charge surfaces PaidButNotRecordedError.
func (s *Service) CompletePayment(ctx context.Context, sess *auth.Session, cartKey, orderID string, outcome domain.PaymentOutcome) (orderdomain.Order, error) {
	if sess == nil {
		return orderdomain.Order{}, ErrUnauthenticated
	}

	order, err := s.orders.GetForUser(ctx, sess.UserID, orderID)
	if err != nil {
		return orderdomain.Order{}, err
	}

	updated, changed, err := s.apply(ctx, order, outcome)
	if err != nil {
		return orderdomain.Order{}, err
	}

	if changed && outcome.Kind == domain.OutcomeSuccess {
		if err := s.carts.Clear(ctx, cartKey); err != nil {
			s.log.Error("clearing cart after payment failed",
				slog.String("order_id", orderID), slog.Any("err", err))
		}
	}

	return updated, nil
}

// RecordVerifiedOutcome applies a provider-verified outcome without a
// shopper session, for webhook deliveries. The device cart cannot be
// reached from a webhook; the browser-side success callback clears it.
func (s *Service) RecordVerifiedOutcome(ctx context.Context, orderID string, outcome domain.PaymentOutcome) (orderdomain.Order, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return orderdomain.Order{}, err
	}

	updated, _, err := s.apply(ctx, order, outcome)
	return updated, err
}

func (s *Service) apply(ctx context.Context, order orderdomain.Order, outcome domain.PaymentOutcome) (orderdomain.Order, bool, error) {
	next, changed := ApplyPaymentOutcome(order.Status, outcome)
	if !changed {
		return order, false, nil
	}

	updated, err := s.orders.Transition(ctx, order.ID, next, outcome.Reference)
	if err != nil {
		if outcome.Kind == domain.OutcomeSuccess {
			return orderdomain.Order{}, false, &PaidButNotRecordedError{OrderID: order.ID, Err: err}
		}
		return orderdomain.Order{}, false, err
	}

	if outcome.Kind == domain.OutcomeSuccess && s.notifier != nil {
		if err := s.notifier.OrderPaid(ctx, updated); err != nil {
			s.log.Error("fulfillment notification failed",
				slog.String("order_id", order.ID), slog.Any("err", err))
		}
	}

	return updated, true, nil
}

// Resume decides where a revisit of a checkout URL should land: a paid
// order goes straight to confirmation, anything pending continues the
// checkout with its stored details.
func (s *Service) Resume(ctx context.Context, sess *auth.Session, orderID string) (orderdomain.Order, bool, error) {
	if sess == nil {
		return orderdomain.Order{}, false, ErrUnauthenticated
	}

	order, err := s.orders.GetForUser(ctx, sess.UserID, orderID)
	if err != nil {
		return orderdomain.Order{}, false, err
	}
	paid := order.Status == orderdomain.StatusPaid || order.Status == orderdomain.StatusShipped
	return order, paid, nil
}
