package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/johdel/machinery/internal/order/domain"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrNotOwner          = errors.New("order belongs to another user")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// PersistenceError wraps repo failures so callers can surface a
// retryable message without inspecting driver errors.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("order persistence failed during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

type Service struct {
	repo OrderRepo
}

func NewService(repo OrderRepo) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, order domain.Order) (domain.Order, error) {
	order.Status = domain.StatusPending
	created, err := s.repo.Insert(ctx, order)
	if err != nil {
		return domain.Order{}, &PersistenceError{Op: "insert", Err: err}
	}
	return created, nil
}

// Update rewrites shipping/items/total of an existing order in place.
// The record keeps its id and status; ownership is checked first.
func (s *Service) Update(ctx context.Context, userID string, order domain.Order) (domain.Order, error) {
	existing, err := s.GetForUser(ctx, userID, order.ID)
	if err != nil {
		return domain.Order{}, err
	}

	order.UserID = existing.UserID
	order.Status = existing.Status
	updated, err := s.repo.Update(ctx, order)
	if err != nil {
		return domain.Order{}, &PersistenceError{Op: "update", Err: err}
	}
	return updated, nil
}

// GetForUser loads an order and enforces ownership. Admin reads go
// through Get instead.
func (s *Service) GetForUser(ctx context.Context, userID, id string) (domain.Order, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return domain.Order{}, ErrNotFound
		}
		return domain.Order{}, &PersistenceError{Op: "get", Err: err}
	}
	if order.UserID != userID {
		return domain.Order{}, ErrNotOwner
	}
	return order, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Order, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return domain.Order{}, ErrNotFound
		}
		return domain.Order{}, &PersistenceError{Op: "get", Err: err}
	}
	return order, nil
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]domain.Order, error) {
	orders, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, &PersistenceError{Op: "list", Err: err}
	}
	return orders, nil
}

func (s *Service) ListAll(ctx context.Context, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	orders, err := s.repo.ListAll(ctx, limit)
	if err != nil {
		return nil, &PersistenceError{Op: "list", Err: err}
	}
	return orders, nil
}

// Transition applies a guarded status change. Re-applying the current
// status succeeds without touching the repo, so repeated payment
// callbacks stay idempotent.
func (s *Service) Transition(ctx context.Context, id string, to domain.Status, paymentRef string) (domain.Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}

	if order.Status == to {
		return order, nil
	}
	if !domain.CanTransition(order.Status, to) {
		return domain.Order{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, to)
	}

	if err := s.repo.UpdateStatus(ctx, id, to, paymentRef); err != nil {
		return domain.Order{}, &PersistenceError{Op: "update status", Err: err}
	}

	order.Status = to
	if paymentRef != "" {
		order.PaymentReference = paymentRef
	}
	return order, nil
}

// MarkShipped is the fulfillment-side transition; only paid orders
// ship.
func (s *Service) MarkShipped(ctx context.Context, id string) (domain.Order, error) {
	return s.Transition(ctx, id, domain.StatusShipped, "")
}
