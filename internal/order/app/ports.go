package app

import (
	"context"

	"github.com/johdel/machinery/internal/order/domain"
)

type OrderRepo interface {
	Insert(ctx context.Context, order domain.Order) (domain.Order, error)
	Update(ctx context.Context, order domain.Order) (domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status, paymentRef string) error
	Get(ctx context.Context, id string) (domain.Order, error)
	ListForUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListAll(ctx context.Context, limit int) ([]domain.Order, error)
}
