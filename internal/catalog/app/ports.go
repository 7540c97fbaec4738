package app

import (
	"context"

	"github.com/johdel/machinery/internal/catalog/domain"
)

type ProductRepo interface {
	Create(ctx context.Context, p domain.Product) (domain.Product, error)
	Update(ctx context.Context, p domain.Product) (domain.Product, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (domain.Product, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Product, error)
	AdjustStock(ctx context.Context, id string, delta int) (domain.Product, error)
}

type ListFilter struct {
	Category string
	Featured *bool
	Limit    int
}
