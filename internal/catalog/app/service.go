package app

import (
	"context"
	"errors"
	"strings"

	"github.com/johdel/machinery/internal/catalog/domain"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("product not found")
	ErrOutOfStock   = errors.New("insufficient stock")
)

type Service struct {
	repo ProductRepo
}

func NewService(repo ProductRepo) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Category = strings.TrimSpace(p.Category)

	if p.Name == "" || p.UnitAmount <= 0 || p.Stock < 0 {
		return domain.Product{}, ErrInvalidInput
	}

	return s.repo.Create(ctx, p)
}

func (s *Service) UpdateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	p.Name = strings.TrimSpace(p.Name)

	if p.ID == "" || p.Name == "" || p.UnitAmount <= 0 || p.Stock < 0 {
		return domain.Product{}, ErrInvalidInput
	}

	return s.repo.Update(ctx, p)
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Product{}, ErrInvalidInput
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, filter ListFilter) ([]domain.Product, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	return s.repo.List(ctx, filter)
}

// AdjustStock shifts inventory by delta. The repo rejects any change
// that would take stock below zero.
func (s *Service) AdjustStock(ctx context.Context, id string, delta int) (domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Product{}, ErrInvalidInput
	}
	return s.repo.AdjustStock(ctx, id, delta)
}
