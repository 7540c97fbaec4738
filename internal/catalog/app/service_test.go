package app

import (
	"context"
	"errors"
	"testing"

	"github.com/johdel/machinery/internal/catalog/domain"
)

type fakeRepo struct {
	products map[string]domain.Product
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{products: make(map[string]domain.Product)}
}

func (f *fakeRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	if p.ID == "" {
		p.ID = "prod-1"
	}
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeRepo) Update(ctx context.Context, p domain.Product) (domain.Product, error) {
	if _, ok := f.products[p.ID]; !ok {
		return domain.Product{}, ErrNotFound
	}
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.products[id]; !ok {
		return ErrNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return domain.Product{}, ErrNotFound
	}
	return p, nil
}

func (f *fakeRepo) List(ctx context.Context, filter ListFilter) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range f.products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Featured != nil && p.Featured != *filter.Featured {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeRepo) AdjustStock(ctx context.Context, id string, delta int) (domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return domain.Product{}, ErrNotFound
	}
	if p.Stock+delta < 0 {
		return domain.Product{}, ErrOutOfStock
	}
	p.Stock += delta
	f.products[id] = p
	return p, nil
}

func TestCreateProductValidation(t *testing.T) {
	svc := NewService(newFakeRepo())

	t.Run("empty name -> invalid", func(t *testing.T) {
		_, err := svc.CreateProduct(context.Background(), domain.Product{Name: "   ", UnitAmount: 100})
		if err != ErrInvalidInput {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("zero price -> invalid", func(t *testing.T) {
		_, err := svc.CreateProduct(context.Background(), domain.Product{Name: "Angle Grinder"})
		if err != ErrInvalidInput {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("negative stock -> invalid", func(t *testing.T) {
		_, err := svc.CreateProduct(context.Background(), domain.Product{Name: "Angle Grinder", UnitAmount: 100, Stock: -1})
		if err != ErrInvalidInput {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestAdjustStockNeverGoesNegative(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	repo.products["prod-1"] = domain.Product{ID: "prod-1", Name: "Angle Grinder", UnitAmount: 100, Stock: 2}

	if _, err := svc.AdjustStock(context.Background(), "prod-1", -2); err != nil {
		t.Fatalf("adjust to zero: %v", err)
	}

	_, err := svc.AdjustStock(context.Background(), "prod-1", -1)
	if !errors.Is(err, ErrOutOfStock) {
		t.Fatalf("expected ErrOutOfStock, got %v", err)
	}
}

func TestListProductsClampsLimit(t *testing.T) {
	svc := NewService(newFakeRepo())

	if _, err := svc.ListProducts(context.Background(), ListFilter{Limit: -1}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if _, err := svc.ListProducts(context.Background(), ListFilter{Limit: 10_000}); err != nil {
		t.Fatalf("list: %v", err)
	}
}
