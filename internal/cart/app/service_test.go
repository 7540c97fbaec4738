package app

import (
	"context"
	"log/slog"
	"testing"

	"github.com/johdel/machinery/internal/cart/domain"
)

type fakeStore struct {
	values map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: make(map[string][]byte)}
}

func (f *fakeStore) Load(ctx context.Context, key string) ([]byte, error) {
	v, ok := f.values[key]
	if !ok {
		return nil, ErrNoCart
	}
	return v, nil
}

func (f *fakeStore) Save(ctx context.Context, key string, value []byte) error {
	f.values[key] = value
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	delete(f.values, key)
	return nil
}

func newTestService() (*Service, *fakeStore) {
	store := newFakeStore()
	return NewService(store, slog.Default()), store
}

func drill(t *testing.T) domain.ProductSnapshot {
	t.Helper()
	return domain.ProductSnapshot{ID: "p1", Name: "Cordless Drill", UnitAmount: 100, ImageURL: "/drill.png"}
}

func TestAddMergesByProductID(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	if _, err := svc.Add(ctx, "dev1", drill(t)); err != nil {
		t.Fatalf("first add: %v", err)
	}
	cart, err := svc.Add(ctx, "dev1", drill(t))
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	if cart.Size() != 1 {
		t.Fatalf("expected 1 line, got %d", cart.Size())
	}
	if got := cart.Items[0].Quantity; got != 2 {
		t.Fatalf("expected quantity 2, got %d", got)
	}
}

func TestAddKeepsOriginalSnapshot(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	if _, err := svc.Add(ctx, "dev1", drill(t)); err != nil {
		t.Fatalf("add: %v", err)
	}

	edited := drill(t)
	edited.Name = "Cordless Drill v2"
	edited.UnitAmount = 999

	cart, err := svc.Add(ctx, "dev1", edited)
	if err != nil {
		t.Fatalf("repeat add: %v", err)
	}
	if cart.Items[0].Name != "Cordless Drill" || cart.Items[0].UnitAmount != 100 {
		t.Fatalf("repeat add refreshed the stored snapshot: %+v", cart.Items[0])
	}
}

func TestSetQuantityClampsAtZero(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	if _, err := svc.Add(ctx, "dev1", drill(t)); err != nil {
		t.Fatalf("add: %v", err)
	}

	t.Run("zero keeps the line", func(t *testing.T) {
		cart, err := svc.SetQuantity(ctx, "dev1", "p1", 0)
		if err != nil {
			t.Fatalf("set quantity: %v", err)
		}
		if cart.Size() != 1 {
			t.Fatalf("zero-quantity line was removed")
		}
		if cart.Items[0].Quantity != 0 {
			t.Fatalf("expected quantity 0, got %d", cart.Items[0].Quantity)
		}
	})

	t.Run("negative clamps to zero", func(t *testing.T) {
		cart, err := svc.SetQuantity(ctx, "dev1", "p1", -5)
		if err != nil {
			t.Fatalf("set quantity: %v", err)
		}
		if cart.Items[0].Quantity != 0 {
			t.Fatalf("expected clamp to 0, got %d", cart.Items[0].Quantity)
		}
	})
}

func TestRemoveDeletesLine(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	if _, err := svc.Add(ctx, "dev1", drill(t)); err != nil {
		t.Fatalf("add: %v", err)
	}

	cart, err := svc.Remove(ctx, "dev1", "p1")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if cart.Size() != 0 {
		t.Fatalf("expected empty cart, got %d lines", cart.Size())
	}

	// Removing an absent id is a no-op, not an error.
	if _, err := svc.Remove(ctx, "dev1", "ghost"); err != nil {
		t.Fatalf("remove absent: %v", err)
	}
}

func TestPersistRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()

	if _, err := svc.Add(ctx, "dev1", drill(t)); err != nil {
		t.Fatalf("add: %v", err)
	}
	saw := domain.ProductSnapshot{ID: "p2", Name: "Circular Saw", UnitAmount: 250}
	if _, err := svc.Add(ctx, "dev1", saw); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.SetQuantity(ctx, "dev1", "p2", 3); err != nil {
		t.Fatalf("set quantity: %v", err)
	}

	// A fresh service over the same store must see identical lines.
	rehydrated := NewService(store, slog.Default())
	cart, err := rehydrated.Get(ctx, "dev1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	want := map[string]int{"p1": 1, "p2": 3}
	if cart.Size() != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), cart.Size())
	}
	for _, it := range cart.Items {
		if want[it.ProductID] != it.Quantity {
			t.Fatalf("line %s: expected quantity %d, got %d", it.ProductID, want[it.ProductID], it.Quantity)
		}
	}
}

func TestMalformedStoredCartFailsClosed(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()

	store.values["dev1"] = []byte("{not json")

	cart, err := svc.Get(ctx, "dev1")
	if err != nil {
		t.Fatalf("expected fail-closed empty cart, got error: %v", err)
	}
	if cart.Size() != 0 {
		t.Fatalf("expected empty cart, got %d lines", cart.Size())
	}
}

func TestConfirmationIsOneShot(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	if _, ok := svc.ConsumeConfirmation("dev1"); ok {
		t.Fatal("confirmation armed before any add")
	}

	if _, err := svc.Add(ctx, "dev1", drill(t)); err != nil {
		t.Fatalf("add: %v", err)
	}

	p, ok := svc.ConsumeConfirmation("dev1")
	if !ok || p.ID != "p1" {
		t.Fatalf("expected confirmation for p1, got ok=%v p=%+v", ok, p)
	}
	if _, ok := svc.ConsumeConfirmation("dev1"); ok {
		t.Fatal("confirmation fired twice")
	}
}

func TestClearPersistsEmptyCart(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()

	if _, err := svc.Add(ctx, "dev1", drill(t)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Clear(ctx, "dev1"); err != nil {
		t.Fatalf("clear: %v", err)
	}

	if _, ok := store.values["dev1"]; !ok {
		t.Fatal("clear must persist, not delete the key")
	}
	cart, err := svc.Get(ctx, "dev1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if cart.Size() != 0 {
		t.Fatalf("expected empty cart after clear, got %d lines", cart.Size())
	}
}
