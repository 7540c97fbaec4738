package app

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/johdel/machinery/internal/cart/domain"
)

// ErrNoCart is returned by Store implementations when nothing was ever
// saved under a key. The service maps it to an empty cart.
var ErrNoCart = errors.New("no cart stored")

type Service struct {
	store Store
	log   *slog.Logger

	mu        sync.Mutex
	lastAdded map[string]domain.ProductSnapshot
	confirm   map[string]bool
}

func NewService(store Store, log *slog.Logger) *Service {
	return &Service{
		store:     store,
		log:       log,
		lastAdded: make(map[string]domain.ProductSnapshot),
		confirm:   make(map[string]bool),
	}
}

// Get rehydrates the cart stored under key. A missing cart yields an
// empty one; a malformed stored value fails closed to an empty cart
// rather than erroring.
func (s *Service) Get(ctx context.Context, key string) (domain.Cart, error) {
	cart := domain.Cart{Key: key}

	raw, err := s.store.Load(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNoCart) {
			return cart, nil
		}
		return domain.Cart{}, err
	}

	if err := json.Unmarshal(raw, &cart); err != nil {
		s.log.Warn("stored cart is malformed, resetting",
			slog.String("key", key), slog.Any("err", err))
		return domain.Cart{Key: key}, nil
	}

	cart.Key = key
	return cart, nil
}

// Add merges the product into the cart under key, records it as the
// last-added product and arms the one-shot confirmation signal, then
// persists the whole cart.
func (s *Service) Add(ctx context.Context, key string, p domain.ProductSnapshot) (domain.Cart, error) {
	cart, err := s.Get(ctx, key)
	if err != nil {
		return domain.Cart{}, err
	}

	cart.Add(p)
	if err := s.persist(ctx, cart); err != nil {
		return domain.Cart{}, err
	}

	s.mu.Lock()
	s.lastAdded[key] = p
	s.confirm[key] = true
	s.mu.Unlock()

	return cart, nil
}

// Remove deletes the product's line and persists. Unknown product ids
// are a no-op that still rewrites the stored cart.
func (s *Service) Remove(ctx context.Context, key, productID string) (domain.Cart, error) {
	cart, err := s.Get(ctx, key)
	if err != nil {
		return domain.Cart{}, err
	}

	cart.Remove(productID)
	if err := s.persist(ctx, cart); err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}

// SetQuantity clamps to zero and persists. The line is kept at zero
// quantity; removal is always explicit.
func (s *Service) SetQuantity(ctx context.Context, key, productID string, quantity int) (domain.Cart, error) {
	cart, err := s.Get(ctx, key)
	if err != nil {
		return domain.Cart{}, err
	}

	cart.SetQuantity(productID, quantity)
	if err := s.persist(ctx, cart); err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}

// Clear empties the cart and persists immediately.
func (s *Service) Clear(ctx context.Context, key string) error {
	cart := domain.Cart{Key: key}
	return s.persist(ctx, cart)
}

// ConsumeConfirmation reports whether an add happened since the last
// call and which product it was. The signal disarms on read.
func (s *Service) ConsumeConfirmation(key string) (domain.ProductSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.confirm[key] {
		return domain.ProductSnapshot{}, false
	}
	s.confirm[key] = false
	return s.lastAdded[key], true
}

func (s *Service) persist(ctx context.Context, cart domain.Cart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return s.store.Save(ctx, cart.Key, raw)
}
