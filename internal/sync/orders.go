package sync

import (
	"context"
	"errors"
	"sync"

	"github.com/denovbaraka/storefront-backend/internal/orders"
	pkgerrors "github.com/denovbaraka/storefront-backend/pkg/errors"
	"github.com/denovbaraka/storefront-backend/pkg/localstore"
	"github.com/denovbaraka/storefront-backend/pkg/logger"
)

// OrderAPI is the remote surface the order store syncs against.
type OrderAPI interface {
	ListOrders(ctx context.Context) ([]orders.Order, error)
	GetOrder(ctx context.Context, id string) (*orders.Order, error)
	CreateOrder(ctx context.Context, order *orders.Order) (*orders.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status orders.Status) (*orders.Order, error)
	RateOrder(ctx context.Context, id string, rating int) (*orders.Order, error)
}

// OrderStore implements orders.Store remote-first with a local fallback.
// Checkout must not fail just because the remote API is down, so every write
// that the remote rejects with a transport or server error is committed to the
// cached order entry instead and reported with synced=false.
type OrderStore struct {
	mu    sync.Mutex
	api   OrderAPI
	local persister
	logg  *logger.Logger
}

// NewOrderStore wires the fallbacking order store.
func NewOrderStore(api OrderAPI, local persister, logg *logger.Logger) *OrderStore {
	return &OrderStore{api: api, local: local, logg: logg}
}

func (s *OrderStore) Create(ctx context.Context, order *orders.Order) (*orders.Order, bool, error) {
	saved, err := s.api.CreateOrder(ctx, order)
	if err == nil {
		if upErr := s.upsert(ctx, *saved); upErr != nil {
			s.warn(ctx, "mirror order to cache", upErr)
		}
		return saved, true, nil
	}

	s.warn(ctx, "remote order create unavailable, storing locally", err)

	if upErr := s.upsert(ctx, *order); upErr != nil {
		return nil, false, upErr
	}
	return order, false, nil
}

func (s *OrderStore) UpdateStatus(ctx context.Context, id string, status orders.Status) (*orders.Order, bool, error) {
	saved, err := s.api.UpdateOrderStatus(ctx, id, status)
	if err == nil {
		if upErr := s.upsert(ctx, *saved); upErr != nil {
			s.warn(ctx, "mirror order to cache", upErr)
		}
		return saved, true, nil
	}

	s.warn(ctx, "remote status update unavailable, applying locally", err)

	updated, upErr := s.mutate(ctx, id, func(order *orders.Order) {
		order.Status = status
	})
	if upErr != nil {
		return nil, false, upErr
	}
	return updated, false, nil
}

func (s *OrderStore) Rate(ctx context.Context, id string, rating int) (*orders.Order, bool, error) {
	saved, err := s.api.RateOrder(ctx, id, rating)
	if err == nil {
		if upErr := s.upsert(ctx, *saved); upErr != nil {
			s.warn(ctx, "mirror order to cache", upErr)
		}
		return saved, true, nil
	}

	s.warn(ctx, "remote rating unavailable, applying locally", err)

	updated, upErr := s.mutate(ctx, id, func(order *orders.Order) {
		value := rating
		order.Rating = &value
	})
	if upErr != nil {
		return nil, false, upErr
	}
	return updated, false, nil
}

func (s *OrderStore) Get(ctx context.Context, id string) (*orders.Order, error) {
	order, err := s.api.GetOrder(ctx, id)
	if err == nil {
		return order, nil
	}

	// Orders committed during an outage exist only in the cache, so the
	// fallback also covers remote 404s.
	s.mu.Lock()
	defer s.mu.Unlock()

	list, loadErr := s.loadLocked(ctx)
	if loadErr != nil {
		return nil, loadErr
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func (s *OrderStore) List(ctx context.Context) ([]orders.Order, error) {
	list, err := s.api.ListOrders(ctx)
	if err == nil {
		s.mu.Lock()
		s.saveLocked(ctx, list)
		s.mu.Unlock()
		return list, nil
	}

	s.warn(ctx, "remote order list unavailable, serving cache", err)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

// loadLocked reads the cached order list; a cache that was never written is an
// empty list, not an error.
func (s *OrderStore) loadLocked(ctx context.Context) ([]orders.Order, error) {
	var list []orders.Order
	err := s.local.GetJSON(ctx, localstore.EntryOrders, &list)
	if err == nil {
		return list, nil
	}
	if errors.Is(err, localstore.ErrNotFound) {
		return []orders.Order{}, nil
	}
	return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read order cache")
}

func (s *OrderStore) saveLocked(ctx context.Context, list []orders.Order) {
	if list == nil {
		list = []orders.Order{}
	}
	if err := s.local.PutJSON(ctx, localstore.EntryOrders, list); err != nil {
		s.warn(ctx, "persist order cache", err)
	}
}

func (s *OrderStore) upsert(ctx context.Context, order orders.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.loadLocked(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range list {
		if list[i].ID == order.ID {
			list[i] = order
			replaced = true
			break
		}
	}
	if !replaced {
		list = append(list, order)
	}
	if err := s.local.PutJSON(ctx, localstore.EntryOrders, list); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist order cache")
	}
	return nil
}

// mutate applies fn to the cached copy of the order and persists the list.
func (s *OrderStore) mutate(ctx context.Context, id string, fn func(*orders.Order)) (*orders.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.loadLocked(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID != id {
			continue
		}
		fn(&list[i])
		if err := s.local.PutJSON(ctx, localstore.EntryOrders, list); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist order cache")
		}
		updated := list[i]
		return &updated, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func (s *OrderStore) warn(ctx context.Context, msg string, err error) {
	if s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), msg)
	}
}
