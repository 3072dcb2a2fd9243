package sync

import (
	"context"
	"errors"
	"sync"

	"github.com/denovbaraka/storefront-backend/internal/catalog"
	pkgerrors "github.com/denovbaraka/storefront-backend/pkg/errors"
	"github.com/denovbaraka/storefront-backend/pkg/localstore"
	"github.com/denovbaraka/storefront-backend/pkg/logger"
)

// ProductAPI is the remote surface the product store syncs against.
type ProductAPI interface {
	ListProducts(ctx context.Context) ([]catalog.Product, error)
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
	CreateProduct(ctx context.Context, product *catalog.Product) (*catalog.Product, error)
	UpdateProduct(ctx context.Context, product *catalog.Product) (*catalog.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

type persister interface {
	GetJSON(ctx context.Context, name string, dest any) error
	PutJSON(ctx context.Context, name string, value any) error
}

// ProductStore implements catalog.Store with a remote-first, local-cache
// strategy. Successful remote reads refresh the cached product entry; when the
// remote API is unreachable the cache serves reads and absorbs writes, and a
// cache that was never populated falls back to the built-in menu.
type ProductStore struct {
	mu     sync.Mutex
	api    ProductAPI
	local  persister
	logg   *logger.Logger
	seeder func() []catalog.Product
}

// NewProductStore wires the fallbacking product store.
func NewProductStore(api ProductAPI, local persister, logg *logger.Logger) *ProductStore {
	return &ProductStore{
		api:    api,
		local:  local,
		logg:   logg,
		seeder: catalog.DefaultMenu,
	}
}

func (s *ProductStore) List(ctx context.Context) ([]catalog.Product, error) {
	products, err := s.api.ListProducts(ctx)
	if err == nil {
		s.mu.Lock()
		s.saveLocked(ctx, products)
		s.mu.Unlock()
		return products, nil
	}

	s.warn(ctx, "remote product list unavailable, serving cache", err)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *ProductStore) Get(ctx context.Context, id string) (*catalog.Product, error) {
	product, err := s.api.GetProduct(ctx, id)
	if err == nil {
		return product, nil
	}

	// Products created while the remote API was down exist only in the
	// cache, so every remote failure, 404 included, checks locally.
	s.mu.Lock()
	defer s.mu.Unlock()

	products, loadErr := s.loadLocked(ctx)
	if loadErr != nil {
		return nil, loadErr
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	if pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		return nil, err
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (s *ProductStore) Create(ctx context.Context, product *catalog.Product) (*catalog.Product, error) {
	saved, err := s.api.CreateProduct(ctx, product)
	if err == nil {
		s.upsert(ctx, *saved)
		return saved, nil
	}

	s.warn(ctx, "remote product create unavailable, storing locally", err)

	if upErr := s.upsert(ctx, *product); upErr != nil {
		return nil, upErr
	}
	return product, nil
}

func (s *ProductStore) Update(ctx context.Context, product *catalog.Product) (*catalog.Product, error) {
	saved, err := s.api.UpdateProduct(ctx, product)
	if err == nil {
		s.upsert(ctx, *saved)
		return saved, nil
	}
	if pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		return nil, err
	}

	s.warn(ctx, "remote product update unavailable, storing locally", err)

	if upErr := s.upsert(ctx, *product); upErr != nil {
		return nil, upErr
	}
	return product, nil
}

func (s *ProductStore) Delete(ctx context.Context, id string) error {
	err := s.api.DeleteProduct(ctx, id)
	if err == nil {
		s.remove(ctx, id)
		return nil
	}
	if pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		return err
	}

	s.warn(ctx, "remote product delete unavailable, removing locally", err)
	return s.remove(ctx, id)
}

// loadLocked reads the cached product list, seeding the default menu when the
// cache was never written.
func (s *ProductStore) loadLocked(ctx context.Context) ([]catalog.Product, error) {
	var products []catalog.Product
	err := s.local.GetJSON(ctx, localstore.EntryProducts, &products)
	if err == nil {
		return products, nil
	}
	if !errors.Is(err, localstore.ErrNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read product cache")
	}

	seeded := s.seeder()
	s.saveLocked(ctx, seeded)
	return seeded, nil
}

// saveLocked rewrites the cached product list, logging write failures.
func (s *ProductStore) saveLocked(ctx context.Context, products []catalog.Product) {
	if products == nil {
		products = []catalog.Product{}
	}
	if err := s.local.PutJSON(ctx, localstore.EntryProducts, products); err != nil {
		s.warn(ctx, "persist product cache", err)
	}
}

func (s *ProductStore) upsert(ctx context.Context, product catalog.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.loadLocked(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range products {
		if products[i].ID == product.ID {
			products[i] = product
			replaced = true
			break
		}
	}
	if !replaced {
		products = append(products, product)
	}
	s.saveLocked(ctx, products)
	return nil
}

func (s *ProductStore) remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.loadLocked(ctx)
	if err != nil {
		return err
	}
	kept := products[:0]
	for _, p := range products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.saveLocked(ctx, kept)
	return nil
}

func (s *ProductStore) warn(ctx context.Context, msg string, err error) {
	if s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), msg)
	}
}
