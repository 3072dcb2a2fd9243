package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	pkgerrors "github.com/denovbaraka/storefront-backend/pkg/errors"
	"github.com/denovbaraka/storefront-backend/pkg/logger"
)

// Store is the persistence surface the catalog works against. The production
// implementation is the fallbacking product store in internal/sync.
type Store interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, product *Product) (*Product, error)
	Update(ctx context.Context, product *Product) (*Product, error)
	Delete(ctx context.Context, id string) error
}

// ProductAction labels the admin mutation reported to the notifier.
type ProductAction string

const (
	ProductActionCreated ProductAction = "created"
	ProductActionUpdated ProductAction = "updated"
	ProductActionDeleted ProductAction = "deleted"
)

type notifier interface {
	NotifyProductChange(ctx context.Context, action ProductAction, product Product) error
}

// Filter narrows the product list.
type Filter struct {
	Category Category
	Query    string
	Popular  bool
}

// Service exposes catalog reads plus admin CRUD.
type Service interface {
	List(ctx context.Context, filter Filter) ([]Product, error)
	Get(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, input CreateInput) (*Product, error)
	Update(ctx context.Context, id string, input UpdateInput) (*Product, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	store    Store
	notifier notifier
	logg     *logger.Logger
}

// NewService wires the catalog dependencies. The notifier may be nil.
func NewService(store Store, notifier notifier, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("catalog store required")
	}
	return &service{store: store, notifier: notifier, logg: logg}, nil
}

// CreateInput carries the fields required for a new menu item.
type CreateInput struct {
	Name        string
	Description string
	Price       int
	Image       string
	Category    Category
	Popular     bool
}

// UpdateInput carries the optional replacement fields; nil means keep.
type UpdateInput struct {
	Name        *string
	Description *string
	Price       *int
	Image       *string
	Category    *Category
	Popular     *bool
}

func (s *service) List(ctx context.Context, filter Filter) ([]Product, error) {
	products, err := s.store.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	query := strings.ToLower(strings.TrimSpace(filter.Query))
	matched := make([]Product, 0, len(products))
	for _, p := range products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Popular && !p.Popular {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		matched = append(matched, p)
	}
	return matched, nil
}

func (s *service) Get(ctx context.Context, id string) (*Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return s.store.Get(ctx, id)
}

func (s *service) Create(ctx context.Context, input CreateInput) (*Product, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.Price <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be greater than 0")
	}
	if !input.Category.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown category")
	}

	product := &Product{
		ID:          newProductID(),
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		Image:       input.Image,
		Category:    input.Category,
		Popular:     input.Popular,
	}

	saved, err := s.store.Create(ctx, product)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, ProductActionCreated, *saved)
	return saved, nil
}

func (s *service) Update(ctx context.Context, id string, input UpdateInput) (*Product, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next := *current
	if input.Name != nil {
		next.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		next.Description = strings.TrimSpace(*input.Description)
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be greater than 0")
		}
		next.Price = *input.Price
	}
	if input.Image != nil {
		next.Image = *input.Image
	}
	if input.Category != nil {
		if !input.Category.Valid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown category")
		}
		next.Category = *input.Category
	}
	if input.Popular != nil {
		next.Popular = *input.Popular
	}

	saved, err := s.store.Update(ctx, &next)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, ProductActionUpdated, *saved)
	return saved, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.notify(ctx, ProductActionDeleted, *current)
	return nil
}

// notify is fire-and-forget; dispatch failures never fail the mutation.
func (s *service) notify(ctx context.Context, action ProductAction, product Product) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyProductChange(ctx, action, product); err != nil && s.logg != nil {
		s.logg.Error(ctx, "product change notification failed", err)
	}
}

func newProductID() string {
	return "p" + uuid.NewString()[:8]
}
