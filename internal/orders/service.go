package orders

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/denovbaraka/storefront-backend/internal/cart"
	pkgerrors "github.com/denovbaraka/storefront-backend/pkg/errors"
	"github.com/denovbaraka/storefront-backend/pkg/logger"
)

const (
	minRating = 1
	maxRating = 5
)

// Store is the persistence surface for orders. The production implementation
// is the fallbacking order store in internal/sync: remote first, local cache
// on failure. The synced return reports whether the remote accepted the write.
type Store interface {
	Create(ctx context.Context, order *Order) (*Order, bool, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Order, bool, error)
	Rate(ctx context.Context, id string, rating int) (*Order, bool, error)
	Get(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context) ([]Order, error)
}

type cartEngine interface {
	IsEmpty() bool
	Lines() []cart.Line
	Total() int
	HasFreeDelivery() bool
	Clear(ctx context.Context)
}

type notifier interface {
	NotifyNewOrder(ctx context.Context, order Order) error
	NotifyStatusChange(ctx context.Context, orderID string, status Status) error
}

// Result pairs an order with whether the backing write reached the remote
// API; degraded (local-only) outcomes still succeed, only the response
// wording differs.
type Result struct {
	Order  *Order `json:"order"`
	Synced bool   `json:"synced"`
}

// Service governs the order lifecycle: checkout, status transitions, rating.
type Service interface {
	Checkout(ctx context.Context, customer Customer) (*Result, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Result, error)
	Rate(ctx context.Context, id string, rating int) (*Order, error)
	Get(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context) ([]Order, error)
}

type service struct {
	store Store
	cart  cartEngine
	bot   notifier
	logg  *logger.Logger

	now   func() time.Time
	newID func() string
}

// NewService wires the lifecycle manager. The notifier may be nil.
func NewService(store Store, cartEngine cartEngine, bot notifier, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("order store required")
	}
	if cartEngine == nil {
		return nil, fmt.Errorf("cart engine required")
	}
	return &service{
		store: store,
		cart:  cartEngine,
		bot:   bot,
		logg:  logg,
		now:   func() time.Time { return time.Now().UTC() },
		newID: newOrderID,
	}, nil
}

// Checkout freezes the current cart into an order. Once the input validates,
// the customer-facing flow can no longer fail: remote persistence falls back
// to the local cache, the notification is fire-and-forget, and the cart is
// cleared in every successful path.
func (s *service) Checkout(ctx context.Context, customer Customer) (*Result, error) {
	if s.cart.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if err := validateCustomer(customer); err != nil {
		return nil, err
	}

	order := &Order{
		ID:           s.newID(),
		Items:        s.cart.Lines(),
		Customer:     trimCustomer(customer),
		Total:        s.cart.Total(),
		Status:       StatusProcessing,
		CreatedAt:    s.now(),
		FreeDelivery: s.cart.HasFreeDelivery(),
	}

	saved, synced, err := s.store.Create(ctx, order)
	if err != nil {
		return nil, err
	}

	if s.bot != nil {
		if notifyErr := s.bot.NotifyNewOrder(ctx, *saved); notifyErr != nil && s.logg != nil {
			s.logg.Error(ctx, "new order notification failed", notifyErr)
		}
	}

	s.cart.Clear(ctx)

	return &Result{Order: saved, Synced: synced}, nil
}

// UpdateStatus validates the requested transition against the state machine
// before touching any store; out-of-contract transitions leave the order
// unchanged.
func (s *service) UpdateStatus(ctx context.Context, id string, status Status) (*Result, error) {
	if !status.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}

	order, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(status) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, status))
	}

	saved, synced, err := s.store.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	if s.bot != nil {
		if notifyErr := s.bot.NotifyStatusChange(ctx, id, status); notifyErr != nil && s.logg != nil {
			s.logg.Error(ctx, "status change notification failed", notifyErr)
		}
	}

	return &Result{Order: saved, Synced: synced}, nil
}

// Rate records the one-time satisfaction rating for a completed order.
func (s *service) Rate(ctx context.Context, id string, rating int) (*Order, error) {
	if rating < minRating || rating > maxRating {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("rating must be between %d and %d", minRating, maxRating))
	}

	order, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status != StatusCompleted {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only completed orders can be rated")
	}
	if order.Rating != nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order already rated")
	}

	saved, _, err := s.store.Rate(ctx, id, rating)
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *service) Get(ctx context.Context, id string) (*Order, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	return s.store.Get(ctx, id)
}

// List returns all known orders newest-first.
func (s *service) List(ctx context.Context) ([]Order, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func validateCustomer(customer Customer) error {
	missing := map[string]string{}
	if strings.TrimSpace(customer.Name) == "" {
		missing["name"] = "is required"
	}
	if strings.TrimSpace(customer.Phone) == "" {
		missing["phone"] = "is required"
	}
	if strings.TrimSpace(customer.Address) == "" {
		missing["address"] = "is required"
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer details incomplete").WithDetails(missing)
	}
	return nil
}

func trimCustomer(customer Customer) Customer {
	return Customer{
		Name:    strings.TrimSpace(customer.Name),
		Phone:   strings.TrimSpace(customer.Phone),
		Address: strings.TrimSpace(customer.Address),
	}
}

// newOrderID derives the id from the current time, matching the remote API's
// numeric order ids whose last digits double as the short id in notifications.
func newOrderID() string {
	return strconv.FormatInt(time.Now().UnixNano(), 10)
}
