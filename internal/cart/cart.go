package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/denovbaraka/storefront-backend/internal/catalog"
	"github.com/denovbaraka/storefront-backend/pkg/localstore"
	"github.com/denovbaraka/storefront-backend/pkg/logger"
)

// Line is one product in the cart. The product snapshot is embedded so the
// serialized form matches the remote order item shape.
type Line struct {
	catalog.Product
	Quantity int `json:"quantity"`
}

// Subtotal is the line price times quantity.
func (l Line) Subtotal() int {
	return l.Price * l.Quantity
}

// Pricing carries the delivery constants the cart derives its financial view
// from. Orders freeze the derived values at creation; changing Pricing later
// never rewrites existing orders.
type Pricing struct {
	FreeDeliveryThreshold int
	DeliveryFee           int
}

type persister interface {
	GetJSON(ctx context.Context, name string, dest any) error
	PutJSON(ctx context.Context, name string, value any) error
}

// Engine holds the active cart for the storefront session and recomputes the
// derived totals on every read. Mutations are total functions: they cannot
// fail from the caller's perspective, and each one rewrites the persisted
// cart entry best-effort.
type Engine struct {
	mu      sync.Mutex
	lines   []Line
	pricing Pricing
	store   persister
	logg    *logger.Logger
}

// NewEngine builds an empty cart. Call Load to rehydrate the persisted state.
func NewEngine(pricing Pricing, store persister, logg *logger.Logger) *Engine {
	return &Engine{pricing: pricing, store: store, logg: logg}
}

// Load rehydrates the cart from the persisted entry. A missing entry leaves
// the cart empty.
func (e *Engine) Load(ctx context.Context) error {
	if e.store == nil {
		return nil
	}

	var lines []Line
	if err := e.store.GetJSON(ctx, localstore.EntryCart, &lines); err != nil {
		if errors.Is(err, localstore.ErrNotFound) {
			return nil
		}
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lines = nil
	for _, line := range lines {
		if line.Quantity > 0 {
			e.lines = append(e.lines, line)
		}
	}
	return nil
}

// AddItem merges delta into the line for the product, inserting a new line on
// first add. A resulting quantity of zero or less removes the line; this is
// how the quantity "minus" button works, so it is silent rather than an error.
// A non-positive delta for an absent product is a no-op.
func (e *Engine) AddItem(ctx context.Context, product catalog.Product, delta int) {
	e.mu.Lock()
	for i, line := range e.lines {
		if line.ID != product.ID {
			continue
		}
		next := line.Quantity + delta
		if next <= 0 {
			e.lines = append(e.lines[:i], e.lines[i+1:]...)
		} else {
			e.lines[i].Quantity = next
		}
		e.mu.Unlock()
		e.persist(ctx)
		return
	}

	if delta > 0 {
		e.lines = append(e.lines, Line{Product: product, Quantity: delta})
		e.mu.Unlock()
		e.persist(ctx)
		return
	}
	e.mu.Unlock()
}

// RemoveItem deletes the line unconditionally; absent ids are a no-op.
func (e *Engine) RemoveItem(ctx context.Context, id string) {
	e.mu.Lock()
	for i, line := range e.lines {
		if line.ID == id {
			e.lines = append(e.lines[:i], e.lines[i+1:]...)
			break
		}
	}
	e.mu.Unlock()
	e.persist(ctx)
}

// Clear empties the cart. Checkout calls this after the order is accepted.
func (e *Engine) Clear(ctx context.Context) {
	e.mu.Lock()
	e.lines = nil
	e.mu.Unlock()
	e.persist(ctx)
}

// Lines returns a copy of the current lines in insertion order.
func (e *Engine) Lines() []Line {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Line, len(e.lines))
	copy(out, e.lines)
	return out
}

// IsEmpty reports whether the cart has no lines.
func (e *Engine) IsEmpty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.lines) == 0
}

// Total is the sum of price times quantity over all lines.
func (e *Engine) Total() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalLocked()
}

// HasFreeDelivery reports whether the cart total reaches the threshold.
func (e *Engine) HasFreeDelivery() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalLocked() >= e.pricing.FreeDeliveryThreshold
}

// DeliveryCost is zero once the free-delivery threshold is reached.
func (e *Engine) DeliveryCost() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.totalLocked() >= e.pricing.FreeDeliveryThreshold {
		return 0
	}
	return e.pricing.DeliveryFee
}

// TotalWithDelivery is the cart total plus the delivery cost.
func (e *Engine) TotalWithDelivery() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	total := e.totalLocked()
	if total >= e.pricing.FreeDeliveryThreshold {
		return total
	}
	return total + e.pricing.DeliveryFee
}

func (e *Engine) totalLocked() int {
	total := 0
	for _, line := range e.lines {
		total += line.Subtotal()
	}
	return total
}

// persist rewrites the cart entry. Storage failures are logged and swallowed;
// cart mutations never fail for the caller.
func (e *Engine) persist(ctx context.Context) {
	if e.store == nil {
		return
	}
	lines := e.Lines()
	if lines == nil {
		lines = []Line{}
	}
	if err := e.store.PutJSON(ctx, localstore.EntryCart, lines); err != nil && e.logg != nil {
		e.logg.Error(ctx, "persist cart", err)
	}
}
