package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/denovbaraka/storefront-backend/api/responses"
	"github.com/denovbaraka/storefront-backend/api/validators"
	"github.com/denovbaraka/storefront-backend/internal/cart"
	"github.com/denovbaraka/storefront-backend/internal/catalog"
	"github.com/denovbaraka/storefront-backend/pkg/logger"
)

// CartEngine is the slice of the cart the HTTP layer touches.
type CartEngine interface {
	AddItem(ctx context.Context, product catalog.Product, delta int)
	RemoveItem(ctx context.Context, id string)
	Clear(ctx context.Context)
	Lines() []cart.Line
	Total() int
	HasFreeDelivery() bool
	DeliveryCost() int
	TotalWithDelivery() int
}

// cartView is the response shape for every cart endpoint, so the client
// always sees the recomputed totals after a mutation.
type cartView struct {
	Items             []cart.Line `json:"items"`
	Total             int         `json:"total"`
	DeliveryCost      int         `json:"deliveryCost"`
	FreeDelivery      bool        `json:"freeDelivery"`
	TotalWithDelivery int         `json:"totalWithDelivery"`
}

func viewOf(engine CartEngine) cartView {
	items := engine.Lines()
	if items == nil {
		items = []cart.Line{}
	}
	return cartView{
		Items:             items,
		Total:             engine.Total(),
		DeliveryCost:      engine.DeliveryCost(),
		FreeDelivery:      engine.HasFreeDelivery(),
		TotalWithDelivery: engine.TotalWithDelivery(),
	}
}

func GetCart(engine CartEngine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, viewOf(engine))
	}
}

type addCartItemRequest struct {
	ID       string `json:"id" validate:"required"`
	Quantity int    `json:"quantity" validate:"required"`
}

// AddCartItem merges a quantity delta for a catalog product into the cart.
// Negative deltas decrement; a line that reaches zero disappears.
func AddCartItem(engine CartEngine, catalogSvc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := catalogSvc.Get(r.Context(), payload.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		engine.AddItem(r.Context(), *product, payload.Quantity)
		responses.WriteSuccess(w, viewOf(engine))
	}
}

func RemoveCartItem(engine CartEngine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine.RemoveItem(r.Context(), chi.URLParam(r, "id"))
		responses.WriteSuccess(w, viewOf(engine))
	}
}

func ClearCart(engine CartEngine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine.Clear(r.Context())
		responses.WriteSuccess(w, viewOf(engine))
	}
}
