package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/denovbaraka/storefront-backend/api/responses"
	"github.com/denovbaraka/storefront-backend/api/validators"
	ordersvc "github.com/denovbaraka/storefront-backend/internal/orders"
	pkgerrors "github.com/denovbaraka/storefront-backend/pkg/errors"
	"github.com/denovbaraka/storefront-backend/pkg/logger"
)

type checkoutRequest struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Address string `json:"address" validate:"required"`
}

// Checkout turns the current cart into an order.
func Checkout(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Checkout(r.Context(), ordersvc.Customer{
			Name:    validators.SanitizeString(payload.Name, 200),
			Phone:   validators.SanitizeString(payload.Phone, 50),
			Address: validators.SanitizeString(payload.Address, 500),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func GetOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// ListOrders returns all orders newest-first. Admin only.
func ListOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if list == nil {
			list = []ordersvc.Order{}
		}
		responses.WriteSuccess(w, list)
	}
}

// UpdateOrderStatus advances the order lifecycle. Admin only. The status
// travels as a query parameter.
func UpdateOrderStatus(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.URL.Query().Get("status"))
		if raw == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "status query parameter required"))
			return
		}

		result, err := svc.UpdateStatus(r.Context(), chi.URLParam(r, "id"), ordersvc.Status(raw))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// RateOrder records the one-time satisfaction rating for a completed order.
func RateOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.TrimSpace(r.URL.Query().Get("rating")) == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "rating query parameter required"))
			return
		}

		rating, err := validators.ParseQueryInt(r, "rating", 0, 1, 5)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Rate(r.Context(), chi.URLParam(r, "id"), rating)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}
