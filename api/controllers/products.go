package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/denovbaraka/storefront-backend/api/responses"
	"github.com/denovbaraka/storefront-backend/api/validators"
	"github.com/denovbaraka/storefront-backend/internal/catalog"
	pkgerrors "github.com/denovbaraka/storefront-backend/pkg/errors"
	"github.com/denovbaraka/storefront-backend/pkg/logger"
)

// ListProducts serves the menu, optionally narrowed by category, text query
// and popularity.
func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		popular, err := validators.ParseQueryBool(r, "popular")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := catalog.Filter{
			Query:   validators.SanitizeString(r.URL.Query().Get("q"), 100),
			Popular: popular,
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
			category := catalog.Category(raw)
			if !category.Valid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown category"))
				return
			}
			filter.Category = category
		}

		products, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, products)
	}
}

func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		product, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

type createProductRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Price       int    `json:"price" validate:"required,gt=0"`
	Image       string `json:"image"`
	Category    string `json:"category" validate:"required"`
	Popular     bool   `json:"popular"`
}

// CreateProduct adds a menu item. Admin only.
func CreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), catalog.CreateInput{
			Name:        payload.Name,
			Description: payload.Description,
			Price:       payload.Price,
			Image:       payload.Image,
			Category:    catalog.Category(payload.Category),
			Popular:     payload.Popular,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

type updateProductRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Price       *int    `json:"price,omitempty" validate:"omitempty,gt=0"`
	Image       *string `json:"image,omitempty"`
	Category    *string `json:"category,omitempty"`
	Popular     *bool   `json:"popular,omitempty"`
}

// UpdateProduct applies a partial update to a menu item. Admin only.
func UpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.UpdateInput{
			Name:        payload.Name,
			Description: payload.Description,
			Price:       payload.Price,
			Image:       payload.Image,
			Popular:     payload.Popular,
		}
		if payload.Category != nil {
			category := catalog.Category(*payload.Category)
			input.Category = &category
		}

		product, err := svc.Update(r.Context(), chi.URLParam(r, "id"), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// DeleteProduct removes a menu item. Admin only.
func DeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"deleted": id})
	}
}
