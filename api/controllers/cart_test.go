package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/denovbaraka/storefront-backend/internal/cart"
	"github.com/denovbaraka/storefront-backend/internal/catalog"
	pkgerrors "github.com/denovbaraka/storefront-backend/pkg/errors"
)

type fakeEngine struct {
	lines []cart.Line

	pricing cart.Pricing
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{pricing: cart.Pricing{FreeDeliveryThreshold: 100000, DeliveryFee: 15000}}
}

func (f *fakeEngine) AddItem(_ context.Context, product catalog.Product, delta int) {
	for i, line := range f.lines {
		if line.ID == product.ID {
			next := line.Quantity + delta
			if next <= 0 {
				f.lines = append(f.lines[:i], f.lines[i+1:]...)
			} else {
				f.lines[i].Quantity = next
			}
			return
		}
	}
	if delta > 0 {
		f.lines = append(f.lines, cart.Line{Product: product, Quantity: delta})
	}
}

func (f *fakeEngine) RemoveItem(_ context.Context, id string) {
	for i, line := range f.lines {
		if line.ID == id {
			f.lines = append(f.lines[:i], f.lines[i+1:]...)
			return
		}
	}
}

func (f *fakeEngine) Clear(_ context.Context) { f.lines = nil }
func (f *fakeEngine) Lines() []cart.Line      { return f.lines }

func (f *fakeEngine) Total() int {
	total := 0
	for _, line := range f.lines {
		total += line.Subtotal()
	}
	return total
}

func (f *fakeEngine) HasFreeDelivery() bool {
	return f.Total() >= f.pricing.FreeDeliveryThreshold
}

func (f *fakeEngine) DeliveryCost() int {
	if f.HasFreeDelivery() {
		return 0
	}
	return f.pricing.DeliveryFee
}

func (f *fakeEngine) TotalWithDelivery() int {
	return f.Total() + f.DeliveryCost()
}

func decodeCartView(t *testing.T, resp *httptest.ResponseRecorder) cartView {
	t.Helper()
	var envelope struct {
		Data cartView `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode cart view: %v", err)
	}
	return envelope.Data
}

func TestGetCartEmpty(t *testing.T) {
	handler := GetCart(newFakeEngine(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	view := decodeCartView(t, resp)
	if len(view.Items) != 0 || view.Total != 0 {
		t.Fatalf("unexpected view %+v", view)
	}
	if view.DeliveryCost != 15000 {
		t.Fatalf("expected base delivery cost got %d", view.DeliveryCost)
	}
}

func TestAddCartItem(t *testing.T) {
	engine := newFakeEngine()
	catalogSvc := &stubCatalogService{product: &catalog.Product{ID: "1", Name: "somsa", Price: 14000}}
	handler := AddCartItem(engine, catalogSvc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"id":"1","quantity":2}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	view := decodeCartView(t, resp)
	if view.Total != 28000 {
		t.Fatalf("expected total 28000 got %d", view.Total)
	}
	if view.TotalWithDelivery != 43000 {
		t.Fatalf("expected total with delivery 43000 got %d", view.TotalWithDelivery)
	}
}

func TestAddCartItemUnknownProduct(t *testing.T) {
	catalogSvc := &stubCatalogService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	handler := AddCartItem(newFakeEngine(), catalogSvc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"id":"ghost","quantity":1}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestAddCartItemDecrementToZeroRemovesLine(t *testing.T) {
	engine := newFakeEngine()
	product := catalog.Product{ID: "1", Name: "somsa", Price: 14000}
	engine.AddItem(context.Background(), product, 1)

	catalogSvc := &stubCatalogService{product: &product}
	handler := AddCartItem(engine, catalogSvc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"id":"1","quantity":-1}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	view := decodeCartView(t, resp)
	if len(view.Items) != 0 {
		t.Fatalf("expected empty cart got %+v", view.Items)
	}
}

func TestRemoveCartItem(t *testing.T) {
	engine := newFakeEngine()
	engine.AddItem(context.Background(), catalog.Product{ID: "1", Price: 10000}, 2)
	handler := RemoveCartItem(engine, nil)

	req := withURLParam(httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items/1", nil), "id", "1")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if len(engine.lines) != 0 {
		t.Fatalf("expected line removed")
	}
}

func TestClearCart(t *testing.T) {
	engine := newFakeEngine()
	engine.AddItem(context.Background(), catalog.Product{ID: "1", Price: 10000}, 2)
	handler := ClearCart(engine, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	view := decodeCartView(t, resp)
	if view.Total != 0 {
		t.Fatalf("expected cleared cart got total %d", view.Total)
	}
}
