package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	ordersvc "github.com/denovbaraka/storefront-backend/internal/orders"
	pkgerrors "github.com/denovbaraka/storefront-backend/pkg/errors"
)

type stubOrderService struct {
	result *ordersvc.Result
	order  *ordersvc.Order
	list   []ordersvc.Order
	err    error

	gotCustomer ordersvc.Customer
	gotStatus   ordersvc.Status
	gotRating   int
}

func (s *stubOrderService) Checkout(_ context.Context, customer ordersvc.Customer) (*ordersvc.Result, error) {
	s.gotCustomer = customer
	return s.result, s.err
}

func (s *stubOrderService) UpdateStatus(_ context.Context, _ string, status ordersvc.Status) (*ordersvc.Result, error) {
	s.gotStatus = status
	return s.result, s.err
}

func (s *stubOrderService) Rate(_ context.Context, _ string, rating int) (*ordersvc.Order, error) {
	s.gotRating = rating
	return s.order, s.err
}

func (s *stubOrderService) Get(_ context.Context, _ string) (*ordersvc.Order, error) {
	return s.order, s.err
}

func (s *stubOrderService) List(_ context.Context) ([]ordersvc.Order, error) {
	return s.list, s.err
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rc))
}

func TestCheckoutSuccess(t *testing.T) {
	svc := &stubOrderService{result: &ordersvc.Result{
		Order:  &ordersvc.Order{ID: "o1", Status: ordersvc.StatusProcessing},
		Synced: true,
	}}
	handler := Checkout(svc, nil)

	body := strings.NewReader(`{"name":"Ali","phone":"+998901234567","address":"Denov"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", body)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.gotCustomer.Name != "Ali" {
		t.Fatalf("unexpected customer %+v", svc.gotCustomer)
	}

	var envelope struct {
		Data ordersvc.Result `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Order.ID != "o1" || !envelope.Data.Synced {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestCheckoutMissingFields(t *testing.T) {
	handler := Checkout(&stubOrderService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{"name":"Ali"}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCheckoutEmptyCartError(t *testing.T) {
	svc := &stubOrderService{err: pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")}
	handler := Checkout(svc, nil)

	body := strings.NewReader(`{"name":"Ali","phone":"+998901234567","address":"Denov"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", body)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "cart is empty") {
		t.Fatalf("expected message in body: %s", resp.Body.String())
	}
}

func TestUpdateOrderStatusRequiresQuery(t *testing.T) {
	handler := UpdateOrderStatus(&stubOrderService{}, nil)

	req := withURLParam(httptest.NewRequest(http.MethodPut, "/api/v1/orders/o1/status", nil), "id", "o1")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestUpdateOrderStatusConflict(t *testing.T) {
	svc := &stubOrderService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "cannot move order from completed to delivering")}
	handler := UpdateOrderStatus(svc, nil)

	req := withURLParam(httptest.NewRequest(http.MethodPut, "/api/v1/orders/o1/status?status=delivering", nil), "id", "o1")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}

func TestRateOrder(t *testing.T) {
	rating := 5
	svc := &stubOrderService{order: &ordersvc.Order{ID: "o1", Status: ordersvc.StatusCompleted, Rating: &rating}}
	handler := RateOrder(svc, nil)

	req := withURLParam(httptest.NewRequest(http.MethodPut, "/api/v1/orders/o1/rating?rating=5", nil), "id", "o1")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.gotRating != 5 {
		t.Fatalf("expected rating 5 got %d", svc.gotRating)
	}
}

func TestRateOrderRejectsOutOfRange(t *testing.T) {
	handler := RateOrder(&stubOrderService{}, nil)

	req := withURLParam(httptest.NewRequest(http.MethodPut, "/api/v1/orders/o1/rating?rating=9", nil), "id", "o1")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestGetOrderNotFound(t *testing.T) {
	svc := &stubOrderService{err: pkgerrors.New(pkgerrors.CodeNotFound, "order not found")}
	handler := GetOrder(svc, nil)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/orders/ghost", nil), "id", "ghost")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestListOrdersEmpty(t *testing.T) {
	handler := ListOrders(&stubOrderService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"data":[]`) {
		t.Fatalf("expected empty array got %s", resp.Body.String())
	}
}
