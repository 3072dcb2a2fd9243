package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/denovbaraka/storefront-backend/internal/catalog"
	pkgerrors "github.com/denovbaraka/storefront-backend/pkg/errors"
)

type stubCatalogService struct {
	products []catalog.Product
	product  *catalog.Product
	err      error

	gotFilter catalog.Filter
	gotCreate catalog.CreateInput
	gotUpdate catalog.UpdateInput
	deletedID string
}

func (s *stubCatalogService) List(_ context.Context, filter catalog.Filter) ([]catalog.Product, error) {
	s.gotFilter = filter
	return s.products, s.err
}

func (s *stubCatalogService) Get(_ context.Context, _ string) (*catalog.Product, error) {
	return s.product, s.err
}

func (s *stubCatalogService) Create(_ context.Context, input catalog.CreateInput) (*catalog.Product, error) {
	s.gotCreate = input
	return s.product, s.err
}

func (s *stubCatalogService) Update(_ context.Context, _ string, input catalog.UpdateInput) (*catalog.Product, error) {
	s.gotUpdate = input
	return s.product, s.err
}

func (s *stubCatalogService) Delete(_ context.Context, id string) error {
	s.deletedID = id
	return s.err
}

func TestListProductsParsesFilter(t *testing.T) {
	svc := &stubCatalogService{products: []catalog.Product{{ID: "1"}}}
	handler := ListProducts(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?category=meat&q=somsa&popular=true", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.gotFilter.Category != catalog.CategoryMeat {
		t.Fatalf("unexpected category %s", svc.gotFilter.Category)
	}
	if svc.gotFilter.Query != "somsa" || !svc.gotFilter.Popular {
		t.Fatalf("unexpected filter %+v", svc.gotFilter)
	}
}

func TestListProductsRejectsUnknownCategory(t *testing.T) {
	handler := ListProducts(&stubCatalogService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?category=sushi", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestGetProductNotFound(t *testing.T) {
	svc := &stubCatalogService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	handler := GetProduct(svc, nil)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/products/ghost", nil), "id", "ghost")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestCreateProduct(t *testing.T) {
	svc := &stubCatalogService{product: &catalog.Product{ID: "p1234abcd", Name: "Новая сомса"}}
	handler := CreateProduct(svc, nil)

	body := strings.NewReader(`{"name":"Новая сомса","price":11000,"category":"special","popular":true}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", body)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.gotCreate.Name != "Новая сомса" || svc.gotCreate.Price != 11000 {
		t.Fatalf("unexpected input %+v", svc.gotCreate)
	}
	if svc.gotCreate.Category != catalog.CategorySpecial || !svc.gotCreate.Popular {
		t.Fatalf("unexpected input %+v", svc.gotCreate)
	}
}

func TestCreateProductRejectsNonPositivePrice(t *testing.T) {
	handler := CreateProduct(&stubCatalogService{}, nil)

	body := strings.NewReader(`{"name":"x","price":0,"category":"classic"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", body)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestUpdateProductPartialBody(t *testing.T) {
	svc := &stubCatalogService{product: &catalog.Product{ID: "1"}}
	handler := UpdateProduct(svc, nil)

	body := strings.NewReader(`{"price":12000}`)
	req := withURLParam(httptest.NewRequest(http.MethodPut, "/api/v1/products/1", body), "id", "1")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.gotUpdate.Price == nil || *svc.gotUpdate.Price != 12000 {
		t.Fatalf("expected price pointer, got %+v", svc.gotUpdate)
	}
	if svc.gotUpdate.Name != nil {
		t.Fatalf("name must stay nil when absent")
	}
}

func TestDeleteProduct(t *testing.T) {
	svc := &stubCatalogService{}
	handler := DeleteProduct(svc, nil)

	req := withURLParam(httptest.NewRequest(http.MethodDelete, "/api/v1/products/1", nil), "id", "1")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.deletedID != "1" {
		t.Fatalf("expected delete of 1 got %q", svc.deletedID)
	}

	var envelope struct {
		Data map[string]string `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data["deleted"] != "1" {
		t.Fatalf("unexpected payload %v", envelope.Data)
	}
}
