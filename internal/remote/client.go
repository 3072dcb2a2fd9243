package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/denovbaraka/storefront-backend/internal/catalog"
	"github.com/denovbaraka/storefront-backend/internal/orders"
	"github.com/denovbaraka/storefront-backend/pkg/config"
	pkgerrors "github.com/denovbaraka/storefront-backend/pkg/errors"
)

// Client is the thin JSON wrapper over the remote storefront API. Every call
// is a single request/response with no retries; callers treat any failure as
// recoverable and fall back to local state (internal/sync).
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient validates the base URL and builds the gateway client.
func NewClient(cfg config.RemoteConfig) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("remote base url is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid remote base url: %w", err)
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// ListProducts fetches the full remote catalog.
func (c *Client) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct fetches a single product by id.
func (c *Client) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	var product catalog.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct posts a new product and adopts the server's record.
func (c *Client) CreateProduct(ctx context.Context, product *catalog.Product) (*catalog.Product, error) {
	var saved catalog.Product
	if err := c.do(ctx, http.MethodPost, "/products", product, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// UpdateProduct replaces the product on the server.
func (c *Client) UpdateProduct(ctx context.Context, product *catalog.Product) (*catalog.Product, error) {
	var saved catalog.Product
	if err := c.do(ctx, http.MethodPut, "/products/"+url.PathEscape(product.ID), product, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// DeleteProduct removes the product on the server.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), nil, nil)
}

// ListOrders fetches all remote orders.
func (c *Client) ListOrders(ctx context.Context) ([]orders.Order, error) {
	var list []orders.Order
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetOrder fetches a single order by id.
func (c *Client) GetOrder(ctx context.Context, id string) (*orders.Order, error) {
	var order orders.Order
	if err := c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CreateOrder posts the order and adopts the server's record, which may
// normalize the id.
func (c *Client) CreateOrder(ctx context.Context, order *orders.Order) (*orders.Order, error) {
	var saved orders.Order
	if err := c.do(ctx, http.MethodPost, "/orders", order, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// statusEnvelope mirrors the remote status/rating update response.
type statusEnvelope struct {
	Message string       `json:"message"`
	Order   orders.Order `json:"order"`
}

// UpdateOrderStatus applies a status transition on the server.
func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status orders.Status) (*orders.Order, error) {
	path := "/orders/" + url.PathEscape(id) + "?status=" + url.QueryEscape(string(status))
	var envelope statusEnvelope
	if err := c.do(ctx, http.MethodPut, path, nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Order, nil
}

// RateOrder records the customer satisfaction rating on the server.
func (c *Client) RateOrder(ctx context.Context, id string, rating int) (*orders.Order, error) {
	path := "/orders/" + url.PathEscape(id) + "/rating?rating=" + strconv.Itoa(rating)
	var envelope statusEnvelope
	if err := c.do(ctx, http.MethodPut, path, nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Order, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("%s %s", method, path))
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return pkgerrors.New(pkgerrors.CodeNotFound, "remote resource not found")
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("remote API returned %d for %s %s", resp.StatusCode, method, path))
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode remote response")
	}
	return nil
}
