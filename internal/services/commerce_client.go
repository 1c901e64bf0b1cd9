// internal/services/commerce_client.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/config"
)

var (
	ErrCartNotFound        = errors.New("cart not found")
	ErrCommerceUnavailable = errors.New("commerce backend unavailable")
)

// CartLine is one merchandise line sent to the hosted commerce backend.
type CartLine struct {
	VariantID  string            `json:"merchandise_id"`
	Quantity   int               `json:"quantity"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

type CartLineView struct {
	ID         string            `json:"id"`
	VariantID  string            `json:"merchandise_id"`
	Title      string            `json:"title,omitempty"`
	Quantity   int               `json:"quantity"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

type Cart struct {
	ID            string         `json:"id"`
	CheckoutURL   string         `json:"checkout_url"`
	TotalQuantity int            `json:"total_quantity"`
	Subtotal      string         `json:"subtotal,omitempty"`
	Currency      string         `json:"currency,omitempty"`
	Lines         []CartLineView `json:"lines"`
}

// CommerceClient is the cart surface of the hosted commerce backend.
type CommerceClient interface {
	CreateCart(ctx context.Context) (*Cart, error)
	GetCart(ctx context.Context, cartID string) (*Cart, error)
	AddLines(ctx context.Context, cartID string, lines []CartLine) (*Cart, error)
}

type HTTPCommerceClient struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

func NewHTTPCommerceClient(cfg config.CommerceConfig) *HTTPCommerceClient {
	return &HTTPCommerceClient{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		accessToken: cfg.AccessToken,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *HTTPCommerceClient) CreateCart(ctx context.Context) (*Cart, error) {
	return c.do(ctx, http.MethodPost, "/carts", struct{}{})
}

func (c *HTTPCommerceClient) GetCart(ctx context.Context, cartID string) (*Cart, error) {
	return c.do(ctx, http.MethodGet, "/carts/"+url.PathEscape(cartID), nil)
}

func (c *HTTPCommerceClient) AddLines(ctx context.Context, cartID string, lines []CartLine) (*Cart, error) {
	body := struct {
		Lines []CartLine `json:"lines"`
	}{Lines: lines}
	return c.do(ctx, http.MethodPost, "/carts/"+url.PathEscape(cartID)+"/lines", body)
}

func (c *HTTPCommerceClient) do(ctx context.Context, method, path string, payload interface{}) (*Cart, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode commerce request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build commerce request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.accessToken != "" {
		req.Header.Set("X-Storefront-Access-Token", c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCommerceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrCartNotFound
	case resp.StatusCode >= 300:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		logrus.WithFields(logrus.Fields{
			"method": method,
			"path":   path,
			"status": resp.StatusCode,
			"body":   string(snippet),
		}).Warn("Commerce backend rejected request")
		return nil, fmt.Errorf("%w: status %d", ErrCommerceUnavailable, resp.StatusCode)
	}

	var cart Cart
	if err := json.NewDecoder(resp.Body).Decode(&cart); err != nil {
		return nil, fmt.Errorf("%w: invalid response: %v", ErrCommerceUnavailable, err)
	}
	if cart.Lines == nil {
		cart.Lines = []CartLineView{}
	}

	return &cart, nil
}
