// Package commerce предоставляет клиент для безголового коммерс-бэкенда.
package commerce

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/mmeshcher/hempmart-system/internal/model"
)

// ErrNotFound возвращается, когда бэкенд не знает о запрошенной сущности.
var ErrNotFound = errors.New("commerce resource not found")

// Client инкапсулирует HTTP-взаимодействие с коммерс-бэкендом.
type Client struct {
	baseURL    string
	httpClient *retryablehttp.Client
}

// NewClient создаёт клиент коммерс-бэкенда с повторами сетевых запросов.
func NewClient(baseURL string) *Client {
	c := retryablehttp.NewClient()
	c.RetryMax = 3
	c.RetryWaitMin = 200 * time.Millisecond
	c.RetryWaitMax = 2 * time.Second
	c.HTTPClient.Timeout = 5 * time.Second
	c.Logger = nil

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: c,
	}
}

func (c *Client) url(path string) string {
	base := c.baseURL
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return base + path
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c == nil || c.baseURL == "" {
		return fmt.Errorf("commerce client not configured")
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.url(path), payload)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

type cartEnvelope struct {
	Cart *model.Cart `json:"cart"`
}

// GetCart возвращает корзину по идентификатору.
func (c *Client) GetCart(ctx context.Context, cartID string) (*model.Cart, error) {
	var env cartEnvelope
	if err := c.do(ctx, http.MethodGet, "/store/carts/"+cartID, nil, &env); err != nil {
		return nil, err
	}
	return env.Cart, nil
}

// CreateCart создаёт новую корзину в указанной валюте.
func (c *Client) CreateCart(ctx context.Context, currencyCode string) (*model.Cart, error) {
	body := map[string]string{"currency_code": currencyCode}

	var env cartEnvelope
	if err := c.do(ctx, http.MethodPost, "/store/carts", body, &env); err != nil {
		return nil, err
	}
	return env.Cart, nil
}

// AddLineItem добавляет вариант товара в корзину.
func (c *Client) AddLineItem(ctx context.Context, cartID, variantID string, quantity int) (*model.Cart, error) {
	body := map[string]any{"variant_id": variantID, "quantity": quantity}

	var env cartEnvelope
	if err := c.do(ctx, http.MethodPost, "/store/carts/"+cartID+"/line-items", body, &env); err != nil {
		return nil, err
	}
	return env.Cart, nil
}

// UpdateLineItem меняет количество позиции корзины.
func (c *Client) UpdateLineItem(ctx context.Context, cartID, itemID string, quantity int) (*model.Cart, error) {
	body := map[string]any{"quantity": quantity}

	var env cartEnvelope
	if err := c.do(ctx, http.MethodPost, "/store/carts/"+cartID+"/line-items/"+itemID, body, &env); err != nil {
		return nil, err
	}
	return env.Cart, nil
}

// DeleteLineItem удаляет позицию из корзины.
func (c *Client) DeleteLineItem(ctx context.Context, cartID, itemID string) (*model.Cart, error) {
	var env cartEnvelope
	if err := c.do(ctx, http.MethodDelete, "/store/carts/"+cartID+"/line-items/"+itemID, nil, &env); err != nil {
		return nil, err
	}
	return env.Cart, nil
}

// ApplyPromotion применяет промокод к корзине.
func (c *Client) ApplyPromotion(ctx context.Context, cartID, code string) (*model.Cart, error) {
	body := map[string]string{"code": code}

	var env cartEnvelope
	if err := c.do(ctx, http.MethodPost, "/store/carts/"+cartID+"/promotions", body, &env); err != nil {
		return nil, err
	}
	return env.Cart, nil
}

// RemovePromotion снимает промокод с корзины.
func (c *Client) RemovePromotion(ctx context.Context, cartID, code string) (*model.Cart, error) {
	var env cartEnvelope
	if err := c.do(ctx, http.MethodDelete, "/store/carts/"+cartID+"/promotions/"+code, nil, &env); err != nil {
		return nil, err
	}
	return env.Cart, nil
}

// SetAddress сохраняет email и адрес доставки покупателя в корзине.
func (c *Client) SetAddress(ctx context.Context, cartID, email string, addr model.Address) (*model.Cart, error) {
	body := map[string]any{"email": email, "shipping_address": addr}

	var env cartEnvelope
	if err := c.do(ctx, http.MethodPost, "/store/carts/"+cartID, body, &env); err != nil {
		return nil, err
	}
	return env.Cart, nil
}

// AddShippingMethod назначает корзине способ доставки.
func (c *Client) AddShippingMethod(ctx context.Context, cartID, optionID string) (*model.Cart, error) {
	body := map[string]string{"option_id": optionID}

	var env cartEnvelope
	if err := c.do(ctx, http.MethodPost, "/store/carts/"+cartID+"/shipping-methods", body, &env); err != nil {
		return nil, err
	}
	return env.Cart, nil
}

// GetCustomer возвращает профиль покупателя вместе с бонусными баллами.
func (c *Client) GetCustomer(ctx context.Context, customerID string) (*model.Customer, error) {
	var env struct {
		Customer *model.Customer `json:"customer"`
	}
	if err := c.do(ctx, http.MethodGet, "/store/customers/"+customerID, nil, &env); err != nil {
		return nil, err
	}
	return env.Customer, nil
}

// ListProducts возвращает товары каталога.
func (c *Client) ListProducts(ctx context.Context) ([]model.Product, error) {
	var env struct {
		Products []model.Product `json:"products"`
	}
	if err := c.do(ctx, http.MethodGet, "/store/products", nil, &env); err != nil {
		return nil, err
	}
	return env.Products, nil
}
