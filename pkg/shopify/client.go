package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lmorandi/catalog-admin-backend/pkg/config"
	"github.com/lmorandi/catalog-admin-backend/pkg/errors"
	"github.com/lmorandi/catalog-admin-backend/pkg/logger"
)

const callLimitHeader = "X-Shopify-Shop-Api-Call-Limit"

// Client talks to the Shopify Admin REST API for a single shop.
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	log         *logger.Logger

	mu        sync.Mutex
	lastUsed  int
	lastLimit int
}

func NewClient(cfg config.ShopifyConfig, log *logger.Logger) *Client {
	return &Client{
		baseURL:     fmt.Sprintf("https://%s/admin/api/%s", cfg.ShopDomain, cfg.APIVersion),
		accessToken: cfg.AccessToken,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		log:         log,
	}
}

// TestConnection fetches shop.json to verify the domain and token are usable.
func (c *Client) TestConnection(ctx context.Context) (*Shop, error) {
	var out shopResponse
	if err := c.do(ctx, http.MethodGet, "/shop.json", nil, &out); err != nil {
		return nil, err
	}
	return &out.Shop, nil
}

// CreateProduct pushes a new product and returns Shopify's view of it,
// including the assigned product and variant ids.
func (c *Client) CreateProduct(ctx context.Context, product Product) (*Product, error) {
	var out ProductResponse
	if err := c.do(ctx, http.MethodPost, "/products.json", productRequest{Product: product}, &out); err != nil {
		return nil, err
	}
	return &out.Product, nil
}

// UpdateProduct replaces an existing product's exported fields.
func (c *Client) UpdateProduct(ctx context.Context, shopifyID int64, product Product) (*Product, error) {
	product.ID = shopifyID
	var out ProductResponse
	path := fmt.Sprintf("/products/%d.json", shopifyID)
	if err := c.do(ctx, http.MethodPut, path, productRequest{Product: product}, &out); err != nil {
		return nil, err
	}
	return &out.Product, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(errors.CodeInternal, err, "shopify: encode request body")
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(errors.CodeInternal, err, "shopify: build request")
	}
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(errors.CodeDependency, err, "shopify: request failed")
	}
	defer resp.Body.Close()

	used, limit := parseCallLimit(resp.Header.Get(callLimitHeader))
	if limit > 0 {
		c.mu.Lock()
		c.lastUsed, c.lastLimit = used, limit
		c.mu.Unlock()
	}
	logCtx := c.log.WithFields(ctx, map[string]any{
		"method":      method,
		"path":        path,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
		"rate_used":   used,
		"rate_limit":  limit,
	})
	c.log.Info(logCtx, "shopify api call")

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(errors.CodeDependency, err, "shopify: read response body")
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter := resp.Header.Get("Retry-After")
		return errors.New(errors.CodeDependency,
			fmt.Sprintf("shopify: rate limited, retry after %ss", retryAfter))
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return errors.New(errors.CodeDependency, "shopify: access token rejected")
	case resp.StatusCode == http.StatusNotFound:
		return errors.New(errors.CodeNotFound, "shopify: resource not found")
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return errors.New(errors.CodeValidation,
			fmt.Sprintf("shopify: rejected payload: %s", apiErrorMessage(raw)))
	case resp.StatusCode >= 400:
		return errors.New(errors.CodeDependency,
			fmt.Sprintf("shopify: unexpected status %d: %s", resp.StatusCode, apiErrorMessage(raw)))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "shopify: decode response body")
	}
	return nil
}

// parseCallLimit splits the "32/40" bucket header. Returns zeros when the
// header is absent or malformed.
func parseCallLimit(header string) (used, limit int) {
	parts := strings.SplitN(header, "/", 2)
	if len(parts) != 2 {
		return 0, 0
	}
	used, _ = strconv.Atoi(strings.TrimSpace(parts[0]))
	limit, _ = strconv.Atoi(strings.TrimSpace(parts[1]))
	return used, limit
}

func apiErrorMessage(raw []byte) string {
	var payload struct {
		Errors any `json:"errors"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Errors == nil {
		return strings.TrimSpace(string(raw))
	}
	return fmt.Sprintf("%v", payload.Errors)
}

// RateLimitStatus reports the shop's API call bucket as of the last request.
type RateLimitStatus struct {
	Used  int `json:"used"`
	Limit int `json:"limit"`
}

// RateLimit issues a lightweight shop lookup to refresh the call-limit header
// and returns the bucket usage reported by Shopify.
func (c *Client) RateLimit(ctx context.Context) (*RateLimitStatus, error) {
	if _, err := c.TestConnection(ctx); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return &RateLimitStatus{Used: c.lastUsed, Limit: c.lastLimit}, nil
}
