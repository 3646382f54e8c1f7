package shopify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmorandi/catalog-admin-backend/pkg/config"
	apperrors "github.com/lmorandi/catalog-admin-backend/pkg/errors"
	"github.com/lmorandi/catalog-admin-backend/pkg/logger"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(config.ShopifyConfig{
		ShopDomain:  "example.myshopify.com",
		AccessToken: "shpat_test",
		APIVersion:  "2024-04",
		Timeout:     5 * time.Second,
	}, logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard}))
	client.baseURL = srv.URL
	return client
}

func TestTestConnection(t *testing.T) {
	var gotToken, gotPath string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Shopify-Access-Token")
		gotPath = r.URL.Path
		w.Header().Set(callLimitHeader, "1/40")
		json.NewEncoder(w).Encode(shopResponse{Shop: Shop{ID: 99, Name: "Example", Domain: "example.myshopify.com"}})
	})

	shop, err := client.TestConnection(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "shpat_test", gotToken)
	assert.Equal(t, "/shop.json", gotPath)
	assert.Equal(t, int64(99), shop.ID)
	assert.Equal(t, "Example", shop.Name)
}

func TestCreateProduct(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/products.json", r.URL.Path)

		var req productRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "Trail Shirt", req.Product.Title)
		require.Len(t, req.Product.Variants, 2)

		req.Product.ID = 7001
		req.Product.Variants[0].ID = 8001
		req.Product.Variants[1].ID = 8002
		json.NewEncoder(w).Encode(ProductResponse{Product: req.Product})
	})

	created, err := client.CreateProduct(context.Background(), Product{
		Title: "Trail Shirt",
		Variants: []Variant{
			{Price: "19.99", SKU: "TS-S"},
			{Price: "19.99", SKU: "TS-M"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7001), created.ID)
	assert.Equal(t, int64(8001), created.Variants[0].ID)
}

func TestUpdateProductSetsID(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/products/7001.json", r.URL.Path)

		var req productRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, int64(7001), req.Product.ID)
		json.NewEncoder(w).Encode(ProductResponse{Product: req.Product})
	})

	_, err := client.UpdateProduct(context.Background(), 7001, Product{Title: "Trail Shirt v2"})
	require.NoError(t, err)
}

func TestErrorStatuses(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode apperrors.Code
	}{
		{"rate limited", http.StatusTooManyRequests, `{}`, apperrors.CodeDependency},
		{"unauthorized", http.StatusUnauthorized, `{}`, apperrors.CodeDependency},
		{"missing product", http.StatusNotFound, `{}`, apperrors.CodeNotFound},
		{"rejected payload", http.StatusUnprocessableEntity, `{"errors":{"title":["can't be blank"]}}`, apperrors.CodeValidation},
		{"server error", http.StatusInternalServerError, `{}`, apperrors.CodeDependency},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				io.WriteString(w, tc.body)
			})

			_, err := client.TestConnection(context.Background())
			require.Error(t, err)

			appErr := apperrors.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, tc.wantCode, appErr.Code())
		})
	}
}

func TestRateLimit(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(callLimitHeader, "12/40")
		json.NewEncoder(w).Encode(shopResponse{Shop: Shop{ID: 99}})
	})

	status, err := client.RateLimit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, status.Used)
	assert.Equal(t, 40, status.Limit)
}

func TestParseCallLimit(t *testing.T) {
	used, limit := parseCallLimit("32/40")
	assert.Equal(t, 32, used)
	assert.Equal(t, 40, limit)

	used, limit = parseCallLimit("")
	assert.Zero(t, used)
	assert.Zero(t, limit)
}
