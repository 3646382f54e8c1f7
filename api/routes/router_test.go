package routes

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmorandi/catalog-admin-backend/pkg/config"
	"github.com/lmorandi/catalog-admin-backend/pkg/logger"
	"github.com/lmorandi/catalog-admin-backend/pkg/metrics"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{}
	cfg.App.Env = "test"
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	return NewRouter(cfg, logg, nil, metrics.NewHTTPMetrics(), Services{})
}

func TestHealthEndpoints(t *testing.T) {
	router := testRouter(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "test", rec.Header().Get("X-Catalog-Env"), path)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUnknownRouteReturns404(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouteTableCoversAPISurface(t *testing.T) {
	router, ok := testRouter(t).(chi.Router)
	require.True(t, ok)

	registered := map[string]bool{}
	err := chi.Walk(router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		registered[fmt.Sprintf("%s %s", method, route)] = true
		return nil
	})
	require.NoError(t, err)

	expected := []string{
		"GET /api/categories/",
		"POST /api/categories/",
		"PUT /api/categories/{id}",
		"POST /api/categories/{id}/fields",
		"PUT /api/categories/{id}/fields/{fieldId}",
		"GET /api/products/",
		"POST /api/products/",
		"GET /api/products/{productId}/variants/",
		"POST /api/products/{productId}/variants/generate",
		"GET /api/products/{productId}/variants/available-combinations",
		"PUT /api/products/{productId}/variants/bulk",
		"DELETE /api/products/{productId}/variants/{variantId}",
		"POST /api/products/{productId}/options/",
		"PUT /api/products/{productId}/images/reorder",
		"POST /api/products/{productId}/attributes/",
		"GET /api/shopify/test",
		"GET /api/shopify/rate-limit",
		"POST /api/shopify/export/{productId}",
		"GET /health/live",
		"GET /health/ready",
		"GET /metrics",
	}
	for _, route := range expected {
		assert.True(t, registered[route], "missing route %s", route)
	}
}
