package responses

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/lmorandi/catalog-admin-backend/pkg/errors"
	"github.com/lmorandi/catalog-admin-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
}

func TestWriteSuccessMergesFields(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, Fields{"data": []int{1, 2}, "count": 2})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, float64(2), payload["count"])
	assert.Len(t, payload["data"], 2)
}

func TestWriteErrorStatusByCode(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "validation keeps the message",
			err:        pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative"),
			wantStatus: http.StatusBadRequest,
			wantError:  "price cannot be negative",
		},
		{
			name:       "conflict maps to 400",
			err:        pkgerrors.New(pkgerrors.CodeConflict, "combination already exists"),
			wantStatus: http.StatusBadRequest,
			wantError:  "combination already exists",
		},
		{
			name:       "not found",
			err:        pkgerrors.New(pkgerrors.CodeNotFound, "product not found"),
			wantStatus: http.StatusNotFound,
			wantError:  "product not found",
		},
		{
			name:       "internal hides the message",
			err:        pkgerrors.New(pkgerrors.CodeInternal, "db exploded"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "internal server error",
		},
		{
			name:       "untyped error maps to internal",
			err:        io.ErrUnexpectedEOF,
			wantStatus: http.StatusInternalServerError,
			wantError:  "internal server error",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(context.Background(), testLogger(), rec, tc.err)

			assert.Equal(t, tc.wantStatus, rec.Code)

			var payload map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
			assert.Equal(t, false, payload["success"])
			assert.Equal(t, tc.wantError, payload["error"])
		})
	}
}

func TestWriteErrorIncludesDetailsWhenAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
		WithDetails(map[string]string{"title": "is required"})
	WriteError(context.Background(), testLogger(), rec, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	details, ok := payload["details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "is required", details["title"])
}
