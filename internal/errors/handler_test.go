package errors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krykon00/krk-budget-app/internal/dataprocessing"
	"github.com/krykon00/krk-budget-app/internal/files"
	"github.com/krykon00/krk-budget-app/internal/infrastructure"
)

func newTestHandler(includeStack bool) (*ErrorHandler, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewErrorHandler(logger, includeStack), &buf
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

var errViewMissing = fmt.Errorf("view not registered")

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, TypeTimeout},
		{"api error", ErrInvalidParameter, http.StatusBadRequest, TypeValidation},
		{"invalid parameter", InvalidParameter("topN", "abc", "not an integer"), http.StatusBadRequest, TypeValidation},
		{"wrapped missing file", fmt.Errorf("load: %w", dataprocessing.ErrFileNotFound), http.StatusNotFound, TypeDataNotFound},
		{"missing dir", files.ErrDirNotFound, http.StatusNotFound, TypeDataNotFound},
		{"duplicate column", dataprocessing.ErrDuplicateColumn, http.StatusUnprocessableEntity, TypeDataCorrupted},
		{"registered sentinel", fmt.Errorf("%w: budzet", errViewMissing), http.StatusNotFound, TypeViewNotFound},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, TypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler(false)
			h.Register(errViewMissing, http.StatusNotFound, TypeViewNotFound, "View Not Found")

			req := httptest.NewRequest(http.MethodGet, "/api/views/x", nil)
			req = req.WithContext(infrastructure.WithTraceID(req.Context(), "trace-123"))
			rec := httptest.NewRecorder()

			h.HandleError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeProblem(t, rec)
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, float64(tt.wantStatus), body["status"])
			assert.Equal(t, "/api/views/x", body["instance"])
			assert.Equal(t, "trace-123", body["trace_id"])
			assert.NotContains(t, body, "stack")
		})
	}
}

func TestErrorHandler_HandleNil(t *testing.T) {
	h, buf := newTestHandler(false)
	rec := httptest.NewRecorder()
	h.HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Zero(t, rec.Body.Len())
	assert.Zero(t, buf.Len())
}

func TestErrorHandler_ValidationErrors(t *testing.T) {
	type query struct {
		TopN int `validate:"gte=0"`
	}
	err := validator.New().Struct(query{TopN: -1})
	require.Error(t, err)

	h, _ := newTestHandler(false)
	rec := httptest.NewRecorder()
	h.HandleError(rec, httptest.NewRequest(http.MethodGet, "/api/views/districts", nil), err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeProblem(t, rec)
	assert.Equal(t, TypeValidation, body["type"])

	details, ok := body["errors"].([]interface{})
	require.True(t, ok)
	require.Len(t, details, 1)
	assert.Equal(t, "TopN", details[0].(map[string]interface{})["field"])
}

func TestErrorHandler_StackOnlyForServerErrors(t *testing.T) {
	h, _ := newTestHandler(true)

	rec := httptest.NewRecorder()
	h.HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), fmt.Errorf("boom"))
	assert.Contains(t, decodeProblem(t, rec), "stack")

	rec = httptest.NewRecorder()
	h.HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), ErrNotFound)
	assert.NotContains(t, decodeProblem(t, rec), "stack")
}

func TestErrorHandler_Recoverer(t *testing.T) {
	h, buf := newTestHandler(false)
	panicky := h.Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("nil workbook")
	}))

	rec := httptest.NewRecorder()
	panicky.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/views/overview", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, TypeInternal, decodeProblem(t, rec)["type"])
	assert.Contains(t, buf.String(), "panic recovered")
}

func TestErrorHandler_NotFoundAndMethod(t *testing.T) {
	h, _ := newTestHandler(false)

	rec := httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.MethodNotAllowed(rec, httptest.NewRequest(http.MethodDelete, "/api/views", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, decodeProblem(t, rec)["detail"], "DELETE")
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	pd := NewProblemDetails(http.StatusNotFound, TypeNotFound, "Not Found", "", "/x").
		WithExtension("trace_id", "abc").
		WithExtension("status", 999)

	data, err := json.Marshal(pd)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, float64(404), body["status"], "extensions never shadow standard members")
	assert.Equal(t, "abc", body["trace_id"])
	assert.NotContains(t, body, "detail")
}

func TestAPIError(t *testing.T) {
	err := NotFoundError("view budzet")
	assert.Equal(t, "view budzet not found", err.Error())
	assert.Equal(t, http.StatusNotFound, err.StatusCode)

	multi := NewValidationErrors([]ValidationError{{Field: "sort", Message: "must be asc or desc"}})
	assert.Equal(t, "VALIDATION_FAILED", multi.ErrorCode)
	assert.IsType(t, ValidationErrors{}, multi.Details)

	p := ErrPanic("boom")
	assert.Equal(t, "boom", p.Details.(PanicRecovery).Message)
}
