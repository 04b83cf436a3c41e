package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hpfin/backend/internal/domain/shared"
	"github.com/hpfin/backend/internal/infrastructure/logger"
	"github.com/hpfin/backend/internal/interfaces/http/dto"
	"github.com/hpfin/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBaseHandlerSuccessResponses(t *testing.T) {
	tests := []struct {
		name   string
		method func(*BaseHandler, *gin.Context)
		status int
	}{
		{"Success", func(h *BaseHandler, c *gin.Context) { h.Success(c, gin.H{"k": "v"}) }, http.StatusOK},
		{"Created", func(h *BaseHandler, c *gin.Context) { h.Created(c, gin.H{"id": 1}) }, http.StatusCreated},
		{"Accepted", func(h *BaseHandler, c *gin.Context) { h.Accepted(c, gin.H{"job_id": "x"}) }, http.StatusAccepted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext("/")
			tt.method(&BaseHandler{}, c)

			assert.Equal(t, tt.status, w.Code)
			resp := decodeResponse(t, w)
			assert.True(t, resp.Success)
			assert.NotNil(t, resp.Data)
		})
	}
}

func TestBaseHandlerNoContent(t *testing.T) {
	h := &BaseHandler{}

	router := gin.New()
	router.DELETE("/test", func(c *gin.Context) {
		h.NoContent(c)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/test", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func TestBaseHandlerErrorMethods(t *testing.T) {
	tests := []struct {
		name         string
		method       func(*BaseHandler, *gin.Context)
		expectedCode int
		expectedErr  string
	}{
		{"BadRequest", func(h *BaseHandler, c *gin.Context) { h.BadRequest(c, "bad") }, http.StatusBadRequest, dto.ErrCodeBadRequest},
		{"Unauthorized", func(h *BaseHandler, c *gin.Context) { h.Unauthorized(c, "who") }, http.StatusUnauthorized, dto.ErrCodeUnauthorized},
		{"ServiceUnavailable", func(h *BaseHandler, c *gin.Context) { h.ServiceUnavailable(c, "busy") }, http.StatusServiceUnavailable, dto.ErrCodeUnavailable},
		{"InternalError", func(h *BaseHandler, c *gin.Context) { h.InternalError(c, "boom") }, http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext("/")
			c.Set(middleware.RequestIDKey, "req-123")

			tt.method(&BaseHandler{}, c)

			assert.Equal(t, tt.expectedCode, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.expectedErr, resp.Error.Code)
			assert.Equal(t, "req-123", resp.Error.RequestID)
		})
	}
}

func TestBaseHandlerHandleError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedErr  string
		message      string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound, "Resource not found"},
		{"invalid input", shared.ErrInvalidInput, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid input provided"},
		{"data in use", shared.ErrDataInUse, http.StatusConflict, dto.ErrCodeDataInUse, "Data is in use, cannot delete"},
		{
			"pdr rejection",
			shared.NewDomainError(shared.CodePDRLimitExceeded, "Party debit exceeds the branch PDR limit"),
			http.StatusBadRequest, dto.ErrCodePDRLimitExceeded, "Party debit exceeds the branch PDR limit",
		},
		{
			"wrapped insufficient balance",
			fmt.Errorf("create: %w", shared.NewDomainError(shared.CodeInsufficientBalance, "Not enough cash")),
			http.StatusBadRequest, dto.ErrCodeInsufficientBalance, "Not enough cash",
		},
		{
			"structural validation",
			shared.NewDomainError("INVALID_CUSTOMER", "customer name is required"),
			http.StatusBadRequest, dto.ErrCodeValidation, "customer name is required",
		},
		{"infrastructure", errors.New("connection refused"), http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext("/")

			(&BaseHandler{}).HandleError(c, tt.err)

			assert.Equal(t, tt.expectedCode, w.Code)
			resp := decodeResponse(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.expectedErr, resp.Error.Code)
			assert.Equal(t, tt.message, resp.Error.Message)
		})
	}

	t.Run("nil writes nothing", func(t *testing.T) {
		c, w := newTestContext("/")
		(&BaseHandler{}).HandleError(c, nil)
		assert.Empty(t, w.Body.Bytes())
	})

	t.Run("infrastructure errors are logged with the trace id", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
		spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
		ctx := trace.ContextWithSpanContext(context.Background(),
			trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled}))

		c, w := newTestContext("/")
		c.Request = c.Request.WithContext(logger.WithContext(ctx, zap.New(core)))
		(&BaseHandler{}).HandleError(c, errors.New("connection refused"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		entries := recorded.FilterMessage("Request failed").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", entries[0].ContextMap()["trace_id"])
	})
}

func TestBaseHandlerCompanyID(t *testing.T) {
	h := &BaseHandler{}

	c, w := newTestContext("/")
	_, ok := h.companyID(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	c, _ = newTestContext("/")
	c.Set(middleware.CompanyIDKey, int64(4))
	id, ok := h.companyID(c)
	assert.True(t, ok)
	assert.Equal(t, int64(4), id)
}

func TestBaseHandlerInt64Param(t *testing.T) {
	h := &BaseHandler{}

	for _, raw := range []string{"abc", "0", "-3"} {
		c, w := newTestContext("/")
		c.Params = gin.Params{{Key: "id", Value: raw}}
		_, ok := h.int64Param(c, "id")
		assert.False(t, ok, raw)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}

	c, _ := newTestContext("/")
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	id, ok := h.int64Param(c, "id")
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
}

func TestBaseHandlerDateQuery(t *testing.T) {
	h := &BaseHandler{}
	def := time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)

	c, _ := newTestContext("/")
	d, ok := h.dateQuery(c, "date", def)
	assert.True(t, ok)
	assert.Equal(t, def, d)

	c, _ = newTestContext("/?date=2024-02-29")
	d, ok = h.dateQuery(c, "date", def)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d)

	c, w := newTestContext("/?date=16-01-2024")
	_, ok = h.dateQuery(c, "date", def)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
