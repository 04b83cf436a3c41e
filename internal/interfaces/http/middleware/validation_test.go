package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/hpfin/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validationInput struct {
	Name   string          `json:"name" binding:"required,max=10"`
	Amount decimal.Decimal `json:"amount" binding:"decimal_gte0"`
	Date   string          `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Scope  string          `form:"scope" binding:"omitempty,oneof=company branch"`
}

func newValidationRouter() *gin.Engine {
	SetupValidator()

	router := gin.New()
	router.Use(RequestID())
	router.POST("/test", func(c *gin.Context) {
		var in validationInput
		if err := c.ShouldBindJSON(&in); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"amount": in.Amount.String()})
	})
	return router
}

func TestSetupValidator(t *testing.T) {
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	assert.True(t, ok)
	assert.NotNil(t, v)
}

func TestValidation_RejectsInvalidFields(t *testing.T) {
	router := newValidationRouter()

	body := strings.NewReader(`{"name": "", "amount": "-1.50", "date": "2024-13-01"}`)
	req := httptest.NewRequest(http.MethodPost, "/test", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, "req-9")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "Request validation failed", resp.Error.Message)
	assert.Equal(t, "req-9", resp.Error.RequestID)

	messages := map[string]string{}
	for _, d := range resp.Error.Details {
		messages[d.Field] = d.Message
	}
	assert.Equal(t, map[string]string{
		"name":   "This field is required",
		"amount": "Must be a non-negative amount",
		"date":   "Must be a YYYY-MM-DD date",
	}, messages)
}

func TestValidation_AcceptsValidInput(t *testing.T) {
	router := newValidationRouter()

	for _, body := range []string{
		`{"name": "ok", "amount": 2500.5, "date": "2024-01-16"}`,
		`{"name": "ok", "amount": "0"}`,
		`{"name": "ok"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, body)
	}
}

func TestGetValidationMessage(t *testing.T) {
	SetupValidator()
	v := binding.Validator.Engine().(*validator.Validate)

	type input struct {
		Long  string `json:"long" binding:"max=3"`
		Scope string `json:"scope" binding:"oneof=company branch"`
		ID    int64  `json:"id" binding:"gt=0"`
	}

	err := v.Struct(input{Long: "abcd", Scope: "x"})
	require.Error(t, err)

	messages := map[string]string{}
	for _, e := range err.(validator.ValidationErrors) {
		messages[e.Field()] = getValidationMessage(e)
	}
	assert.Equal(t, "Must be at most 3 characters", messages["long"])
	assert.Equal(t, "Must be one of: company branch", messages["scope"])
	assert.Equal(t, "Must be greater than 0", messages["id"])
}

func TestHandleValidationError_NonValidatorError(t *testing.T) {
	router := newValidationRouter()

	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{not json`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), dto.ErrCodeValidation)
}
