package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hpfin/backend/internal/infrastructure/auth"
	"github.com/hpfin/backend/internal/infrastructure/config"
	"github.com/hpfin/backend/internal/infrastructure/logger"
	"github.com/hpfin/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret: "test-secret-key-at-least-32-chars",
		Issuer: "test-issuer",
	})
}

func newAuthRouter(cfg CompanyAuthConfig) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), CompanyAuth(cfg))
	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	router.GET("/test", func(c *gin.Context) {
		companyID, ok := GetCompanyID(c)
		c.JSON(http.StatusOK, gin.H{
			"company_id": companyID,
			"ok":         ok,
			"ctx":        logger.GetCompanyID(c.Request.Context()),
			"has_claims": GetJWTClaims(c) != nil,
		})
	})
	return router
}

type authEcho struct {
	CompanyID int64 `json:"company_id"`
	OK        bool  `json:"ok"`
	Ctx       int64 `json:"ctx"`
	HasClaims bool  `json:"has_claims"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorInfo {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.False(t, resp.Success)
	return *resp.Error
}

func TestCompanyAuth_ValidToken(t *testing.T) {
	jwtService := newTestJWTService()
	token, err := jwtService.Issue(auth.IssueInput{CompanyID: 7, UserID: 3}, time.Hour)
	require.NoError(t, err)

	router := newAuthRouter(CompanyAuthConfig{JWTService: jwtService})
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var echoed authEcho
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &echoed))
	assert.Equal(t, authEcho{CompanyID: 7, OK: true, Ctx: 7, HasClaims: true}, echoed)
}

func TestCompanyAuth_TokenErrors(t *testing.T) {
	jwtService := newTestJWTService()
	expired, err := jwtService.Issue(auth.IssueInput{CompanyID: 7}, -time.Hour)
	require.NoError(t, err)
	noCompany, err := jwtService.Issue(auth.IssueInput{UserID: 3}, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", dto.ErrCodeUnauthorized},
		{"not bearer", "Basic abc", dto.ErrCodeTokenInvalid},
		{"empty bearer", BearerPrefix, dto.ErrCodeTokenInvalid},
		{"garbage", BearerPrefix + "not-a-token", dto.ErrCodeTokenInvalid},
		{"expired", BearerPrefix + expired, dto.ErrCodeTokenExpired},
		{"no company", BearerPrefix + noCompany, dto.ErrCodeTokenInvalid},
	}

	router := newAuthRouter(CompanyAuthConfig{JWTService: jwtService})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set(AuthHeaderKey, tt.header)
			}
			req.Header.Set(RequestIDHeader, "req-1")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			info := decodeError(t, w)
			assert.Equal(t, tt.code, info.Code)
			assert.Equal(t, "req-1", info.RequestID)
		})
	}
}

func TestCompanyAuth_CompanyHeader(t *testing.T) {
	t.Run("accepted when allowed", func(t *testing.T) {
		router := newAuthRouter(CompanyAuthConfig{AllowCompanyHeader: true})
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(CompanyIDHeader, "12")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var echoed authEcho
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &echoed))
		assert.Equal(t, authEcho{CompanyID: 12, OK: true, Ctx: 12}, echoed)
	})

	t.Run("ignored when not allowed", func(t *testing.T) {
		router := newAuthRouter(CompanyAuthConfig{JWTService: newTestJWTService()})
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(CompanyIDHeader, "12")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects non numeric and zero", func(t *testing.T) {
		router := newAuthRouter(CompanyAuthConfig{AllowCompanyHeader: true})
		for _, v := range []string{"abc", "0", "-4"} {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set(CompanyIDHeader, v)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code, v)
		}
	})

	t.Run("token wins over header", func(t *testing.T) {
		jwtService := newTestJWTService()
		token, err := jwtService.Issue(auth.IssueInput{CompanyID: 7}, time.Hour)
		require.NoError(t, err)

		router := newAuthRouter(CompanyAuthConfig{JWTService: jwtService, AllowCompanyHeader: true})
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
		req.Header.Set(CompanyIDHeader, "12")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var echoed authEcho
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &echoed))
		assert.Equal(t, int64(7), echoed.CompanyID)
	})
}

func TestCompanyAuth_SkipPaths(t *testing.T) {
	router := newAuthRouter(CompanyAuthConfig{JWTService: newTestJWTService(), SkipPaths: []string{"/health"}})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetCompanyID_NotSet(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	id, ok := GetCompanyID(c)
	assert.False(t, ok)
	assert.Zero(t, id)
	assert.Nil(t, GetJWTClaims(c))
}
