package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hpfin/backend/internal/infrastructure/auth"
	"github.com/hpfin/backend/internal/infrastructure/logger"
	"github.com/hpfin/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Auth context keys and headers
const (
	JWTClaimsKey    = "jwt_claims"
	CompanyIDKey    = "company_id"
	AuthHeaderKey   = "Authorization"
	BearerPrefix    = "Bearer "
	CompanyIDHeader = "X-Company-ID"
)

// CompanyAuthConfig holds configuration for the company auth middleware
type CompanyAuthConfig struct {
	JWTService *auth.JWTService
	// AllowCompanyHeader accepts X-Company-ID from callers without a token.
	// Intended for trusted internal callers only.
	AllowCompanyHeader bool
	SkipPaths          []string
	Logger             *zap.Logger
}

// CompanyAuth resolves the caller's company from a Bearer token, or from
// X-Company-ID when AllowCompanyHeader is set, and stores it in both the gin
// context and the request context.
func CompanyAuth(cfg CompanyAuthConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		companyID, err := resolveCompany(c, cfg)
		if err != nil {
			log.Debug("Company authentication failed",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			abortUnauthorized(c, err)
			return
		}

		c.Set(CompanyIDKey, companyID)
		base := logger.FromContext(c.Request.Context())
		ctx, _ := logger.WithCompanyID(c.Request.Context(), base, companyID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

var errMissingCredentials = errors.New("missing credentials")

func resolveCompany(c *gin.Context, cfg CompanyAuthConfig) (int64, error) {
	header := c.GetHeader(AuthHeaderKey)
	if header == "" {
		if !cfg.AllowCompanyHeader {
			return 0, errMissingCredentials
		}
		id, err := strconv.ParseInt(c.GetHeader(CompanyIDHeader), 10, 64)
		if err != nil || id <= 0 {
			return 0, errMissingCredentials
		}
		return id, nil
	}

	if !strings.HasPrefix(header, BearerPrefix) || cfg.JWTService == nil {
		return 0, auth.ErrInvalidToken
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	if token == "" {
		return 0, auth.ErrInvalidToken
	}
	claims, err := cfg.JWTService.Validate(token)
	if err != nil {
		return 0, err
	}
	c.Set(JWTClaimsKey, claims)
	return claims.CompanyID, nil
}

func abortUnauthorized(c *gin.Context, err error) {
	code, message := dto.ErrCodeUnauthorized, "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, message = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		code, message = dto.ErrCodeTokenInvalid, "Token is not yet valid"
	case errors.Is(err, auth.ErrMissingCompanyID):
		code, message = dto.ErrCodeTokenInvalid, "Token has no company"
	case errors.Is(err, auth.ErrInvalidToken):
		code, message = dto.ErrCodeTokenInvalid, "Invalid token"
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}

// GetCompanyID returns the authenticated company
func GetCompanyID(c *gin.Context) (int64, bool) {
	id, ok := c.Get(CompanyIDKey)
	if !ok {
		return 0, false
	}
	companyID, ok := id.(int64)
	return companyID, ok && companyID > 0
}

// GetJWTClaims retrieves JWT claims from gin.Context, nil for header auth
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}
