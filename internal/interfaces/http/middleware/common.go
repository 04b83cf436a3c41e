package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hpfin/backend/internal/infrastructure/config"
)

const (
	// RequestIDHeader carries the request ID in both directions
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey is the gin context key for the request ID
	RequestIDKey = "request_id"
	// MaxRequestIDLength bounds client supplied request IDs
	MaxRequestIDLength = 64
)

// CORS builds the CORS middleware from the HTTP config. With no configured
// origins every origin is allowed outside production and none in production.
func CORS(cfg config.HTTPConfig, production bool) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	switch {
	case len(cfg.CORSAllowOrigins) > 0:
		corsConfig.AllowOrigins = cfg.CORSAllowOrigins
		corsConfig.AllowCredentials = true
	case production:
		corsConfig.AllowOriginFunc = func(string) bool { return false }
	default:
		corsConfig.AllowAllOrigins = true
	}
	if len(cfg.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.CORSAllowMethods
	}
	corsConfig.AddAllowHeaders("Authorization", RequestIDHeader, CompanyIDHeader)
	if len(cfg.CORSAllowHeaders) > 0 {
		corsConfig.AddAllowHeaders(cfg.CORSAllowHeaders...)
	}
	corsConfig.AddExposeHeaders(RequestIDHeader, "Content-Disposition")
	corsConfig.MaxAge = 12 * time.Hour
	return cors.New(corsConfig)
}

// RequestID adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if len(requestID) > MaxRequestIDLength {
			requestID = requestID[:MaxRequestIDLength]
		}
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)
		c.Next()
	}
}

// GetRequestID returns the request ID set by RequestID, falling back to the header.
func GetRequestID(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	id := c.GetHeader(RequestIDHeader)
	if len(id) > MaxRequestIDLength {
		return id[:MaxRequestIDLength]
	}
	return id
}

// Secure adds security headers to responses. HSTS is only sent in production.
func Secure(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		if production {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}
