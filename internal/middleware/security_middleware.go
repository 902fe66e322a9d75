package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sigescol/backend/internal/app/models/dto"
	"github.com/sigescol/backend/internal/pkg/logger"
	"github.com/sigescol/backend/internal/pkg/security"
)

const contentSecurityPolicy = "default-src 'self'; " +
	"script-src 'self' 'unsafe-inline' 'unsafe-eval'; " +
	"style-src 'self' 'unsafe-inline' https://fonts.googleapis.com; " +
	"font-src 'self' https://fonts.gstatic.com; " +
	"img-src 'self' data: https:; " +
	"connect-src 'self';"

// SecurityMiddleware applies response headers, per-client rate limiting and
// blocked-address rejection.
type SecurityMiddleware struct {
	limiter  *security.ClientLimiter
	detector *security.ThreatDetector
}

// NewSecurityMiddleware creates a new SecurityMiddleware
func NewSecurityMiddleware(limiter *security.ClientLimiter, detector *security.ThreatDetector) *SecurityMiddleware {
	return &SecurityMiddleware{
		limiter:  limiter,
		detector: detector,
	}
}

// Headers sets security headers on every response. API responses are marked
// uncacheable.
func (m *SecurityMiddleware) Headers() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "1; mode=block")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", contentSecurityPolicy)

		if c.Request.TLS != nil {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		if strings.Contains(c.Request.URL.Path, "api") {
			h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
			h.Set("Pragma", "no-cache")
			h.Set("Expires", "0")
		}

		c.Next()
	}
}

// ClientGate rejects blocked addresses and enforces the per-client rate
// limit. Repeated limit violations get the address blocked.
func (m *SecurityMiddleware) ClientGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		addr := c.ClientIP()

		if m.detector.IsBlocked(addr) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse("Acceso bloqueado por actividad sospechosa."))
			return
		}

		if !m.limiter.Allow(addr) {
			logger.Warn().Str("addr", addr).Str("path", c.Request.URL.Path).Msg("Rate limit exceeded")
			m.detector.Report(addr, "rate_limit")
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewErrorResponse("Demasiadas solicitudes. Intente más tarde."))
			return
		}

		c.Next()
	}
}
